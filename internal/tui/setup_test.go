package tui

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/codebharat/mailtriage/internal/triage"
)

// colorProfileMu serializes tests that mutate the global lipgloss color profile.
var colorProfileMu sync.Mutex

// forceColorProfile sets lipgloss to ANSI color output for tests that assert
// on styled output. It acquires colorProfileMu to prevent data races with
// parallel tests and restores the original profile via t.Cleanup.
func forceColorProfile(t *testing.T) {
	t.Helper()
	colorProfileMu.Lock()
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(orig)
		colorProfileMu.Unlock()
	})
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// escalateCall records one Escalate invocation on the mock backend.
type escalateCall struct {
	id   int64
	role triage.Role
}

// mockBackend implements Backend for TUI tests.
type mockBackend struct {
	mu sync.Mutex

	emails  []triage.Email
	listErr error

	syncMessage string
	syncErr     error

	escalateMessage string
	escalateErr     error

	listCalls     int
	lastFilter    triage.Filter
	escalateCalls []escalateCall
	syncCalls     int
}

func (b *mockBackend) ListEmails(_ context.Context, filter triage.Filter) ([]triage.Email, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listCalls++
	b.lastFilter = filter
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.emails, nil
}

func (b *mockBackend) TriggerSync(_ context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncCalls++
	return b.syncMessage, b.syncErr
}

func (b *mockBackend) Escalate(_ context.Context, id int64, role triage.Role) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.escalateCalls = append(b.escalateCalls, escalateCall{id: id, role: role})
	return b.escalateMessage, b.escalateErr
}

// testEmail builds a minimal analyzed email fixture.
func testEmail(id int64, sender, subject string) triage.Email {
	return triage.Email{
		ID:          id,
		SenderEmail: sender,
		SubjectLine: subject,
		BodyContent: "body of " + subject,
		ReceivedAt:  time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).Add(-time.Duration(id) * time.Hour),
		Analysis: &triage.Analysis{
			Sentiment:         "neutral",
			UrgencyScore:      "low",
			SummaryText:       "summary of " + subject,
			RecommendedAction: "Standard Reply",
			ExtractedEntities: map[string]string{"intent": "general_inquiry"},
		},
	}
}

// TestModelBuilder helps construct Model instances for testing.
type TestModelBuilder struct {
	backend *mockBackend
	emails  []triage.Email
	width   int
	height  int
	screen  screen
	role    triage.Role
	filter  triage.Filter
	authed  bool
}

func NewBuilder() *TestModelBuilder {
	return &TestModelBuilder{
		backend: &mockBackend{},
		width:   100,
		height:  24,
		screen:  screenRoleSelect,
		role:    triage.RoleAgent,
		filter:  triage.FilterAll,
	}
}

// WithEmails sets the collection the model starts with (and the mock
// backend's list response).
func (b *TestModelBuilder) WithEmails(emails ...triage.Email) *TestModelBuilder {
	b.emails = emails
	b.backend.emails = emails
	return b
}

func (b *TestModelBuilder) WithSize(width, height int) *TestModelBuilder {
	b.width = width
	b.height = height
	return b
}

func (b *TestModelBuilder) WithFilter(f triage.Filter) *TestModelBuilder {
	b.filter = f
	return b
}

func (b *TestModelBuilder) WithRole(role triage.Role) *TestModelBuilder {
	b.role = role
	return b
}

// Authenticated puts the model on the dashboard with a live session, as if
// login already happened.
func (b *TestModelBuilder) Authenticated() *TestModelBuilder {
	b.authed = true
	b.screen = screenDashboard
	return b
}

func (b *TestModelBuilder) WithScreen(s screen) *TestModelBuilder {
	b.screen = s
	return b
}

// Backend exposes the mock for call-count assertions.
func (b *TestModelBuilder) Backend() *mockBackend {
	return b.backend
}

func (b *TestModelBuilder) Build() Model {
	m := New(b.backend, Options{Version: "test123"})
	m.width = b.width
	m.height = b.height
	m.screen = b.screen
	m.filter = b.filter
	if b.authed {
		m.session = session{
			authenticated: true,
			role:          b.role,
			email:         b.role.DemoEmail(),
		}
		m.authSeq = 1
	}
	if len(b.emails) > 0 {
		m.emails = b.emails
		m.selectedID = b.emails[0].ID
	}
	return m
}

// update runs one Update cycle and returns the concrete Model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// runCmds executes a command tree, flattening batches, and returns the
// produced messages.
func runCmds(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmds(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// pressKey sends a key rune through Update.
func pressKey(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	return update(t, m, msg)
}
