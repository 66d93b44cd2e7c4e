// Package tui provides the interactive terminal interface for mailtriage.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"

	"github.com/codebharat/mailtriage/internal/client"
	"github.com/codebharat/mailtriage/internal/triage"
)

// Backend is the slice of the API client the TUI depends on.
type Backend interface {
	ListEmails(ctx context.Context, filter triage.Filter) ([]triage.Email, error)
	TriggerSync(ctx context.Context) (string, error)
	Escalate(ctx context.Context, id int64, role triage.Role) (string, error)
}

// screen represents the current top-level presentation state.
type screen int

const (
	screenRoleSelect screen = iota
	screenLogin
	screenDashboard
	screenAnalytics
)

// toastKind classifies a toast for styling.
type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
)

// Options configuration for the TUI.
type Options struct {
	Version string

	// Timing knobs; zero values fall back to the documented defaults.
	InitialFetchDelay time.Duration // Delay before the first post-login fetch
	SyncRefreshDelay  time.Duration // Delay before the post-sync re-fetch
	ToastDuration     time.Duration // How long a toast stays visible
}

const (
	defaultInitialFetchDelay = 1 * time.Second
	defaultSyncRefreshDelay  = 5 * time.Second
	defaultToastDuration     = 3 * time.Second
)

// spinnerFrames are the Braille dot animation frames for the loading spinner.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is how fast the spinner animates.
const spinnerInterval = 80 * time.Millisecond

// Model is the main TUI model following the Elm architecture.
type Model struct {
	backend Backend
	version string

	initialFetchDelay time.Duration
	syncRefreshDelay  time.Duration
	toastDuration     time.Duration

	// Presentation state
	screen screen

	// Session gate
	session    session
	roleCursor int // Cursor on the role-select screen

	// Credential form (heap-allocated values shared with the form across
	// model copies)
	loginForm     *loginForm
	loginEmail    *string
	loginPassword *string

	// Auth sequence token. Incremented on every login/logout so that
	// delayed fetch timers from a previous session are ignored when they
	// fire after the session changed.
	authSeq uint64

	// Email directory
	emails         []triage.Email
	filter         triage.Filter
	loading        bool
	fetchRequestID uint64 // Drops out-of-order fetch responses

	// Selection (0 = no email selected)
	selectedID int64
	listOffset int

	// In-list search over sender and subject, applied on top of the
	// active filter
	searchInput  textinput.Model
	searchActive bool

	// Detail pane
	detailScroll int

	// Escalation in flight
	escalating bool

	// Toast (at most one visible; a newer toast invalidates the pending
	// clear timer via the sequence token)
	toastMessage string
	toastKind    toastKind
	toastSeq     uint64

	// Loading spinner
	spinnerFrame  int
	spinnerActive bool

	// Terminal dimensions
	width  int
	height int

	quitting bool
}

// New creates a new TUI model talking to the given backend.
func New(backend Backend, opts Options) Model {
	m := Model{
		backend:           backend,
		version:           opts.Version,
		initialFetchDelay: opts.InitialFetchDelay,
		syncRefreshDelay:  opts.SyncRefreshDelay,
		toastDuration:     opts.ToastDuration,
		screen:            screenRoleSelect,
		filter:            triage.FilterAll,
		width:             100,
		height:            30,
	}
	if m.initialFetchDelay <= 0 {
		m.initialFetchDelay = defaultInitialFetchDelay
	}
	if m.syncRefreshDelay <= 0 {
		m.syncRefreshDelay = defaultSyncRefreshDelay
	}
	if m.toastDuration <= 0 {
		m.toastDuration = defaultToastDuration
	}

	ti := textinput.New()
	ti.Placeholder = "search sender or subject"
	ti.Prompt = "/"
	ti.CharLimit = 80
	m.searchInput = ti

	return m
}

// Init implements tea.Model. Nothing is fetched before authentication.
func (m Model) Init() tea.Cmd {
	return nil
}

// emailsLoadedMsg is sent when a directory fetch completes.
type emailsLoadedMsg struct {
	emails    []triage.Email
	err       error
	requestID uint64 // To detect stale responses
}

// syncDoneMsg is sent when the sync trigger request completes.
type syncDoneMsg struct {
	message string
	err     error
}

// escalateDoneMsg is sent when the escalation request completes.
type escalateDoneMsg struct {
	message string
	err     error
}

// initialFetchMsg fires after the post-login settle delay.
type initialFetchMsg struct {
	authSeq uint64
}

// syncRefreshMsg fires after the post-sync ingestion delay.
type syncRefreshMsg struct {
	authSeq uint64
}

// toastClearMsg clears the toast after its display window.
type toastClearMsg struct {
	seq uint64
}

// spinnerTickMsg advances the loading spinner animation.
type spinnerTickMsg struct{}

// fetchEmails returns a command that fetches the directory with the current
// filter. Local intent filters are applied to the response before it is
// delivered; server filters ride along as query parameters inside the client.
func (m Model) fetchEmails() tea.Cmd {
	requestID := m.fetchRequestID
	filter := m.filter
	backend := m.backend
	return func() tea.Msg {
		emails, err := backend.ListEmails(context.Background(), filter)
		if err != nil {
			return emailsLoadedMsg{err: err, requestID: requestID}
		}
		return emailsLoadedMsg{emails: filter.ApplyLocal(emails), requestID: requestID}
	}
}

// triggerSync returns a command that asks the backend to start an inbox sync.
func (m Model) triggerSync() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		message, err := backend.TriggerSync(context.Background())
		return syncDoneMsg{message: message, err: err}
	}
}

// escalateEmail returns a command that performs the escalation action.
func (m Model) escalateEmail(id int64, role triage.Role) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		message, err := backend.Escalate(context.Background(), id, role)
		return escalateDoneMsg{message: message, err: err}
	}
}

// spinnerTick returns a command that fires a spinnerTickMsg after the
// spinner interval.
func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// startSpinner returns a spinnerTick command if the spinner isn't already
// active, and marks it as active.
func (m *Model) startSpinner() tea.Cmd {
	if m.spinnerActive {
		return nil
	}
	m.spinnerActive = true
	m.spinnerFrame = 0
	return spinnerTick()
}

// showToast replaces the visible toast and schedules its expiry. The
// sequence token makes the newest toast's timer the only live one.
func (m *Model) showToast(message string, kind toastKind) tea.Cmd {
	m.toastMessage = message
	m.toastKind = kind
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastClearMsg{seq: seq}
	})
}

// beginFetch marks a new fetch cycle and returns the commands driving it.
func (m *Model) beginFetch() tea.Cmd {
	m.loading = true
	m.fetchRequestID++
	return tea.Batch(m.fetchEmails(), m.startSpinner())
}

// visibleEmails returns the collection narrowed by the in-list search.
func (m Model) visibleEmails() []triage.Email {
	query := strings.ToLower(strings.TrimSpace(m.searchInput.Value()))
	if query == "" {
		return m.emails
	}
	out := make([]triage.Email, 0, len(m.emails))
	for _, e := range m.emails {
		if strings.Contains(strings.ToLower(e.SenderEmail), query) ||
			strings.Contains(strings.ToLower(e.SubjectLine), query) {
			out = append(out, e)
		}
	}
	return out
}

// selectedEmail returns the email backing the detail pane, if any.
func (m Model) selectedEmail() (triage.Email, bool) {
	if m.selectedID == 0 {
		return triage.Email{}, false
	}
	for _, e := range m.visibleEmails() {
		if e.ID == m.selectedID {
			return e, true
		}
	}
	return triage.Email{}, false
}

// selectedIndex returns the position of the selected email among the
// visible rows, or -1 when nothing is selected.
func (m Model) selectedIndex() int {
	if m.selectedID == 0 {
		return -1
	}
	for i, e := range m.visibleEmails() {
		if e.ID == m.selectedID {
			return i
		}
	}
	return -1
}

// reconcileSelection keeps the selection valid against the visible rows:
// a still-present id is kept, otherwise the first result is selected, and an
// empty collection clears the selection. The detail pane never renders an
// email absent from the latest collection.
func (m *Model) reconcileSelection() {
	visible := m.visibleEmails()
	if m.selectedID != 0 {
		for _, e := range visible {
			if e.ID == m.selectedID {
				m.ensureSelectionVisible()
				return
			}
		}
	}
	if len(visible) > 0 {
		m.selectedID = visible[0].ID
	} else {
		m.selectedID = 0
	}
	m.detailScroll = 0
	m.listOffset = 0
}

// ensureSelectionVisible adjusts the list scroll offset so the selected row
// stays within the viewport.
func (m *Model) ensureSelectionVisible() {
	idx := m.selectedIndex()
	if idx < 0 {
		return
	}
	page := m.listPageSize()
	if idx < m.listOffset {
		m.listOffset = idx
	} else if idx >= m.listOffset+page {
		m.listOffset = idx - page + 1
	}
}

// fetchErrorToast maps a directory fetch error to its user-facing toast text.
func fetchErrorToast(err error) string {
	switch {
	case eris.Is(err, client.ErrNotReady):
		return "Backend not ready or offline. Please wait and retry."
	case client.IsConnectionError(err):
		return "Connection failed (is the backend running?)"
	default:
		var se *client.StatusError
		if eris.As(err, &se) {
			return se.Detail
		}
		return fmt.Sprintf("Failed to load emails: %v", err)
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width < 0 {
			m.width = 0
		}
		if m.height < 0 {
			m.height = 0
		}
		m.ensureSelectionVisible()
		m.clampDetailScroll()
		return m, nil

	case emailsLoadedMsg:
		// Drop out-of-order responses so an older fetch can never
		// overwrite a newer one.
		if msg.requestID != m.fetchRequestID {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			// Keep the stale collection; data on screen beats an
			// empty pane while the backend recovers.
			return m, m.showToast(fetchErrorToast(msg.err), toastError)
		}
		m.emails = msg.emails
		m.reconcileSelection()
		return m, nil

	case syncDoneMsg:
		if msg.err != nil {
			m.loading = false
			if client.IsConnectionError(msg.err) {
				return m, m.showToast("Connection Failed (Is the Backend Server running?)", toastError)
			}
			var se *client.StatusError
			if eris.As(msg.err, &se) {
				return m, m.showToast("Sync Failed: "+se.Detail, toastError)
			}
			return m, m.showToast(fmt.Sprintf("Sync Failed: %v", msg.err), toastError)
		}
		// Ingestion continues server-side; keep loading until the
		// scheduled re-fetch completes.
		text := msg.message
		if text == "" {
			text = "Starting GMail Sync. Refreshing..."
		}
		seq := m.authSeq
		refresh := tea.Tick(m.syncRefreshDelay, func(time.Time) tea.Msg {
			return syncRefreshMsg{authSeq: seq}
		})
		return m, tea.Batch(m.showToast(text, toastSuccess), refresh)

	case escalateDoneMsg:
		m.escalating = false
		if msg.err != nil {
			if client.IsConnectionError(msg.err) {
				return m, m.showToast("Connection failed. Is the backend running?", toastError)
			}
			var se *client.StatusError
			if eris.As(msg.err, &se) {
				return m, m.showToast("Action Failed: "+se.Detail, toastError)
			}
			return m, m.showToast(fmt.Sprintf("Action Failed: %v", msg.err), toastError)
		}
		// Exactly one re-fetch to reflect the backend-side change.
		return m, tea.Batch(m.showToast("Success: "+msg.message, toastSuccess), m.beginFetch())

	case initialFetchMsg:
		// The settle timer is void if the session changed before it
		// fired. The authSeq comparison is the decisive guard (logout
		// always bumps the sequence); the authenticated check merely
		// restates it.
		if msg.authSeq != m.authSeq || !m.session.authenticated {
			return m, nil
		}
		return m, m.beginFetch()

	case syncRefreshMsg:
		if msg.authSeq != m.authSeq || !m.session.authenticated {
			return m, nil
		}
		return m, m.beginFetch()

	case toastClearMsg:
		if msg.seq == m.toastSeq {
			m.toastMessage = ""
		}
		return m, nil

	case spinnerTickMsg:
		if m.loading || m.escalating {
			m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
			return m, spinnerTick()
		}
		m.spinnerActive = false
		return m, nil
	}

	// Everything else (blink ticks etc.) belongs to whichever input has
	// focus.
	if m.screen == screenLogin && m.loginForm != nil {
		return m.updateLoginForm(msg)
	}
	if m.searchActive {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// listPageSize returns how many list rows fit in the viewport.
func (m Model) listPageSize() int {
	// header (2) + list header (1) + footer (2)
	size := m.height - 5
	if size < 1 {
		size = 1
	}
	return size
}

// detailPageSize returns how many detail lines fit in the viewport.
func (m Model) detailPageSize() int {
	return m.listPageSize()
}

// clampDetailScroll keeps the detail scroll within the rendered content.
func (m *Model) clampDetailScroll() {
	if m.detailScroll < 0 {
		m.detailScroll = 0
	}
	lines := m.detailLineCount()
	max := lines - m.detailPageSize()
	if max < 0 {
		max = 0
	}
	if m.detailScroll > max {
		m.detailScroll = max
	}
}
