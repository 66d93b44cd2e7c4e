package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/codebharat/mailtriage/internal/triage"
)

// session holds the authenticated user state. The zero value is the
// unauthenticated state.
type session struct {
	authenticated bool
	role          triage.Role
	email         string
}

// demoPasswords is the demo credential allow-list. Any email is accepted as
// long as the password matches one of these.
var demoPasswords = []string{"123", "admin123", "agent123"}

func passwordAccepted(password string) bool {
	for _, p := range demoPasswords {
		if password == p {
			return true
		}
	}
	return false
}

// roleForCursor maps a role-select cursor position to its role.
func roleForCursor(i int) triage.Role {
	if i == 1 {
		return triage.RoleTeamMember
	}
	return triage.RoleAgent
}

// loginForm wraps the huh credential form.
type loginForm struct {
	*huh.Form
}

func newLoginForm(email, password *string) *loginForm {
	f := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email Address").
				Placeholder("name@codebharat.com").
				Value(email),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password),
		),
	).WithShowHelp(false).WithWidth(42)
	return &loginForm{Form: f}
}

// startLogin moves from role selection to the credential form, pre-filling
// the demo account for the chosen role.
func (m Model) startLogin(role triage.Role) (tea.Model, tea.Cmd) {
	m.session.role = role
	m.loginEmail = new(string)
	*m.loginEmail = role.DemoEmail()
	m.loginPassword = new(string)
	m.loginForm = newLoginForm(m.loginEmail, m.loginPassword)
	m.screen = screenLogin
	return m, m.loginForm.Init()
}

// cancelLogin returns to role selection without touching the session.
func (m Model) cancelLogin() (tea.Model, tea.Cmd) {
	m.loginForm = nil
	m.loginEmail = nil
	m.loginPassword = nil
	m.screen = screenRoleSelect
	return m, nil
}

// updateLoginForm forwards a message to the credential form and submits when
// the form completes.
func (m Model) updateLoginForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.loginForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.loginForm.Form = f
	}
	if m.loginForm.State == huh.StateCompleted {
		return m.submitCredentials()
	}
	return m, cmd
}

// submitCredentials validates the entered credentials. On success the session
// becomes authenticated, the dashboard is shown, and the first directory
// fetch is scheduled after a short settle delay. On failure the form is
// rebuilt with the password cleared and an error toast is shown.
func (m Model) submitCredentials() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(*m.loginEmail)
	password := *m.loginPassword

	if !passwordAccepted(password) {
		*m.loginPassword = ""
		m.loginForm = newLoginForm(m.loginEmail, m.loginPassword)
		return m, tea.Batch(
			m.loginForm.Init(),
			m.showToast("Invalid email or password", toastError),
		)
	}

	m.session.authenticated = true
	m.session.email = email
	m.loginForm = nil
	m.screen = screenDashboard
	m.authSeq++

	// Give the backend a moment before the first fetch.
	seq := m.authSeq
	fetch := tea.Tick(m.initialFetchDelay, func(time.Time) tea.Msg {
		return initialFetchMsg{authSeq: seq}
	})
	return m, fetch
}

// logout tears the session down and returns to role selection. Bumping the
// auth sequence voids any delayed fetch timers still in flight, and the
// fetch request id is bumped so a late directory response is dropped.
func (m Model) logout() (tea.Model, tea.Cmd) {
	m.session = session{}
	m.authSeq++
	m.fetchRequestID++
	m.loading = false
	m.escalating = false
	m.emails = nil
	m.filter = triage.FilterAll
	m.selectedID = 0
	m.listOffset = 0
	m.detailScroll = 0
	m.toastMessage = ""
	m.toastSeq++
	m.searchActive = false
	m.searchInput.Blur()
	m.searchInput.SetValue("")
	m.screen = screenRoleSelect
	return m, nil
}
