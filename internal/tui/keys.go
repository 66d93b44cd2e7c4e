package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress routes key input to the handler for the current screen.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.screen {
	case screenRoleSelect:
		return m.handleRoleSelectKeys(msg)
	case screenLogin:
		return m.handleLoginKeys(msg)
	case screenDashboard:
		return m.handleDashboardKeys(msg)
	case screenAnalytics:
		return m.handleAnalyticsKeys(msg)
	}
	return m, nil
}

func (m Model) handleRoleSelectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k", "down", "j", "tab", "left", "right", "h", "l":
		m.roleCursor = 1 - m.roleCursor
		return m, nil
	case "1":
		return m.startLogin(roleForCursor(0))
	case "2":
		return m.startLogin(roleForCursor(1))
	case "enter", " ":
		return m.startLogin(roleForCursor(m.roleCursor))
	}
	return m, nil
}

func (m Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return m.cancelLogin()
	}
	return m.updateLoginForm(msg)
}

func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchActive {
		return m.handleSearchKeys(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		// First esc drops an applied search; leaving the dashboard
		// itself ends the session.
		if m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.reconcileSelection()
			return m, nil
		}
		return m.logout()

	case "/":
		m.searchActive = true
		return m, m.searchInput.Focus()

	case "a", "tab":
		m.screen = screenAnalytics
		return m, nil

	case "up", "k":
		m.moveSelection(-1)
		return m, nil
	case "down", "j":
		m.moveSelection(1)
		return m, nil
	case "pgup":
		m.moveSelection(-m.listPageSize())
		return m, nil
	case "pgdown":
		m.moveSelection(m.listPageSize())
		return m, nil
	case "g", "home":
		m.moveSelection(-len(m.visibleEmails()))
		return m, nil
	case "G", "end":
		m.moveSelection(len(m.visibleEmails()))
		return m, nil

	case "J", "ctrl+d":
		m.detailScroll++
		m.clampDetailScroll()
		return m, nil
	case "K", "ctrl+u":
		m.detailScroll--
		m.clampDetailScroll()
		return m, nil

	case "f":
		m.filter = m.filter.Next()
		m.detailScroll = 0
		return m, m.beginFetch()
	case "F":
		m.filter = m.filter.Prev()
		m.detailScroll = 0
		return m, m.beginFetch()

	case "r":
		return m, m.beginFetch()

	case "s":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.triggerSync(), m.startSpinner())

	case "e", "enter":
		// No-op without a selection or while a previous escalation is
		// still in flight.
		email, ok := m.selectedEmail()
		if !ok || m.escalating {
			return m, nil
		}
		m.escalating = true
		return m, tea.Batch(m.escalateEmail(email.ID, m.session.role), m.startSpinner())
	}
	return m, nil
}

func (m Model) handleAnalyticsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		return m.logout()
	case "a", "tab":
		m.screen = screenDashboard
		return m, nil
	}
	return m, nil
}

// handleSearchKeys routes input to the search box while it has focus.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchActive = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.reconcileSelection()
		return m, nil
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		// Results narrow as the query grows; keep the selection on a
		// visible row.
		m.reconcileSelection()
		return m, cmd
	}
}

// moveSelection moves the list selection by delta rows, clamped to the
// visible rows. With no selection the first email is selected.
func (m *Model) moveSelection(delta int) {
	visible := m.visibleEmails()
	if len(visible) == 0 {
		return
	}
	idx := m.selectedIndex()
	if idx < 0 {
		idx = 0
	} else {
		idx += delta
		if idx < 0 {
			idx = 0
		}
		if idx >= len(visible) {
			idx = len(visible) - 1
		}
	}
	m.selectedID = visible[idx].ID
	m.detailScroll = 0
	m.ensureSelectionVisible()
}
