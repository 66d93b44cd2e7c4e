package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/codebharat/mailtriage/internal/triage"
)

// Adaptive theme for light and dark terminals
var (
	bgBase   = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}
	bgCursor = lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#282828"}

	// Title bar style - bold with visible background
	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#333333"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}).
			Background(bgBase).
			Padding(0, 1)

	// Spinner style - NOT faint so it's visible
	spinnerStyle = lipgloss.NewStyle().
			Bold(true).
			Background(bgBase)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Background(bgBase)

	separatorStyle = lipgloss.NewStyle().
			Faint(true).
			Background(bgBase)

	// Cursor row: subtle lighter background
	cursorRowStyle = lipgloss.NewStyle().
			Background(bgCursor)

	normalRowStyle = lipgloss.NewStyle().
			Background(bgBase)

	unreadRowStyle = lipgloss.NewStyle().
			Bold(true).
			Background(bgBase)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}).
			Background(bgBase).
			Padding(0, 1)

	loadingStyle = lipgloss.NewStyle().
			Italic(true).
			Background(bgBase)

	sectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Background(bgBase)

	faintStyle = lipgloss.NewStyle().
			Faint(true).
			Background(bgBase)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	cardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				Padding(1, 2).
				Bold(true)

	negativeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#990000", Dark: "#ff6666"}).
			Background(bgBase)

	positiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#006600", Dark: "#66cc66"}).
			Background(bgBase)

	complianceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}).
			Background(lipgloss.AdaptiveColor{Light: "#990000", Dark: "#ff6666"}).
			Padding(0, 1)

	toastSuccessStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#006600", Dark: "#66ff66"}).
				Background(bgBase).
				Padding(0, 1)

	toastErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#990000", Dark: "#ff6666"}).
			Background(bgBase).
			Padding(0, 1)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenRoleSelect:
		return m.renderRoleSelect()
	case screenLogin:
		return m.renderLogin()
	case screenDashboard:
		return m.renderDashboard()
	case screenAnalytics:
		return m.renderAnalytics()
	}
	return ""
}

// buildTitleBar builds the title bar line (line 1 of the header).
func (m Model) buildTitleBar() string {
	titleText := "mailtriage"
	if m.version != "" && m.version != "dev" && m.version != "unknown" {
		titleText = fmt.Sprintf("mailtriage [%s]", m.version)
	}
	if m.session.authenticated {
		titleText += fmt.Sprintf("  %s (%s)", m.session.email, m.session.role.DisplayName())
	}

	var right string
	if m.loading || m.escalating {
		right = spinnerStyle.Render(spinnerFrames[m.spinnerFrame] + " working")
	}

	left := titleBarStyle.Render(titleText)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// buildStatsLine builds the filter and count line (line 2 of the header).
// While a search is open or applied it shows the search box instead.
func (m Model) buildStatsLine() string {
	if m.searchActive || m.searchInput.Value() != "" {
		visible := len(m.visibleEmails())
		return statsStyle.Render(fmt.Sprintf("%s  (%d/%d)", m.searchInput.View(), visible, len(m.emails)))
	}
	parts := []string{fmt.Sprintf("Filter: %s", m.filter.Label())}
	parts = append(parts, fmt.Sprintf("%s emails", formatCount(int64(len(m.emails)))))
	if n := countEscalated(m.emails); n > 0 {
		parts = append(parts, fmt.Sprintf("%d escalated", n))
	}
	return statsStyle.Render(strings.Join(parts, " · "))
}

func countEscalated(emails []triage.Email) int {
	n := 0
	for _, e := range emails {
		if e.Escalated() {
			n++
		}
	}
	return n
}

// renderRoleSelect renders the portal entry screen with one card per role.
func (m Model) renderRoleSelect() string {
	roles := []triage.Role{triage.RoleAgent, triage.RoleTeamMember}
	taglines := map[triage.Role]string{
		triage.RoleAgent:      "Triage the inbox and execute actions",
		triage.RoleTeamMember: "Review and resolve escalated emails",
	}

	cards := make([]string, 0, len(roles))
	for i, role := range roles {
		style := cardStyle
		if i == m.roleCursor {
			style = cardSelectedStyle
		}
		body := fmt.Sprintf("%d. %s\n%s", i+1, role.DisplayName(), taglines[role])
		cards = append(cards, style.Render(body))
	}

	title := titleBarStyle.Render("mailtriage · CodeBharat Support Desk")
	help := footerStyle.Render("↑/↓ choose · enter continue · q quit")
	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		"Who is signing in?",
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cards[0], "  ", cards[1]),
		"",
		help,
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderLogin renders the credential form for the chosen role.
func (m Model) renderLogin() string {
	var formView string
	if m.loginForm != nil {
		formView = m.loginForm.View()
	}
	header := titleBarStyle.Render(fmt.Sprintf("Sign in · %s", m.session.role.DisplayName()))
	hint := faintStyle.Render(fmt.Sprintf("Demo account: %s", m.session.role.DemoEmail()))
	help := footerStyle.Render("enter submit · esc back")

	lines := []string{header, "", formView, "", hint, help}
	if m.toastMessage != "" {
		lines = append(lines, "", m.renderToast())
	}
	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// layoutWidths returns the list and detail pane widths for the current
// terminal size.
func (m Model) layoutWidths() (listWidth, detailWidth int) {
	listWidth = m.width * 2 / 5
	if listWidth < 30 {
		listWidth = 30
	}
	if listWidth > m.width-20 {
		listWidth = m.width - 20
	}
	if listWidth < 10 {
		listWidth = 10
	}
	detailWidth = m.width - listWidth - 1
	if detailWidth < 12 {
		detailWidth = 12
	}
	return listWidth, detailWidth
}

// renderDashboard renders the split inbox view: list pane on the left,
// detail pane for the selected email on the right.
func (m Model) renderDashboard() string {
	listWidth, detailWidth := m.layoutWidths()

	var b strings.Builder
	b.WriteString(m.buildTitleBar())
	b.WriteString("\n")
	b.WriteString(m.buildStatsLine())
	b.WriteString("\n")

	list := m.renderList(listWidth)
	detail := m.renderDetail(detailWidth)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, separatorStyle.Render("│"), detail))
	b.WriteString("\n")
	b.WriteString(m.buildFooter())
	return b.String()
}

// renderList renders the email list pane.
func (m Model) renderList(width int) string {
	page := m.listPageSize()
	var lines []string

	header := fmt.Sprintf(" %-2s %-*s %s", "", width-13, "From / Subject", "When")
	lines = append(lines, tableHeaderStyle.Render(padRight(header, width)))

	visible := m.visibleEmails()
	switch {
	case m.loading && len(visible) == 0:
		lines = append(lines, loadingStyle.Render(padRight(" Loading emails...", width)))
	case len(visible) == 0:
		lines = append(lines, faintStyle.Render(padRight(" No emails match this filter", width)))
	default:
		end := m.listOffset + page
		if end > len(visible) {
			end = len(visible)
		}
		for i := m.listOffset; i < end; i++ {
			lines = append(lines, m.renderListRow(visible[i], width))
		}
	}

	for len(lines) < page+1 {
		lines = append(lines, normalRowStyle.Render(strings.Repeat(" ", width)))
	}
	return strings.Join(lines, "\n")
}

// renderListRow renders one row of the email list.
func (m Model) renderListRow(e triage.Email, width int) string {
	marker := " "
	if e.ID == m.selectedID {
		marker = ">"
	}
	badge := " "
	switch {
	case e.Analysis.HasComplianceAlert():
		badge = "!"
	case e.Escalated():
		badge = "^"
	case !e.IsRead:
		badge = "•"
	}

	when := formatReceived(e.ReceivedAt)
	// marker + badge + spacing + timestamp column
	textWidth := width - 4 - lipgloss.Width(when) - 1
	if textWidth < 4 {
		textWidth = 4
	}
	text := truncateRunes(fmt.Sprintf("%s  %s", e.SenderEmail, e.SubjectLine), textWidth)

	row := fmt.Sprintf("%s%s %s %s", marker, badge, padRight(text, textWidth), when)
	row = padRight(row, width)

	switch {
	case e.ID == m.selectedID:
		return cursorRowStyle.Render(row)
	case !e.IsRead:
		return unreadRowStyle.Render(row)
	default:
		return normalRowStyle.Render(row)
	}
}

// detailLines builds the full (unscrolled) detail pane content for the
// selected email, wrapped to the given width.
func (m Model) detailLines(width int) []string {
	email, ok := m.selectedEmail()
	if !ok {
		if m.loading {
			return []string{loadingStyle.Render(" Loading...")}
		}
		return []string{faintStyle.Render(" Select an email to inspect it")}
	}

	wrap := width - 2
	if wrap < 10 {
		wrap = 10
	}

	var lines []string
	add := func(s string) { lines = append(lines, " "+s) }
	addWrapped := func(s string) {
		for _, l := range wrapText(s, wrap) {
			add(l)
		}
	}

	add(sectionTitleStyle.Render(truncateRunes(email.SubjectLine, wrap)))
	add(faintStyle.Render(truncateRunes(fmt.Sprintf("from %s · %s", email.SenderEmail, formatReceived(email.ReceivedAt)), wrap)))
	if email.Escalated() {
		add(negativeStyle.Render("Escalated to team"))
	}
	add("")

	a := email.Analysis
	if a == nil {
		add(faintStyle.Render("No analysis available yet"))
	} else {
		sentiment := a.SentimentLabel()
		sentStyled := sentiment
		switch sentiment {
		case "angry", "negative":
			sentStyled = negativeStyle.Render(sentiment)
		case "positive":
			sentStyled = positiveStyle.Render(sentiment)
		}
		meta := "Sentiment: " + sentStyled
		if u := a.Urgency(); u != "" {
			meta += "   Urgency: " + u
		}
		if in := a.Intent(); in != "" {
			meta += "   Intent: " + in
		}
		add(meta)
		add("")

		if a.HasComplianceAlert() {
			add(complianceStyle.Render("COMPLIANCE ALERT: " + a.ComplianceReason))
			add("")
		}

		if a.SummaryText != "" {
			add(sectionTitleStyle.Render("Summary"))
			addWrapped(a.SummaryText)
			add("")
		}

		if a.RecommendedAction != "" {
			add(sectionTitleStyle.Render("Recommended: " + a.RecommendedAction))
			if a.ActionReason != "" {
				for _, l := range wrapText(a.ActionReason, wrap) {
					add(faintStyle.Render(l))
				}
			}
			add("")
		}

		if r := a.SuggestedResolution; r != nil {
			add(positiveStyle.Render("Cached resolution (" + r.Intent + ")"))
			addWrapped(r.Resolution)
			add("")
		}

		if extra := a.OtherEntities(); len(extra) > 0 {
			add(sectionTitleStyle.Render("Smart Extraction"))
			keys := make([]string, 0, len(extra))
			for k := range extra {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				addWrapped(fmt.Sprintf("%s: %s", k, extra[k]))
			}
			add("")
		}
	}

	add(sectionTitleStyle.Render("Message"))
	addWrapped(email.BodyContent)
	add("")
	add(faintStyle.Render(fmt.Sprintf("[e] %s", m.session.role.ActionLabel())))
	return lines
}

// detailLineCount reports how many lines the detail pane currently holds,
// used to clamp scrolling.
func (m Model) detailLineCount() int {
	_, detailWidth := m.layoutWidths()
	return len(m.detailLines(detailWidth))
}

// renderDetail renders the scrolled detail pane viewport.
func (m Model) renderDetail(width int) string {
	lines := m.detailLines(width)
	page := m.detailPageSize()

	start := m.detailScroll
	if start > len(lines) {
		start = len(lines)
	}
	end := start + page
	if end > len(lines) {
		end = len(lines)
	}
	visible := lines[start:end]

	out := make([]string, 0, page)
	for _, l := range visible {
		out = append(out, padRight(l, width))
	}
	for len(out) < page {
		out = append(out, strings.Repeat(" ", width))
	}
	return strings.Join(out, "\n")
}

// buildFooter renders the key help line with the toast overlaid when one is
// visible.
func (m Model) buildFooter() string {
	if m.toastMessage != "" {
		return m.renderToast()
	}
	var help string
	switch m.screen {
	case screenDashboard:
		help = "j/k select · / search · f filter · r refresh · s sync · e " + strings.ToLower(m.session.role.ActionLabel()) + " · a analytics · esc sign out"
	case screenAnalytics:
		help = "a dashboard · esc sign out · q quit"
	}
	return footerStyle.Render(truncateRunes(help, m.width-2))
}

// renderToast renders the current toast with kind-specific styling.
func (m Model) renderToast() string {
	text := truncateRunes(m.toastMessage, m.width-4)
	if m.toastKind == toastError {
		return toastErrorStyle.Render("✗ " + text)
	}
	return toastSuccessStyle.Render("✓ " + text)
}
