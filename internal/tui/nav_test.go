package tui

import (
	"strings"
	"testing"

	"github.com/codebharat/mailtriage/internal/triage"
)

func TestStaleFetchResponsesIgnored(t *testing.T) {
	m := NewBuilder().Authenticated().Build()
	m.loading = true
	m.fetchRequestID = 2

	stale := []triage.Email{testEmail(9, "stale@x.com", "old results")}
	m, _ = update(t, m, emailsLoadedMsg{emails: stale, requestID: 1})
	if len(m.emails) != 0 {
		t.Fatal("stale response must not replace the collection")
	}
	if !m.loading {
		t.Error("loading should remain true until the live request resolves")
	}

	fresh := []triage.Email{testEmail(10, "fresh@x.com", "new results")}
	m, _ = update(t, m, emailsLoadedMsg{emails: fresh, requestID: 2})
	if len(m.emails) != 1 || m.emails[0].ID != 10 {
		t.Fatal("live response should replace the collection")
	}
	if m.loading {
		t.Error("loading should clear once the live request resolves")
	}
}

func TestFetchErrorKeepsStaleCollection(t *testing.T) {
	emails := []triage.Email{testEmail(1, "a@x.com", "keep me")}
	m := NewBuilder().WithEmails(emails...).Authenticated().Build()
	m.loading = true
	m.fetchRequestID = 1

	m, cmd := update(t, m, emailsLoadedMsg{err: &connErrForTest{}, requestID: 1})
	if len(m.emails) != 1 {
		t.Error("error response must keep the previous collection")
	}
	if m.loading {
		t.Error("loading should clear on error")
	}
	if m.toastMessage == "" || cmd == nil {
		t.Error("expected an error toast with a clear timer")
	}
}

func TestSelectionSurvivesRefreshWhenStillPresent(t *testing.T) {
	emails := []triage.Email{
		testEmail(1, "a@x.com", "first"),
		testEmail(2, "b@x.com", "second"),
	}
	m := NewBuilder().WithEmails(emails...).Authenticated().Build()
	m.selectedID = 2
	m.fetchRequestID = 1

	reordered := []triage.Email{emails[1], emails[0]}
	m, _ = update(t, m, emailsLoadedMsg{emails: reordered, requestID: 1})
	if m.selectedID != 2 {
		t.Errorf("selectedID = %d, want 2", m.selectedID)
	}
}

func TestSelectionFallsBackToFirstWhenGone(t *testing.T) {
	emails := []triage.Email{
		testEmail(1, "a@x.com", "first"),
		testEmail(2, "b@x.com", "second"),
	}
	m := NewBuilder().WithEmails(emails...).Authenticated().Build()
	m.selectedID = 2
	m.fetchRequestID = 1

	m, _ = update(t, m, emailsLoadedMsg{emails: emails[:1], requestID: 1})
	if m.selectedID != 1 {
		t.Errorf("selectedID = %d, want first email", m.selectedID)
	}
}

func TestSelectionClearedOnEmptyCollection(t *testing.T) {
	m := NewBuilder().WithEmails(testEmail(1, "a@x.com", "only")).Authenticated().Build()
	m.fetchRequestID = 1

	m, _ = update(t, m, emailsLoadedMsg{emails: nil, requestID: 1})
	if m.selectedID != 0 {
		t.Errorf("selectedID = %d, want 0", m.selectedID)
	}
}

func TestMoveSelectionClamps(t *testing.T) {
	emails := []triage.Email{
		testEmail(1, "a@x.com", "first"),
		testEmail(2, "b@x.com", "second"),
		testEmail(3, "c@x.com", "third"),
	}
	m := NewBuilder().WithEmails(emails...).Authenticated().Build()

	m, _ = pressKey(t, m, "k")
	if m.selectedID != 1 {
		t.Errorf("moving up from the top should stay at 1, got %d", m.selectedID)
	}

	m, _ = pressKey(t, m, "j")
	m, _ = pressKey(t, m, "j")
	m, _ = pressKey(t, m, "j")
	if m.selectedID != 3 {
		t.Errorf("moving past the end should stop at 3, got %d", m.selectedID)
	}
}

func TestFilterCycleTriggersFetch(t *testing.T) {
	b := NewBuilder()
	m := b.Authenticated().Build()

	m, cmd := pressKey(t, m, "f")
	if m.filter != triage.FilterHigh {
		t.Errorf("filter = %q, want high (next after all)", m.filter)
	}
	if !m.loading || cmd == nil {
		t.Error("filter change should start a fetch")
	}
	if m.fetchRequestID != 1 {
		t.Errorf("fetchRequestID = %d, want 1", m.fetchRequestID)
	}

	m, _ = pressKey(t, m, "F")
	if m.filter != triage.FilterAll {
		t.Errorf("filter = %q, want all after cycling back", m.filter)
	}
}

func TestAnalyticsToggle(t *testing.T) {
	m := NewBuilder().Authenticated().Build()

	m, _ = pressKey(t, m, "a")
	if m.screen != screenAnalytics {
		t.Fatalf("screen = %v, want screenAnalytics", m.screen)
	}
	m, _ = pressKey(t, m, "a")
	if m.screen != screenDashboard {
		t.Fatalf("screen = %v, want screenDashboard", m.screen)
	}
}

func TestDetailScrollClamping(t *testing.T) {
	m := NewBuilder().WithEmails(testEmail(1, "a@x.com", "short")).Authenticated().Build()

	m, _ = pressKey(t, m, "K")
	if m.detailScroll != 0 {
		t.Errorf("detailScroll = %d, want 0 after scrolling above the top", m.detailScroll)
	}

	for i := 0; i < 500; i++ {
		m, _ = pressKey(t, m, "J")
	}
	if max := m.detailLineCount(); m.detailScroll > max {
		t.Errorf("detailScroll = %d beyond content (%d lines)", m.detailScroll, max)
	}
}

func TestDashboardRenderShowsSelection(t *testing.T) {
	forceColorProfile(t)
	emails := []triage.Email{
		testEmail(1, "priya@x.com", "refund please"),
		testEmail(2, "mike@x.com", "login broken"),
	}
	m := NewBuilder().WithEmails(emails...).Authenticated().Build()

	out := stripANSI(m.View())
	if !strings.Contains(out, "priya@x.com") {
		t.Error("list should show the first sender")
	}
	if !strings.Contains(out, "refund please") {
		t.Error("detail should show the selected subject")
	}
	if !strings.Contains(out, "Filter: All") {
		t.Error("stats line should show the active filter")
	}
}

func TestDetailShowsUrgencyWithoutCompliancePanel(t *testing.T) {
	forceColorProfile(t)
	e := testEmail(1, "priya@x.com", "refund overdue")
	e.Analysis.UrgencyScore = "high"
	m := NewBuilder().WithEmails(e).Authenticated().Build()

	out := stripANSI(strings.Join(m.detailLines(60), "\n"))
	if !strings.Contains(out, "Urgency: high") {
		t.Error("detail should show the urgency tag")
	}
	if strings.Contains(out, "COMPLIANCE ALERT") {
		t.Error("no compliance panel without the flag")
	}

	e.Analysis.ComplianceFlag = true
	e.Analysis.ComplianceReason = "Legal Threat"
	m.emails = []triage.Email{e}
	out = stripANSI(strings.Join(m.detailLines(60), "\n"))
	if !strings.Contains(out, "COMPLIANCE ALERT: Legal Threat") {
		t.Error("compliance panel should appear once the flag is set")
	}
}

func TestSearchNarrowsListAndSelection(t *testing.T) {
	emails := []triage.Email{
		testEmail(1, "priya@x.com", "refund please"),
		testEmail(2, "mike@x.com", "login broken"),
	}
	m := NewBuilder().WithEmails(emails...).Authenticated().Build()

	m, _ = pressKey(t, m, "/")
	if !m.searchActive {
		t.Fatal("slash should open the search box")
	}
	for _, r := range "mike" {
		m, _ = pressKey(t, m, string(r))
	}
	if got := m.visibleEmails(); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("search kept %d rows, want only mike's email", len(got))
	}
	if m.selectedID != 2 {
		t.Errorf("selection should move to a visible row, got %d", m.selectedID)
	}

	m, _ = pressKey(t, m, "enter")
	if m.searchActive {
		t.Error("enter should commit the search")
	}

	// First esc clears the applied search, second esc signs out.
	m, _ = pressKey(t, m, "esc")
	if m.searchInput.Value() != "" || !m.session.authenticated {
		t.Fatal("esc with an applied search should only clear it")
	}
	if len(m.visibleEmails()) != 2 {
		t.Error("clearing the search should restore all rows")
	}
	m, _ = pressKey(t, m, "esc")
	if m.session.authenticated {
		t.Error("second esc should sign out")
	}
}

// connErrForTest stands in for a transport failure.
type connErrForTest struct{}

func (*connErrForTest) Error() string { return "dial tcp: connection refused" }
