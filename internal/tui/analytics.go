package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Demo analytics figures. The analytics view is a static showcase; it does
// not consult the backend.
var (
	weekdayVolume = []struct {
		day    string
		emails int
	}{
		{"Mon", 12},
		{"Tue", 19},
		{"Wed", 3},
		{"Thu", 25},
		{"Fri", 14},
	}

	sentimentShare = []struct {
		label string
		pct   int
	}{
		{"Positive", 35},
		{"Neutral", 25},
		{"Negative", 40},
	}

	topIssues = []struct {
		label string
		pct   int
	}{
		{"Refund Requests", 45},
		{"Login Issues", 25},
		{"Shipping Delay", 20},
		{"Other", 10},
	}
)

// barChart renders one horizontal bar per entry, scaled so the largest value
// fills barWidth cells.
func barChart(labels []string, values []int, barWidth int) []string {
	max := 1
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	labelWidth := 0
	for _, l := range labels {
		if w := lipgloss.Width(l); w > labelWidth {
			labelWidth = w
		}
	}
	lines := make([]string, 0, len(values))
	for i, v := range values {
		filled := v * barWidth / max
		if filled == 0 && v > 0 {
			filled = 1
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		lines = append(lines, fmt.Sprintf("%s %s %d", padRight(labels[i], labelWidth), bar, v))
	}
	return lines
}

// renderAnalytics renders the static performance dashboard.
func (m Model) renderAnalytics() string {
	var b strings.Builder
	b.WriteString(m.buildTitleBar())
	b.WriteString("\n")
	b.WriteString(statsStyle.Render("Performance Analytics"))
	b.WriteString("\n\n")

	kpis := []string{
		cardStyle.Render("Total Emails Processed\n" + sectionTitleStyle.Render("1,284") + "\n" + positiveStyle.Render("↑ 12% from last week")),
		cardStyle.Render("Avg. Response Time\n" + sectionTitleStyle.Render("1h 42m") + "\n" + positiveStyle.Render("↓ 8% improvement")),
		cardStyle.Render("Compliance Flags\n" + negativeStyle.Render("24") + "\n" + negativeStyle.Render("Requires Review")),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, kpis[0], " ", kpis[1], " ", kpis[2]))
	b.WriteString("\n\n")

	barWidth := m.width/2 - 26
	if barWidth < 10 {
		barWidth = 10
	}

	b.WriteString(sectionTitleStyle.Render(" Top Customer Issues"))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(" 45% of all tickets are related to Refund Requests"))
	b.WriteString("\n")
	labels := make([]string, len(topIssues))
	values := make([]int, len(topIssues))
	for i, e := range topIssues {
		labels[i], values[i] = e.label, e.pct
	}
	for _, line := range barChart(labels, values, barWidth) {
		b.WriteString(" " + line + "\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionTitleStyle.Render(" Sentiment Distribution"))
	b.WriteString("\n")
	labels = labels[:0]
	values = values[:0]
	for _, e := range sentimentShare {
		labels = append(labels, e.label)
		values = append(values, e.pct)
	}
	for _, line := range barChart(labels, values, barWidth) {
		b.WriteString(" " + line + "\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionTitleStyle.Render(" Incoming Email Volume (Last 5 Days)"))
	b.WriteString("\n")
	labels = labels[:0]
	values = values[:0]
	for _, e := range weekdayVolume {
		labels = append(labels, e.day)
		values = append(values, e.emails)
	}
	for _, line := range barChart(labels, values, barWidth) {
		b.WriteString(" " + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.buildFooter())
	return b.String()
}
