package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/codebharat/mailtriage/internal/triage"
)

var emailsFilter string

var emailsCmd = &cobra.Command{
	Use:   "emails",
	Short: "List the inbox from the command line",
	Long: `List analyzed emails without opening the dashboard.

Filters: all, high, medium, low, negative, refund, tech, billing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := triage.Filter(strings.ToLower(emailsFilter))
		if !filter.Valid() {
			return fmt.Errorf("unknown filter %q", emailsFilter)
		}

		emails, err := newClient().ListEmails(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("list emails: %w", err)
		}
		emails = filter.ApplyLocal(emails)

		if len(emails) == 0 {
			fmt.Println("No emails match this filter.")
			return nil
		}

		styled := isatty.IsTerminal(os.Stdout.Fd())
		printEmails(emails, styled)
		return nil
	},
}

func printEmails(emails []triage.Email, styled bool) {
	bold := lipgloss.NewStyle().Bold(true)
	alert := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#990000", Dark: "#ff6666"})

	render := func(st lipgloss.Style, s string) string {
		if !styled {
			return s
		}
		return st.Render(s)
	}

	for _, e := range emails {
		a := e.Analysis
		line := fmt.Sprintf("%4d  %-32s  %s", e.ID, e.SenderEmail, e.SubjectLine)
		fmt.Println(render(bold, line))

		meta := fmt.Sprintf("      sentiment=%s", a.SentimentLabel())
		if u := a.Urgency(); u != "" {
			meta += "  urgency=" + u
		}
		if in := a.Intent(); in != "" {
			meta += "  intent=" + in
		}
		if e.Escalated() {
			meta += "  escalated"
		}
		fmt.Println(meta)

		if a.HasComplianceAlert() {
			fmt.Println(render(alert, "      COMPLIANCE: "+a.ComplianceReason))
		}
	}
	fmt.Printf("\n%d emails\n", len(emails))
}

func init() {
	rootCmd.AddCommand(emailsCmd)
	emailsCmd.Flags().StringVar(&emailsFilter, "filter", "all", "Inbox filter to apply")
}
