package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/codebharat/mailtriage/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive triage dashboard",
	Long: `Open the interactive terminal dashboard for triaging the support inbox.

Sign in as an Agent to work the queue, or as an Admin to approve and
resolve escalated emails.

Dashboard keys:
  ↑/k, ↓/j    Move through the inbox
  J/K         Scroll the detail pane
  f / F       Cycle the inbox filter forward / backward
  r           Refresh the inbox
  s           Trigger a mailbox sync
  e / Enter   Execute the recommended action on the selected email
  a / Tab     Toggle the analytics view
  Esc         Sign out
  q           Quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		model := tui.New(newClient(), tui.Options{
			Version:           Version,
			InitialFetchDelay: cfg.InitialFetchDelay(),
			SyncRefreshDelay:  cfg.SyncRefreshDelay(),
			ToastDuration:     cfg.ToastDuration(),
		})
		p := tea.NewProgram(model, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
