package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Trigger a mailbox sync on the backend",
	Long: `Ask the backend to pull and analyze new emails.

The sync runs in the background on the server; re-run 'mailtriage emails'
after a few seconds to see new arrivals.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := newClient().TriggerSync(cmd.Context())
		if err != nil {
			return fmt.Errorf("trigger sync: %w", err)
		}
		fmt.Println(msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
