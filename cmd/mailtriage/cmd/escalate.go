package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/codebharat/mailtriage/internal/triage"
)

var escalateRole string

var escalateCmd = &cobra.Command{
	Use:   "escalate <email-id>",
	Short: "Execute the escalation action on an email",
	Long: `Apply the role-specific escalation action to one email.

As an agent this hands the email to the team; as a team_member it marks
the email resolved and caches the resolution for similar emails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid email id %q", args[0])
		}

		role := triage.Role(escalateRole)
		if !role.Valid() {
			return fmt.Errorf("invalid role %q (want agent or team_member)", escalateRole)
		}

		msg, err := newClient().Escalate(cmd.Context(), id, role)
		if err != nil {
			return fmt.Errorf("escalate email %d: %w", id, err)
		}
		fmt.Println(msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(escalateCmd)
	escalateCmd.Flags().StringVar(&escalateRole, "role", string(triage.RoleAgent), "Acting role (agent or team_member)")
}
