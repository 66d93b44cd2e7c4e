// Package cmd wires the mailtriage CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/codebharat/mailtriage/internal/client"
	"github.com/codebharat/mailtriage/internal/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mailtriage",
	Short: "AI-assisted support inbox triage",
	Long: `mailtriage is the terminal client for the CodeBharat support desk.

It talks to the triage backend, which analyzes every incoming email
(sentiment, urgency, intent, compliance) and recommends an action.
Agents triage from the interactive dashboard; team members approve and
resolve escalated emails.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command with a background context.
// Prefer ExecuteContext for signal-aware execution.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with the given context,
// enabling graceful shutdown when the context is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// newClient builds the API client from the loaded config.
func newClient() *client.Client {
	return client.New(cfg.Backend.BaseURL,
		client.WithLogger(logger),
		client.WithTimeout(cfg.RequestTimeout()),
	)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mailtriage version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mailtriage %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default $MAILTRIAGE_HOME/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(versionCmd)
}
