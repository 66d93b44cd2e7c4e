package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/codebharat/mailtriage/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo triage backend",
	Long: `Run a self-contained demo backend on the configured address.

The demo backend serves a seeded in-memory inbox, analyzes every email
with keyword heuristics, and simulates mailbox syncs by generating new
emails. It speaks the same API as the hosted triage service, so the
dashboard works against it unchanged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := server.NewStore()
		seeded := store.Seed()
		logger.Info("seeded demo inbox", "emails", seeded)

		srv := server.NewServer(cfg, store, logger)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-cmd.Context().Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			<-errCh
			return cmd.Context().Err()
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
