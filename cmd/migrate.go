package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/qirim/qirim/internal/config"
	"github.com/qirim/qirim/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(_ context.Context, cfg config.Config, st *store.Store, logger *slog.Logger) error {
			logger.Info("schema migrated", "driver", cfg.DBDriver)
			fmt.Printf("Schema is up to date (%s).\n", st.Dialect())
			return nil
		})
	},
}
