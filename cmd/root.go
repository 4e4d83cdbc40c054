package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/qirim/qirim/internal/config"
	"github.com/qirim/qirim/internal/logging"
	"github.com/qirim/qirim/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "qirim",
	Short: "Learn Crimean Tatar in the terminal",
	Long:  "QIrIm: themed lessons and multiple-choice quizzes for learning Crimean Tatar, with streaks and a leaderboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db-driver", "", "Database driver: sqlite or postgres (overrides QIRIM_DB_DRIVER)")
	pf.String("db-url", "", "PostgreSQL connection string (overrides QIRIM_DATABASE_URL)")
	pf.String("db", "", "Path to SQLite database file (overrides QIRIM_DB)")
	pf.String("env-file", ".env", "Optional .env file to load before the environment")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the env file and environment, then applies flags
// (highest priority) and validates the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetString("db-driver"); v != "" {
		cfg.DBDriver = v
	}
	if v, _ := cmd.Flags().GetString("db-url"); v != "" {
		cfg.DatabaseURL = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.SQLitePath = v
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openLogger opens the configured log file.
func openLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve log path: %w", err)
	}
	return logging.Setup(path, cfg.LogLevel)
}

// openStore opens and migrates the configured database.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*store.Store, error) {
	st, err := store.OpenConfig(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

// withStore runs fn with a migrated store and a logger, closing both after.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, cfg config.Config, st *store.Store, logger *slog.Logger) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, cfg, st, logger)
}
