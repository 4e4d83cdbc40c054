package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qirim/qirim/internal/app"
	"github.com/qirim/qirim/internal/auth"
	"github.com/qirim/qirim/internal/config"
	"github.com/qirim/qirim/internal/course"
	"github.com/qirim/qirim/internal/llm"
	"github.com/qirim/qirim/internal/progress"
	"github.com/qirim/qirim/internal/quiz"
	"github.com/qirim/qirim/internal/screen"
	"github.com/qirim/qirim/internal/store"
	"github.com/qirim/qirim/internal/tutor"
)

// runApp opens the store, builds the services and launches the TUI.
func runApp(cmd *cobra.Command) error {
	return withStore(cmd, func(ctx context.Context, cfg config.Config, st *store.Store, logger *slog.Logger) error {
		opts := app.Options{Services: newServices(cfg, st, logger), Splash: true}

		llmCfg := llm.ConfigFromEnv()
		llmCfg.Recorder = auditRecorder{repo: st.LLMRequests()}
		if llmCfg.Enabled() {
			provider, err := llm.New(ctx, llmCfg, logger)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Tutor not configured:", err)
				fmt.Fprintln(os.Stderr, "Explanations will be unavailable.")
			} else {
				opts.Tutor = tutor.NewService(provider, logger)
			}
		}

		logger.Info("app started", "driver", cfg.DBDriver, "tutor", opts.Tutor != nil)
		return app.Run(opts)
	})
}

// newServices wires the domain services to st.
func newServices(cfg config.Config, st *store.Store, logger *slog.Logger) screen.Services {
	prog := progress.NewService(st.Progress(), logger)
	return screen.Services{
		Auth:            auth.NewService(st.Users(), logger),
		Course:          course.NewService(st.Course(), st.Progress(), logger),
		Quiz:            quiz.NewService(st.Course(), prog, logger),
		Progress:        prog,
		LeaderboardSize: cfg.LeaderboardSize,
		FeedbackDelay:   cfg.FeedbackDelay,
		Log:             logger,
	}
}
