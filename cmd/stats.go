package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/qirim/qirim/internal/auth"
	"github.com/qirim/qirim/internal/config"
	"github.com/qirim/qirim/internal/progress"
	"github.com/qirim/qirim/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats <username>",
	Short: "Show a learner's progress and streak",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, _ config.Config, st *store.Store, logger *slog.Logger) error {
			u, err := lookupUser(ctx, st, args[0])
			if err != nil {
				return err
			}

			svc := progress.NewService(st.Progress(), logger)
			p, err := svc.Progress(ctx, u.ID)
			if err != nil {
				return fmt.Errorf("read progress: %w", err)
			}
			s, err := svc.Stats(ctx, u.ID)
			if err != nil {
				return fmt.Errorf("read stats: %w", err)
			}

			fmt.Printf("User:      %s\n", u.Username)
			fmt.Printf("Lessons:   %d of %d (%.2f%%)\n", p.CompletedLessons, p.TotalLessons, p.Percentage)
			fmt.Printf("Score:     %d\n", s.TotalScore)
			fmt.Printf("Streak:    %d (longest %d)\n", s.CurrentStreak, s.LongestStreak)
			return nil
		})
	},
}

// lookupUser finds a user by the normalized form of name.
func lookupUser(ctx context.Context, st *store.Store, name string) (*store.User, error) {
	u, err := st.Users().ByUsername(ctx, auth.Normalize(name))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no user named %q", name)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
