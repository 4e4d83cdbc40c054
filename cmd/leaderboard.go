package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qirim/qirim/internal/config"
	"github.com/qirim/qirim/internal/progress"
	"github.com/qirim/qirim/internal/store"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		return withStore(cmd, func(ctx context.Context, cfg config.Config, st *store.Store, logger *slog.Logger) error {
			if limit <= 0 {
				limit = cfg.LeaderboardSize
			}
			entries, err := progress.NewService(st.Progress(), logger).Leaderboard(ctx, limit)
			if err != nil {
				return fmt.Errorf("read leaderboard: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println("No scores yet.")
				return nil
			}

			fmt.Printf("%-4s  %-24s  %6s  %7s  %6s\n", "#", "Name", "Score", "Lessons", "Streak")
			fmt.Println(strings.Repeat("─", 55))
			for _, e := range entries {
				fmt.Printf("%-4d  %-24s  %6d  %7d  %6d\n",
					e.Rank, truncate(e.Username, 24), e.TotalScore, e.LessonsCompleted, e.CurrentStreak)
			}
			return nil
		})
	},
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func init() {
	leaderboardCmd.Flags().IntP("limit", "n", 0, "Number of entries to show (default: QIRIM_LEADERBOARD_SIZE)")
}
