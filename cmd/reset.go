package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/qirim/qirim/internal/config"
	"github.com/qirim/qirim/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset <username>",
	Short: "Clear a learner's lesson progress, score and streak",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this deletes all progress of %q; pass --yes to confirm", args[0])
		}

		return withStore(cmd, func(ctx context.Context, _ config.Config, st *store.Store, logger *slog.Logger) error {
			u, err := lookupUser(ctx, st, args[0])
			if err != nil {
				return err
			}
			if err := st.Progress().Reset(ctx, u.ID); err != nil {
				return err
			}
			logger.Info("progress reset", "user_id", u.ID)
			fmt.Printf("Progress of %s was reset.\n", u.Username)
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
