package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/qirim/qirim/internal/config"
	"github.com/qirim/qirim/internal/store"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "List the imported themes and lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, _ config.Config, st *store.Store, _ *slog.Logger) error {
			return printCourse(ctx, cmd.OutOrStdout(), st.Course())
		})
	},
}

func printCourse(ctx context.Context, w io.Writer, repo *store.CourseRepo) error {
	themes, err := repo.Themes(ctx)
	if err != nil {
		return fmt.Errorf("read themes: %w", err)
	}
	if len(themes) == 0 {
		fmt.Fprintln(w, "No lessons yet. Add some with: qirim import <file.xlsx>")
		return nil
	}

	for _, t := range themes {
		lessons, err := repo.LessonsByTheme(ctx, t.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Theme %d: %s\n", t.Number, t.Name)
		for _, l := range lessons {
			fmt.Fprintf(w, "  %d. %s\n", l.Number, l.Name)
		}
	}
	return nil
}
