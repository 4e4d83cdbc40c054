package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/qirim/qirim/internal/config"
	"github.com/qirim/qirim/internal/importer"
	"github.com/qirim/qirim/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx|file.csv>",
	Short: "Import themes, lessons and questions from a workbook or CSV file",
	Long: `Import course content. Each row is one question:

  theme_number, theme_name, lesson_number, lesson_name, question, correct, option_1, option_2, ...

"correct" is the 1-based option number or its letter. Every lesson named in
the file replaces the stored lesson with the same theme and number.

Use --template to write an example workbook instead of importing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if tmpl, _ := cmd.Flags().GetBool("template"); tmpl {
			if err := importer.WriteTemplate(args[0]); err != nil {
				return err
			}
			fmt.Printf("Template written to %s\n", args[0])
			return nil
		}

		icfg := importer.DefaultImportConfig()
		icfg.FilePath = args[0]
		icfg.SheetName, _ = cmd.Flags().GetString("sheet")
		if n, _ := cmd.Flags().GetInt("start-row"); n > 0 {
			icfg.StartRow = n
		}

		return withStore(cmd, func(ctx context.Context, _ config.Config, st *store.Store, logger *slog.Logger) error {
			res, err := importer.New(st, logger).Import(ctx, icfg)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d questions in %d lessons across %d themes.\n",
				res.Questions, res.Lessons, res.Themes)
			if len(res.Errors) > 0 {
				fmt.Printf("\n%d rows skipped:\n", len(res.Errors))
				for _, e := range res.Errors {
					fmt.Println("  " + e.Error())
				}
			}
			return nil
		})
	},
}

func init() {
	importCmd.Flags().Bool("template", false, "Write an example workbook to the given path")
	importCmd.Flags().String("sheet", "", "Sheet to read (default: first sheet)")
	importCmd.Flags().Int("start-row", 0, "First data row, 1-based (default: 2)")
}
