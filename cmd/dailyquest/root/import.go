package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/dailyquest/internal/excel"
)

func newImportCmd() *cobra.Command {
	cfg := excel.DefaultImportConfig()

	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import tasks from an Excel or CSV file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("file is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			cfg.FilePath = args[0]
			res, err := excel.ImportTasks(cmd.Context(), a.db, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d rows: %d created, %d skipped, %d errors\n",
				res.TotalProcessed, res.Created, res.Skipped, len(res.Errors))
			for _, e := range res.Errors {
				fmt.Fprintln(out, "  "+e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.SheetName, "sheet", cfg.SheetName, "sheet to read (default: first sheet)")
	cmd.Flags().IntVar(&cfg.StartRow, "start-row", cfg.StartRow, "first row to import (1-based)")
	cmd.Flags().StringVar(&cfg.DateColumn, "date-col", cfg.DateColumn, "column with the task date")
	cmd.Flags().StringVar(&cfg.TitleColumn, "title-col", cfg.TitleColumn, "column with the task title")
	cmd.Flags().StringVar(&cfg.CompletedColumn, "done-col", cfg.CompletedColumn, "column with the completion flag, empty to ignore")
	return cmd
}
