package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/dailyquest/internal/excel"
)

func newExportCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export tasks, moods and achievements to an Excel workbook",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("file is required")
			}
			if days < 1 {
				return errors.New("--days must be positive")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := cmd.Context()

			today := a.game.Today()
			totals, err := a.planner.DailyTotals(ctx, days)
			if err != nil {
				return err
			}
			moods, err := a.planner.Moods(ctx, days)
			if err != nil {
				return err
			}
			tasks, err := a.planner.TasksBetween(ctx, today.AddDays(-(days - 1)), today)
			if err != nil {
				return err
			}
			ov, err := a.game.Overview(ctx)
			if err != nil {
				return err
			}

			err = excel.ExportHistory(args[0], excel.History{
				Totals:       totals,
				Moods:        moods,
				Tasks:        tasks,
				Achievements: ov.Achievements,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks over %d days to %s\n", len(tasks), days, args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 365, "number of days to export, ending today")
	return cmd
}
