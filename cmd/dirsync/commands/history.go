package commands

import (
	"dirsync/lib/timezone"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "The number of runs to show.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [-n <limit>]",
	Short: "Lists recent sync runs, newest first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.Database.Enabled() {
			return fmt.Errorf("database is not configured, no history is kept")
		}

		store, closeDB, err := config.openHistory(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB()

		runs, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"Run", "Started", "Source", "Target", "Added", "Removed", "Failures", "Status"})
		for _, r := range runs {
			status := "success"
			if !r.Success {
				status = "error"
			}
			if r.DryRun {
				status += " (dry run)"
			}
			t.AppendRow(table.Row{
				r.Id,
				r.StartedAt.In(timezone.Location).Format(time.DateTime),
				r.SourceCount,
				r.TargetCount,
				r.Added,
				r.Removed,
				r.Failures,
				status,
			})
		}
		t.Render()
		return nil
	},
}
