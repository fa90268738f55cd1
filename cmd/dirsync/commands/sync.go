package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	syncDryRun bool
	syncForce  bool
)

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Compute and report changes without applying them.")
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "Skip the mass-removal checks, an incomplete source still blocks removals.")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [--dry-run] [--force]",
	Short: "Reconciles the vbout list with okta once and sends a report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		service, closeHistory, err := config.newService(ctx)
		if err != nil {
			return err
		}
		defer closeHistory()

		rc := config.newRunContext(syncDryRun, syncForce)
		slog.InfoContext(ctx, "starting sync", "run", rc.Id, "list", rc.ListName, "dry_run", rc.DryRun)

		report, err := service.Run(ctx, rc)
		if err != nil {
			return fmt.Errorf("failed to deliver report: %w", err)
		}
		if !report.Success() {
			return fmt.Errorf("sync %s finished with %d problem(s)", report.RunId, len(report.Diagnostics))
		}
		slog.InfoContext(ctx, "sync finished", "added", len(report.Added), "removed", len(report.Removed))
		return nil
	},
}
