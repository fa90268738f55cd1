package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	wipeConfirm bool
	wipeDryRun  bool
)

func init() {
	wipeCmd.Flags().BoolVar(&wipeConfirm, "confirm", false, "Required, acknowledges that every contact in the list will be deleted.")
	wipeCmd.Flags().BoolVar(&wipeDryRun, "dry-run", false, "Report the contacts that would be deleted.")
	rootCmd.AddCommand(wipeCmd)
}

var wipeCmd = &cobra.Command{
	Use:   "wipe --confirm",
	Short: "Deletes every contact from the configured vbout list.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wipeConfirm && !wipeDryRun {
			return fmt.Errorf("refusing to wipe list %q without --confirm", config.Vbout.ListName)
		}

		service, closeHistory, err := config.newService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeHistory()

		rc := config.newRunContext(wipeDryRun, true)
		slog.Warn("wiping list", "run", rc.Id, "list", rc.ListName, "dry_run", rc.DryRun)

		report, err := service.Wipe(cmd.Context(), rc)
		if err != nil {
			return fmt.Errorf("failed to deliver report: %w", err)
		}
		if !report.Success() {
			return fmt.Errorf("wipe %s finished with %d problem(s)", report.RunId, len(report.Diagnostics))
		}
		return nil
	},
}
