package commands

import (
	"dirsync/lib/telemetry"
	"dirsync/lib/timezone"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var (
	daemonSchedule string
	daemonRunNow   bool
)

func init() {
	daemonCmd.Flags().StringVar(&daemonSchedule, "schedule", "", "A cron expression, overrides the schedule in the config.")
	daemonCmd.Flags().BoolVar(&daemonRunNow, "run-now", false, "Run a sync immediately before waiting for the schedule.")
	rootCmd.AddCommand(daemonCmd)
}

// cronLogger forwards cron's logs to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon [--schedule <cron expression>]",
	Short: "Runs a sync on a schedule until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		schedule := config.Schedule
		if daemonSchedule != "" {
			schedule = daemonSchedule
		}
		if schedule == "" {
			return fmt.Errorf("no schedule was given in the config or with --schedule")
		}

		service, closeHistory, err := config.newService(ctx)
		if err != nil {
			return err
		}
		defer closeHistory()

		sync := func() {
			rc := config.newRunContext(false, false)
			slog.InfoContext(ctx, "starting scheduled sync", "run", rc.Id)
			report, err := service.Run(ctx, rc)
			if err != nil {
				slog.ErrorContext(ctx, "failed to deliver report", "run", rc.Id, "err", err)
				return
			}
			slog.InfoContext(
				ctx, "scheduled sync finished",
				"run", report.RunId,
				"success", report.Success(),
				"added", len(report.Added),
				"removed", len(report.Removed),
			)
		}

		logger := cronLogger{}
		c := cron.New(
			cron.WithLocation(timezone.Location),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		)
		_, err = c.AddFunc(schedule, sync)
		if err != nil {
			return fmt.Errorf("invalid schedule %q: %w", schedule, err)
		}

		telemetry.InstrumentPerfStats(ctx)

		if daemonRunNow {
			sync()
		}

		c.Start()
		slog.InfoContext(ctx, "daemon started", "schedule", schedule, "timezone", timezone.Location.String())

		<-ctx.Done()
		slog.Info("waiting for running sync to finish")
		<-c.Stop().Done()
		return nil
	},
}
