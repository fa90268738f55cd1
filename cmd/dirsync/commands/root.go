package commands

import (
	"context"
	"dirsync/lib/configutil"
	"dirsync/lib/serviceutil"
	"dirsync/lib/telemetry"
	"dirsync/lib/timezone"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	logFile    string
)

var (
	config Config
	tel    *telemetry.Telemetry
	logOut *os.File
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json5", "The config file to read, <name>.local.json5 overrides it.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also append logs to this file.")
}

var rootCmd = &cobra.Command{
	Use:          "dirsync",
	Short:        "dirsync keeps a vbout list in sync with the members of okta groups.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configutil.LoadEnv(".env", ".env.local")

		var out io.Writer = os.Stderr
		if logFile != "" {
			f, err := telemetry.OpenLogFile(logFile)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			logOut = f
			out = io.MultiWriter(os.Stderr, f)
		}
		telemetry.InitSlog(out, verbose)

		cfg, err := configutil.ReadConfig[Config](configPath)
		if os.IsNotExist(err) {
			return fmt.Errorf("config file %s was not found", configPath)
		}
		if err != nil {
			return fmt.Errorf("read config %s: %w", configPath, err)
		}
		config = cfg

		err = timezone.Load(config.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}

		t, err := telemetry.SetupFromEnv(cmd.Context(), "dirsync")
		if os.IsNotExist(err) {
			slog.Debug("telemetry.json5 not found, traces and metrics are not exported")
			return nil
		}
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
			return nil
		}
		tel = &t
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdown()
	},
}

func shutdown() {
	if tel != nil {
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
		tel = nil
	}
	if logOut != nil {
		logOut.Close()
		logOut = nil
	}
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		shutdown()
		serviceutil.Fatal("command failed", err)
	}
}
