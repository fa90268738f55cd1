package telemetry

import (
	"io"
	"log/slog"
	"os"
)

// InitSlog replaces the default slog logger with a text logger writing to `out`.
func InitSlog(out io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	})))
}

// OpenLogFile opens (or creates) a log file for appending.
func OpenLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}
