package cli

import (
	"io"
	"log/slog"
)

// setupLogging installs the process-wide slog logger. Diagnostics go to w
// (stderr) as text; user-facing output never goes through the logger.
func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
