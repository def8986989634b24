// Package logging builds the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
)

// New returns a JSON logger writing to stderr; stdout stays reserved for
// the machine-readable summaries commands print. Quiet keeps errors only.
func New(quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
