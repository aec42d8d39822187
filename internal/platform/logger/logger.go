package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Production gets info and above; everything
// else includes debug.
func New(production bool) *slog.Logger {
	level := slog.LevelDebug
	if production {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
