package main

import (
	"log/slog"
	"os"
	"strings"
)

// newLogger returns a structured slog.Logger writing JSON to stderr at the
// given level. Stdout stays clean for shell use.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	return slog.New(h)
}
