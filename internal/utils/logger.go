package utils

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the engine-wide slog.Logger. Text logs go to stderr so the
// interactive commands keep stdout clean for rendered parse and analysis
// output; JSON logs go to stdout, where the serve mode treats stdout as the
// log stream. Unrecognised levels fall back to info.
func NewLogger(level string, json bool) *slog.Logger {
	handlerLevel := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		handlerLevel = slog.LevelDebug
	case "warn", "warning":
		handlerLevel = slog.LevelWarn
	case "error":
		handlerLevel = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: handlerLevel}
	if json {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
