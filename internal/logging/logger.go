// Package logging installs the process-wide slog handler.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a text handler on stderr as the default slog logger.
func Setup(debug bool, showSource bool) *slog.Logger {
	return SetupWriter(os.Stderr, debug, showSource)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, debug bool, showSource bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: showSource,
	}

	logger := slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDefault returns l, or the process default logger when l is nil.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
