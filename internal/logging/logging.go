// Package logging builds the slog loggers used by the CLI and TUI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel converts a config level string to slog.Level.
// Unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// Stderr is the CLI logger. Everything below debug is dropped unless the
// configured level is debug, so normal command output stays clean.
func Stderr(level string) *slog.Logger {
	if ParseLevel(level) != slog.LevelDebug {
		return slog.New(slog.DiscardHandler)
	}
	return New(os.Stderr, level)
}

// OpenFile returns a logger appending to path (0600) and a close func.
// The TUI owns the terminal, so it logs here instead of stderr.
func OpenFile(path, level string) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("logging.OpenFile: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("logging.OpenFile: %w", err)
	}
	return New(f, level), f.Close, nil
}
