// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/config"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// parseLevel maps a configured level name to slog. Unknown names mean info.
func parseLevel(level string) slog.Level {
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

// newLogger builds a logger writing to w. The text format is colored only
// when w is a terminal.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	level := parseLevel(cfg.Level)

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		color := false
		if f, ok := w.(*os.File); ok {
			color = isatty.IsTerminal(f.Fd())
		}
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			NoColor:    !color,
		})
	}

	return slog.New(handler).With("service", "alumni-api")
}

// setupLogger installs the configured logger as the slog default.
func setupLogger(cfg config.LogConfig) {
	slog.SetDefault(newLogger(os.Stdout, cfg))
}
