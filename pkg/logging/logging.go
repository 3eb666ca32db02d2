// Package logging configures structured logging for the bill splitter.
//
// Two handler styles are supported: colored text via tint (the default,
// meant for terminals) and JSON (for log collectors).
//
// Environment variables:
//
//	LOG_LEVEL:  debug, info, warn, error (default: info)
//	LOG_FORMAT: text, json (default: text)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger using LOG_LEVEL and LOG_FORMAT.
func Setup() {
	SetupWith(os.Stderr, levelFromEnv(), formatFromEnv())
}

// SetupWith installs a logger with an explicit output, level, and format
// ("json" or anything else for text). Split out from Setup so tests can
// capture output.
func SetupWith(w io.Writer, level slog.Level, format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	}
	slog.SetDefault(slog.New(handler))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func formatFromEnv() string {
	return strings.ToLower(os.Getenv("LOG_FORMAT"))
}
