// Package log provides structured logging for deepguard.
// It wraps slog so packages share one configured logger without
// threading it through every constructor.
package log

import (
	"log/slog"
	"os"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Init configures the shared logger. An empty level falls back to the
// LOG_LEVEL environment variable, then to info. Logs go to stderr so
// that verdict output on stdout stays parseable; the handler is JSON
// when GO_ENV=production and human-readable text otherwise.
func Init(level string) {
	once.Do(func() {
		if level == "" {
			level = os.Getenv("LOG_LEVEL")
		}
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: lvl}
		if os.Getenv("GO_ENV") == "production" {
			logger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
		} else {
			logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
		}
		slog.SetDefault(logger)
	})
}

// L returns the shared logger, initializing it with defaults when
// Init was never called (tests, library use).
func L() *slog.Logger {
	if logger == nil {
		Init("")
	}
	return logger
}

// With returns a derived logger carrying the given attributes, for
// scoping logs to a session or component.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}
