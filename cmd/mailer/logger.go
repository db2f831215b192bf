package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// slogAdapter bridges *slog.Logger to the types.Logger interface consumed by
// the internal packages.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger { return &slogAdapter{l: a.l.With(args...)} }

var _ types.Logger = (*slogAdapter)(nil)

// newLogger creates the process-wide structured logger: colorized console
// output for local development, JSON everywhere else.
func newLogger(environment, level string) types.Logger {
	lvl := parseLevel(level)

	var handler slog.Handler
	if environment == "local" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: lvl})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	return &slogAdapter{l: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch level {
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
