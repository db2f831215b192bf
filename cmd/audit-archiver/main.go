// Package main is the entry point for the audit archiver, a maintenance
// command run on a schedule (cron) to move expired email audit records out of
// the database into compressed archive files.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mohamedazzim/SympoAzzi/internal/archive"
	"github.com/mohamedazzim/SympoAzzi/internal/config"
	"github.com/mohamedazzim/SympoAzzi/internal/db"
	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)

	if cfg.Database.URL.Unmask() == "" {
		return fmt.Errorf("DATABASE_URL is required for the archiver")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	archiver := archive.NewArchiver(db.NewEmailLogRepository(pool), cfg.Archive, nil, logger)

	result, err := archiver.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("archiver run complete",
		"archived", result.Archived,
		"deleted", result.Deleted,
		"file", result.File,
	)
	return nil
}

// slogAdapter bridges *slog.Logger to types.Logger.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger { return &slogAdapter{l: a.l.With(args...)} }

func newLogger(level string) types.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return &slogAdapter{l: slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))}
}
