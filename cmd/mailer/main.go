// Package main is the entry point for the SympoAzzi mailer service.
//
// It loads configuration, resolves the transport mode (live SMTP when
// credentials are present, logged simulation otherwise), wires the delivery
// pipeline with its audit trail and oversight notifier, and serves the HTTP
// API with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohamedazzim/SympoAzzi/internal/api"
	"github.com/mohamedazzim/SympoAzzi/internal/api/handlers"
	"github.com/mohamedazzim/SympoAzzi/internal/config"
	"github.com/mohamedazzim/SympoAzzi/internal/db"
	"github.com/mohamedazzim/SympoAzzi/internal/mailer"
	"github.com/mohamedazzim/SympoAzzi/internal/smtp"
	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.Environment, cfg.LogLevel)
	logger.Info("mailer service starting",
		"environment", cfg.Environment,
		"service", cfg.Service,
		"port", cfg.Server.Port,
		"transport_mode", string(cfg.SMTP.Mode()),
	)

	ctx := context.Background()

	// Database-backed collaborators when a URL is configured; log-only
	// substitutes otherwise so the service stays usable without Postgres.
	var (
		auditStore  types.AuditStore
		directory   types.Directory
		auditReader handlers.AuditReader
	)
	if cfg.Database.URL.Unmask() != "" {
		pool, err := db.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		if err := db.Migrate(pool); err != nil {
			return fmt.Errorf("applying migrations: %w", err)
		}

		emailLogRepo := db.NewEmailLogRepository(pool)
		auditStore = emailLogRepo
		auditReader = emailLogRepo
		directory = db.NewUserRepository(pool)
	} else {
		logger.Warn("no DATABASE_URL configured, audit records go to the log only")
		auditStore = db.NewLogAuditStore(logger)
		directory = db.EmptyDirectory{}
	}

	// Transport mode is resolved once at startup and fixed for the process
	// lifetime.
	var transport smtp.Transport
	if cfg.SMTP.Mode() == types.ModeLive {
		transport = smtp.NewSMTPTransport(cfg.SMTP, logger)
	} else {
		logger.Warn("SMTP credentials not configured, running in logged mode")
		transport = smtp.NewLoggedTransport(logger)
	}

	scheduler := mailer.NewScheduler(transport, mailer.RetryPolicy{
		MaxAttempts:   cfg.Delivery.MaxAttempts,
		BaseDelay:     cfg.Delivery.BaseDelay,
		MaxDelay:      cfg.Delivery.MaxDelay,
		BackoffFactor: 2.0,
	}, logger)

	taskPool := mailer.NewTaskPool(cfg.Delivery.BackgroundWorkers, logger)

	var oversight *mailer.OversightNotifier
	if cfg.Oversight.Enabled {
		oversight = mailer.NewOversightNotifier(transport, directory, cfg.SMTP.Sender(), cfg.SMTP.FromName, logger)
	}

	mailService := mailer.NewMailer(mailer.MailerOptions{
		Scheduler: scheduler,
		Pool:      taskPool,
		Audit:     auditStore,
		Oversight: oversight,
		Sender:    cfg.SMTP.Sender(),
		Branding:  cfg.SMTP.FromName,
		Logger:    logger,
	})

	mailHandler := handlers.NewMailHandler(mailService, auditReader, logger)
	srv := api.NewServer(mailHandler, logger)

	return serveHTTP(srv, cfg, taskPool, logger)
}

// serveHTTP runs the HTTP server until a shutdown signal arrives, then shuts
// down gracefully and drains the background task pool so in-flight audit
// writes are not lost.
func serveHTTP(srv *api.Server, cfg *config.Config, taskPool *mailer.TaskPool, logger types.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err.Error())
	}

	if err := taskPool.Drain(ctx); err != nil {
		logger.Error("background task pool drain error", "error", err.Error())
	}

	logger.Info("server stopped cleanly")
	return nil
}
