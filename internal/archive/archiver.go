// Package archive implements cold-storage export of expired email audit
// records. Records older than the retention window are written to a
// zstd-compressed JSONL file and then deleted from the database; deletion
// happens only after the batch is durably on disk.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/mohamedazzim/SympoAzzi/internal/config"
	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// AuditArchiveStore is the data access contract required by the archiver.
// Mirrors the concrete db.EmailLogRepository methods.
type AuditArchiveStore interface {
	ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]types.EmailLog, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

// Archiver pages through expired audit records and exports them.
type Archiver struct {
	store  AuditArchiveStore
	cfg    config.ArchiveConfig
	clock  types.Clock
	logger types.Logger
}

// NewArchiver creates an Archiver. A nil clock falls back to the system clock.
func NewArchiver(store AuditArchiveStore, cfg config.ArchiveConfig, clock types.Clock, logger types.Logger) *Archiver {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &Archiver{
		store:  store,
		cfg:    cfg,
		clock:  clock,
		logger: logger,
	}
}

// Result summarizes one archiver run.
type Result struct {
	Archived int
	Deleted  int64
	File     string
}

// Run exports all records older than the retention cutoff. It processes in
// batches of the configured size until no expired records remain. If no
// records are expired, no file is created.
func (a *Archiver) Run(ctx context.Context) (*Result, error) {
	now := a.clock.Now()
	cutoff := now.Add(-a.cfg.Retention)

	first, err := a.store.ListOlderThan(ctx, cutoff, a.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("archive: list expired records: %w", err)
	}
	if len(first) == 0 {
		a.logger.Info("no expired audit records to archive", "cutoff", cutoff.Format(time.RFC3339))
		return &Result{}, nil
	}

	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("archive: create output dir: %w", err)
	}

	path := filepath.Join(a.cfg.OutputDir, fmt.Sprintf("email-logs-%s.jsonl.zst", now.Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("archive: create output file: %w", err)
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return nil, fmt.Errorf("archive: create zstd writer: %w", err)
	}

	result := &Result{File: path}
	enc := json.NewEncoder(zw)

	batch := first
	for len(batch) > 0 {
		ids := make([]string, 0, len(batch))
		for i := range batch {
			if err := enc.Encode(&batch[i]); err != nil {
				zw.Close()
				return nil, fmt.Errorf("archive: encode record: %w", err)
			}
			ids = append(ids, batch[i].ID)
		}

		// Flush the batch to disk before deleting its rows.
		if err := zw.Flush(); err != nil {
			zw.Close()
			return nil, fmt.Errorf("archive: flush output: %w", err)
		}

		deleted, err := a.store.DeleteByIDs(ctx, ids)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("archive: delete archived records: %w", err)
		}
		result.Archived += len(batch)
		result.Deleted += deleted

		a.logger.Info("archived audit record batch",
			"count", len(batch),
			"deleted", deleted,
			"file", path,
		)

		batch, err = a.store.ListOlderThan(ctx, cutoff, a.cfg.BatchSize)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("archive: list expired records: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("archive: close output: %w", err)
	}
	return result, nil
}
