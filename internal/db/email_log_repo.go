package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// EmailLogRepository provides data access for the email_logs audit table.
// It implements types.AuditStore.
type EmailLogRepository struct {
	db DBTX
}

// NewEmailLogRepository creates a repository backed by the given database
// connection (pool or transaction).
func NewEmailLogRepository(db DBTX) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

var _ types.AuditStore = (*EmailLogRepository)(nil)

// emailLogColumns is the standard column set for email log queries. Used
// consistently across query methods to avoid column drift.
const emailLogColumns = `id, recipient, recipient_name, subject, template_type,
	status, metadata, error_message, created_at`

// Append inserts a single audit record. The record is immutable once written.
func (r *EmailLogRepository) Append(ctx context.Context, entry *types.EmailLog) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to encode email log metadata", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO email_logs (id, recipient, recipient_name, subject, template_type,
		 status, metadata, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID,
		entry.Recipient,
		entry.RecipientName,
		entry.Subject,
		string(entry.TemplateType),
		string(entry.Status),
		metadata,
		nilIfEmpty(entry.ErrorMessage),
		entry.CreatedAt,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to append email log", err)
	}
	return nil
}

// List returns the most recent audit records, newest first. An empty status
// returns all records regardless of outcome.
func (r *EmailLogRepository) List(ctx context.Context, status types.EmailLogStatus, limit, offset int) ([]types.EmailLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+emailLogColumns+`
		 FROM email_logs
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		string(status),
		limit,
		offset,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list email logs", err)
	}
	defer rows.Close()

	var logs []types.EmailLog
	for rows.Next() {
		entry, err := scanEmailLog(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan email log", err)
		}
		logs = append(logs, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate email logs", err)
	}
	return logs, nil
}

// ListOlderThan returns up to limit records created before the cutoff, oldest
// first. Used by the archiver to page through expired records.
func (r *EmailLogRepository) ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]types.EmailLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+emailLogColumns+`
		 FROM email_logs
		 WHERE created_at < $1
		 ORDER BY created_at ASC
		 LIMIT $2`,
		cutoff,
		limit,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list expired email logs", err)
	}
	defer rows.Close()

	var logs []types.EmailLog
	for rows.Next() {
		entry, err := scanEmailLog(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan email log", err)
		}
		logs = append(logs, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate email logs", err)
	}
	return logs, nil
}

// DeleteByIDs removes the given audit records. The archiver calls this only
// after the batch has been durably written to the archive file.
func (r *EmailLogRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx,
		`DELETE FROM email_logs WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return 0, types.NewAppError(types.ErrCodeInternalDB, "failed to delete archived email logs", err)
	}
	return tag.RowsAffected(), nil
}

// scanEmailLog scans a single row in emailLogColumns order. Uses nullable
// scan targets for columns that may be NULL (recipient_name, error_message).
func scanEmailLog(row interface{ Scan(dest ...any) error }) (*types.EmailLog, error) {
	var entry types.EmailLog
	var (
		recipientName *string
		templateType  string
		status        string
		metadata      []byte
		errorMessage  *string
	)
	err := row.Scan(
		&entry.ID,
		&entry.Recipient,
		&recipientName,
		&entry.Subject,
		&templateType,
		&status,
		&metadata,
		&errorMessage,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.TemplateType = types.TemplateType(templateType)
	entry.Status = types.EmailLogStatus(status)
	if recipientName != nil {
		entry.RecipientName = *recipientName
	}
	if errorMessage != nil {
		entry.ErrorMessage = *errorMessage
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, err
		}
	}
	return &entry, nil
}

// nilIfEmpty maps "" to NULL for nullable text columns.
func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
