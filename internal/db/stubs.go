package db

import (
	"context"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// Log-only collaborators used when no DATABASE_URL is configured. The mailer
// stays fully functional in constrained environments: audit records go to the
// structured log instead of a table, and the directory is empty (oversight
// notifications are skipped with a warning).

// LogAuditStore implements types.AuditStore by writing audit records to the
// structured log.
type LogAuditStore struct {
	logger types.Logger
}

// NewLogAuditStore creates a log-only audit store.
func NewLogAuditStore(logger types.Logger) *LogAuditStore {
	return &LogAuditStore{logger: logger}
}

var _ types.AuditStore = (*LogAuditStore)(nil)

// Append logs the audit record. Never fails.
func (s *LogAuditStore) Append(_ context.Context, entry *types.EmailLog) error {
	s.logger.Info("email audit record",
		"id", entry.ID,
		"recipient", entry.Recipient,
		"subject", entry.Subject,
		"template_type", string(entry.TemplateType),
		"status", string(entry.Status),
		"error_message", entry.ErrorMessage,
	)
	return nil
}

// EmptyDirectory implements types.Directory with no users.
type EmptyDirectory struct{}

var _ types.Directory = EmptyDirectory{}

// ListUsers returns no users.
func (EmptyDirectory) ListUsers(_ context.Context) ([]types.User, error) {
	return nil, nil
}
