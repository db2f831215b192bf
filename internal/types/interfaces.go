package types

import (
	"context"
	"time"
)

// Logger defines the structured logging interface used throughout the
// service. Satisfied by the slog adapter in the cmd entry points.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	With(args ...any) Logger
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// AuditStore is the persistent audit trail collaborator. Append may fail;
// the delivery path catches and logs the failure without letting it affect
// the caller-visible result.
type AuditStore interface {
	Append(ctx context.Context, entry *EmailLog) error
}

// Directory is the user/role lookup collaborator. The oversight notifier
// uses it to find the super-admin recipient.
type Directory interface {
	ListUsers(ctx context.Context) ([]User, error)
}
