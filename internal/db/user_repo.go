package db

import (
	"context"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// UserRepository provides read access to the users table. The mailer only
// needs the directory view: enough to locate the oversight recipient.
// It implements types.Directory.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a repository backed by the given database
// connection (pool or transaction).
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

var _ types.Directory = (*UserRepository)(nil)

// ListUsers returns all active users.
func (r *UserRepository) ListUsers(ctx context.Context) ([]types.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, email, full_name, role
		 FROM users
		 WHERE deleted_at IS NULL
		 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list users", err)
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		var u types.User
		var fullName *string
		if err := rows.Scan(&u.ID, &u.Email, &fullName, &u.Role); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan user", err)
		}
		if fullName != nil {
			u.FullName = *fullName
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate users", err)
	}
	return users, nil
}
