package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mzhdanov/authd/internal/models"
)

var (
	ErrNotFound        = errors.New("object not found")
	ErrAlreadyExists   = errors.New("object already exists")
	ErrValueOutOfRange = errors.New("value out of range")
)

// DBTX is the subset of database/sql used by the repositories. Both *sql.DB
// and *sql.Tx satisfy it, so the same repository code runs inside and outside
// transactions.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UserRepository interface {
	CreateUser(ctx context.Context, username, hashedPassword string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) error
}

// SessionRepository persists at most one refresh session per user.
// ReplaceSession atomically swaps the user's session for a new one; whatever
// row existed before is gone after a successful call. Deletes are idempotent.
type SessionRepository interface {
	ReplaceSession(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	FindForUser(ctx context.Context, userID int64) (*models.RefreshSession, error)
	DeleteAllForUser(ctx context.Context, userID int64) error
	DeleteAllSessions(ctx context.Context) error
}

type Storage interface {
	UserRepository
	SessionRepository
}
