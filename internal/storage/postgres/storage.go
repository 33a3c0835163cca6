package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mzhdanov/authd/internal/storage"
)

// Storage bundles the Postgres repositories and the transactional operations
// that span them.
type Storage struct {
	db *sql.DB
	*UserRepository
	*SessionRepository
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:                db,
		UserRepository:    NewUserRepository(db),
		SessionRepository: NewSessionRepository(db),
	}
}

// ReplaceSession swaps the user's refresh session for a new one: delete all
// existing rows, insert the replacement, commit. Delete-then-insert rather
// than update-in-place, so a session row always corresponds to exactly one
// issued token. Rollback on any failure leaves the prior session intact.
func (s *Storage) ReplaceSession(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	sessionRepoTx := NewSessionRepository(tx)

	if err := sessionRepoTx.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	if _, err := sessionRepoTx.UpsertSession(ctx, userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
