package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mzhdanov/authd/internal/models"
	"github.com/mzhdanov/authd/internal/storage"
)

type SessionRepository struct {
	db storage.DBTX
}

func NewSessionRepository(db storage.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// UpsertSession inserts the session row for a user. It assumes any previous
// row has already been deleted in the same transaction; the unique index on
// user_id rejects a second live session.
func (r *SessionRepository) UpsertSession(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (int64, error) {
	var id int64
	query := `INSERT INTO refresh_sessions (user_id, token_hash, expires_at) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, userID, tokenHash, expiresAt).Scan(&id)
	if err != nil {
		if translated := translatePqError(err); translated != nil {
			return 0, translated
		}
		return 0, fmt.Errorf("insert refresh session: %w", err)
	}
	return id, nil
}

func (r *SessionRepository) FindForUser(ctx context.Context, userID int64) (*models.RefreshSession, error) {
	var session models.RefreshSession
	query := `SELECT id, user_id, token_hash, expires_at, created_at FROM refresh_sessions WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&session.ID, &session.UserID, &session.TokenHash, &session.ExpiresAt, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find refresh session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM refresh_sessions WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteAllSessions(ctx context.Context) error {
	query := `DELETE FROM refresh_sessions`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("delete all sessions: %w", err)
	}
	return nil
}
