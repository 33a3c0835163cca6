package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzhdanov/authd/internal/storage"
)

func TestSessionRepository_FindForUser(t *testing.T) {
	mock, store := newMockDB(t)

	now := time.Now()
	expires := now.Add(14 * 24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, token_hash, expires_at, created_at FROM refresh_sessions WHERE user_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at"}).
			AddRow(int64(3), int64(7), "$2a$10$digest", expires, now))

	session, err := store.FindForUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), session.UserID)
	assert.Equal(t, "$2a$10$digest", session.TokenHash)
	assert.WithinDuration(t, expires, session.ExpiresAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_FindForUser_NotFound(t *testing.T) {
	mock, store := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, token_hash, expires_at, created_at FROM refresh_sessions WHERE user_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at"}))

	_, err := store.FindForUser(context.Background(), 7)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ReplaceSession(t *testing.T) {
	mock, store := newMockDB(t)

	expires := time.Now().Add(14 * 24 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_sessions WHERE user_id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO refresh_sessions (user_id, token_hash, expires_at) VALUES ($1, $2, $3) RETURNING id`)).
		WithArgs(int64(7), "$2a$10$digest", expires).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectCommit()

	err := store.ReplaceSession(context.Background(), 7, "$2a$10$digest", expires)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ReplaceSession_RollbackOnInsertFailure(t *testing.T) {
	mock, store := newMockDB(t)

	expires := time.Now().Add(14 * 24 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_sessions WHERE user_id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO refresh_sessions`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := store.ReplaceSession(context.Background(), 7, "$2a$10$digest", expires)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_DeleteAllForUser(t *testing.T) {
	mock, store := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_sessions WHERE user_id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.DeleteAllForUser(context.Background(), 7)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_DeleteAllSessions(t *testing.T) {
	mock, store := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_sessions`)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := store.DeleteAllSessions(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
