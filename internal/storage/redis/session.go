// Package redis implements the refresh-session contract on a Redis client.
// One key per user; SET is the atomic replace, so the single-session
// invariant holds without transactions.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mzhdanov/authd/internal/models"
	"github.com/mzhdanov/authd/internal/storage"
)

const sessionKeyPrefix = "refresh_session:"

type SessionStorage struct {
	client *redis.Client
}

func NewSessionStorage(client *redis.Client) *SessionStorage {
	return &SessionStorage{client: client}
}

type sessionRecord struct {
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("%s%d", sessionKeyPrefix, userID)
}

func (s *SessionStorage) ReplaceSession(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	record := sessionRecord{
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, sessionKey(userID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *SessionStorage) FindForUser(ctx context.Context, userID int64) (*models.RefreshSession, error) {
	raw, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}
	return &models.RefreshSession{
		UserID:    userID,
		TokenHash: record.TokenHash,
		ExpiresAt: record.ExpiresAt,
		CreatedAt: record.CreatedAt,
	}, nil
}

func (s *SessionStorage) DeleteAllForUser(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStorage) DeleteAllSessions(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("delete session %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan sessions: %w", err)
	}
	return nil
}

var _ storage.SessionRepository = (*SessionStorage)(nil)
