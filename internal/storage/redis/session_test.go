package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzhdanov/authd/internal/storage"
)

func newTestStorage(t *testing.T) (*miniredis.Miniredis, *SessionStorage) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, NewSessionStorage(client)
}

func TestSessionStorage_ReplaceAndFind(t *testing.T) {
	srv, store := newTestStorage(t)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour).UTC()
	require.NoError(t, store.ReplaceSession(ctx, 7, "$2a$10$digest", expires))

	session, err := store.FindForUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), session.UserID)
	assert.Equal(t, "$2a$10$digest", session.TokenHash)
	assert.WithinDuration(t, expires, session.ExpiresAt, time.Second)

	ttl := srv.TTL("refresh_session:7")
	assert.Greater(t, ttl, 55*time.Minute)
}

func TestSessionStorage_ReplaceKeepsSingleSession(t *testing.T) {
	srv, store := newTestStorage(t)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	require.NoError(t, store.ReplaceSession(ctx, 7, "first-digest", expires))
	require.NoError(t, store.ReplaceSession(ctx, 7, "second-digest", expires))

	session, err := store.FindForUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "second-digest", session.TokenHash)
	assert.Len(t, srv.Keys(), 1)
}

func TestSessionStorage_FindForUser_NotFound(t *testing.T) {
	_, store := newTestStorage(t)

	_, err := store.FindForUser(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionStorage_Expiry(t *testing.T) {
	srv, store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceSession(ctx, 7, "digest", time.Now().Add(time.Minute)))
	srv.FastForward(2 * time.Minute)

	_, err := store.FindForUser(ctx, 7)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionStorage_DeleteAllForUser(t *testing.T) {
	_, store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceSession(ctx, 7, "digest", time.Now().Add(time.Hour)))
	require.NoError(t, store.DeleteAllForUser(ctx, 7))

	_, err := store.FindForUser(ctx, 7)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting again is a no-op.
	require.NoError(t, store.DeleteAllForUser(ctx, 7))
}

func TestSessionStorage_DeleteAllSessions(t *testing.T) {
	srv, store := newTestStorage(t)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	require.NoError(t, store.ReplaceSession(ctx, 1, "a", expires))
	require.NoError(t, store.ReplaceSession(ctx, 2, "b", expires))
	require.NoError(t, srv.Set("unrelated", "keep"))

	require.NoError(t, store.DeleteAllSessions(ctx))

	_, err := store.FindForUser(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.FindForUser(ctx, 2)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.True(t, srv.Exists("unrelated"))
}
