// Package memory holds an in-memory implementation of the storage contracts,
// used in tests and as a reference for the concurrency semantics the SQL
// implementation provides via transactions.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mzhdanov/authd/internal/models"
	"github.com/mzhdanov/authd/internal/storage"
)

type Storage struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[int64]models.User
	sessions map[int64]models.RefreshSession // keyed by user id
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{
		users:    make(map[int64]models.User),
		sessions: make(map[int64]models.RefreshSession),
	}
}

func (s *Storage) CreateUser(_ context.Context, username, hashedPassword string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(username) > models.UsernameMaxLength {
		return nil, storage.ErrValueOutOfRange
	}
	for _, u := range s.users {
		if u.Username == username {
			return nil, storage.ErrAlreadyExists
		}
	}

	s.nextID++
	user := models.User{ID: s.nextID, Username: username, HashedPassword: hashedPassword}
	s.users[user.ID] = user
	return &user, nil
}

func (s *Storage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Storage) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	user := u
	return &user, nil
}

func (s *Storage) UpdateUser(_ context.Context, id int64, patch models.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	if patch.FirstName != nil {
		u.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = patch.LastName
	}
	s.users[id] = u
	return nil
}

// DeleteUser exists for test teardown; the HTTP surface has no user deletion.
func (s *Storage) DeleteUser(_ context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *Storage) ReplaceSession(_ context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.sessions[userID] = models.RefreshSession{
		ID:        s.nextID,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *Storage) FindForUser(_ context.Context, userID int64) (*models.RefreshSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	found := session
	return &found, nil
}

func (s *Storage) DeleteAllForUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

func (s *Storage) DeleteAllSessions(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[int64]models.RefreshSession)
	return nil
}

// SessionCount reports the number of live sessions for a user (0 or 1).
func (s *Storage) SessionCount(userID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions[userID]; ok {
		return 1
	}
	return 0
}
