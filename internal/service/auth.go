package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mzhdanov/authd/internal/models"
	"github.com/mzhdanov/authd/internal/storage"
)

// TokenPair is what login/refresh hand back to the boundary. RefreshExpiresAt
// mirrors the refresh token's own expiry so the transport cookie can match it.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService owns the token lifecycle: registration, login, issuance of
// access/refresh pairs, rotation-on-use and revocation. It is the only writer
// of refresh-session rows.
type AuthService struct {
	users    storage.UserRepository
	sessions storage.SessionRepository
	codec    *TokenCodec
	hasher   *Hasher
	log      *zap.SugaredLogger
}

func NewAuthService(
	users storage.UserRepository,
	sessions storage.SessionRepository,
	codec *TokenCodec,
	hasher *Hasher,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		codec:    codec,
		hasher:   hasher,
		log:      log,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, hashedPassword)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Infow("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and starts a fresh session. An unknown username
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	return s.IssueSession(ctx, user)
}

// IssueSession mints an access/refresh pair for the user and atomically
// replaces whatever refresh session the user had before. Only the digest of
// the refresh token is persisted; a database leak alone cannot mint a live
// session.
func (s *AuthService) IssueSession(ctx context.Context, user *models.User) (*TokenPair, error) {
	subject := strconv.FormatInt(user.ID, 10)

	accessToken, _, err := s.codec.SignAccess(subject, user.Username)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.codec.SignRefresh(subject)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	tokenHash, err := s.hasher.Hash(TokenDigest(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("hash refresh token: %w", err)
	}

	if err := s.sessions.ReplaceSession(ctx, user.ID, tokenHash, refreshExpiresAt); err != nil {
		return nil, fmt.Errorf("replace session: %w", err)
	}

	s.log.Debugw("session issued", "user_id", user.ID, "expires_at", refreshExpiresAt)
	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// Rotate reissues the pair after the guard has validated a refresh token.
// The user is looked up again to re-embed the username in the new access
// token and to catch accounts deleted since issuance.
func (s *AuthService) Rotate(ctx context.Context, userID int64) (*TokenPair, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.IssueSession(ctx, user)
}

// Revoke ends the user's session. Absence of a session row is not an error.
func (s *AuthService) Revoke(ctx context.Context, userID int64) error {
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.log.Infow("session revoked", "user_id", userID)
	return nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, patch models.UserPatch) error {
	if err := s.users.UpdateUser(ctx, userID, patch); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func validateCredentials(username, password string) error {
	if len(username) < models.UsernameMinLength || len(username) > models.UsernameMaxLength {
		return fmt.Errorf("%w: username length must be between %d and %d",
			storage.ErrValueOutOfRange, models.UsernameMinLength, models.UsernameMaxLength)
	}
	if len(password) < models.PasswordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters",
			storage.ErrValueOutOfRange, models.PasswordMinLength)
	}
	return nil
}
