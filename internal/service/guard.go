package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mzhdanov/authd/internal/models"
	"github.com/mzhdanov/authd/internal/storage"
)

const bearerPrefix = "Bearer "

// Guard resolves a caller's identity from an incoming token. Access
// resolution is purely computational; refresh resolution additionally
// cross-checks liveness against the session store (read-only).
type Guard struct {
	codec    *TokenCodec
	sessions storage.SessionRepository
	hasher   *Hasher
}

func NewGuard(codec *TokenCodec, sessions storage.SessionRepository, hasher *Hasher) *Guard {
	return &Guard{codec: codec, sessions: sessions, hasher: hasher}
}

// ResolveAccess extracts the bearer token from an Authorization header value
// and returns the authenticated user id.
func (g *Guard) ResolveAccess(authorizationHeader string) (int64, error) {
	token, err := extractBearer(authorizationHeader)
	if err != nil {
		return 0, err
	}
	payload, err := g.decodeTyped(token, models.TokenTypeAccess)
	if err != nil {
		return 0, err
	}
	return subjectID(payload)
}

// ResolveRefresh validates a refresh token taken from its cookie transport.
// A well-formed, unexpired token whose backing session is gone or belongs to
// a newer token resolves to ErrWithdrawnToken.
func (g *Guard) ResolveRefresh(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrMissingToken
	}
	payload, err := g.decodeTyped(token, models.TokenTypeRefresh)
	if err != nil {
		return 0, err
	}
	userID, err := subjectID(payload)
	if err != nil {
		return 0, err
	}

	session, err := g.sessions.FindForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, ErrWithdrawnToken
		}
		return 0, fmt.Errorf("find session: %w", err)
	}
	// The stored digest belongs to the most recently issued token; an older
	// token from before a rotation is signature-valid but withdrawn.
	if !g.hasher.Verify(TokenDigest(token), session.TokenHash) {
		return 0, ErrWithdrawnToken
	}

	return userID, nil
}

func (g *Guard) decodeTyped(token string, expected models.TokenType) (*models.TokenPayload, error) {
	payload, err := g.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	if payload.Type != expected {
		return nil, &InvalidTokenTypeError{Expected: expected, Actual: payload.Type}
	}
	return payload, nil
}

func extractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found || token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

func subjectID(payload *models.TokenPayload) (int64, error) {
	if payload.Subject == "" {
		return 0, ErrMissingSubject
	}
	id, err := strconv.ParseInt(payload.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return id, nil
}
