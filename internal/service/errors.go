package service

import (
	"errors"
	"fmt"

	"github.com/mzhdanov/authd/internal/models"
)

var (
	// ErrInvalidCredentials: unknown username or password mismatch at login.
	ErrInvalidCredentials = errors.New("invalid login data, wrong password or username")
	// ErrUserExists: username already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound: referenced user id has no backing row.
	ErrUserNotFound = errors.New("user not found")

	// ErrMissingToken: expected bearer/cookie token absent or empty.
	ErrMissingToken = errors.New("token is missing")
	// ErrMalformedToken: signature invalid or payload unparsable.
	ErrMalformedToken = errors.New("token is malformed")
	// ErrExpiredSignature: the payload's expiry has passed. Kept distinct from
	// ErrMalformedToken so the boundary can tell a stale client from a broken one.
	ErrExpiredSignature = errors.New("token signature expired")
	// ErrMissingSubject: decoded payload lacks a subject claim.
	ErrMissingSubject = errors.New("token has no subject")
	// ErrWithdrawnToken: refresh token is well-formed and unexpired but its
	// backing session was rotated away or revoked.
	ErrWithdrawnToken = errors.New("token has been withdrawn")
)

// InvalidTokenTypeError reports a token presented to a guard of the wrong
// flavor. Carries both types for diagnostics.
type InvalidTokenTypeError struct {
	Expected models.TokenType
	Actual   models.TokenType
}

func (e *InvalidTokenTypeError) Error() string {
	return fmt.Sprintf("invalid token type: expected %q, got %q", e.Expected, e.Actual)
}
