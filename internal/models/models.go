package models

import "time"

// TokenType discriminates access tokens from refresh tokens. The value is
// embedded in the signed payload and checked by the guard on every request.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

func (t TokenType) String() string { return string(t) }

const (
	UsernameMinLength = 8
	UsernameMaxLength = 32
	PasswordMinLength = 8
)

type User struct {
	ID             int64
	Username       string
	FirstName      *string
	LastName       *string
	HashedPassword string
}

// UserPatch carries optional profile updates. Nil fields are left untouched.
type UserPatch struct {
	FirstName *string
	LastName  *string
}

// RefreshSession is the single persisted session backing a user's refresh
// token. The raw token is never stored, only its digest. Rotation replaces
// the whole row, it is never updated in place.
type RefreshSession struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenPayload is the decoded content of a signed token. It is transient and
// never persisted.
type TokenPayload struct {
	Subject   string
	Username  string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}
