package service

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mzhdanov/authd/internal/models"
	"github.com/mzhdanov/authd/internal/util"
)

// TokenCodec signs and verifies compact tokens with an RSA keypair. The
// private key stays with the issuing service; anything holding the public key
// can verify without signing authority.
type TokenCodec struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration
}

func NewTokenCodec(cfg *util.TokenConfig) *TokenCodec {
	return &TokenCodec{
		privateKey: cfg.PrivateKey,
		publicKey:  cfg.PublicKey,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		leeway:     cfg.Leeway,
	}
}

type tokenClaims struct {
	Username  string           `json:"username,omitempty"`
	TokenType models.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Sign builds a payload {sub, type, iat, exp} plus an optional username
// convenience claim and signs it. The resolved expiry is returned so callers
// can persist it without re-decoding the token.
func (c *TokenCodec) Sign(subject string, typ models.TokenType, username string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := &tokenClaims{
		Username:  username,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(c.privateKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// SignAccess issues an access token for the user with the configured short TTL.
func (c *TokenCodec) SignAccess(subject string, username string) (string, time.Time, error) {
	return c.Sign(subject, models.TokenTypeAccess, username, c.accessTTL)
}

// SignRefresh issues a refresh token carrying the subject only.
func (c *TokenCodec) SignRefresh(subject string) (string, time.Time, error) {
	return c.Sign(subject, models.TokenTypeRefresh, "", c.refreshTTL)
}

// Decode verifies the signature and expiry and returns the payload.
// Expired-but-valid tokens fail with ErrExpiredSignature; everything else
// that does not verify fails with ErrMalformedToken.
func (c *TokenCodec) Decode(token string) (*models.TokenPayload, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.publicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithLeeway(c.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSignature
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if parsed == nil || !parsed.Valid {
		return nil, ErrMalformedToken
	}

	payload := &models.TokenPayload{
		Subject:  claims.Subject,
		Username: claims.Username,
		Type:     claims.TokenType,
	}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		payload.ExpiresAt = claims.ExpiresAt.Time
	}
	return payload, nil
}
