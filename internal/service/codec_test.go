package service

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzhdanov/authd/internal/models"
)

func newTestCodec(t *testing.T) *TokenCodec {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return &TokenCodec{
		privateKey: key,
		publicKey:  &key.PublicKey,
		accessTTL:  15 * time.Minute,
		refreshTTL: 24 * time.Hour,
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)

	for _, typ := range []models.TokenType{models.TokenTypeAccess, models.TokenTypeRefresh} {
		token, expiresAt, err := codec.Sign("42", typ, "alice12345", time.Minute)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 2*time.Second)

		payload, err := codec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, "42", payload.Subject)
		assert.Equal(t, typ, payload.Type)
		assert.Equal(t, "alice12345", payload.Username)
		assert.WithinDuration(t, expiresAt, payload.ExpiresAt, time.Second)
	}
}

func TestTokenCodec_AccessAndRefreshTTLs(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)

	_, accessExp, err := codec.SignAccess("1", "alice12345")
	require.NoError(t, err)
	_, refreshExp, err := codec.SignRefresh("1")
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().Add(codec.accessTTL), accessExp, 2*time.Second)
	assert.WithinDuration(t, time.Now().Add(codec.refreshTTL), refreshExp, 2*time.Second)
	assert.True(t, refreshExp.After(accessExp))
}

func TestTokenCodec_ExpiredSignature(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)

	for _, ttl := range []time.Duration{0, -time.Minute} {
		token, _, err := codec.Sign("42", models.TokenTypeAccess, "", ttl)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.ErrorIs(t, err, ErrExpiredSignature)
		require.NotErrorIs(t, err, ErrMalformedToken)
	}
}

func TestTokenCodec_MalformedToken(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)

	_, err := codec.Decode("not.a.token")
	assert.ErrorIs(t, err, ErrMalformedToken)

	_, err = codec.Decode("")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestTokenCodec_ForeignSignatureRejected(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	other := newTestCodec(t)

	token, _, err := other.Sign("42", models.TokenTypeAccess, "", time.Minute)
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestTokenCodec_SymmetricAlgorithmRejected(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)

	// A token signed with HMAC must not pass even if its payload looks right.
	claims := &tokenClaims{
		TokenType: models.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("guessed-secret"))
	require.NoError(t, err)

	_, err = codec.Decode(forged)
	assert.ErrorIs(t, err, ErrMalformedToken)
}
