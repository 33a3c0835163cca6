package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("alice12345")
	require.NoError(t, err)
	assert.NotEqual(t, "alice12345", digest)

	assert.True(t, hasher.Verify("alice12345", digest))
	assert.False(t, hasher.Verify("bob6789012", digest))
	assert.False(t, hasher.Verify("", digest))
}

func TestHasher_SaltedDigestsDiffer(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("same-password", first))
	assert.True(t, hasher.Verify("same-password", second))
}

func TestHasher_InvalidCostFallsBack(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(100)

	digest, err := hasher.Hash("alice12345")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("alice12345", digest))
}

func TestTokenDigest_FitsBcryptInput(t *testing.T) {
	t.Parallel()

	// Signed tokens run well past bcrypt's 72-byte input limit; the digest
	// must not.
	long := strings.Repeat("eyJhbGciOiJSUzI1NiJ9.", 40)
	digest := TokenDigest(long)
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, TokenDigest(long))
	assert.NotEqual(t, digest, TokenDigest(long+"x"))

	hasher := NewHasher(bcrypt.MinCost)
	hashed, err := hasher.Hash(digest)
	require.NoError(t, err)
	assert.True(t, hasher.Verify(TokenDigest(long), hashed))
}
