package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher produces salted adaptive digests for account passwords and for
// refresh tokens at rest. Hashing the same input twice yields different
// digests; the salt and work factor are embedded in the digest itself.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. A mismatch is not an
// error, it is a false.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// TokenDigest reduces an arbitrarily long token string to a fixed-size hex
// string suitable as bcrypt input (signed tokens exceed bcrypt's 72-byte
// limit). Hash(TokenDigest(tok)) is what gets persisted for refresh tokens.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
