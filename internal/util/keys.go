package util

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig is the immutable token-signing configuration: keypair,
// algorithm identifier, TTLs and the refresh cookie key name.
type TokenConfig struct {
	Algorithm         string
	PrivateKey        *rsa.PrivateKey
	PublicKey         *rsa.PublicKey
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	Leeway            time.Duration
	RefreshCookieName string
}

// LoadRSAKeyPair reads and parses PEM-encoded RSA keys from disk.
func LoadRSAKeyPair(privateKeyPath, publicKeyPath string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privPEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read private key: %w", err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parse private key: %w", err)
	}

	pubPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read public key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parse public key: %w", err)
	}

	return privateKey, publicKey, nil
}
