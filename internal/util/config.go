package util

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

//nolint:gochecknoglobals // here its ok
var once sync.Once

func init() {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	})
}

const (
	defaultServerAddr      = "localhost:8080"
	defaultWriteTimeout    = 10 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultGracefulTimeout = 5 * time.Second

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 14 * 24 * time.Hour

	defaultAlgorithm         = "RS256"
	defaultRefreshCookieName = "refresh_token"

	JWTLeeWay = 5 * time.Second
)

type ServerConfig struct {
	ServerAddr      string
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

func NewServerConfig() *ServerConfig {
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = defaultServerAddr
	}

	return &ServerConfig{
		ServerAddr:      addr,
		WriteTimeout:    parseDurationOrDefault("WRITE_TIMEOUT", defaultWriteTimeout),
		ReadTimeout:     parseDurationOrDefault("READ_TIMEOUT", defaultReadTimeout),
		IdleTimeout:     parseDurationOrDefault("IDLE_TIMEOUT", defaultIdleTimeout),
		GracefulTimeout: parseDurationOrDefault("GRACEFUL_TIMEOUT", defaultGracefulTimeout),
	}
}

// NewTokenConfig loads the signing keypair and token parameters. The process
// refuses to start without a valid keypair; everything here is read once and
// never mutated afterwards.
func NewTokenConfig() *TokenConfig {
	algorithm := os.Getenv("JWT_ALGORITHM")
	if algorithm == "" {
		algorithm = defaultAlgorithm
	}
	if algorithm != defaultAlgorithm {
		log.Fatalf("unsupported JWT_ALGORITHM %q, only RS256 is supported", algorithm)
	}

	privPath := os.Getenv("JWT_PRIVATE_KEY_FILE")
	pubPath := os.Getenv("JWT_PUBLIC_KEY_FILE")
	if privPath == "" || pubPath == "" {
		log.Fatal("JWT_PRIVATE_KEY_FILE and JWT_PUBLIC_KEY_FILE are not set")
	}

	privateKey, publicKey, err := LoadRSAKeyPair(privPath, pubPath)
	if err != nil {
		log.Fatalf("load signing keypair: %v", err)
	}

	cookieName := os.Getenv("REFRESH_COOKIE_NAME")
	if cookieName == "" {
		cookieName = defaultRefreshCookieName
	}

	return &TokenConfig{
		Algorithm:         algorithm,
		PrivateKey:        privateKey,
		PublicKey:         publicKey,
		AccessTTL:         parseDurationOrDefault("ACCESS_TOKEN_TTL", defaultAccessTTL),
		RefreshTTL:        parseDurationOrDefault("REFRESH_TOKEN_TTL", defaultRefreshTTL),
		Leeway:            JWTLeeWay,
		RefreshCookieName: cookieName,
	}
}

// BcryptCost returns the configured hashing work factor.
func BcryptCost() int {
	return parseIntOrDefault("BCRYPT_COST", bcrypt.DefaultCost)
}

func parseDurationOrDefault(varName string, def time.Duration) time.Duration {
	if v := os.Getenv(varName); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Invalid duration in %s: %s, using default %s", varName, v, def)
	}
	return def
}

func parseIntOrDefault(varName string, def int) int {
	if v := os.Getenv(varName); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Invalid integer in %s: %s, using default %d", varName, v, def)
	}
	return def
}
