package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Required settings. Load fails when either is absent.
var (
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is not set")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")
)

// Config holds all application configuration.
type Config struct {
	ServerPort  string
	GinMode     string
	LogLevel    string
	LogFormat   string
	DatabaseURL string
	MaxDBConns  int32
	// RedisURL is optional. Empty disables the live announcement feed.
	RedisURL       string
	JWTSecret      string
	JWTExpiry      time.Duration
	BcryptCost     int
	LoginRateLimit int
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables.
// It loads .env file if present but does not fail if missing. The signing
// secret and the database URL have no defaults.
func Load() (*Config, error) {
	cfg := read()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadCLI reads configuration for the provisioning commands, which talk to
// the database but never sign tokens. Only DATABASE_URL is required.
func LoadCLI() (*Config, error) {
	cfg := read()
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, ErrMissingDatabaseURL
	}
	return cfg, nil
}

func read() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "5000"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MaxDBConns:     int32(getEnvInt("MAX_DB_CONNS", 16)),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiry:      time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 7*24)) * time.Hour,
		BcryptCost:     getEnvInt("BCRYPT_COST", 10),
		LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 30),
		AllowedOrigins: parseOrigins(getEnv("CORS_ORIGIN", "")),
	}
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
