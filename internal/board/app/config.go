package app

import (
	"os"
	"strconv"
	"time"

	"github.com/tabberone/corkboard/pkg/jwtx"
)

type Config struct {
	Issuer         string // Issuer claim for tokens (default: corkboard)
	SigningKeyFile string // Path to the token signing key; generated on first start (default: ./signing.key)

	AccessTTL  time.Duration // Access token lifetime (default: 1h)
	RefreshTTL time.Duration // Refresh token lifetime (default: 168h)

	DatabaseFile string // Path to SQLite database file (default: ./board.db)
	PepperFile   string // Optional: path to password pepper file; empty disables the pepper

	RedisAddr     string // Optional: redis host:port backing the token store; empty uses the in-memory store
	RedisPassword string
	RedisDB       int

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("BOARD_ISSUER", "corkboard"),
		SigningKeyFile: getEnvOrDefault("BOARD_SIGNING_KEY_FILE", "signing.key"),

		AccessTTL:  getEnvDurationOrDefault("BOARD_ACCESS_TTL", jwtx.DefaultAccessTTL),
		RefreshTTL: getEnvDurationOrDefault("BOARD_REFRESH_TTL", jwtx.DefaultRefreshTTL),

		DatabaseFile: getEnvOrDefault("BOARD_DATABASE_FILE", "board.db"),
		PepperFile:   os.Getenv("BOARD_PEPPER_FILE"),

		RedisAddr:     os.Getenv("BOARD_REDIS_ADDR"),
		RedisPassword: os.Getenv("BOARD_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("BOARD_REDIS_DB", 0),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
