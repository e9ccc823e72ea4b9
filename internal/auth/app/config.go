package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/tenauth/tenauth/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim for minted tokens

	// Secret signs and verifies access tokens. Required, at least 32 bytes.
	Secret []byte

	AccessTTL  time.Duration // Access token lifetime (default: 15m)
	RefreshTTL time.Duration // Refresh token lifetime (default: 168h)

	// OpTimeout bounds every request-scoped persistence call so a wedged
	// database turns into a retryable failure instead of a hang.
	OpTimeout time.Duration

	// IncludeInactiveApps keeps privileges on resources of deactivated
	// applications contributing (default: true).
	IncludeInactiveApps bool

	// BootstrapAdminEmail/Password seed the first admin on an empty
	// database when both are set.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	DatabaseFile         string        // Path to SQLite database file (default: ./tenauth.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Refresh token purge interval (default: 1h)
}

var ErrMissingSecret = errors.New("TENAUTH_SECRET is required and must be at least 32 bytes")

func LoadConfig() (Config, error) {
	cfg := Config{
		Issuer:                 getEnvOrDefault("TENAUTH_ISSUER", "tenauth"),
		Secret:                 []byte(os.Getenv("TENAUTH_SECRET")),
		AccessTTL:              getEnvDurationOrDefault("TENAUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:             getEnvDurationOrDefault("TENAUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		OpTimeout:              getEnvDurationOrDefault("TENAUTH_OP_TIMEOUT", 5*time.Second),
		IncludeInactiveApps:    getEnvBoolOrDefault("TENAUTH_INCLUDE_INACTIVE_APPS", true),
		BootstrapAdminEmail:    os.Getenv("TENAUTH_BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("TENAUTH_BOOTSTRAP_ADMIN_PASSWORD"),
		DatabaseFile:           getEnvOrDefault("TENAUTH_DATABASE_FILE", "tenauth.db"),
		Env:                    getEnvOrDefault("ENV", "dev"),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                   getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:    getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval:   getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}

	if len(cfg.Secret) < jwtx.MinSecretLen {
		return Config{}, ErrMissingSecret
	}
	return cfg, nil
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
