// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata" // zone database for slim images

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Storage drivers.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"FLORIST_DB_PATH" envDefault:"./data/florist.db"`
	SessionSecret string `env:"FLORIST_SESSION_SECRET,required"`
	ServerHost    string `env:"FLORIST_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"FLORIST_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"FLORIST_ENV" envDefault:"development"`
	LogLevel      string `env:"FLORIST_LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"FLORIST_LOG_FILE"` // Optional rotating log file
	PublicBaseURL string `env:"FLORIST_PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	Timezone      string `env:"FLORIST_TIMEZONE" envDefault:"Asia/Jakarta"` // Delivery dates are computed here

	// Object storage
	StorageDriver   string `env:"FLORIST_STORAGE_DRIVER" envDefault:"local"`
	UploadsDir      string `env:"FLORIST_UPLOADS_DIR" envDefault:"./uploads"`
	S3Region        string `env:"FLORIST_S3_REGION"`
	S3Bucket        string `env:"FLORIST_S3_BUCKET"`
	S3Prefix        string `env:"FLORIST_S3_PREFIX" envDefault:"bouquets"`
	S3PublicBaseURL string `env:"FLORIST_S3_PUBLIC_BASE_URL"`

	// Cache configuration
	RedisURL    string `env:"FLORIST_REDIS_URL"`                          // Optional Redis URL for shared settings cache
	CachePrefix string `env:"FLORIST_CACHE_PREFIX" envDefault:"florist:"` // Redis key prefix
	CacheTTL    int    `env:"FLORIST_CACHE_TTL" envDefault:"3600"`        // Default cache TTL in seconds

	// Cron spec for re-reading store settings from the database
	SettingsRefresh string `env:"FLORIST_SETTINGS_REFRESH" envDefault:"*/5 * * * *"`

	// Bearer token for Prometheus scrapes; signed-in admins need none
	MetricsToken string `env:"FLORIST_METRICS_TOKEN"`

	CORSOrigins []string `env:"FLORIST_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	PageSize    int      `env:"FLORIST_PAGE_SIZE" envDefault:"8"`

	DoSeed bool `env:"FLORIST_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Location returns the store's time zone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("FLORIST_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("FLORIST_SESSION_SECRET is a known default value and must not be used")
		}
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("FLORIST_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch c.StorageDriver {
	case StorageLocal:
	case StorageS3:
		if c.S3Region == "" || c.S3Bucket == "" || c.S3PublicBaseURL == "" {
			return fmt.Errorf("s3 storage requires FLORIST_S3_REGION, FLORIST_S3_BUCKET and FLORIST_S3_PUBLIC_BASE_URL")
		}
	default:
		return fmt.Errorf("unknown FLORIST_STORAGE_DRIVER %q", c.StorageDriver)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid FLORIST_TIMEZONE %q: %w", c.Timezone, err)
	}

	if c.PageSize <= 0 {
		return fmt.Errorf("FLORIST_PAGE_SIZE must be positive, got %d", c.PageSize)
	}

	if c.SettingsRefresh != "" {
		if _, err := cron.ParseStandard(c.SettingsRefresh); err != nil {
			return fmt.Errorf("invalid FLORIST_SETTINGS_REFRESH %q: %w", c.SettingsRefresh, err)
		}
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
