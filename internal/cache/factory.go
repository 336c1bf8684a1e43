// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"net/url"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	RedisURL   string // empty selects the memory backend
	Prefix     string
	DefaultTTL time.Duration
}

// Backend names reported by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// New builds a cache from cfg. When Redis is configured but unreachable it
// logs a warning and falls back to memory so the storefront keeps serving.
func New(cfg Config) (Cacher, string) {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = time.Hour
	}

	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(RedisOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
			PoolSize:   10,
		})
		if err == nil {
			slog.Info("using redis cache", "url", sanitizeRedisURL(cfg.RedisURL), "prefix", cfg.Prefix)
			return rc, BackendRedis
		}
		slog.Warn("redis unavailable, falling back to memory cache",
			"url", sanitizeRedisURL(cfg.RedisURL), "error", err)
	}

	return NewMemoryCache(cfg.DefaultTTL, time.Minute), BackendMemory
}

// sanitizeRedisURL masks the password in a Redis URL for logging.
func sanitizeRedisURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}
