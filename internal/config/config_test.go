// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"strings"
	"testing"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "FLORIST_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/florist.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/florist.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.StorageDriver != StorageLocal {
		t.Errorf("StorageDriver = %q, want %q", cfg.StorageDriver, StorageLocal)
	}
	if cfg.PageSize != 8 {
		t.Errorf("PageSize = %d, want 8", cfg.PageSize)
	}
	if cfg.Timezone != "Asia/Jakarta" {
		t.Errorf("Timezone = %q, want Asia/Jakarta", cfg.Timezone)
	}
	if cfg.SettingsRefresh != "*/5 * * * *" {
		t.Errorf("SettingsRefresh = %q", cfg.SettingsRefresh)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.DoSeed {
		t.Error("DoSeed should default to false")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "FLORIST_SESSION_SECRET", testSecret)
	setEnv(t, "FLORIST_DB_PATH", "/custom/path.db")
	setEnv(t, "FLORIST_SERVER_HOST", "0.0.0.0")
	setEnv(t, "FLORIST_SERVER_PORT", "3000")
	setEnv(t, "FLORIST_ENV", "production")
	setEnv(t, "FLORIST_LOG_LEVEL", "debug")
	setEnv(t, "FLORIST_CORS_ORIGINS", "https://tharabouqet.com,https://www.tharabouqet.com")
	setEnv(t, "FLORIST_PAGE_SIZE", "12")
	setEnv(t, "FLORIST_DO_SEED", "true")
	setEnv(t, "FLORIST_METRICS_TOKEN", "scrape-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want 0.0.0.0:3000", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true for production")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 entries", cfg.CORSOrigins)
	}
	if cfg.PageSize != 12 {
		t.Errorf("PageSize = %d, want 12", cfg.PageSize)
	}
	if !cfg.DoSeed {
		t.Error("DoSeed = false, want true")
	}
	if cfg.MetricsToken != "scrape-token" {
		t.Errorf("MetricsToken = %q, want scrape-token", cfg.MetricsToken)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without FLORIST_SESSION_SECRET")
	}
}

func TestValidate_Secret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr string
	}{
		{"too short", "short", "at least 32 bytes"},
		{"known default", "change-me-to-32-byte-secret-key!", "known default"},
		{"low entropy passes with warning", strings.Repeat("a", 32), ""},
		{"valid", testSecret, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.SessionSecret = tt.secret
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Storage(t *testing.T) {
	cfg := validConfig()
	cfg.StorageDriver = StorageS3
	if err := cfg.Validate(); err == nil {
		t.Error("s3 without bucket settings should fail")
	}

	cfg.S3Region = "ap-southeast-3"
	cfg.S3Bucket = "tharabouqet"
	cfg.S3PublicBaseURL = "https://cdn.tharabouqet.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("complete s3 config: %v", err)
	}

	cfg.StorageDriver = "ftp"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown driver should fail")
	}
}

func TestValidate_PageSizeAndTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.PageSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero page size should fail")
	}

	cfg = validConfig()
	cfg.Timezone = "Mars/Olympus_Mons"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown time zone should fail")
	}
	if cfg.Location().String() != "UTC" {
		t.Errorf("Location() fallback = %s, want UTC", cfg.Location())
	}
}

func TestValidate_SettingsRefresh(t *testing.T) {
	cfg := validConfig()
	cfg.SettingsRefresh = "@every 30s"
	if err := cfg.Validate(); err != nil {
		t.Errorf("descriptor schedule rejected: %v", err)
	}

	cfg.SettingsRefresh = "every five minutes"
	if err := cfg.Validate(); err == nil {
		t.Error("malformed cron spec should fail")
	}

	cfg.SettingsRefresh = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty schedule disables the refresh job: %v", err)
	}
}

func TestLocation(t *testing.T) {
	cfg := validConfig()
	if got := cfg.Location().String(); got != "Asia/Jakarta" {
		t.Errorf("Location() = %s, want Asia/Jakarta", got)
	}
}

func TestUseRedisCache(t *testing.T) {
	cfg := validConfig()
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() = true without URL")
	}
	cfg.RedisURL = "redis://localhost:6379/0"
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false with URL")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := map[string]bool{
		"abcdefgh":     false,
		"abcdEFGH":     false,
		"abcdEFGH1234": true,
		"abcd1234":     false,
		"abcd-1234-XY": true,
	}
	for in, want := range tests {
		if got := hasMinimumEntropy(in); got != want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", in, got, want)
		}
	}
}

func validConfig() Config {
	return Config{
		SessionSecret: testSecret,
		StorageDriver: StorageLocal,
		PageSize:      8,
		Timezone:      "Asia/Jakarta",
	}
}
