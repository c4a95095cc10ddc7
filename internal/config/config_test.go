// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration should validate, got: %v", err)
	}
	if cfg.Feed.PageSize != 4 {
		t.Errorf("expected feed page size 4, got %d", cfg.Feed.PageSize)
	}
	if cfg.Avatar.MaxUploadKB != 3000 {
		t.Errorf("expected avatar max upload 3000 KB, got %d", cfg.Avatar.MaxUploadKB)
	}
	if cfg.Avatar.Fallback != "/fallback-avatar.jpg" {
		t.Errorf("unexpected fallback avatar path %q", cfg.Avatar.Fallback)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SOCIABLE_SERVER_PORT", "9001")
	t.Setenv("SOCIABLE_FEED_PAGE_SIZE", "10")
	t.Setenv("SOCIABLE_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("expected port 9001, got %d", cfg.Server.Port)
	}
	if cfg.Feed.PageSize != 10 {
		t.Errorf("expected feed page size 10, got %d", cfg.Feed.PageSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Logging.Level)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "short" }, "jwt_secret"},
		{"bad session store", func(c *Config) { c.Security.SessionStore = "redis" }, "session_store"},
		{"zero avatar size", func(c *Config) { c.Avatar.Size = 0 }, "avatar.size"},
		{"zero page size", func(c *Config) { c.Feed.PageSize = 0 }, "feed.page_size"},
		{"relative public path", func(c *Config) { c.Avatar.PublicPath = "avatars/" }, "public_path"},
		{"production without secret", func(c *Config) { c.Server.Environment = "production" }, "jwt_secret"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got: %v", tc.want, err)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	cases := map[string]string{
		"SOCIABLE_SERVER_PORT":          "server.port",
		"SOCIABLE_SECURITY_JWT_SECRET":  "security.jwt_secret",
		"SOCIABLE_AVATAR_MAX_UPLOAD_KB": "avatar.max_upload_kb",
	}
	for in, want := range cases {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPasswordPolicy_Validate(t *testing.T) {
	policy := DefaultPasswordPolicy()

	if errs := policy.Validate("longenoughsecret", "alice"); len(errs) != 0 {
		t.Errorf("expected no violations, got %v", errs)
	}
	if errs := policy.Validate("short", "alice"); len(errs) == 0 {
		t.Error("expected length violation")
	}
	if errs := policy.Validate("password", "alice"); len(errs) == 0 {
		t.Error("expected common-password violation")
	}
	if errs := policy.Validate("xxalicexx123", "alice"); len(errs) == 0 {
		t.Error("expected username-similarity violation")
	}

	strict := PasswordPolicy{MinLength: 8, RequireUppercase: true, RequireDigit: true}
	if errs := strict.Validate("alllowercase", ""); len(errs) != 2 {
		t.Errorf("expected 2 violations (uppercase, digit), got %v", errs)
	}
}

func TestSessionTimeoutDefault(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Security.SessionTimeout != 24*time.Hour {
		t.Errorf("expected 24h session timeout, got %s", cfg.Security.SessionTimeout)
	}
}
