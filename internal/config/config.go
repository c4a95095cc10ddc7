// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration. It is immutable after Load()
// and safe for concurrent read access.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Avatar   AvatarConfig   `koanf:"avatar"`
	Chat     ChatConfig     `koanf:"chat"`
	Feed     FeedConfig     `koanf:"feed"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout is the per-request read/write timeout.
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds DuckDB configuration.
type DatabaseConfig struct {
	// Path is the database file path. Empty means in-memory.
	Path string `koanf:"path"`

	// MaxMemory is the DuckDB memory limit (e.g. "512MB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// SecurityConfig holds authentication and rate limiting configuration.
type SecurityConfig struct {
	// JWTSecret signs API tokens. Minimum 32 characters when set.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is how long sessions and tokens stay valid.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// SessionStore selects the session backend: "memory" or "badger".
	SessionStore string `koanf:"session_store"`

	// SessionStorePath is the BadgerDB directory for the badger store.
	SessionStorePath string `koanf:"session_store_path"`

	// CookieName is the session cookie name.
	CookieName string `koanf:"cookie_name"`

	// CookieSecure sets the Secure flag on the session cookie.
	CookieSecure bool `koanf:"cookie_secure"`

	// RateLimitReqs / RateLimitWindow bound general API traffic per IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// LoginRateLimitReqs / LoginRateLimitWindow bound login attempts per IP.
	LoginRateLimitReqs   int           `koanf:"login_rate_limit_reqs"`
	LoginRateLimitWindow time.Duration `koanf:"login_rate_limit_window"`

	// Password is the policy applied at registration.
	Password PasswordPolicy `koanf:"password"`
}

// AvatarConfig holds avatar upload and storage configuration.
type AvatarConfig struct {
	// Dir is the filesystem directory where avatar files are stored.
	Dir string `koanf:"dir"`

	// PublicPath is the URL prefix under which avatars are served.
	PublicPath string `koanf:"public_path"`

	// Fallback is the well-known avatar path for users without one.
	Fallback string `koanf:"fallback"`

	// Size is the square output dimension in pixels.
	Size int `koanf:"size"`

	// MaxUploadKB is the maximum accepted upload size in kilobytes.
	MaxUploadKB int `koanf:"max_upload_kb"`
}

// ChatConfig holds chat broadcast configuration.
type ChatConfig struct {
	// MaxMessageLen caps the sanitized message length in bytes.
	MaxMessageLen int `koanf:"max_message_len"`

	// RatePerSecond / RateBurst bound outbound messages per sender.
	RatePerSecond float64 `koanf:"rate_per_second"`
	RateBurst     int     `koanf:"rate_burst"`
}

// FeedConfig holds feed composition configuration.
type FeedConfig struct {
	// PageSize is the fixed feed page size.
	PageSize int `koanf:"page_size"`

	// PostCountTTL is how long the guest home page post count is cached.
	PostCountTTL time.Duration `koanf:"post_count_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for inconsistencies.
// It is called by Load() after all layers are merged.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive")
	}
	switch c.Security.SessionStore {
	case "memory", "badger":
	default:
		return fmt.Errorf("security.session_store must be \"memory\" or \"badger\", got %q", c.Security.SessionStore)
	}
	if c.Security.SessionStore == "badger" && c.Security.SessionStorePath == "" {
		return fmt.Errorf("security.session_store_path is required for the badger session store")
	}
	if c.Avatar.Size <= 0 {
		return fmt.Errorf("avatar.size must be positive, got %d", c.Avatar.Size)
	}
	if c.Avatar.MaxUploadKB <= 0 {
		return fmt.Errorf("avatar.max_upload_kb must be positive, got %d", c.Avatar.MaxUploadKB)
	}
	if !strings.HasPrefix(c.Avatar.PublicPath, "/") {
		return fmt.Errorf("avatar.public_path must start with /, got %q", c.Avatar.PublicPath)
	}
	if c.Feed.PageSize <= 0 {
		return fmt.Errorf("feed.page_size must be positive, got %d", c.Feed.PageSize)
	}
	if c.Server.Environment == "production" && c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required in production")
	}
	return nil
}
