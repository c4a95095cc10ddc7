// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/sociable/config.yaml",
	"/etc/sociable/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces all environment variable overrides.
const envPrefix = "SOCIABLE_"

// defaultConfig returns a Config with all default values. These are applied
// first and then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			CORSOrigins: []string{"*"},
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "./data/sociable.duckdb",
			MaxMemory: "512MB",
			Threads:   0, // 0 = runtime.NumCPU()
		},
		Security: SecurityConfig{
			JWTSecret:            "",
			SessionTimeout:       24 * time.Hour,
			SessionStore:         "memory",
			SessionStorePath:     "./data/sessions",
			CookieName:           "sociable_session",
			CookieSecure:         false,
			RateLimitReqs:        100,
			RateLimitWindow:      time.Minute,
			LoginRateLimitReqs:   5,
			LoginRateLimitWindow: 5 * time.Minute,
			Password:             DefaultPasswordPolicy(),
		},
		Avatar: AvatarConfig{
			Dir:         "./data/avatars",
			PublicPath:  "/avatars/",
			Fallback:    "/fallback-avatar.jpg",
			Size:        120,
			MaxUploadKB: 3000,
		},
		Chat: ChatConfig{
			MaxMessageLen: 2000,
			RatePerSecond: 2,
			RateBurst:     5,
		},
		Feed: FeedConfig{
			PageSize:     4,
			PostCountTTL: 20 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
// built-in defaults, then an optional YAML file, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SOCIABLE_SERVER_PORT -> server.port
	// SOCIABLE_SECURITY_SESSION_TIMEOUT -> security.session_timeout
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envTransformFunc maps an environment variable name to a koanf path.
// Only the first underscore becomes a section separator; the rest belong to
// the key (SOCIABLE_AVATAR_MAX_UPLOAD_KB -> avatar.max_upload_kb).
func envTransformFunc(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		return ""
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
