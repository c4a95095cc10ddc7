// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package config provides application configuration loaded with Koanf v2.
//
// Configuration is layered, highest priority last:
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables prefixed with SOCIABLE_
//
// Example: SOCIABLE_SERVER_PORT=9000 overrides server.port.
package config
