// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package logging provides centralized zerolog-based logging for Sociable.
//
// All application packages log through this package rather than holding their
// own logger instances. The global logger is configured once at startup via
// Init and is safe for concurrent use.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("component", "api").Msg("server starting")
//	logging.Ctx(ctx).Error().Err(err).Msg("request failed")
//
// Request IDs are propagated through context.Context; Ctx(ctx) returns a
// logger that automatically includes them.
package logging
