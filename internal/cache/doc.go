// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package cache provides a thread-safe in-memory cache with per-entry TTL.
// It backs short-lived aggregates such as the guest home page post count,
// keeping anonymous traffic off the database between refreshes.
package cache
