// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package middleware provides HTTP middleware shared across the router:
// request ID propagation and Prometheus instrumentation.
package middleware
