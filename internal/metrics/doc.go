// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package metrics defines the Prometheus instrumentation for Sociable.
// Metrics are registered with promauto on the default registry and exposed
// by the API router at /metrics.
package metrics
