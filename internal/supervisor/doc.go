// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package supervisor provides Suture-based process supervision.
//
// The tree has three layers for failure isolation:
//   - data: periodic maintenance loops (session cleanup, lockout
//     cleanup, avatar orphan sweep)
//   - messaging: the websocket hub and the chat relay
//   - api: the HTTP server
//
// A crash in one layer is restarted by its own supervisor and never
// takes down the others.
package supervisor
