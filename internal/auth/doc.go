// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package auth provides authentication for the service: bcrypt password
// hashing, server-side sessions (in-memory or BadgerDB-backed), stateless
// JWT tokens for API clients, and account lockout after repeated failed
// logins.
//
// Browser clients authenticate with an opaque session cookie; a fresh
// session ID is issued on every successful login so a pre-login ID can
// never be promoted to an authenticated one. API clients may instead send
// a Bearer JWT. Both paths resolve to a Subject in the request context.
package auth
