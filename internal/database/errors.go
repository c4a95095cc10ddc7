// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package database

import (
	"errors"
	"strings"
)

// Sentinel errors for data access failures. Handlers translate these into
// the API error envelope.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already taken")

	// ErrSelfFollow indicates an attempt to follow oneself.
	ErrSelfFollow = errors.New("cannot follow yourself")
)

// isUniqueViolation reports whether err is a DuckDB unique constraint
// violation. DuckDB surfaces these as
// "Constraint Error: Duplicate key ... violates unique constraint".
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
