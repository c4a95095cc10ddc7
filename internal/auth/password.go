// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any username/password mismatch.
// Callers must not distinguish unknown-user from wrong-password in
// responses.
var ErrInvalidCredentials = errors.New("invalid username or password")

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt
// hash. Returns ErrInvalidCredentials on mismatch.
func VerifyPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	return nil
}

// dummyHash is a hash of an unguessable value, compared against when no
// account matches the presented username.
var dummyHash, _ = HashPassword("b6c1e9d4-no-such-account-sentinel")

// VerifyDummyPassword burns the same bcrypt work as a real comparison
// and always returns ErrInvalidCredentials, so a failed login takes the
// same time whether or not the username exists.
func VerifyDummyPassword(password string) error {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
	return ErrInvalidCredentials
}
