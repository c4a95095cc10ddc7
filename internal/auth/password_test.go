// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("expected bcrypt hash, got %q", hash)
	}
	if err := VerifyPassword(hash, "correct-horse-battery"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("right-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if err := VerifyPassword(hash, "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyDummyPassword_AlwaysFails(t *testing.T) {
	for _, pw := range []string{"", "guess", strings.Repeat("x", 72)} {
		if err := VerifyDummyPassword(pw); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("VerifyDummyPassword(%q) = %v, want ErrInvalidCredentials", pw, err)
		}
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, _ := HashPassword("same-password")
	h2, _ := HashPassword("same-password")
	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}
