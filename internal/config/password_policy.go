// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package config

import (
	"strconv"
	"strings"
	"unicode"
)

// PasswordPolicy defines requirements for password strength applied at
// registration. Follows NIST SP 800-63B: length is the primary control,
// composition rules are opt-in.
type PasswordPolicy struct {
	// MinLength is the minimum password length.
	MinLength int `koanf:"min_length"`

	// RequireUppercase requires at least one uppercase letter.
	RequireUppercase bool `koanf:"require_uppercase"`

	// RequireLowercase requires at least one lowercase letter.
	RequireLowercase bool `koanf:"require_lowercase"`

	// RequireDigit requires at least one digit.
	RequireDigit bool `koanf:"require_digit"`

	// ForbidCommonPasswords blocks well-known weak passwords.
	ForbidCommonPasswords bool `koanf:"forbid_common_passwords"`

	// ForbidUsernameSimilarity prevents passwords containing the username.
	ForbidUsernameSimilarity bool `koanf:"forbid_username_similarity"`
}

// DefaultPasswordPolicy returns the registration policy: minimum 8 characters
// plus common-password and username-similarity checks.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:                8,
		RequireUppercase:         false,
		RequireLowercase:         false,
		RequireDigit:             false,
		ForbidCommonPasswords:    true,
		ForbidUsernameSimilarity: true,
	}
}

// commonPasswords is a small deny-list of the most frequently breached
// passwords. Not exhaustive; length requirements do most of the work.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"qwertyuiop": {},
	"iloveyou":   {},
	"letmein1":   {},
	"sunshine":   {},
	"admin123":   {},
	"welcome1":   {},
}

// Validate checks a password against the policy. The username is used for
// the similarity check and may be empty. Returns one message per violation;
// an empty slice means the password is acceptable.
func (p PasswordPolicy) Validate(password, username string) []string {
	var errs []string

	if len(password) < p.MinLength {
		errs = append(errs, "password must be at least "+strconv.Itoa(p.MinLength)+" characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if p.RequireUppercase && !hasUpper {
		errs = append(errs, "password must contain an uppercase letter")
	}
	if p.RequireLowercase && !hasLower {
		errs = append(errs, "password must contain a lowercase letter")
	}
	if p.RequireDigit && !hasDigit {
		errs = append(errs, "password must contain a digit")
	}

	if p.ForbidCommonPasswords {
		if _, ok := commonPasswords[strings.ToLower(password)]; ok {
			errs = append(errs, "password is too common")
		}
	}

	if p.ForbidUsernameSimilarity && username != "" {
		if strings.Contains(strings.ToLower(password), strings.ToLower(username)) {
			errs = append(errs, "password must not contain the username")
		}
	}

	return errs
}
