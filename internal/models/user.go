// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package models

import "time"

// User is a registered account.
//
// Avatar holds the stored avatar filename ("{userID}-{unique}.jpg"); empty
// means the user has no uploaded avatar and resolves to the configured
// fallback path. The password hash and email are never serialized into
// public API responses.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"-"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the shared profile header data rendered on every profile view:
// identity, counts, and whether the viewing user currently follows this one.
// CurrentlyFollowing is always false for guests.
type Profile struct {
	Username           string `json:"username"`
	AvatarURL          string `json:"avatar"`
	PostCount          int64  `json:"post_count"`
	FollowersCount     int64  `json:"followers_count"`
	FollowingCount     int64  `json:"following_count"`
	CurrentlyFollowing bool   `json:"currently_following"`
}
