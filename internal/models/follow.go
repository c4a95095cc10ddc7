// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package models

import "time"

// FollowEntry is one row of a followers or following list. The edge
// itself is never exposed; (follower_id, followed_id) pairs are unique
// and follow creation is idempotent.
type FollowEntry struct {
	Username   string    `json:"username"`
	AvatarURL  string    `json:"avatar"`
	FollowedAt time.Time `json:"followed_at"`
}
