// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package models

import "time"

// Post is a user-authored post. Body is stored with all HTML stripped;
// BodyHTML carries the markdown-rendered representation and is only
// populated on single-post reads.
type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Author    string    `json:"author"`
	AvatarURL string    `json:"author_avatar,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	BodyHTML  string    `json:"body_html,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
