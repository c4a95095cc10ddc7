// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package models

// ChatMessage is the payload relayed to connected chat clients. Text and
// AvatarURL are sanitized before the message is published; messages are
// ephemeral and never persisted.
type ChatMessage struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar"`
	Text      string `json:"text"`
}
