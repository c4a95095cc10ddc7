// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package sanitize centralizes all user-content sanitization.
//
// Chat messages are stripped to plain text with bluemonday's strict
// policy. Post bodies are written in Markdown and rendered with goldmark,
// then filtered through a whitelist policy that admits only basic
// formatting elements (p, ul, ol, li, strong, em, u). Everything the
// service echoes back to a browser passes through one of these two paths.
package sanitize
