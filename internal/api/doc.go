// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package api implements the HTTP surface: the chi router, the JSON
// request/response envelope, and one handler file per domain area
// (auth, posts, profiles, follows, feed, avatars, chat).
//
// All endpoints respond with models.APIResponse. Handlers stay thin:
// decode, validate, call into the domain packages, translate errors to
// API error codes.
package api
