// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

// RegisterRequest creates a new account. Password strength beyond the
// minimum length is checked by the configured password policy, not by
// struct tags.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=20,username"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// LoginRequest authenticates with username and password.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreatePostRequest creates a new post. The body is markdown source;
// embedded HTML is stripped before persistence.
type CreatePostRequest struct {
	Title string `json:"title" validate:"required,max=120"`
	Body  string `json:"body" validate:"required,max=4000"`
}

// ChatRequest submits a chat message over HTTP. A message that is empty
// after sanitization is accepted but not broadcast.
type ChatRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}
