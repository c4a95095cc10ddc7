// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package auth

import "context"

// Subject identifies the authenticated caller of a request. It is placed
// in the request context by the session middleware, whether the caller
// authenticated with a session cookie or a Bearer token.
type Subject struct {
	// UserID is the user's database ID.
	UserID int64

	// Username is the user's handle.
	Username string

	// SessionID is the backing session's ID. Empty for JWT-authenticated
	// requests, which have no server-side session to destroy.
	SessionID string
}

// subjectContextKey is the private context key for the Subject.
type subjectContextKey struct{}

// ContextWithSubject returns a context carrying the subject.
func ContextWithSubject(ctx context.Context, subject *Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, subject)
}

// SubjectFromContext returns the authenticated subject, or nil for
// guest requests.
func SubjectFromContext(ctx context.Context) *Subject {
	subject, _ := ctx.Value(subjectContextKey{}).(*Subject)
	return subject
}
