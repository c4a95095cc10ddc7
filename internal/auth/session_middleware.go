// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sociable-app/sociable/internal/logging"
)

// SessionMiddlewareConfig holds configuration for the session middleware.
type SessionMiddlewareConfig struct {
	// CookieName is the name of the session cookie.
	CookieName string

	// SessionTTL is the session time-to-live.
	SessionTTL time.Duration

	// SlidingSession extends session expiry on each authenticated request.
	SlidingSession bool

	// CookiePath is the path for the session cookie.
	CookiePath string

	// CookieSecure sets the Secure flag on the cookie.
	CookieSecure bool

	// CookieSameSite sets the SameSite attribute.
	CookieSameSite http.SameSite
}

// DefaultSessionMiddlewareConfig returns sensible defaults.
func DefaultSessionMiddlewareConfig() *SessionMiddlewareConfig {
	return &SessionMiddlewareConfig{
		CookieName:     "sociable_session",
		SessionTTL:     24 * time.Hour,
		SlidingSession: true,
		CookiePath:     "/",
		CookieSecure:   true,
		CookieSameSite: http.SameSiteLaxMode,
	}
}

// SessionMiddleware authenticates requests from either a session cookie
// or an Authorization Bearer JWT, resolving both to a Subject in the
// request context.
type SessionMiddleware struct {
	store  SessionStore
	jwt    *JWTManager
	config *SessionMiddlewareConfig
}

// NewSessionMiddleware creates a new session middleware. jwtManager may
// be nil to disable Bearer token authentication.
func NewSessionMiddleware(store SessionStore, jwtManager *JWTManager, config *SessionMiddlewareConfig) *SessionMiddleware {
	if config == nil {
		config = DefaultSessionMiddlewareConfig()
	}
	return &SessionMiddleware{
		store:  store,
		jwt:    jwtManager,
		config: config,
	}
}

// Authenticate extracts and validates credentials from the request. On
// success the Subject is set in the request context; otherwise the
// request continues as a guest. Use RequireAuth for protected routes.
func (m *SessionMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subject := m.resolveSubject(r); subject != nil {
			r = r.WithContext(ContextWithSubject(r.Context(), subject))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without a valid session or token with 401.
func (m *SessionMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SubjectFromContext(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"error","data":null,"error":{"code":"UNAUTHORIZED","message":"Authentication required"}}`))
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// resolveSubject tries the session cookie first, then a Bearer token.
func (m *SessionMiddleware) resolveSubject(r *http.Request) *Subject {
	if sessionID := m.extractSessionID(r); sessionID != "" {
		session, err := m.store.Get(r.Context(), sessionID)
		if err == nil {
			if m.config.SlidingSession {
				newExpiry := time.Now().Add(m.config.SessionTTL)
				if touchErr := m.store.Touch(r.Context(), sessionID, newExpiry); touchErr != nil {
					logging.Error().Err(touchErr).Msg("Failed to touch session")
				}
			}
			return &Subject{
				UserID:    session.UserID,
				Username:  session.Username,
				SessionID: session.ID,
			}
		}
		if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
			logging.Error().Err(err).Msg("Session lookup error")
		}
	}

	if m.jwt == nil {
		return nil
	}
	token := extractBearerToken(r)
	if token == "" {
		return nil
	}
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return nil
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil
	}
	return &Subject{
		UserID:   userID,
		Username: claims.Username,
	}
}

// extractSessionID reads the session cookie.
func (m *SessionMiddleware) extractSessionID(r *http.Request) string {
	cookie, err := r.Cookie(m.config.CookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// extractBearerToken reads the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

// SetSessionCookie sets the session cookie on the response.
func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    sessionID,
		Path:     m.config.CookiePath,
		MaxAge:   int(m.config.SessionTTL.Seconds()),
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: m.config.CookieSameSite,
	})
}

// ClearSessionCookie clears the session cookie.
func (m *SessionMiddleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     m.config.CookiePath,
		MaxAge:   -1,
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: m.config.CookieSameSite,
	})
}

// CreateSession issues a fresh session for the user and sets the cookie.
// Any session ID already presented by the request is deleted first so a
// pre-authentication ID can never survive login (session fixation
// protection).
func (m *SessionMiddleware) CreateSession(ctx context.Context, w http.ResponseWriter, r *http.Request, userID int64, username string) (*Session, error) {
	if oldID := m.extractSessionID(r); oldID != "" {
		_ = m.store.Delete(ctx, oldID)
	}

	session := NewSession(userID, username, m.config.SessionTTL)
	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	m.SetSessionCookie(w, session.ID)
	return session, nil
}

// DestroySession destroys the session and clears the cookie.
func (m *SessionMiddleware) DestroySession(ctx context.Context, w http.ResponseWriter, sessionID string) error {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	m.ClearSessionCookie(w)
	return nil
}

// CookieName returns the configured session cookie name.
func (m *SessionMiddleware) CookieName() string {
	return m.config.CookieName
}
