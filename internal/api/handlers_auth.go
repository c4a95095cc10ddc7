// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/sociable-app/sociable/internal/auth"
	"github.com/sociable-app/sociable/internal/database"
	"github.com/sociable-app/sociable/internal/logging"
	"github.com/sociable-app/sociable/internal/metrics"
	"github.com/sociable-app/sociable/internal/models"
)

// accountData is the public account representation returned by the auth
// endpoints.
type accountData struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) accountData(u *models.User) accountData {
	return accountData{
		ID:        u.ID,
		Username:  u.Username,
		Avatar:    h.avatars.PublicURL(u.Avatar),
		CreatedAt: u.CreatedAt,
	}
}

// Register creates a new account and logs it in immediately: the
// response carries a fresh session cookie.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	if violations := h.cfg.Security.Password.Validate(req.Password, req.Username); len(violations) > 0 {
		respondError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", violations[0],
			map[string]interface{}{"field": "Password", "violations": violations})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}

	user, err := h.db.CreateUser(r.Context(), req.Username, req.Email, hash)
	switch {
	case errors.Is(err, database.ErrUsernameTaken):
		respondError(w, r, http.StatusConflict, "CONFLICT", "Username is already taken",
			map[string]interface{}{"field": "Username"})
		return
	case errors.Is(err, database.ErrEmailTaken):
		respondError(w, r, http.StatusConflict, "CONFLICT", "Email is already registered",
			map[string]interface{}{"field": "Email"})
		return
	case err != nil:
		respondInternalError(w, r, err)
		return
	}

	if _, err := h.sessions.CreateSession(r.Context(), w, r, user.ID, user.Username); err != nil {
		respondInternalError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("username", user.Username).
		Int64("user_id", user.ID).
		Msg("user registered")

	respondJSON(w, r, http.StatusCreated, h.accountData(user))
}

// Login authenticates with username and password and issues a fresh
// session. Any session ID presented with the request is invalidated
// first so a pre-login ID can never be promoted.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	user, ok := h.checkCredentials(w, r, req.Username, req.Password)
	if !ok {
		return
	}

	if _, err := h.sessions.CreateSession(r.Context(), w, r, user.ID, user.Username); err != nil {
		respondInternalError(w, r, err)
		return
	}

	if err := h.bus.PublishLogin(user.ID, user.Username); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to publish login event")
	}

	respondJSON(w, r, http.StatusOK, h.accountData(user))
}

// Token authenticates with username and password and issues a signed
// API token instead of a session cookie.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if h.jwt == nil {
		respondError(w, r, http.StatusNotImplemented, "TOKEN_AUTH_DISABLED",
			"Token authentication is not configured", nil)
		return
	}

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	user, ok := h.checkCredentials(w, r, req.Username, req.Password)
	if !ok {
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}

	if err := h.bus.PublishLogin(user.ID, user.Username); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to publish login event")
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_at": time.Now().Add(h.cfg.Security.SessionTimeout).UTC(),
	})
}

// checkCredentials verifies username and password against the lockout
// manager and the stored hash. On failure it writes the response and
// returns ok=false. An unknown username and a wrong password are
// indistinguishable in both the error message and the bcrypt work done.
func (h *Handler) checkCredentials(w http.ResponseWriter, r *http.Request, username, password string) (*models.User, bool) {
	if locked, remaining := h.lockout.CheckLocked(r.Context(), username); locked {
		metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()
		respondError(w, r, http.StatusTooManyRequests, "ACCOUNT_LOCKED",
			auth.LockoutRemainingMessage(remaining), nil)
		return nil, false
	}

	user, err := h.db.GetUserByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		respondInternalError(w, r, err)
		return nil, false
	}

	if err == nil {
		err = auth.VerifyPassword(user.PasswordHash, password)
	} else {
		err = auth.VerifyDummyPassword(password)
	}

	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		logging.Ctx(r.Context()).Warn().
			Str("username", sanitizeLogValue(username)).
			Msg("failed login attempt")

		if locked, remaining := h.lockout.RecordFailedAttempt(r.Context(), username); locked {
			respondError(w, r, http.StatusTooManyRequests, "ACCOUNT_LOCKED",
				auth.LockoutRemainingMessage(remaining), nil)
			return nil, false
		}
		respondError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
		return nil, false
	}

	h.lockout.RecordSuccessfulLogin(r.Context(), username)
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return user, true
}

// Logout destroys the current session and clears the cookie. Token
// authenticated requests have no session to destroy; the endpoint still
// succeeds so clients can treat logout uniformly.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	subject := auth.SubjectFromContext(r.Context())

	if subject.SessionID != "" {
		if err := h.sessions.DestroySession(r.Context(), w, subject.SessionID); err != nil {
			respondInternalError(w, r, err)
			return
		}
	} else {
		h.sessions.ClearSessionCookie(w)
	}

	if err := h.bus.PublishLogout(subject.UserID, subject.Username); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to publish logout event")
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{"logged_out": true})
}

// Me returns the authenticated user's own account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject := auth.SubjectFromContext(r.Context())

	user, err := h.db.GetUserByID(r.Context(), subject.UserID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Account no longer exists", nil)
		return
	}
	if err != nil {
		respondInternalError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, h.accountData(user))
}
