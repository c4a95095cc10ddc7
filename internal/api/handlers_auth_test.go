// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"net/http"
	"testing"
)

func TestRegister_CreatesAccountAndSession(t *testing.T) {
	app := newTestApp(t)

	cookie := app.register(t, "alice")

	// The fresh session cookie must authenticate immediately.
	rec := app.do(t, http.MethodGet, "/api/v1/auth/me", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d, body %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec, "success")
	if got := dataField(t, envelope, "username"); got != "alice" {
		t.Errorf("username = %v, want alice", got)
	}
	if got := dataField(t, envelope, "avatar"); got != "/fallback-avatar.jpg" {
		t.Errorf("avatar = %v, want fallback", got)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice")

	rec := app.do(t, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Username:        "alice",
		Email:           "other@example.com",
		Password:        "correct horse battery",
		PasswordConfirm: "correct horse battery",
	}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	envelope := decodeEnvelope(t, rec, "error")
	if envelope.Error.Code != "CONFLICT" {
		t.Errorf("error code = %q, want CONFLICT", envelope.Error.Code)
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	app := newTestApp(t)

	cases := map[string]RegisterRequest{
		"short username": {
			Username: "al", Email: "a@example.com",
			Password: "correct horse battery", PasswordConfirm: "correct horse battery",
		},
		"bad email": {
			Username: "alice", Email: "not-an-email",
			Password: "correct horse battery", PasswordConfirm: "correct horse battery",
		},
		"password mismatch": {
			Username: "alice", Email: "a@example.com",
			Password: "correct horse battery", PasswordConfirm: "something else here",
		},
		"password too short": {
			Username: "alice", Email: "a@example.com",
			Password: "short", PasswordConfirm: "short",
		},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/api/v1/auth/register", req, nil)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422 (body %s)", rec.Code, rec.Body.String())
			}
			envelope := decodeEnvelope(t, rec, "error")
			if envelope.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error code = %q, want VALIDATION_ERROR", envelope.Error.Code)
			}
		})
	}
}

func TestRegister_PasswordPolicy(t *testing.T) {
	app := newTestApp(t)

	// Contains the username; rejected by the policy, not struct tags.
	rec := app.do(t, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Username:        "alice",
		Email:           "a@example.com",
		Password:        "alice-super-secret",
		PasswordConfirm: "alice-super-secret",
	}, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestLogin_Success(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice")

	rec := app.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Username: "alice",
		Password: "correct horse battery",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if sessionCookie(t, rec, app.handler.sessions.CookieName()) == nil {
		t.Fatal("expected a session cookie on login")
	}
	envelope := decodeEnvelope(t, rec, "success")
	if got := dataField(t, envelope, "username"); got != "alice" {
		t.Errorf("username = %v, want alice", got)
	}
}

func TestLogin_RotatesSessionID(t *testing.T) {
	app := newTestApp(t)
	registered := app.register(t, "alice")

	req := LoginRequest{Username: "alice", Password: "correct horse battery"}
	rec := app.do(t, http.MethodPost, "/api/v1/auth/login", req, registered)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	fresh := sessionCookie(t, rec, app.handler.sessions.CookieName())
	if fresh == nil {
		t.Fatal("expected a session cookie")
	}
	if fresh.Value == registered.Value {
		t.Error("login must issue a new session ID, not reuse the presented one")
	}

	// The pre-login session must be dead.
	rec = app.do(t, http.MethodGet, "/api/v1/auth/me", nil, registered)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("old session: status = %d, want 401", rec.Code)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice")

	for _, req := range []LoginRequest{
		{Username: "alice", Password: "wrong password"},
		{Username: "nobody", Password: "whatever password"},
	} {
		rec := app.do(t, http.MethodPost, "/api/v1/auth/login", req, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("login %s: status = %d, want 401", req.Username, rec.Code)
		}
		envelope := decodeEnvelope(t, rec, "error")
		// Unknown user and wrong password must be indistinguishable.
		if envelope.Error.Message != "Invalid username or password" {
			t.Errorf("message = %q, want generic credentials error", envelope.Error.Message)
		}
	}
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice")

	bad := LoginRequest{Username: "alice", Password: "wrong password"}
	var last int
	for i := 0; i < 3; i++ {
		last = app.do(t, http.MethodPost, "/api/v1/auth/login", bad, nil).Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("third failure: status = %d, want 429", last)
	}

	// Even the correct password is refused while locked.
	rec := app.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Username: "alice", Password: "correct horse battery",
	}, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("locked login: status = %d, want 429", rec.Code)
	}
	envelope := decodeEnvelope(t, rec, "error")
	if envelope.Error.Code != "ACCOUNT_LOCKED" {
		t.Errorf("error code = %q, want ACCOUNT_LOCKED", envelope.Error.Code)
	}
}

func TestToken_DisabledWithoutSecret(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice")

	rec := app.do(t, http.MethodPost, "/api/v1/auth/token", LoginRequest{
		Username: "alice", Password: "correct horse battery",
	}, nil)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "alice")

	rec := app.do(t, http.MethodPost, "/api/v1/auth/logout", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: status %d, body %s", rec.Code, rec.Body.String())
	}

	// The cookie must be cleared and the session destroyed.
	for _, c := range rec.Result().Cookies() {
		if c.Name == app.handler.sessions.CookieName() && c.MaxAge >= 0 {
			t.Error("expected the session cookie to be cleared")
		}
	}
	rec = app.do(t, http.MethodGet, "/api/v1/auth/me", nil, cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: status = %d, want 401", rec.Code)
	}
}

func TestProtectedRoutes_RequireAuth(t *testing.T) {
	app := newTestApp(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/feed"},
		{http.MethodPost, "/api/v1/posts"},
		{http.MethodPost, "/api/v1/users/somebody/follow"},
		{http.MethodPost, "/api/v1/chat"},
	}
	for _, route := range routes {
		rec := app.do(t, route.method, route.path, nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", route.method, route.path, rec.Code)
		}
	}
}
