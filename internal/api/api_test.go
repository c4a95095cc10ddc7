// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/sociable-app/sociable/internal/auth"
	"github.com/sociable-app/sociable/internal/avatar"
	"github.com/sociable-app/sociable/internal/cache"
	"github.com/sociable-app/sociable/internal/config"
	"github.com/sociable-app/sociable/internal/database"
	"github.com/sociable-app/sociable/internal/events"
	"github.com/sociable-app/sociable/internal/models"
	"github.com/sociable-app/sociable/internal/websocket"
)

// testApp bundles the handler, the router and the dependencies tests
// need direct access to.
type testApp struct {
	handler *Handler
	router  chi.Router
	db      *database.DB
	bus     *events.Bus
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:        "127.0.0.1",
			Port:        8080,
			Timeout:     10 * time.Second,
			CORSOrigins: []string{"http://localhost:3000"},
			Environment: "development",
		},
		Database: config.DatabaseConfig{Path: "", Threads: 1},
		Security: config.SecurityConfig{
			SessionTimeout:       time.Hour,
			SessionStore:         "memory",
			CookieName:           "sociable_session",
			RateLimitReqs:        1000,
			RateLimitWindow:      time.Minute,
			LoginRateLimitReqs:   1000,
			LoginRateLimitWindow: time.Minute,
			Password:             config.DefaultPasswordPolicy(),
		},
		Avatar: config.AvatarConfig{
			Dir:         t.TempDir(),
			PublicPath:  "/avatars/",
			Fallback:    "/fallback-avatar.jpg",
			Size:        120,
			MaxUploadKB: 512,
		},
		Chat: config.ChatConfig{MaxMessageLen: 500, RatePerSecond: 10, RateBurst: 20},
		Feed: config.FeedConfig{PageSize: 4, PostCountTTL: 20 * time.Second},
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	sessions := auth.NewSessionMiddleware(auth.NewMemorySessionStore(), nil, &auth.SessionMiddlewareConfig{
		CookieName:     cfg.Security.CookieName,
		SessionTTL:     cfg.Security.SessionTimeout,
		SlidingSession: true,
		CookiePath:     "/",
		CookieSecure:   false,
		CookieSameSite: http.SameSiteLaxMode,
	})

	lockout := auth.NewLockoutManager(&auth.LockoutConfig{
		MaxAttempts:     3,
		LockoutDuration: time.Minute,
		Enabled:         true,
	})

	bus := events.NewBus()
	t.Cleanup(func() { _ = bus.Close() })

	avatars, err := avatar.NewManager(&cfg.Avatar, db)
	if err != nil {
		t.Fatalf("create avatar manager: %v", err)
	}

	responseCache := cache.New(time.Minute)
	t.Cleanup(responseCache.Close)

	h := NewHandler(cfg, db, sessions, lockout, nil, bus, websocket.NewHub(), avatars, responseCache)
	return &testApp{handler: h, router: h.NewRouter(), db: db, bus: bus}
}

// do runs one JSON request through the router. A non-nil session cookie
// is attached to the request.
func (a *testApp) do(t *testing.T, method, path string, body interface{}, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req.AddCookie(session)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns its session
// cookie.
func (a *testApp) register(t *testing.T, username string) *http.Cookie {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "correct horse battery",
		PasswordConfirm: "correct horse battery",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", username, rec.Code, rec.Body.String())
	}

	cookie := sessionCookie(t, rec, a.handler.sessions.CookieName())
	if cookie == nil {
		t.Fatalf("register %s: no session cookie", username)
	}
	return cookie
}

// sessionCookie extracts the named cookie from the response, nil when
// absent or cleared.
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name && c.Value != "" && c.MaxAge >= 0 {
			return c
		}
	}
	return nil
}

// decodeEnvelope unmarshals the response envelope and checks its status
// field.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, wantStatus string) models.APIResponse {
	t.Helper()

	var envelope models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	if envelope.Status != wantStatus {
		t.Fatalf("envelope status = %q, want %q (body %s)", envelope.Status, wantStatus, rec.Body.String())
	}
	if wantStatus == "error" && envelope.Error == nil {
		t.Fatalf("error envelope without error field: %s", rec.Body.String())
	}
	return envelope
}

// dataField digs a field out of the envelope's data object.
func dataField(t *testing.T, envelope models.APIResponse, key string) interface{} {
	t.Helper()
	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("envelope data is %T, want object", envelope.Data)
	}
	value, ok := data[key]
	if !ok {
		t.Fatalf("envelope data has no %q key: %v", key, data)
	}
	return value
}

// createPost creates a post through the API and returns its ID.
func (a *testApp) createPost(t *testing.T, session *http.Cookie, title, body string) int64 {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/v1/posts", CreatePostRequest{Title: title, Body: body}, session)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: status %d, body %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec, "success")
	id, ok := dataField(t, envelope, "id").(float64)
	if !ok {
		t.Fatalf("post id is not numeric")
	}
	return int64(id)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	envelope := decodeEnvelope(t, rec, "success")
	if got := dataField(t, envelope, "status"); got != "ok" {
		t.Errorf("health status = %v, want ok", got)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("expected ETag header on success responses")
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/nope", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/healthz", nil, nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID on every response")
	}
}
