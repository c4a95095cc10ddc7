// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package main is the entry point for the Sociable server.
//
// Sociable is a minimal social networking service: accounts, posts,
// follows, a personalized feed, avatars, and ephemeral live chat.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and optional YAML file (Koanf v2)
//  2. Database: DuckDB holding users, posts, and follows
//  3. Sessions: in-memory or BadgerDB-backed session store
//  4. Event bus: in-process Watermill Pub/Sub for login/logout/chat events
//  5. Websocket hub: live chat fan-out
//  6. Supervisor tree: hub, chat relay, maintenance loops, HTTP server
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): SOCIABLE_-prefixed environment variables, then a
// config file, then built-in defaults.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the hub closes its clients, and the database and
// session store are closed last.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/sociable-app/sociable/internal/api"
	"github.com/sociable-app/sociable/internal/auth"
	"github.com/sociable-app/sociable/internal/avatar"
	"github.com/sociable-app/sociable/internal/cache"
	"github.com/sociable-app/sociable/internal/config"
	"github.com/sociable-app/sociable/internal/database"
	"github.com/sociable-app/sociable/internal/events"
	"github.com/sociable-app/sociable/internal/logging"
	"github.com/sociable-app/sociable/internal/supervisor"
	ws "github.com/sociable-app/sociable/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config not available yet; the default logger will do.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Sociable")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() { _ = db.Close() }()

	sessionStore, closeStore, err := newSessionStore(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer closeStore()

	var jwtManager *auth.JWTManager
	if cfg.Security.JWTSecret != "" {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to configure token auth")
		}
		logging.Info().Msg("Token authentication enabled")
	}

	sessions := auth.NewSessionMiddleware(sessionStore, jwtManager, &auth.SessionMiddlewareConfig{
		CookieName:     cfg.Security.CookieName,
		SessionTTL:     cfg.Security.SessionTimeout,
		SlidingSession: true,
		CookiePath:     "/",
		CookieSecure:   cfg.Security.CookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
	})

	lockout := auth.NewLockoutManager(auth.DefaultLockoutConfig())

	bus := events.NewBus()
	defer func() { _ = bus.Close() }()

	hub := ws.NewHub()

	avatars, err := avatar.NewManager(&cfg.Avatar, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to prepare avatar storage")
	}

	responseCache := cache.New(cfg.Feed.PostCountTTL)
	defer responseCache.Close()

	handler := api.NewHandler(cfg, db, sessions, lockout, jwtManager, bus, hub, avatars, responseCache)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler.NewRouter(),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tree := supervisor.NewTree(slog.New(logging.NewSlogHandler()), supervisor.DefaultTreeConfig())

	tree.AddMessagingService(supervisor.NewHubService(hub))
	tree.AddMessagingService(supervisor.NewChatRelayService(bus, hub))

	tree.AddDataService(supervisor.NewCleanupService("session-cleanup", time.Hour, sessionStore.CleanupExpired))
	tree.AddDataService(supervisor.NewCleanupService("lockout-cleanup", time.Hour,
		func(ctx context.Context) (int, error) {
			return lockout.CleanupExpired(ctx), nil
		}))
	tree.AddDataService(supervisor.NewCleanupService("avatar-orphan-sweep", 6*time.Hour, avatars.CleanupOrphans))

	tree.AddAPIService(supervisor.NewHTTPService(server, shutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Supervisor tree starting")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Fatal().Err(err).Msg("Supervisor tree failed")
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", fmt.Sprint(svc.Service)).Msg("Service did not stop in time")
		}
	}

	logging.Info().Msg("Shutdown complete")
}

// newSessionStore builds the configured session backend. The returned
// close function is a no-op for the in-memory store.
func newSessionStore(cfg *config.SecurityConfig) (auth.SessionStore, func(), error) {
	switch cfg.SessionStore {
	case "badger":
		opts := badger.DefaultOptions(cfg.SessionStorePath).WithLogger(nil)
		bdb, err := badger.Open(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger at %s: %w", cfg.SessionStorePath, err)
		}
		logging.Info().Str("path", cfg.SessionStorePath).Msg("Using BadgerDB session store")
		return auth.NewBadgerSessionStore(bdb), func() { _ = bdb.Close() }, nil
	default:
		return auth.NewMemorySessionStore(), func() {}, nil
	}
}
