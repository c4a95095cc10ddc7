// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"time"

	"github.com/sociable-app/sociable/internal/auth"
	"github.com/sociable-app/sociable/internal/avatar"
	"github.com/sociable-app/sociable/internal/cache"
	"github.com/sociable-app/sociable/internal/config"
	"github.com/sociable-app/sociable/internal/database"
	"github.com/sociable-app/sociable/internal/events"
	"github.com/sociable-app/sociable/internal/websocket"
)

// postCountCacheKey is the cache key for the site-wide post count shown
// to guests on the home page.
const postCountCacheKey = "posts:count"

// Handler holds all HTTP handler dependencies.
type Handler struct {
	cfg      *config.Config
	db       *database.DB
	sessions *auth.SessionMiddleware
	lockout  *auth.LockoutManager
	jwt      *auth.JWTManager
	bus      *events.Bus
	hub      *websocket.Hub
	avatars  *avatar.Manager
	cache    *cache.Cache

	startedAt time.Time
}

// NewHandler wires the handler set. jwt may be nil when token
// authentication is not configured.
func NewHandler(
	cfg *config.Config,
	db *database.DB,
	sessions *auth.SessionMiddleware,
	lockout *auth.LockoutManager,
	jwt *auth.JWTManager,
	bus *events.Bus,
	hub *websocket.Hub,
	avatars *avatar.Manager,
	responseCache *cache.Cache,
) *Handler {
	return &Handler{
		cfg:       cfg,
		db:        db,
		sessions:  sessions,
		lockout:   lockout,
		jwt:       jwt,
		bus:       bus,
		hub:       hub,
		avatars:   avatars,
		cache:     responseCache,
		startedAt: time.Now(),
	}
}
