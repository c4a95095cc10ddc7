// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sociable-app/sociable/internal/middleware"
)

// NewRouter builds the full route tree. Authentication runs on every
// API route so handlers can distinguish guests from logged-in users;
// routes that require a login are additionally wrapped in RequireAuth.
func (h *Handler) NewRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", h.Health)

	// Stored avatars are public, immutable files (every upload gets a
	// fresh name), so long-lived caching is safe.
	avatarFiles := http.StripPrefix(h.cfg.Avatar.PublicPath,
		http.FileServer(http.Dir(h.cfg.Avatar.Dir)))
	r.Get(h.cfg.Avatar.PublicPath+"*", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
		avatarFiles.ServeHTTP(w, req)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(h.cfg.Security.RateLimitReqs, h.cfg.Security.RateLimitWindow))
		r.Use(h.sessions.Authenticate)

		// Credential endpoints get a much stricter limiter.
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(h.cfg.Security.LoginRateLimitReqs, h.cfg.Security.LoginRateLimitWindow))
			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
			r.Post("/auth/token", h.Token)
		})

		r.Get("/home", h.Home)
		r.Get("/posts/{postID}", h.GetPost)
		r.Get("/users/{username}", h.Profile)
		r.Get("/users/{username}/followers", h.Followers)
		r.Get("/users/{username}/following", h.Following)

		r.Group(func(r chi.Router) {
			r.Use(h.sessions.RequireAuth)

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/me", h.Me)

			r.Get("/feed", h.Feed)
			r.Post("/posts", h.CreatePost)
			r.Delete("/posts/{postID}", h.DeletePost)

			r.Post("/users/{username}/follow", h.Follow)
			r.Delete("/users/{username}/follow", h.Unfollow)
			r.Post("/users/me/avatar", h.UploadAvatar)

			r.Post("/chat", h.SendChat)
			r.Get("/chat/ws", h.ChatWebsocket)
		})
	})

	return r
}
