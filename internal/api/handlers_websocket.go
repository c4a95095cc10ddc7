// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"context"
	"net/http"
	"net/url"

	gorilla "github.com/gorilla/websocket"

	"github.com/sociable-app/sociable/internal/auth"
	"github.com/sociable-app/sociable/internal/logging"
	"github.com/sociable-app/sociable/internal/websocket"
)

// ChatWebsocket upgrades the connection and attaches it to the hub.
// Inbound chat frames from the client are sanitized and published to
// the chat topic; the relay broadcasts them back out to every other
// user's connections.
func (h *Handler) ChatWebsocket(w http.ResponseWriter, r *http.Request) {
	subject := auth.SubjectFromContext(r.Context())

	upgrader := gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkWebsocketOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn, subject.UserID, subject.Username,
		h.cfg.Chat.RatePerSecond, h.cfg.Chat.RateBurst)
	client.SetChatHandler(func(userID int64, username, text string) {
		if _, err := h.publishChat(context.Background(), userID, username, text); err != nil {
			logging.Error().Err(err).Str("username", username).Msg("failed to publish chat message")
		}
	})

	h.hub.Register <- client
	client.Start()
}

// checkWebsocketOrigin allows same-host connections and any origin in
// the configured CORS allow-list. A missing Origin header (non-browser
// client) is allowed; the session cookie or token still gates access.
func (h *Handler) checkWebsocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	for _, allowed := range h.cfg.Server.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
