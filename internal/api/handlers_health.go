// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"net/http"
	"time"
)

// Health reports liveness: database reachability, connected chat
// clients, and process uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "UNHEALTHY", "Database is unreachable", nil)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"chat_clients":   h.hub.ClientCount(),
	})
}
