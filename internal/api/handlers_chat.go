// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"context"
	"net/http"
	"unicode/utf8"

	"github.com/sociable-app/sociable/internal/auth"
	"github.com/sociable-app/sociable/internal/events"
	"github.com/sociable-app/sociable/internal/logging"
	"github.com/sociable-app/sociable/internal/metrics"
	"github.com/sociable-app/sociable/internal/sanitize"
)

// SendChat accepts a chat message over HTTP and publishes it to the
// chat topic. A message that is empty after sanitization is dropped
// silently: the client gets a 204 and nothing is broadcast.
func (h *Handler) SendChat(w http.ResponseWriter, r *http.Request) {
	subject := auth.SubjectFromContext(r.Context())

	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	published, err := h.publishChat(r.Context(), subject.UserID, subject.Username, req.Text)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	if !published {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondJSON(w, r, http.StatusAccepted, map[string]interface{}{"broadcast": true})
}

// publishChat sanitizes and publishes one chat message. Returns whether
// a message was actually published; empty-after-sanitization messages
// are dropped without error. Shared by the HTTP endpoint and the
// websocket inbound path.
func (h *Handler) publishChat(ctx context.Context, userID int64, username, text string) (bool, error) {
	text = sanitize.StripTags(text)
	if text == "" {
		return false, nil
	}
	if max := h.cfg.Chat.MaxMessageLen; max > 0 && len(text) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	avatarURL := h.cfg.Avatar.Fallback
	if user, err := h.db.GetUserByID(ctx, userID); err == nil {
		avatarURL = h.avatars.PublicURL(user.Avatar)
	} else {
		logging.Ctx(ctx).Error().Err(err).Int64("user_id", userID).Msg("failed to load chat sender")
	}

	if err := h.bus.PublishChat(events.ChatEvent{
		SenderID:  userID,
		Username:  username,
		AvatarURL: avatarURL,
		Text:      text,
	}); err != nil {
		return false, err
	}

	metrics.ChatMessagesTotal.Inc()
	return true, nil
}
