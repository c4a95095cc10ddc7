// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"errors"
	"net/http"

	"github.com/sociable-app/sociable/internal/auth"
	"github.com/sociable-app/sociable/internal/database"
	"github.com/sociable-app/sociable/internal/logging"
	"github.com/sociable-app/sociable/internal/models"
)

func (h *Handler) decorateFollowEntries(entries []models.FollowEntry) {
	for i := range entries {
		entries[i].AvatarURL = h.avatars.PublicURL(entries[i].AvatarURL)
	}
}

// Follow makes the authenticated user follow the named user. The
// operation is idempotent: following someone already followed succeeds
// without creating a duplicate edge.
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	subject := auth.SubjectFromContext(r.Context())

	target, ok := h.lookupProfileUser(w, r)
	if !ok {
		return
	}

	created, err := h.db.CreateFollow(r.Context(), subject.UserID, target.ID)
	if errors.Is(err, database.ErrSelfFollow) {
		respondError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"You cannot follow yourself", nil)
		return
	}
	if err != nil {
		respondInternalError(w, r, err)
		return
	}

	if created {
		logging.Ctx(r.Context()).Info().
			Str("follower", subject.Username).
			Str("followed", target.Username).
			Msg("follow created")
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"following": true,
		"created":   created,
	})
}

// Unfollow removes the follow edge. Unfollowing someone not followed is
// a no-op that still succeeds.
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	subject := auth.SubjectFromContext(r.Context())

	target, ok := h.lookupProfileUser(w, r)
	if !ok {
		return
	}

	removed, err := h.db.DeleteFollow(r.Context(), subject.UserID, target.ID)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"following": false,
		"removed":   removed,
	})
}

// Followers lists the users following the named user, newest first.
func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupProfileUser(w, r)
	if !ok {
		return
	}

	entries, err := h.db.ListFollowers(r.Context(), user.ID)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	h.decorateFollowEntries(entries)

	respondJSON(w, r, http.StatusOK, map[string]interface{}{"followers": entries})
}

// Following lists the users the named user follows, newest first.
func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupProfileUser(w, r)
	if !ok {
		return
	}

	entries, err := h.db.ListFollowing(r.Context(), user.ID)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	h.decorateFollowEntries(entries)

	respondJSON(w, r, http.StatusOK, map[string]interface{}{"following": entries})
}
