// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sociable-app/sociable/internal/auth"
	"github.com/sociable-app/sociable/internal/database"
	"github.com/sociable-app/sociable/internal/models"
)

// profileData bundles the profile header with the user's posts.
type profileData struct {
	Profile models.Profile `json:"profile"`
	Posts   []models.Post  `json:"posts"`
}

// lookupProfileUser resolves the {username} URL parameter to a user,
// writing the 404 itself when absent.
func (h *Handler) lookupProfileUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	username := chi.URLParam(r, "username")
	user, err := h.db.GetUserByUsername(r.Context(), username)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
		return nil, false
	}
	if err != nil {
		respondInternalError(w, r, err)
		return nil, false
	}
	return user, true
}

// Profile returns a user's profile header and their posts, newest
// first. CurrentlyFollowing reflects the viewing user and is always
// false for guests and for the profile owner.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupProfileUser(w, r)
	if !ok {
		return
	}

	postCount, err := h.db.CountPostsByUser(r.Context(), user.ID)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	followers, err := h.db.CountFollowers(r.Context(), user.ID)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	following, err := h.db.CountFollowing(r.Context(), user.ID)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}

	currentlyFollowing := false
	if subject := auth.SubjectFromContext(r.Context()); subject != nil && subject.UserID != user.ID {
		currentlyFollowing, err = h.db.IsFollowing(r.Context(), subject.UserID, user.ID)
		if err != nil {
			respondInternalError(w, r, err)
			return
		}
	}

	posts, err := h.db.ListPostsByUser(r.Context(), user.ID)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	h.decoratePosts(posts)

	respondJSON(w, r, http.StatusOK, profileData{
		Profile: models.Profile{
			Username:           user.Username,
			AvatarURL:          h.avatars.PublicURL(user.Avatar),
			PostCount:          postCount,
			FollowersCount:     followers,
			FollowingCount:     following,
			CurrentlyFollowing: currentlyFollowing,
		},
		Posts: posts,
	})
}
