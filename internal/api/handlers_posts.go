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
	"github.com/sociable-app/sociable/internal/sanitize"
)

// decoratePost maps the stored avatar filename on a post row to its
// public URL.
func (h *Handler) decoratePost(p *models.Post) {
	p.AvatarURL = h.avatars.PublicURL(p.AvatarURL)
}

func (h *Handler) decoratePosts(posts []models.Post) {
	for i := range posts {
		h.decoratePost(&posts[i])
	}
}

// CreatePost stores a new post for the authenticated user. Title and
// body are stripped of HTML before persistence; the body keeps its
// markdown source.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	subject := auth.SubjectFromContext(r.Context())

	var req CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	title := sanitize.StripTags(req.Title)
	body := sanitize.StripTags(req.Body)
	if title == "" || body == "" {
		respondError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"Title and body must contain text", nil)
		return
	}

	post, err := h.db.CreatePost(r.Context(), subject.UserID, title, body)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	post.Author = subject.Username

	// The guest home page count is now stale.
	h.cache.Delete(postCountCacheKey)

	logging.Ctx(r.Context()).Info().
		Int64("post_id", post.ID).
		Str("username", subject.Username).
		Msg("post created")

	respondJSON(w, r, http.StatusCreated, post)
}

// GetPost returns a single post with its body rendered from markdown to
// sanitized HTML.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := int64URLParam(r, "postID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Invalid post ID", nil)
		return
	}

	post, err := h.db.GetPost(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Post not found", nil)
		return
	}
	if err != nil {
		respondInternalError(w, r, err)
		return
	}

	html, err := sanitize.RenderMarkdown(post.Body)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	post.BodyHTML = html
	h.decoratePost(post)

	respondJSON(w, r, http.StatusOK, post)
}

// DeletePost removes a post. Only the author may delete it.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	subject := auth.SubjectFromContext(r.Context())

	id, err := int64URLParam(r, "postID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Invalid post ID", nil)
		return
	}

	post, err := h.db.GetPost(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Post not found", nil)
		return
	}
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	if post.UserID != subject.UserID {
		respondError(w, r, http.StatusForbidden, "FORBIDDEN", "Only the author can delete a post", nil)
		return
	}

	deleted, err := h.db.DeletePost(r.Context(), id)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}

	h.cache.Delete(postCountCacheKey)

	respondJSON(w, r, http.StatusOK, map[string]interface{}{"deleted": deleted})
}
