// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"net/http"

	"github.com/sociable-app/sociable/internal/auth"
	"github.com/sociable-app/sociable/internal/metrics"
	"github.com/sociable-app/sociable/internal/models"
)

// feedData is one page of the personalized feed.
type feedData struct {
	Posts      []models.Post         `json:"posts"`
	Pagination models.PaginationInfo `json:"pagination"`
}

// Feed returns one page of posts authored by the users the
// authenticated user follows, newest first. Pages are 1-based; a page
// past the end is an empty list, not an error.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	subject := auth.SubjectFromContext(r.Context())
	h.respondFeedPage(w, r, subject.UserID, queryPage(r))
}

func (h *Handler) respondFeedPage(w http.ResponseWriter, r *http.Request, userID int64, page int) {
	pageSize := h.cfg.Feed.PageSize

	posts, total, err := h.db.FeedPage(r.Context(), userID, page, pageSize)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	h.decoratePosts(posts)
	metrics.FeedPagesServed.Inc()

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	respondJSON(w, r, http.StatusOK, feedData{
		Posts: posts,
		Pagination: models.PaginationInfo{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Home serves the landing page data: the personalized feed for
// authenticated users, the site-wide post count for guests. The guest
// count is cached briefly so the landing page cannot hammer the
// database.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if subject := auth.SubjectFromContext(r.Context()); subject != nil {
		h.respondFeedPage(w, r, subject.UserID, queryPage(r))
		return
	}

	if cached, ok := h.cache.Get(postCountCacheKey); ok {
		if count, ok := cached.(int64); ok {
			respondCached(w, r, http.StatusOK, map[string]interface{}{"post_count": count}, true)
			return
		}
	}

	count, err := h.db.CountPosts(r.Context())
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	h.cache.SetWithTTL(postCountCacheKey, count, h.cfg.Feed.PostCountTTL)

	respondCached(w, r, http.StatusOK, map[string]interface{}{"post_count": count}, false)
}
