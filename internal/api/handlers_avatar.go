// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"errors"
	"net/http"

	"github.com/sociable-app/sociable/internal/auth"
	"github.com/sociable-app/sociable/internal/avatar"
	"github.com/sociable-app/sociable/internal/logging"
)

// UploadAvatar accepts a multipart upload in the "avatar" form field,
// processes it into the square JPEG served for this user, and removes
// the previously stored file.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	subject := auth.SubjectFromContext(r.Context())

	// Headroom for multipart framing so the pipeline's own size check,
	// with its clearer error, fires before MaxBytesReader does.
	maxBytes := int64(h.cfg.Avatar.MaxUploadKB+64) * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, _, err := r.FormFile("avatar")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST",
			`Multipart form field "avatar" is required`, nil)
		return
	}
	defer func() { _ = file.Close() }()

	filename, err := h.avatars.Replace(r.Context(), subject.UserID, file)
	switch {
	case errors.Is(err, avatar.ErrTooLarge):
		respondError(w, r, http.StatusUnprocessableEntity, "AVATAR_TOO_LARGE", err.Error(), nil)
		return
	case errors.Is(err, avatar.ErrUnsupportedFormat):
		respondError(w, r, http.StatusUnprocessableEntity, "UNSUPPORTED_FORMAT", err.Error(), nil)
		return
	case err != nil:
		respondInternalError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("username", subject.Username).
		Str("file", filename).
		Msg("avatar replaced")

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"avatar": h.avatars.PublicURL(filename),
	})
}
