// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package api

import (
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/sociable-app/sociable/internal/logging"
	"github.com/sociable-app/sociable/internal/models"
	"github.com/sociable-app/sociable/internal/validation"
)

// maxRequestBody caps JSON request bodies. Avatar uploads have their
// own multipart limit.
const maxRequestBody = 64 * 1024

// respondJSON writes a success envelope with the given status code.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondEnvelope(w, r, status, models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// respondCached is respondJSON for data served from the in-memory
// cache; the envelope metadata marks the response as cached.
func respondCached(w http.ResponseWriter, r *http.Request, status int, data interface{}, cached bool) {
	respondEnvelope(w, r, status, models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now().UTC(), Cached: cached},
	})
}

// respondError writes an error envelope and logs it with the request
// context. User-supplied values in message must already be sanitized.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	logging.Ctx(r.Context()).Debug().
		Int("status", status).
		Str("code", code).
		Str("path", r.URL.Path).
		Msg(message)

	respondEnvelope(w, r, status, models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondInternalError logs the underlying error and returns a generic
// 500 so internals never leak to clients.
func respondInternalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Error().
		Err(err).
		Str("path", r.URL.Path).
		Msg("request failed")
	respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

func respondEnvelope(w http.ResponseWriter, r *http.Request, status int, envelope models.APIResponse) {
	body, err := json.Marshal(envelope)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","data":null,"error":{"code":"INTERNAL_ERROR","message":"Failed to encode response"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if status < 400 {
		w.Header().Set("ETag", etagFor(body))
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// etagFor computes a weak ETag over the serialized body. FNV-1a is
// enough here; the tag only needs to change when the body does.
func etagFor(body []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(body)
	return fmt.Sprintf(`W/"%x"`, h.Sum64())
}

// decodeJSON reads and unmarshals the request body into dst. Returns
// false after writing the error response itself.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read request body", nil)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", nil)
		return false
	}
	return true
}

// validateRequest runs struct validation and writes the 422 itself on
// failure. Returns true when the request is valid.
func validateRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	verr := validation.ValidateStruct(req)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	respondError(w, r, http.StatusUnprocessableEntity, apiErr.Code, apiErr.Message, apiErr.Details)
	return false
}

// int64URLParam parses a numeric chi URL parameter.
func int64URLParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// queryPage reads the 1-based ?page query parameter, defaulting to 1.
func queryPage(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// sanitizeLogValue strips control characters from user-supplied strings
// before they reach a log line.
func sanitizeLogValue(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	if len(s) > 128 {
		s = s[:128]
	}
	return s
}
