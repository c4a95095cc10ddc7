// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps the library behind a thread-safe singleton with a custom
// "username" validator and error translation into the application's
// API error format.
//
// # Quick Start
//
//	type RegisterRequest struct {
//	    Username string `validate:"required,username"`
//	    Email    string `validate:"required,email"`
//	    Password string `validate:"required,min=8"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusUnprocessableEntity, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Custom Validators
//
//   - username: 3-20 characters, letters, digits and underscores only,
//     must start with a letter or digit
//
// The singleton validator caches struct reflection info, so repeated
// validation of the same request types is cheap.
package validation
