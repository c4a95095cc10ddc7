// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package avatar implements the profile picture pipeline: decode an
// uploaded image (JPEG, PNG, GIF or WebP), center-crop it square, scale
// it to the configured edge length and store it as JPEG under a
// collision-free filename.
//
// Replacement is ordered so a failure never strands the user without a
// working avatar: the new file is written first, then the user record is
// updated, and only then is the old file removed. A background sweep
// deletes files left orphaned by crashes between those steps.
package avatar
