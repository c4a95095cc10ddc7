// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package database provides data access for users, posts, and follow edges
// on top of an embedded DuckDB database.
//
// The DB type wraps a database/sql connection pool. Data access methods live
// in crud_users.go, crud_posts.go, and crud_follows.go; the personalized
// feed query lives in feed.go. The schema (sequences, tables, indexes) is
// created on startup by schema.go and is idempotent.
package database
