// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createSchema creates sequences, tables, and indexes. All statements are
// idempotent so startup after a restart is a no-op.
func (db *DB) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range schemaStatements() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema statement: %s: %w", query, err)
		}
	}
	return nil
}

// schemaStatements returns the DDL for the three core tables.
//
// The follows table carries UNIQUE(follower_id, followed_id): follow creation
// uses ON CONFLICT DO NOTHING, making the follow action idempotent and ruling
// out duplicate edges at the storage level.
func schemaStatements() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS users_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS posts_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS follows_id_seq START 1`,

		`CREATE TABLE IF NOT EXISTS users (
			id            BIGINT PRIMARY KEY DEFAULT nextval('users_id_seq'),
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			avatar        TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS posts (
			id         BIGINT PRIMARY KEY DEFAULT nextval('posts_id_seq'),
			user_id    BIGINT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS follows (
			id          BIGINT PRIMARY KEY DEFAULT nextval('follows_id_seq'),
			follower_id BIGINT NOT NULL,
			followed_id BIGINT NOT NULL,
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (follower_id, followed_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_posts_user_created ON posts (user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_follows_follower ON follows (follower_id)`,
		`CREATE INDEX IF NOT EXISTS idx_follows_followed ON follows (followed_id)`,
	}
}
