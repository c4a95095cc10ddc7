// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sociable-app/sociable/internal/metrics"
	"github.com/sociable-app/sociable/internal/models"
)

// FeedPage returns one page of the personalized feed for userID: posts
// authored by any user that userID follows, newest first. Pages are
// 1-based. Total is the full feed size for pagination metadata.
//
// The join is on post ownership, so a post appears exactly once regardless
// of how the follows table is populated. A user following nobody gets an
// empty page with total 0.
func (db *DB) FeedPage(ctx context.Context, userID int64, page, pageSize int) (posts []models.Post, total int64, err error) {
	defer metrics.ObserveDBQuery("select", "feed", time.Now(), &err)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return nil, 0, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	offset := (page - 1) * pageSize

	err = db.conn.QueryRowContext(ctx,
		`SELECT count(*)
		 FROM posts p JOIN follows f ON f.followed_id = p.user_id
		 WHERE f.follower_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count feed: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT p.id, p.user_id, u.username, u.avatar, p.title, p.body, p.created_at
		 FROM posts p
		 JOIN follows f ON f.followed_id = p.user_id
		 JOIN users u ON u.id = p.user_id
		 WHERE f.follower_id = ?
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`,
		userID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query feed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts, err = scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
