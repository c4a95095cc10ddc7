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

// CreateFollow records that follower follows followed. The operation is
// idempotent: a duplicate edge is a no-op (ON CONFLICT DO NOTHING against
// the UNIQUE(follower_id, followed_id) constraint). Returns whether a new
// edge was created. Self-follows are rejected with ErrSelfFollow.
func (db *DB) CreateFollow(ctx context.Context, followerID, followedID int64) (created bool, err error) {
	defer metrics.ObserveDBQuery("insert", "follows", time.Now(), &err)

	if followerID == followedID {
		return false, ErrSelfFollow
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followed_id)
		 VALUES (?, ?)
		 ON CONFLICT DO NOTHING`,
		followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("insert follow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteFollow removes the follow edge. Returns whether an edge existed.
func (db *DB) DeleteFollow(ctx context.Context, followerID, followedID int64) (deleted bool, err error) {
	defer metrics.ObserveDBQuery("delete", "follows", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("delete follow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// CountFollowers returns how many users follow userID.
func (db *DB) CountFollowers(ctx context.Context, userID int64) (count int64, err error) {
	defer metrics.ObserveDBQuery("count", "follows", time.Now(), &err)
	err = db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM follows WHERE followed_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return count, nil
}

// CountFollowing returns how many users userID follows.
func (db *DB) CountFollowing(ctx context.Context, userID int64) (count int64, err error) {
	defer metrics.ObserveDBQuery("count", "follows", time.Now(), &err)
	err = db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM follows WHERE follower_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count following: %w", err)
	}
	return count, nil
}

// IsFollowing reports whether follower currently follows followed.
// Callers handle the guest case; this always queries.
func (db *DB) IsFollowing(ctx context.Context, followerID, followedID int64) (following bool, err error) {
	defer metrics.ObserveDBQuery("select", "follows", time.Now(), &err)

	var n int
	err = db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check following: %w", err)
	}
	return n > 0, nil
}

// ListFollowers returns the users following userID, newest edge first.
func (db *DB) ListFollowers(ctx context.Context, userID int64) (entries []models.FollowEntry, err error) {
	defer metrics.ObserveDBQuery("select", "follows", time.Now(), &err)
	return db.listFollowEntries(ctx,
		`SELECT u.username, u.avatar, f.created_at
		 FROM follows f JOIN users u ON u.id = f.follower_id
		 WHERE f.followed_id = ?
		 ORDER BY f.created_at DESC, f.id DESC`, userID)
}

// ListFollowing returns the users userID follows, newest edge first.
func (db *DB) ListFollowing(ctx context.Context, userID int64) (entries []models.FollowEntry, err error) {
	defer metrics.ObserveDBQuery("select", "follows", time.Now(), &err)
	return db.listFollowEntries(ctx,
		`SELECT u.username, u.avatar, f.created_at
		 FROM follows f JOIN users u ON u.id = f.followed_id
		 WHERE f.follower_id = ?
		 ORDER BY f.created_at DESC, f.id DESC`, userID)
}

func (db *DB) listFollowEntries(ctx context.Context, query string, userID int64) ([]models.FollowEntry, error) {
	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list follow entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []models.FollowEntry{}
	for rows.Next() {
		var e models.FollowEntry
		if err := rows.Scan(&e.Username, &e.AvatarURL, &e.FollowedAt); err != nil {
			return nil, fmt.Errorf("scan follow entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate follow entries: %w", err)
	}
	return entries, nil
}
