// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sociable-app/sociable/internal/metrics"
	"github.com/sociable-app/sociable/internal/models"
)

// CreatePost inserts a new post for the given author. Title and body are
// expected to be sanitized by the caller before persistence.
func (db *DB) CreatePost(ctx context.Context, userID int64, title, body string) (post *models.Post, err error) {
	defer metrics.ObserveDBQuery("insert", "posts", time.Now(), &err)

	p := &models.Post{UserID: userID, Title: title, Body: body}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO posts (user_id, title, body)
		 VALUES (?, ?, ?)
		 RETURNING id, created_at`,
		userID, title, body,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// GetPost returns a single post with its author's username and avatar
// filename, or ErrNotFound.
func (db *DB) GetPost(ctx context.Context, id int64) (post *models.Post, err error) {
	defer metrics.ObserveDBQuery("select", "posts", time.Now(), &err)

	var p models.Post
	err = db.conn.QueryRowContext(ctx,
		`SELECT p.id, p.user_id, u.username, u.avatar, p.title, p.body, p.created_at
		 FROM posts p JOIN users u ON u.id = p.user_id
		 WHERE p.id = ?`, id,
	).Scan(&p.ID, &p.UserID, &p.Author, &p.AvatarURL, &p.Title, &p.Body, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &p, nil
}

// DeletePost removes a post by ID. Ownership is checked by the caller; this
// method reports whether a row was actually deleted.
func (db *DB) DeletePost(ctx context.Context, id int64) (deleted bool, err error) {
	defer metrics.ObserveDBQuery("delete", "posts", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListPostsByUser returns all posts authored by the user, newest first.
func (db *DB) ListPostsByUser(ctx context.Context, userID int64) (posts []models.Post, err error) {
	defer metrics.ObserveDBQuery("select", "posts", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT p.id, p.user_id, u.username, u.avatar, p.title, p.body, p.created_at
		 FROM posts p JOIN users u ON u.id = p.user_id
		 WHERE p.user_id = ?
		 ORDER BY p.created_at DESC, p.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanPosts(rows)
}

// CountPosts returns the site-wide post count (guest home page).
func (db *DB) CountPosts(ctx context.Context) (count int64, err error) {
	defer metrics.ObserveDBQuery("count", "posts", time.Now(), &err)
	err = db.conn.QueryRowContext(ctx, `SELECT count(*) FROM posts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// CountPostsByUser returns the number of posts authored by the user.
func (db *DB) CountPostsByUser(ctx context.Context, userID int64) (count int64, err error) {
	defer metrics.ObserveDBQuery("count", "posts", time.Now(), &err)
	err = db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM posts WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts by user: %w", err)
	}
	return count, nil
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Author, &p.AvatarURL, &p.Title, &p.Body, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}
