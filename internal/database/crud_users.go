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
	"strings"
	"time"

	"github.com/sociable-app/sociable/internal/metrics"
	"github.com/sociable-app/sociable/internal/models"
)

// CreateUser inserts a new user and returns it with its assigned ID.
// Username and email uniqueness is checked up front for clean field-level
// errors; the UNIQUE constraints remain as the race backstop.
func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (user *models.User, err error) {
	defer metrics.ObserveDBQuery("insert", "users", time.Now(), &err)

	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	var exists int
	if err = db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM users WHERE username = ?`, username).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists > 0 {
		return nil, ErrUsernameTaken
	}
	if err = db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM users WHERE email = ?`, email).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists > 0 {
		return nil, ErrEmailTaken
	}

	u := &models.User{Username: username, Email: email, PasswordHash: passwordHash}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES (?, ?, ?)
		 RETURNING id, created_at`,
		username, email, passwordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		// Lost the race against a concurrent registration.
		if strings.Contains(strings.ToLower(err.Error()), "email") {
			return nil, ErrEmailTaken
		}
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetUserByID returns the user with the given ID, or ErrNotFound.
func (db *DB) GetUserByID(ctx context.Context, id int64) (user *models.User, err error) {
	defer metrics.ObserveDBQuery("select", "users", time.Now(), &err)
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, avatar, created_at
		 FROM users WHERE id = ?`, id))
}

// GetUserByUsername returns the user with the given username, or ErrNotFound.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (user *models.User, err error) {
	defer metrics.ObserveDBQuery("select", "users", time.Now(), &err)
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, avatar, created_at
		 FROM users WHERE username = ?`, username))
}

func (db *DB) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Avatar, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// ListAvatarFilenames returns every avatar filename currently referenced
// by a user record. Used by orphan cleanup to decide which files in the
// avatar directory are safe to remove.
func (db *DB) ListAvatarFilenames(ctx context.Context) (filenames []string, err error) {
	defer metrics.ObserveDBQuery("select", "users", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `SELECT avatar FROM users WHERE avatar != ''`)
	if err != nil {
		return nil, fmt.Errorf("list avatars: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan avatar: %w", err)
		}
		filenames = append(filenames, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate avatars: %w", err)
	}
	return filenames, nil
}

// UpdateUserAvatar stores the new avatar filename for the user and returns
// the previous filename (empty when the user had no uploaded avatar yet).
func (db *DB) UpdateUserAvatar(ctx context.Context, userID int64, filename string) (previous string, err error) {
	defer metrics.ObserveDBQuery("update", "users", time.Now(), &err)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `SELECT avatar FROM users WHERE id = ?`, userID).Scan(&previous)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read previous avatar: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE users SET avatar = ? WHERE id = ?`, filename, userID); err != nil {
		return "", fmt.Errorf("update avatar: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return previous, nil
}
