// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package avatar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"

	"github.com/sociable-app/sociable/internal/config"
	"github.com/sociable-app/sociable/internal/logging"
	"github.com/sociable-app/sociable/internal/metrics"
)

// Upload errors surfaced to handlers as 422s.
var (
	// ErrTooLarge is returned when the upload exceeds the configured size cap.
	ErrTooLarge = errors.New("avatar upload exceeds maximum size")

	// ErrUnsupportedFormat is returned when the payload is not a decodable image.
	ErrUnsupportedFormat = errors.New("avatar must be a JPEG, PNG, GIF or WebP image")
)

// Updater persists the avatar filename on the user record and returns
// the previously stored filename. Satisfied by *database.DB.
type Updater interface {
	UpdateUserAvatar(ctx context.Context, userID int64, filename string) (previous string, err error)
	ListAvatarFilenames(ctx context.Context) ([]string, error)
}

// Manager owns the avatar directory and the processing pipeline.
type Manager struct {
	cfg *config.AvatarConfig
	db  Updater
}

// NewManager creates the avatar manager and ensures the storage
// directory exists.
func NewManager(cfg *config.AvatarConfig, db Updater) (*Manager, error) {
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &Manager{cfg: cfg, db: db}, nil
}

// Dir returns the directory avatars are stored in.
func (m *Manager) Dir() string {
	return m.cfg.Dir
}

// PublicURL maps a stored filename to its public URL. An empty filename
// resolves to the fallback avatar.
func (m *Manager) PublicURL(filename string) string {
	if filename == "" {
		return m.cfg.Fallback
	}
	return m.cfg.PublicPath + filename
}

// Replace runs the full pipeline for one upload: validate and process
// the image, write the new file, point the user record at it, then
// remove the previous file. If the record update fails the new file is
// removed so the directory holds no unreferenced uploads.
func (m *Manager) Replace(ctx context.Context, userID int64, upload io.Reader) (filename string, err error) {
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.AvatarUploadsTotal.WithLabelValues(status).Inc()
	}()

	data, err := m.process(upload)
	if err != nil {
		return "", err
	}

	filename = fmt.Sprintf("%d-%s.jpg", userID, uuid.NewString())
	path := filepath.Join(m.cfg.Dir, filename)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write avatar: %w", err)
	}

	previous, err := m.db.UpdateUserAvatar(ctx, userID, filename)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logging.Error().Err(rmErr).Str("file", filename).Msg("Failed to remove avatar after update failure")
		}
		return "", fmt.Errorf("update avatar record: %w", err)
	}

	if previous != "" {
		if rmErr := os.Remove(filepath.Join(m.cfg.Dir, previous)); rmErr != nil && !os.IsNotExist(rmErr) {
			// Leave it for the orphan sweep.
			logging.Warn().Err(rmErr).Str("file", previous).Msg("Failed to remove previous avatar")
		}
	}
	return filename, nil
}

// process decodes, crops and scales the upload, returning JPEG bytes.
func (m *Manager) process(upload io.Reader) ([]byte, error) {
	maxBytes := int64(m.cfg.MaxUploadKB) * 1024
	raw, err := io.ReadAll(io.LimitReader(upload, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, ErrTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupportedFormat
	}

	square := centerCrop(src)
	dst := image.NewRGBA(image.Rect(0, 0, m.cfg.Size, m.cfg.Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), square, square.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}

// centerCrop returns the largest centered square region of src.
func centerCrop(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == h {
		return src
	}

	edge := w
	if h < w {
		edge = h
	}
	x0 := bounds.Min.X + (w-edge)/2
	y0 := bounds.Min.Y + (h-edge)/2
	rect := image.Rect(x0, y0, x0+edge, y0+edge)

	cropped := image.NewRGBA(image.Rect(0, 0, edge, edge))
	draw.Draw(cropped, cropped.Bounds(), src, rect.Min, draw.Src)
	return cropped
}

// CleanupOrphans removes files in the avatar directory that no user
// record references. Returns the number of files removed.
func (m *Manager) CleanupOrphans(ctx context.Context) (int, error) {
	referenced, err := m.db.ListAvatarFilenames(ctx)
	if err != nil {
		return 0, fmt.Errorf("list referenced avatars: %w", err)
	}
	known := make(map[string]bool, len(referenced))
	for _, name := range referenced {
		known[name] = true
	}

	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		return 0, fmt.Errorf("read avatar dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || known[name] || !strings.HasSuffix(name, ".jpg") {
			continue
		}
		if err := os.Remove(filepath.Join(m.cfg.Dir, name)); err != nil {
			logging.Warn().Err(err).Str("file", name).Msg("Failed to remove orphaned avatar")
			continue
		}
		removed++
	}

	if removed > 0 {
		logging.Info().Int("count", removed).Msg("Removed orphaned avatar files")
	}
	return removed, nil
}
