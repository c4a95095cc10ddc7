// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sociable-app/sociable/internal/logging"
	"github.com/sociable-app/sociable/internal/metrics"
)

// ErrLockoutNotFound is returned when a lockout entry doesn't exist.
var ErrLockoutNotFound = errors.New("lockout entry not found")

// ErrAccountLocked is returned when authentication is blocked due to lockout.
var ErrAccountLocked = errors.New("account temporarily locked due to too many failed attempts")

// LockoutConfig holds configuration for the account lockout system.
type LockoutConfig struct {
	// MaxAttempts is the number of failed attempts before lockout.
	MaxAttempts int

	// LockoutDuration is the base lockout period.
	LockoutDuration time.Duration

	// EnableExponentialBackoff doubles the lockout period on each
	// subsequent lockout.
	EnableExponentialBackoff bool

	// MaxLockoutDuration caps the lockout period when using exponential backoff.
	MaxLockoutDuration time.Duration

	// Enabled controls whether lockout is active.
	Enabled bool
}

// DefaultLockoutConfig returns sensible defaults.
func DefaultLockoutConfig() *LockoutConfig {
	return &LockoutConfig{
		MaxAttempts:              5,
		LockoutDuration:          15 * time.Minute,
		EnableExponentialBackoff: true,
		MaxLockoutDuration:       24 * time.Hour,
		Enabled:                  true,
	}
}

// LockoutEntry tracks failed login attempts for a username.
type LockoutEntry struct {
	Subject        string
	FailedAttempts int
	LastAttempt    time.Time
	LockoutCount   int
	LockedUntil    time.Time
}

// IsLocked returns true if the entry is currently locked out.
func (e *LockoutEntry) IsLocked() bool {
	return time.Now().Before(e.LockedUntil)
}

// LockoutManager tracks failed logins per username and blocks further
// attempts once the threshold is crossed. State is in-memory: a restart
// clears lockouts, which is acceptable for this service.
type LockoutManager struct {
	config  *LockoutConfig
	mu      sync.Mutex
	entries map[string]*LockoutEntry
}

// NewLockoutManager creates a lockout manager with the given config,
// falling back to defaults when nil.
func NewLockoutManager(config *LockoutConfig) *LockoutManager {
	if config == nil {
		config = DefaultLockoutConfig()
	}
	return &LockoutManager{
		config:  config,
		entries: make(map[string]*LockoutEntry),
	}
}

// CheckLocked reports whether the subject is currently locked out and,
// if so, for how much longer.
func (m *LockoutManager) CheckLocked(ctx context.Context, subject string) (bool, time.Duration) {
	if !m.config.Enabled {
		return false, 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[subject]
	if !ok || !entry.IsLocked() {
		return false, 0
	}
	return true, time.Until(entry.LockedUntil)
}

// RecordFailedAttempt records a failed login and returns whether the
// subject is now locked out.
func (m *LockoutManager) RecordFailedAttempt(ctx context.Context, subject string) (locked bool, remaining time.Duration) {
	if !m.config.Enabled {
		return false, 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[subject]
	if !ok {
		entry = &LockoutEntry{Subject: subject}
		m.entries[subject] = entry
	}

	if entry.IsLocked() {
		return true, time.Until(entry.LockedUntil)
	}

	now := time.Now()
	entry.FailedAttempts++
	entry.LastAttempt = now

	if entry.FailedAttempts < m.config.MaxAttempts {
		return false, 0
	}

	duration := m.lockoutDuration(entry.LockoutCount)
	entry.LockedUntil = now.Add(duration)
	entry.LockoutCount++
	entry.FailedAttempts = 0

	metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()
	logging.Warn().
		Str("subject", subject).
		Dur("duration", duration).
		Int("lockout_count", entry.LockoutCount).
		Msg("Account locked")

	return true, duration
}

// RecordSuccessfulLogin clears the lockout state for a subject.
func (m *LockoutManager) RecordSuccessfulLogin(ctx context.Context, subject string) {
	if !m.config.Enabled {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, subject)
}

// lockoutDuration computes the lockout period with optional exponential
// backoff. Caller holds the lock.
func (m *LockoutManager) lockoutDuration(lockoutCount int) time.Duration {
	duration := m.config.LockoutDuration
	if !m.config.EnableExponentialBackoff || lockoutCount == 0 {
		return duration
	}

	multiplier := 1 << lockoutCount
	duration = time.Duration(int64(duration) * int64(multiplier))
	if duration > m.config.MaxLockoutDuration {
		return m.config.MaxLockoutDuration
	}
	return duration
}

// CleanupExpired removes entries that are unlocked and stale. Entries
// are kept for a day after their last attempt so backoff history
// survives short quiet periods.
func (m *LockoutManager) CleanupExpired(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	threshold := time.Now().Add(-24 * time.Hour)
	count := 0
	for subject, entry := range m.entries {
		if !entry.IsLocked() && entry.LastAttempt.Before(threshold) {
			delete(m.entries, subject)
			count++
		}
	}
	return count
}

// LockoutRemainingMessage formats the user-facing lockout message.
func LockoutRemainingMessage(remaining time.Duration) string {
	return fmt.Sprintf("Too many failed attempts. Try again in %v", remaining.Round(time.Second))
}
