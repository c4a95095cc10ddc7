// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package auth

import (
	"context"
	"testing"
	"time"
)

func TestLockout_ThresholdLocks(t *testing.T) {
	m := NewLockoutManager(&LockoutConfig{
		MaxAttempts:     3,
		LockoutDuration: time.Minute,
		Enabled:         true,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if locked, _ := m.RecordFailedAttempt(ctx, "alice"); locked {
			t.Fatalf("locked too early after %d attempts", i+1)
		}
	}

	locked, remaining := m.RecordFailedAttempt(ctx, "alice")
	if !locked {
		t.Fatal("expected lockout on third attempt")
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Errorf("unexpected lockout duration: %v", remaining)
	}

	if locked, _ := m.CheckLocked(ctx, "alice"); !locked {
		t.Error("CheckLocked should report locked")
	}
	if locked, _ := m.CheckLocked(ctx, "bob"); locked {
		t.Error("other subjects should be unaffected")
	}
}

func TestLockout_SuccessClearsState(t *testing.T) {
	m := NewLockoutManager(&LockoutConfig{
		MaxAttempts:     3,
		LockoutDuration: time.Minute,
		Enabled:         true,
	})
	ctx := context.Background()

	m.RecordFailedAttempt(ctx, "alice")
	m.RecordFailedAttempt(ctx, "alice")
	m.RecordSuccessfulLogin(ctx, "alice")

	// Counter restarted, so two more failures do not lock.
	m.RecordFailedAttempt(ctx, "alice")
	if locked, _ := m.RecordFailedAttempt(ctx, "alice"); locked {
		t.Error("successful login should have reset the failure counter")
	}
}

func TestLockout_ExponentialBackoff(t *testing.T) {
	cfg := &LockoutConfig{
		MaxAttempts:              1,
		LockoutDuration:          time.Minute,
		EnableExponentialBackoff: true,
		MaxLockoutDuration:       5 * time.Minute,
		Enabled:                  true,
	}
	m := NewLockoutManager(cfg)

	if d := m.lockoutDuration(0); d != time.Minute {
		t.Errorf("first lockout should use base duration, got %v", d)
	}
	if d := m.lockoutDuration(1); d != 2*time.Minute {
		t.Errorf("second lockout should double, got %v", d)
	}
	if d := m.lockoutDuration(10); d != 5*time.Minute {
		t.Errorf("lockout should be capped at max, got %v", d)
	}
}

func TestLockout_Disabled(t *testing.T) {
	m := NewLockoutManager(&LockoutConfig{Enabled: false, MaxAttempts: 1})
	ctx := context.Background()

	if locked, _ := m.RecordFailedAttempt(ctx, "alice"); locked {
		t.Error("disabled lockout should never lock")
	}
	if locked, _ := m.CheckLocked(ctx, "alice"); locked {
		t.Error("disabled lockout should never report locked")
	}
}

func TestLockout_CleanupExpired(t *testing.T) {
	m := NewLockoutManager(DefaultLockoutConfig())
	ctx := context.Background()

	m.entries["stale"] = &LockoutEntry{
		Subject:     "stale",
		LastAttempt: time.Now().Add(-48 * time.Hour),
	}
	m.entries["fresh"] = &LockoutEntry{
		Subject:     "fresh",
		LastAttempt: time.Now(),
	}

	if count := m.CleanupExpired(ctx); count != 1 {
		t.Errorf("expected 1 cleaned entry, got %d", count)
	}
	if _, ok := m.entries["fresh"]; !ok {
		t.Error("fresh entry should survive cleanup")
	}
}
