// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sociable-app/sociable/internal/events"
	"github.com/sociable-app/sociable/internal/websocket"
)

// mockServer implements HTTPServer with controllable behavior.
type mockServer struct {
	serveErr   error
	started    chan struct{}
	shutdown   atomic.Bool
	blockServe chan struct{}
}

func newMockServer(serveErr error) *mockServer {
	return &mockServer{
		serveErr:   serveErr,
		started:    make(chan struct{}),
		blockServe: make(chan struct{}),
	}
}

func (m *mockServer) ListenAndServe() error {
	close(m.started)
	if m.serveErr != nil {
		return m.serveErr
	}
	<-m.blockServe
	return nil
}

func (m *mockServer) Shutdown(ctx context.Context) error {
	m.shutdown.Store(true)
	close(m.blockServe)
	return nil
}

func TestHTTPService_GracefulShutdown(t *testing.T) {
	server := newMockServer(nil)
	svc := NewHTTPService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-server.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if !server.shutdown.Load() {
		t.Error("expected Shutdown to be called")
	}
}

func TestHTTPService_StartupFailure(t *testing.T) {
	boom := errors.New("address already in use")
	svc := NewHTTPService(newMockServer(boom), time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, boom) {
		t.Errorf("Serve returned %v, want wrapped startup error", err)
	}
}

func TestHubService_StopsOnCancel(t *testing.T) {
	svc := NewHubService(websocket.NewHub())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub service did not stop")
	}
}

func TestChatRelayService_ConsumesAndStops(t *testing.T) {
	bus := events.NewBus()
	defer func() { _ = bus.Close() }()

	svc := NewChatRelayService(bus, websocket.NewHub())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Give the subscription a moment, then push a message through.
	time.Sleep(50 * time.Millisecond)
	if err := bus.PublishChat(events.ChatEvent{SenderID: 1, Username: "alice", Text: "hi"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("chat relay did not stop")
	}
}

func TestCleanupService_RunsOnInterval(t *testing.T) {
	var runs atomic.Int32
	svc := NewCleanupService("test-cleanup", 20*time.Millisecond, func(ctx context.Context) (int, error) {
		runs.Add(1)
		return 1, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(120 * time.Millisecond)
	cancel()
	<-done

	if runs.Load() < 2 {
		t.Errorf("cleanup ran %d times, want at least 2", runs.Load())
	}
}

func TestCleanupService_SurvivesErrors(t *testing.T) {
	var runs atomic.Int32
	svc := NewCleanupService("flaky-cleanup", 20*time.Millisecond, func(ctx context.Context) (int, error) {
		runs.Add(1)
		return 0, errors.New("transient")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(120 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}

	// An erroring pass must not stop the loop.
	if runs.Load() < 2 {
		t.Errorf("cleanup ran %d times, want at least 2", runs.Load())
	}
}

func TestTree_ServeBackgroundStopsOnCancel(t *testing.T) {
	tree := NewTree(slog.Default(), DefaultTreeConfig())
	tree.AddMessagingService(NewHubService(websocket.NewHub()))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree stopped with %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}
}
