// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"
)

// startHub runs the hub loop and returns a stop function.
func startHub(t *testing.T) (*Hub, func()) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	stop := func() {
		cancel()
		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("unexpected hub exit error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("hub did not stop")
		}
	}
	return hub, stop
}

// register adds a client and waits for the hub to pick it up.
func register(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	hub.Register <- client
	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() == 0 || !hasClient(hub, client) {
		if time.Now().After(deadline) {
			t.Fatal("client not registered in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func hasClient(hub *Hub, client *Client) bool {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return hub.clients[client]
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub, stop := startHub(t)
	defer stop()

	client := NewClient(hub, nil, 7, "alice", 1, 1)
	register(t, hub, client)
	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", hub.ClientCount())
	}

	hub.Unregister <- client
	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client not unregistered in time")
		}
		time.Sleep(time.Millisecond)
	}

	// The hub closes the send channel on unregister.
	select {
	case _, open := <-client.send:
		if open {
			t.Error("send channel should be closed")
		}
	default:
		t.Error("send channel should be closed, not empty")
	}
}

func TestHub_BroadcastExcept_SkipsAllSenderConnections(t *testing.T) {
	hub, stop := startHub(t)
	defer stop()

	senderTab1 := NewClient(hub, nil, 7, "alice", 1, 1)
	senderTab2 := NewClient(hub, nil, 7, "alice", 1, 1)
	other := NewClient(hub, nil, 8, "bob", 1, 1)
	for _, c := range []*Client{senderTab1, senderTab2, other} {
		register(t, hub, c)
	}

	hub.BroadcastExcept(7, MessageTypeChat, map[string]string{"text": "hi"})

	select {
	case msg := <-other.send:
		if msg.Type != MessageTypeChat {
			t.Errorf("expected chat message, got %q", msg.Type)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("other user should receive the broadcast")
	}

	for name, c := range map[string]*Client{"tab1": senderTab1, "tab2": senderTab2} {
		select {
		case msg := <-c.send:
			t.Errorf("sender connection %s should not receive its own message, got %+v", name, msg)
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestHub_Broadcast_ReachesEveryone(t *testing.T) {
	hub, stop := startHub(t)
	defer stop()

	a := NewClient(hub, nil, 7, "alice", 1, 1)
	b := NewClient(hub, nil, 8, "bob", 1, 1)
	register(t, hub, a)
	register(t, hub, b)

	hub.Broadcast(MessageTypeChat, "hello all")

	for name, c := range map[string]*Client{"alice": a, "bob": b} {
		select {
		case <-c.send:
		case <-time.After(5 * time.Second):
			t.Fatalf("%s did not receive broadcast", name)
		}
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub, stop := startHub(t)
	defer stop()

	slow := NewClient(hub, nil, 7, "alice", 1, 1)
	// Fill the send buffer so the next broadcast cannot be queued.
	for i := 0; i < cap(slow.send); i++ {
		slow.send <- Message{Type: MessageTypePong}
	}
	register(t, hub, slow)

	hub.Broadcast(MessageTypeChat, "overflow")

	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not dropped")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	client := NewClient(hub, nil, 7, "alice", 1, 1)
	register(t, hub, client)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("hub did not stop")
	}

	if _, open := <-client.send; open {
		t.Error("client send channel should be closed on shutdown")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients after shutdown, got %d", hub.ClientCount())
	}
}
