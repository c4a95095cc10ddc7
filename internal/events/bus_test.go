// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package events

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
)

func TestBus_PublishSubscribeChat(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := bus.Subscribe(ctx, TopicChatMessage)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	sent := ChatEvent{SenderID: 7, Username: "alice", AvatarURL: "/avatars/7-x.jpg", Text: "hi"}
	if err := bus.PublishChat(sent); err != nil {
		t.Fatalf("PublishChat failed: %v", err)
	}

	select {
	case msg := <-ch:
		got, err := DecodeChatEvent(msg)
		if err != nil {
			t.Fatalf("DecodeChatEvent failed: %v", err)
		}
		msg.Ack()
		if got.SenderID != 7 || got.Username != "alice" || got.Text != "hi" {
			t.Errorf("unexpected event: %+v", got)
		}
		if got.At.IsZero() {
			t.Error("timestamp should be filled in")
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for chat event")
	}
}

func TestBus_MultipleSubscribersEachReceive(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch1, err := bus.Subscribe(ctx, TopicUserLogin)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	ch2, err := bus.Subscribe(ctx, TopicUserLogin)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := bus.PublishLogin(7, "alice"); err != nil {
		t.Fatalf("PublishLogin failed: %v", err)
	}

	assertLogin := func(name string, ch <-chan *message.Message) {
		t.Helper()
		select {
		case msg := <-ch:
			var event LoginEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				t.Fatalf("%s: decode failed: %v", name, err)
			}
			msg.Ack()
			if event.UserID != 7 || event.Username != "alice" {
				t.Errorf("%s: unexpected event %+v", name, event)
			}
		case <-ctx.Done():
			t.Fatalf("%s: timed out waiting for login event", name)
		}
	}

	assertLogin("first subscriber", ch1)
	assertLogin("second subscriber", ch2)
}

func TestBus_SubscriptionEndsWithContext(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx, TopicUserLogout)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	cancel()

	select {
	case _, open := <-ch:
		if open {
			t.Error("expected closed channel after context cancel")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}

func TestDecodeChatEvent_Garbage(t *testing.T) {
	msg := message.NewMessage("id", []byte("{not json"))
	if _, err := DecodeChatEvent(msg); err == nil {
		t.Error("expected decode error for malformed payload")
	}
}
