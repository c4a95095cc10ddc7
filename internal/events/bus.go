// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
)

// Topics carried by the bus.
const (
	// TopicUserLogin receives a LoginEvent after each successful login.
	TopicUserLogin = "user.login"

	// TopicUserLogout receives a LogoutEvent when a session is destroyed.
	TopicUserLogout = "user.logout"

	// TopicChatMessage receives a ChatEvent for each accepted chat message.
	TopicChatMessage = "chat.message"
)

// LoginEvent is published after a successful login.
type LoginEvent struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

// LogoutEvent is published when a user logs out.
type LogoutEvent struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

// ChatEvent is published for each accepted chat message. SenderID lets
// the relay exclude the sender's own connections from the broadcast.
type ChatEvent struct {
	SenderID  int64     `json:"sender_id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
	Text      string    `json:"text"`
	At        time.Time `json:"at"`
}

// Bus is the in-process event bus. Publishing is non-blocking up to the
// channel buffer; subscribers each receive their own copy of every
// message.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the bus with a buffered in-process Pub/Sub.
func NewBus() *Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		NewLoggerAdapter(),
	)
	return &Bus{pubsub: pubsub}
}

// Publish marshals payload as JSON and publishes it to topic.
func (b *Bus) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe returns a channel of messages for topic. The subscription
// ends when ctx is canceled.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return ch, nil
}

// Close shuts down the Pub/Sub and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// PublishLogin publishes a LoginEvent.
func (b *Bus) PublishLogin(userID int64, username string) error {
	return b.Publish(TopicUserLogin, LoginEvent{
		UserID:   userID,
		Username: username,
		At:       time.Now(),
	})
}

// PublishLogout publishes a LogoutEvent.
func (b *Bus) PublishLogout(userID int64, username string) error {
	return b.Publish(TopicUserLogout, LogoutEvent{
		UserID:   userID,
		Username: username,
		At:       time.Now(),
	})
}

// PublishChat publishes a ChatEvent.
func (b *Bus) PublishChat(event ChatEvent) error {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	return b.Publish(TopicChatMessage, event)
}

// DecodeChatEvent unmarshals a chat message payload.
func DecodeChatEvent(msg *message.Message) (ChatEvent, error) {
	var event ChatEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return ChatEvent{}, fmt.Errorf("decode chat event: %w", err)
	}
	return event, nil
}
