// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sociable-app/sociable/internal/events"
	"github.com/sociable-app/sociable/internal/logging"
	"github.com/sociable-app/sociable/internal/models"
	"github.com/sociable-app/sociable/internal/websocket"
)

// HTTPServer matches *http.Server's lifecycle methods so the service
// can be tested with a mock.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPService wraps an HTTP server as a supervised service, bridging
// the blocking ListenAndServe pattern to suture's context-aware Serve.
type HTTPService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
}

// NewHTTPService creates the HTTP server service wrapper.
func NewHTTPService(server HTTPServer, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPService{server: server, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service. http.ErrServerClosed is expected on
// shutdown and converted to the context error.
func (s *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// The original context is already canceled; shutdown gets its own.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (s *HTTPService) String() string {
	return "http-server"
}

// HubService runs the websocket hub under supervision.
type HubService struct {
	hub *websocket.Hub
}

// NewHubService wraps the hub as a supervised service.
func NewHubService(hub *websocket.Hub) *HubService {
	return &HubService{hub: hub}
}

// Serve implements suture.Service.
func (s *HubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

func (s *HubService) String() string {
	return "websocket-hub"
}

// ChatRelayService subscribes to the chat topic and fans each message
// out to the hub, skipping every connection owned by the sender.
type ChatRelayService struct {
	bus *events.Bus
	hub *websocket.Hub
}

// NewChatRelayService creates the relay between the event bus and the
// websocket hub.
func NewChatRelayService(bus *events.Bus, hub *websocket.Hub) *ChatRelayService {
	return &ChatRelayService{bus: bus, hub: hub}
}

// Serve implements suture.Service. The subscription is scoped to ctx;
// when the bus closes the channel the service returns and suture
// restarts it.
func (s *ChatRelayService) Serve(ctx context.Context) error {
	messages, err := s.bus.Subscribe(ctx, events.TopicChatMessage)
	if err != nil {
		return fmt.Errorf("subscribe chat topic: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return ctx.Err()
			}
			event, err := events.DecodeChatEvent(msg)
			msg.Ack()
			if err != nil {
				logging.Error().Err(err).Msg("dropping undecodable chat event")
				continue
			}
			s.hub.BroadcastExcept(event.SenderID, websocket.MessageTypeChat, models.ChatMessage{
				Username:  event.Username,
				AvatarURL: event.AvatarURL,
				Text:      event.Text,
			})
		}
	}
}

func (s *ChatRelayService) String() string {
	return "chat-relay"
}

// CleanupFunc is one maintenance pass. The returned count is logged.
type CleanupFunc func(ctx context.Context) (int, error)

// CleanupService runs a maintenance function on a fixed interval.
// Used for session expiry, lockout pruning, and the avatar orphan
// sweep.
type CleanupService struct {
	name     string
	interval time.Duration
	fn       CleanupFunc
}

// NewCleanupService creates a periodic maintenance service.
func NewCleanupService(name string, interval time.Duration, fn CleanupFunc) *CleanupService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CleanupService{name: name, interval: interval, fn: fn}
}

// Serve implements suture.Service.
func (s *CleanupService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			count, err := s.fn(ctx)
			if err != nil {
				logging.Error().Err(err).Str("service", s.name).Msg("cleanup pass failed")
				continue
			}
			if count > 0 {
				logging.Info().Str("service", s.name).Int("removed", count).Msg("cleanup pass complete")
			}
		}
	}
}

func (s *CleanupService) String() string {
	return s.name
}
