// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/sociable-app/sociable/internal/logging"
	"github.com/sociable-app/sociable/internal/metrics"
)

// Message types for WebSocket communication
const (
	MessageTypeChat = "chat"
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// Message represents a WebSocket frame in either direction.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// broadcastItem pairs a message with an optional excluded sender. An
// ExcludeUserID of 0 means deliver to everyone.
type broadcastItem struct {
	Message       Message
	ExcludeUserID int64
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan broadcastItem
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan broadcastItem, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub event loop until the context is canceled,
// then closes all clients and returns ctx.Err(). Designed for suture
// supervision.
//
// Selection is priority ordered so behavior stays predictable when
// several channels are ready at once: shutdown first, then client
// lifecycle, then broadcasts.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case item := <-h.broadcast:
			h.broadcastToClients(item)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebsocketConnections.Inc()
	logging.Info().
		Str("username", client.Username).
		Int("total_clients", total).
		Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	removed := false
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		removed = true
	}
	total := len(h.clients)
	h.mu.Unlock()

	if removed {
		metrics.WebsocketConnections.Dec()
		logging.Info().
			Str("username", client.Username).
			Int("total_clients", total).
			Msg("websocket client disconnected")
	}
}

// shutdown closes all clients and logs the reason.
func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	count := len(h.clients)
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WebsocketConnections.Sub(float64(count))

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", count).
		Msg("websocket hub stopped")
}

// broadcastToClients delivers one item to every eligible client in
// stable ID order. Clients whose send buffer is full are disconnected
// so one stalled reader cannot back up the hub.
func (h *Hub) broadcastToClients(item broadcastItem) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		if item.ExcludeUserID != 0 && client.UserID == item.ExcludeUserID {
			continue
		}
		select {
		case client.send <- item.Message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WebsocketConnections.Dec()
		logging.Warn().
			Str("username", client.Username).
			Msg("dropping slow websocket client")
	}
}

// Broadcast queues a message for all connected clients. Drops the
// message if the broadcast buffer is full.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	h.enqueue(broadcastItem{Message: Message{Type: messageType, Data: data}})
}

// BroadcastExcept queues a message for every client except those
// belonging to excludeUserID. All of that user's connections are
// skipped, not just the one that sent the message.
func (h *Hub) BroadcastExcept(excludeUserID int64, messageType string, data interface{}) {
	h.enqueue(broadcastItem{
		Message:       Message{Type: messageType, Data: data},
		ExcludeUserID: excludeUserID,
	})
}

func (h *Hub) enqueue(item broadcastItem) {
	select {
	case h.broadcast <- item:
	default:
		metrics.ChatMessagesDropped.Inc()
		logging.Warn().
			Str("message_type", item.Message.Type).
			Msg("broadcast channel full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
