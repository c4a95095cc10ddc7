// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/sociable-app/sociable/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// clientIDCounter assigns stable IDs so broadcast order is consistent.
var clientIDCounter atomic.Uint64

// ChatFunc handles an inbound chat message from an authenticated client.
// The text arrives raw; sanitization happens downstream.
type ChatFunc func(userID int64, username, text string)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn
	send chan Message

	// UserID and Username identify the authenticated owner of this
	// connection. Used for sender exclusion in broadcasts.
	UserID   int64
	Username string

	onChat  ChatFunc
	limiter *rate.Limiter
}

// NewClient creates a client for an authenticated user. ratePerSecond
// and burst bound how fast this connection may submit chat messages.
func NewClient(hub *Hub, conn *websocket.Conn, userID int64, username string, ratePerSecond float64, burst int) *Client {
	return &Client{
		id:       clientIDCounter.Add(1),
		hub:      hub,
		conn:     conn,
		send:     make(chan Message, 256),
		UserID:   userID,
		Username: username,
		limiter:  rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// SetChatHandler installs the inbound chat callback. Must be called
// before Start.
func (c *Client) SetChatHandler(fn ChatFunc) {
	c.onChat = fn
}

// ID returns the client's unique identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// chatPayload is the expected Data shape of an inbound chat frame.
type chatPayload struct {
	Text string `json:"text"`
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Msg("unexpected websocket close error")
			}
			break
		}

		switch msg.Type {
		case MessageTypePing:
			select {
			case c.send <- Message{Type: MessageTypePong}:
			default:
			}

		case MessageTypeChat:
			c.handleChat(msg)
		}
	}
}

// handleChat rate-limits and forwards an inbound chat frame.
func (c *Client) handleChat(msg Message) {
	if c.onChat == nil {
		return
	}
	if !c.limiter.Allow() {
		logging.Warn().
			Str("username", c.Username).
			Msg("chat rate limit exceeded, dropping message")
		return
	}

	// Data arrives as generic JSON; round-trip it into the payload shape.
	raw, err := json.Marshal(msg.Data)
	if err != nil {
		return
	}
	var payload chatPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	c.onChat(c.UserID, c.Username, payload.Text)
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				logging.Error().Err(err).Msg("failed to write JSON message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
