// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package websocket implements the live chat transport. A Hub owns the
// set of connected clients and fans broadcasts out to them; each Client
// bridges one gorilla/websocket connection with read/write pumps,
// ping/pong keepalives and a per-connection rate limit on inbound chat.
//
// Chat broadcasts exclude the sender: a user never receives an echo of
// their own message on any of their connections. Slow consumers are
// dropped rather than allowed to stall the hub.
package websocket
