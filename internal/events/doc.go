// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

// Package events provides the in-process event bus. Authentication
// events and chat messages are published to Watermill topics over a
// buffered Go channel Pub/Sub; the chat relay and audit logging
// subscribe independently, so publishers never know who is listening.
package events
