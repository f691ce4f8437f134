// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

// Package websocket streams ETL progress to connected dashboard clients.
//
// The Hub fans out one Message per replaced table while a run is in
// progress, then a single etl_completed or etl_failed message when it
// ends. Clients use the final message as the signal to refetch the
// dashboard, since the dataset cache is cleared at the same moment.
package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/filmdash/internal/etl"
	"github.com/tomtom215/filmdash/internal/logging"
	"github.com/tomtom215/filmdash/internal/models"
)

// Message types sent to clients.
const (
	MessageTypeETLTable     = "etl_table"
	MessageTypeETLCompleted = "etl_completed"
	MessageTypeETLFailed    = "etl_failed"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

// broadcastBuffer bounds the queue between the ETL hooks and the hub loop.
const broadcastBuffer = 256

// Message is the JSON envelope written to every client.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub tracks connected clients and fans broadcasts out to them.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]struct{}
	broadcast chan Message
}

// NewHub creates a hub. Broadcasts are only delivered while Serve runs.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan Message, broadcastBuffer),
	}
}

// Register adds a client to the broadcast set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	logging.Info().Uint64("client_id", c.id).Int("total_clients", total).Msg("websocket client connected")
}

// Unregister removes a client and closes its send channel. Unknown or
// already removed clients are ignored.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	if ok {
		logging.Info().Uint64("client_id", c.id).Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve delivers queued broadcasts until ctx is done, then disconnects
// every client. It implements suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			closed := h.closeAllClients()
			logging.Info().
				Str("component", "websocket-hub").
				Int("clients_closed", closed).
				Msg("websocket hub stopped")
			return ctx.Err()
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) String() string {
	return "websocket-hub"
}

// sortedClients returns the clients in connection order. Caller holds mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// deliver queues msg on every client. A client whose queue is full is
// dropped rather than allowed to stall the others.
func (h *Hub) deliver(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.sortedClients() {
		select {
		case c.send <- msg:
		default:
			delete(h.clients, c)
			close(c.send)
			logging.Warn().Uint64("client_id", c.id).Msg("websocket client too slow, disconnected")
		}
	}
}

func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.sortedClients()
	for _, c := range clients {
		delete(h.clients, c)
		close(c.send)
	}
	return len(clients)
}

// BroadcastJSON queues a message for every client. It never blocks; when
// the queue is full the message is dropped.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// BroadcastTable announces one replaced table. It matches the
// etl.Runner OnTable hook.
func (h *Hub) BroadcastTable(t models.TableResult) {
	h.BroadcastJSON(MessageTypeETLTable, t)
}

// BroadcastRun announces the end of a run. It matches the etl.Runner
// OnComplete and OnFailure hooks.
func (h *Hub) BroadcastRun(_ context.Context, stats *etl.RunStats) {
	if stats == nil {
		return
	}
	msgType := MessageTypeETLCompleted
	if stats.Status == etl.StatusFailed {
		msgType = MessageTypeETLFailed
	}
	h.BroadcastJSON(msgType, stats.ToSummary())
}
