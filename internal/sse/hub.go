package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_console/internal/pagination"
	"github.com/GTDGit/gtd_console/internal/store"
)

// EventType defines the SSE event name.
type EventType string

const (
	EventStateChanged EventType = "state"
)

// clientBuffer is the number of snapshots queued per client.
const clientBuffer = 16

// StateEvent is the payload broadcast to console SSE clients.
type StateEvent struct {
	Event     EventType          `json:"event"`
	Version   uint64             `json:"version"`
	State     store.State        `json:"state"`
	Window    *pagination.Window `json:"window,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// Client represents a connected SSE console client.
type Client struct {
	ID     string
	Events chan []byte
}

// Hub fans store snapshots out to SSE clients. It remembers the latest
// snapshot so a client that connects late starts from the current state, and
// a client that falls behind skips stale snapshots rather than the newest one.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*Client
	latest  []byte
	version uint64
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client, primed with the latest snapshot if there is one.
func (h *Hub) Register(clientID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		ID:     clientID,
		Events: make(chan []byte, clientBuffer),
	}
	if h.latest != nil {
		c.Events <- h.latest
	}
	h.clients[clientID] = c
	log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client connected")
	return c
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// Publish stamps event with the next version, records it as the latest
// snapshot and sends it to every client. Never blocks: when a client's buffer
// is full its oldest queued snapshot is discarded to make room.
func (h *Hub) Publish(event *StateEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.version++
	event.Version = h.version
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return
	}
	h.latest = data

	for _, c := range h.clients {
		select {
		case c.Events <- data:
			continue
		default:
		}

		select {
		case <-c.Events:
			log.Warn().Str("client_id", c.ID).Msg("SSE client behind, skipping stale snapshot")
		default:
		}
		select {
		case c.Events <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
