package http

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wavelinehq/notifier/internal/domain"
)

// Client represents a connected SSE client.
type Client struct {
	userID int32
	send   chan []byte
}

// Hub manages all active SSE client connections and implements
// domain.BrowserSink. Single-instance model: all delivery is in-process.
type Hub struct {
	mu      sync.RWMutex
	clients map[int32][]*Client
}

// NewHub creates a new SSE Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[int32][]*Client)}
}

// Register adds a new SSE client for a user.
func (h *Hub) Register(userID int32, send chan []byte) *Client {
	c := &Client{userID: userID, send: send}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = append(h.clients[userID], c)

	log.Debug().Int32("user", userID).Msg("SSE client connected")
	return c
}

// Unregister removes an SSE client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[c.userID]
	updated := make([]*Client, 0, len(clients))
	for _, existing := range clients {
		if existing != c {
			updated = append(updated, existing)
		}
	}

	if len(updated) == 0 {
		delete(h.clients, c.userID)
	} else {
		h.clients[c.userID] = updated
	}

	log.Debug().Int32("user", c.userID).Msg("SSE client disconnected")
}

// Deliver sends a notification to all connected SSE clients for a user.
// Users without a live stream are skipped silently — the browser channel
// is best-effort.
func (h *Hub) Deliver(userID int32, msg domain.PushMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.clients[userID]
	if len(clients) == 0 {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	event := append(append([]byte("data: "), payload...), '\n', '\n')

	for _, c := range clients {
		select {
		case c.send <- event:
		default:
			// Client is slow/disconnected, skip
			log.Warn().Int32("user", userID).Msg("SSE client send buffer full, skipping")
		}
	}
}

// ConnectedCount returns the total number of connected SSE clients.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}
