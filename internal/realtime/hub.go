package realtime

import (
	"context"
	"log"
	"sync"

	"github.com/revkonstriksyon/fluid-finance-api/internal/events"
)

const clientBufferSize = 16

// client is one live SSE connection scoped to a user.
type client struct {
	userID string
	ch     chan events.Event
}

// Hub routes events from the streams to connected clients. Every
// connection only ever sees events addressed to its own user; a client
// that cannot keep up is dropped rather than blocking the fan-out.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Subscribe registers a connection for userID. The returned channel
// carries that user's events; call the cancel func when the connection
// closes.
func (h *Hub) Subscribe(userID string) (<-chan events.Event, func()) {
	c := &client{userID: userID, ch: make(chan events.Event, clientBufferSize)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	return c.ch, func() { h.remove(c) }
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.ch)
	}
	h.mu.Unlock()
}

// Dispatch delivers an event to every connection belonging to one of
// its recipients. Events with no user scoping are dropped: nothing in
// the feed is broadcast.
func (h *Hub) Dispatch(event events.Event) {
	recipients := event.Recipients()
	if len(recipients) == 0 {
		return
	}

	var dropped []*client

	h.mu.RLock()
	for c := range h.clients {
		if !contains(recipients, c.userID) {
			continue
		}
		select {
		case c.ch <- event:
		default:
			dropped = append(dropped, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range dropped {
		log.Printf("Dropping slow realtime client for user %s", c.userID)
		h.remove(c)
	}
}

// HandleEvent adapts Dispatch to the subscriber handler signature.
func (h *Hub) HandleEvent(_ context.Context, event events.Event) error {
	h.Dispatch(event)
	return nil
}

// ClientCount reports the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
