// internal/ws/hub.go
package ws

import (
	"sync"

	"auctionbackend/internal/logger"
)

// Hub fans outbound events to every connected participant. Broadcast pushes
// onto per-client buffered channels so a slow client can never block the
// engine's critical section; a client whose buffer is full is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

// Register adds a connected client to the fan-out set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()
	logger.LogInfo("Participant %s connected (%d online)", c.identity.Username, count)
}

// Unregister removes a client. Disconnection never mutates auction state.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.closeSend()
	}
	count := len(h.clients)
	h.mu.Unlock()
	logger.LogInfo("Participant %s disconnected (%d online)", c.identity.Username, count)
}

// Broadcast delivers one event to all clients in call order. It satisfies
// the engine's Broadcaster interface; the engine invokes it while holding
// its state mutex, which is what guarantees the ordering.
func (h *Hub) Broadcast(event string, payload interface{}) {
	msg := Out{Type: event, Payload: payload}

	h.mu.Lock()
	var dropped []*Client
	for c := range h.clients {
		if !c.enqueue(msg) {
			dropped = append(dropped, c)
		}
	}
	// closeSend is idempotent and leaves the client's own unicasts as
	// no-ops; its writePump drains what is queued and closes the socket.
	for _, c := range dropped {
		delete(h.clients, c)
		c.closeSend()
	}
	h.mu.Unlock()

	for _, c := range dropped {
		logger.LogWarn("Dropping participant %s: send buffer full", c.identity.Username)
	}
}

// ClientCount reports the number of connected participants.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
