// Package hub provides a channel-based websocket broadcast hub for
// streaming JSON payloads to dashboard clients.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/omtripathi52/deepguard/internal/log"
)

// Hub maintains the set of active clients and fans JSON messages out
// to them. Slow clients are dropped rather than allowed to stall the
// broadcast path.
type Hub struct {
	name string

	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu       sync.RWMutex
	retained []byte
}

// New creates a hub. The name appears in logs.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run drives registration and fan-out. Call it in a goroutine; it
// runs for the life of the process.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			retained := h.retained
			h.mu.Unlock()

			// New clients get the retained payload immediately so
			// they render current state without waiting for the
			// next broadcast.
			if retained != nil {
				select {
				case client.send <- retained:
				default:
				}
			}
			log.Debug("hub client connected", "hub", h.name, "clients", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("hub client disconnected", "hub", h.name, "clients", count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full, the client is too slow to keep
					close(client.send)
					delete(h.clients, client)
					log.Warn("hub dropped slow client", "hub", h.name)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast marshals v and queues it for all connected clients. When
// the broadcast queue is full the message is dropped.
func (h *Hub) Broadcast(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.send(data)
	return nil
}

// BroadcastRetained behaves like Broadcast but also stores the payload
// for delivery to clients that connect later.
func (h *Hub) BroadcastRetained(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.retained = data
	h.mu.Unlock()

	h.send(data)
	return nil
}

func (h *Hub) send(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		log.Warn("hub broadcast queue full, dropping message", "hub", h.name)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
