package websocket

import (
	"encoding/json"
	"sync"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/pkg/logger"
)

// Hub fans store events out to every connected listener. Delivery is
// best-effort: slow listeners are dropped, a full broadcast queue discards
// the event.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

// Run processes registrations and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket listener registered", map[string]interface{}{
				"total_listeners": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket listener unregistered", map[string]interface{}{
				"total_listeners": total,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Send buffer full, disconnect asynchronously.
					go h.Unregister(client)
					logger.Warn("Listener send buffer full, disconnecting", nil)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// StoreCreated broadcasts a newly created store to all listeners. It never
// blocks and never fails the caller; if the queue is full the event is
// dropped.
func (h *Hub) StoreCreated(store *model.Store) {
	data, err := json.Marshal(store)
	if err != nil {
		logger.Error("Failed to marshal store event", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, store event dropped", map[string]interface{}{
			"store_id": store.ID,
		})
	}
}

// Register queues a listener for registration.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister queues a listener for removal.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ListenerCount reports the number of connected listeners.
func (h *Hub) ListenerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
