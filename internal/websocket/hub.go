package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/princekumarofficial/expressions-service/internal/types"
)

// Hub maintains the set of active subscribers and fans catalog events out to
// them.
type Hub struct {
	// Registered clients
	clients map[*Client]struct{}

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Channel to broadcast events
	broadcast chan *types.Event

	// Closed when Run returns
	done chan struct{}

	// Mutex to protect clients map
	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *types.Event, 64),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. It returns when ctx is canceled, after
// closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			slog.Info("WebSocket client connected",
				slog.String("client_id", client.id),
				slog.String("category", client.category))

		case client := <-h.unregister:
			h.remove(client)

		case event := <-h.broadcast:
			h.deliver(event)

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// RegisterClient registers a new client
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// UnregisterClient unregisters a client
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues an event for every client whose filter matches its
// category. The event is dropped when the queue is full.
func (h *Hub) Broadcast(event *types.Event) {
	select {
	case h.broadcast <- event:
	default:
		slog.Warn("Broadcast channel is full, dropping message", slog.String("type", string(event.Type)))
	}
}

func (h *Hub) deliver(event *types.Event) {
	h.mu.RLock()
	var slow []*Client
	for client := range h.clients {
		if !client.wants(event.Category) {
			continue
		}
		if err := client.SendEvent(event); err != nil {
			slog.Warn("Failed to send event to client",
				slog.String("client_id", client.id),
				slog.String("error", err.Error()))
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	// Remove clients that cannot keep up
	for _, client := range slow {
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		slog.Info("WebSocket client disconnected", slog.String("client_id", client.id))
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
