// Package ws is the websocket transport: one hub tracks every connected
// client and the rooms used for duo-session broadcasts.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/christophe-asselin/7-differences/internal/model"
)

// Hub manages connected websocket clients and their room memberships
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client          // keyed by socket id
	rooms   map[string]map[*Client]bool // room name -> members
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger.With(slog.String("component", "ws")),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("ws hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client connected",
				slog.String("socket_id", client.ID),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				for room := range client.rooms {
					h.removeFromRoom(client, room)
				}
				close(client.send)
			}
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client disconnected",
				slog.String("socket_id", client.ID),
				slog.Int("total_clients", clientCount))

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				client.enqueue(message)
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.rooms = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			h.logger.Info("ws hub stopped")
			return
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub and every room it joined
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// Broadcast sends an event to every connected client
func (h *Hub) Broadcast(event model.SocketEvent, payload any) {
	message, err := encodeEvent(event, payload)
	if err != nil {
		h.logger.Error("failed to encode broadcast",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("broadcast dropped - hub buffer full",
			slog.String("event", string(event)))
	}
}

// EmitTo sends an event to the single client with the given socket id. It
// reports whether the client was connected.
func (h *Hub) EmitTo(socketID string, event model.SocketEvent, payload any) bool {
	message, err := encodeEvent(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return false
	}

	// Enqueue while holding the lock: the unregister path closes the send
	// channel under the same lock, so an unlocked enqueue could race it
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[socketID]
	if !ok {
		return false
	}
	client.enqueue(message)
	return true
}

// EmitToRoom sends an event to every member of the room
func (h *Hub) EmitToRoom(room string, event model.SocketEvent, payload any) {
	message, err := encodeEvent(event, payload)
	if err != nil {
		h.logger.Error("failed to encode room event",
			slog.String("event", string(event)),
			slog.String("room", room),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	for client := range h.rooms[room] {
		client.enqueue(message)
	}
	h.mu.RUnlock()
}

// JoinRoom adds the client to a room, creating the room on first join
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[room] = members
	}
	members[client] = true
	client.rooms[room] = true
}

// LeaveRoom removes the client from a room, deleting the room once empty
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(client, room)
}

// removeFromRoom must be called with h.mu held
func (h *Hub) removeFromRoom(client *Client, room string) {
	delete(client.rooms, room)
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Client returns the connected client with the given socket id, or nil
func (h *Hub) Client(socketID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[socketID]
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize returns the number of members in a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// encodeEvent marshals an event envelope for the wire
func encodeEvent(event model.SocketEvent, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return json.Marshal(model.Envelope{Event: event, Payload: raw})
}
