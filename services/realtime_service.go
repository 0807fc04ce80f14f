package services

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pedalpost/pedalpost-api/config"
)

// Realtime event names pushed to connected dashboard clients.
const (
	EventOrderUpdated = "order-updated"
	EventDataUpdate   = "data-update"
)

// Event is the wire envelope for realtime pushes.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub fans events out to connected websocket clients. Delivery is
// best-effort and at-most-once: a failed write drops the client, and clients
// connecting after an event get no replay (they receive a fresh data-update
// snapshot on subscribe instead).
type Hub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

var hubInstance *Hub

// InitHub initializes the realtime hub.
func InitHub() *Hub {
	hubInstance = NewHub()
	return hubInstance
}

// GetHub returns the initialized hub instance
func GetHub() *Hub {
	return hubInstance
}

// SetHub sets the hub instance (primarily for testing)
func SetHub(h *Hub) {
	hubInstance = h
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*websocket.Conn)}
}

// Register adds a connection and returns its client id.
func (h *Hub) Register(conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.clients[id] = conn
	realtimeClients.Set(float64(len(h.clients)))
	h.mu.Unlock()
	return id
}

// Unregister removes and closes a connection.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	if conn, ok := h.clients[id]; ok {
		conn.Close()
		delete(h.clients, id)
	}
	realtimeClients.Set(float64(len(h.clients)))
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends one event to every connected client. Clients whose write
// fails are pruned.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		config.GetLogger().WithField("event", event).WithError(err).Error("failed to encode realtime event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			config.GetLogger().WithField("client", id).WithError(err).Warn("dropping unreachable realtime client")
			conn.Close()
			delete(h.clients, id)
		}
	}
	realtimeClients.Set(float64(len(h.clients)))
}

// Send delivers one event to a single client, pruning it on failure.
func (h *Hub) Send(id, event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		config.GetLogger().WithField("event", event).WithError(err).Error("failed to encode realtime event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	conn, ok := h.clients[id]
	if !ok {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		conn.Close()
		delete(h.clients, id)
		realtimeClients.Set(float64(len(h.clients)))
	}
}
