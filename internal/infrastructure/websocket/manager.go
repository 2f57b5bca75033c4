package websocket

import (
	"context"
	"sync"

	"lokapasar/pkg/logger"
)

// RoomAuthorizer decides whether a user may subscribe to a room.
// Implemented by the chat use case; the manager itself holds no
// business data.
type RoomAuthorizer interface {
	CanAccessRoom(ctx context.Context, userID, roomID string) error
}

// Manager is the process-local fan-out registry: roomID -> set of live
// clients. It holds no persistent state and is rebuilt from nothing
// after a restart (clients re-subscribe and re-fetch history). It does
// not span replicas; that would need an external relay.
type Manager struct {
	mu          sync.RWMutex
	clients     map[*Client]bool
	rooms       map[string]map[*Client]bool
	clientRooms map[*Client]map[string]bool
	authorizer  RoomAuthorizer
}

func NewManager() *Manager {
	return &Manager{
		clients:     make(map[*Client]bool),
		rooms:       make(map[string]map[*Client]bool),
		clientRooms: make(map[*Client]map[string]bool),
	}
}

func (m *Manager) SetAuthorizer(authorizer RoomAuthorizer) {
	m.authorizer = authorizer
}

func (m *Manager) RegisterClient(client *Client) {
	m.mu.Lock()
	m.clients[client] = true
	m.mu.Unlock()
	logger.Info("WebSocket: client registered for user %s", client.UserID)
}

// UnregisterClient drops the client from every room it is subscribed
// to and closes its send channel. Safe to call more than once.
func (m *Manager) UnregisterClient(client *Client) {
	m.mu.Lock()
	if !m.clients[client] {
		m.mu.Unlock()
		return
	}
	delete(m.clients, client)
	for roomID := range m.clientRooms[client] {
		m.removeFromRoomLocked(roomID, client)
	}
	delete(m.clientRooms, client)
	m.mu.Unlock()

	client.Close()
	logger.Info("WebSocket: client unregistered for user %s", client.UserID)
}

func (m *Manager) Subscribe(client *Client, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.clients[client] {
		return
	}
	if m.rooms[roomID] == nil {
		m.rooms[roomID] = make(map[*Client]bool)
	}
	m.rooms[roomID][client] = true
	if m.clientRooms[client] == nil {
		m.clientRooms[client] = make(map[string]bool)
	}
	m.clientRooms[client][roomID] = true
}

func (m *Manager) Unsubscribe(client *Client, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeFromRoomLocked(roomID, client)
	delete(m.clientRooms[client], roomID)
}

func (m *Manager) removeFromRoomLocked(roomID string, client *Client) {
	if conns, ok := m.rooms[roomID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(m.rooms, roomID)
		}
	}
}

// Publish delivers payload to every client subscribed to the room.
// Delivery is best-effort, at-most-once per connection: a client whose
// send buffer is full is dropped, and it recovers by re-subscribing
// and re-fetching history.
func (m *Manager) Publish(roomID string, payload []byte) {
	m.mu.RLock()
	var receivers []*Client
	for client := range m.rooms[roomID] {
		receivers = append(receivers, client)
	}
	m.mu.RUnlock()

	var dead []*Client
	for _, client := range receivers {
		if !client.TrySend(payload) {
			dead = append(dead, client)
		}
	}

	for _, client := range dead {
		logger.Warn("WebSocket: dropping slow client for user %s", client.UserID)
		m.UnregisterClient(client)
	}
}

// SubscriberCount reports the live subscriptions of a room.
func (m *Manager) SubscriberCount(roomID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[roomID])
}
