package websocket

import (
	"context"
	"encoding/json"
	"time"

	"lokapasar/pkg/logger"
)

// Client event types.
const (
	EventPing      = "ping"
	EventPong      = "pong"
	EventJoinRoom  = "join_room"
	EventLeaveRoom = "leave_room"
	EventError     = "error"

	// Server push types.
	EventNewMessage = "new_message"
)

type Event struct {
	Type      string          `json:"type"`
	RoomID    string          `json:"room_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// NewMessageEvent builds the server push frame for a freshly appended
// message. Marshal errors cannot happen for our own types, but the
// error is surfaced so callers log it.
func NewMessageEvent(roomID string, message interface{}) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{
		Type:      EventNewMessage,
		RoomID:    roomID,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleClientMessage processes one inbound client frame.
func (m *Manager) HandleClientMessage(client *Client, payload []byte) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.Warn("WebSocket: malformed frame from user %s: %v", client.UserID, err)
		m.sendError(client, "invalid message format")
		return
	}

	switch event.Type {
	case EventPing:
		m.sendEvent(client, Event{Type: EventPong})

	case EventJoinRoom:
		m.handleJoinRoom(client, event.RoomID)

	case EventLeaveRoom:
		if event.RoomID == "" {
			m.sendError(client, "missing room_id")
			return
		}
		m.Unsubscribe(client, event.RoomID)
		logger.Info("WebSocket: user %s left room %s", client.UserID, event.RoomID)

	default:
		m.sendError(client, "unknown message type")
	}
}

func (m *Manager) handleJoinRoom(client *Client, roomID string) {
	if roomID == "" {
		m.sendError(client, "missing room_id")
		return
	}

	if m.authorizer != nil {
		if err := m.authorizer.CanAccessRoom(context.Background(), client.UserID, roomID); err != nil {
			logger.Warn("WebSocket: user %s denied access to room %s: %v", client.UserID, roomID, err)
			m.sendError(client, "not a participant of this room")
			return
		}
	}

	m.Subscribe(client, roomID)
	logger.Info("WebSocket: user %s joined room %s", client.UserID, roomID)
}

func (m *Manager) sendEvent(client *Client, event Event) {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("WebSocket: failed to marshal event for user %s: %v", client.UserID, err)
		return
	}

	if !client.TrySend(payload) {
		logger.Warn("WebSocket: send buffer full for user %s, dropping connection", client.UserID)
		m.UnregisterClient(client)
	}
}

func (m *Manager) sendError(client *Client, message string) {
	data, _ := json.Marshal(map[string]string{"error": message})
	m.sendEvent(client, Event{Type: EventError, Data: data})
}
