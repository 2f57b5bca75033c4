package websocket

import (
	"sync"

	"github.com/gorilla/websocket"

	"lokapasar/pkg/logger"
)

// Client represents one live WebSocket connection. A user may hold
// several at once (multiple tabs); each is tracked separately.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}
}

// TrySend queues payload without blocking. Returns false when the
// client is closed or its buffer is full. Holding mu for the send
// keeps it mutually exclusive with Close, so a client disconnecting
// mid-broadcast can never turn a queued send into a panic.
func (c *Client) TrySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// Close closes the send channel exactly once. Safe to call
// concurrently with TrySend and with repeated Close calls.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// ReadPump reads client events until the connection drops, then
// unsubscribes the client from everything.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.UnregisterClient(c)
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket: read error for user %s: %v", c.UserID, err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump sends queued payloads until the send channel closes.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Error("WebSocket: write error for user %s: %v", c.UserID, err)
			return
		}
	}
}
