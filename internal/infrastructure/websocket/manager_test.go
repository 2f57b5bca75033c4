package websocket

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID string, buffer int) *Client {
	return &Client{
		UserID: userID,
		Send:   make(chan []byte, buffer),
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	m := NewManager()

	a := newTestClient("user-a", 4)
	b := newTestClient("user-b", 4)
	m.RegisterClient(a)
	m.RegisterClient(b)
	m.Subscribe(a, "room-1")
	m.Subscribe(b, "room-1")

	m.Publish("room-1", []byte("hello"))

	assert.Equal(t, "hello", string(<-a.Send))
	assert.Equal(t, "hello", string(<-b.Send))
}

func TestPublishToEmptyRoomIsNoop(t *testing.T) {
	m := NewManager()

	// No subscribers: must not panic or block.
	m.Publish("room-1", []byte("hello"))
	assert.Equal(t, 0, m.SubscriberCount("room-1"))
}

func TestPublishSkipsOtherRooms(t *testing.T) {
	m := NewManager()

	a := newTestClient("user-a", 4)
	m.RegisterClient(a)
	m.Subscribe(a, "room-1")

	m.Publish("room-2", []byte("elsewhere"))

	select {
	case payload := <-a.Send:
		t.Fatalf("unexpected delivery: %s", payload)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	m := NewManager()

	a := newTestClient("user-a", 4)
	m.RegisterClient(a)
	m.Subscribe(a, "room-1")
	m.Unsubscribe(a, "room-1")

	m.Publish("room-1", []byte("hello"))

	assert.Equal(t, 0, m.SubscriberCount("room-1"))
	assert.Empty(t, a.Send)
}

func TestUnregisterRemovesAllSubscriptions(t *testing.T) {
	m := NewManager()

	a := newTestClient("user-a", 4)
	m.RegisterClient(a)
	m.Subscribe(a, "room-1")
	m.Subscribe(a, "room-2")

	m.UnregisterClient(a)

	assert.Equal(t, 0, m.SubscriberCount("room-1"))
	assert.Equal(t, 0, m.SubscriberCount("room-2"))

	// Send channel is closed so the write pump exits.
	_, open := <-a.Send
	assert.False(t, open)

	// A second unregister is a no-op, not a double close.
	m.UnregisterClient(a)
}

func TestSubscribeRequiresRegisteredClient(t *testing.T) {
	m := NewManager()

	a := newTestClient("user-a", 4)
	m.Subscribe(a, "room-1")

	assert.Equal(t, 0, m.SubscriberCount("room-1"))
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	m := NewManager()

	slow := newTestClient("slow", 1)
	fast := newTestClient("fast", 4)
	m.RegisterClient(slow)
	m.RegisterClient(fast)
	m.Subscribe(slow, "room-1")
	m.Subscribe(fast, "room-1")

	// Fill the slow client's buffer, then publish again: the slow
	// client is dropped, the fast one keeps receiving.
	m.Publish("room-1", []byte("one"))
	m.Publish("room-1", []byte("two"))

	assert.Equal(t, 1, m.SubscriberCount("room-1"))

	require.Equal(t, "one", string(<-fast.Send))
	require.Equal(t, "two", string(<-fast.Send))

	// The dropped client got the first payload, then a closed channel.
	assert.Equal(t, "one", string(<-slow.Send))
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestPublishWhileClientsDisconnect(t *testing.T) {
	m := NewManager()

	const clientCount = 500
	clients := make([]*Client, clientCount)
	for i := range clients {
		clients[i] = newTestClient(fmt.Sprintf("user-%d", i), 1)
		m.RegisterClient(clients[i])
		m.Subscribe(clients[i], "room-1")
	}

	// Tear clients down while a broadcast walks the subscriber set. A
	// client closed between the snapshot and the send must be skipped,
	// never panicked on.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, client := range clients {
			m.UnregisterClient(client)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			m.Publish("room-1", []byte("payload"))
		}
	}()
	wg.Wait()

	assert.Equal(t, 0, m.SubscriberCount("room-1"))
}

func TestClientTrySendAfterClose(t *testing.T) {
	c := newTestClient("user-a", 1)

	assert.True(t, c.TrySend([]byte("one")))
	assert.False(t, c.TrySend([]byte("buffer full")))

	c.Close()
	c.Close() // repeated close is a no-op

	assert.False(t, c.TrySend([]byte("after close")))
}

func TestSeparateConnectionsForSameUser(t *testing.T) {
	m := NewManager()

	tab1 := newTestClient("user-a", 4)
	tab2 := newTestClient("user-a", 4)
	m.RegisterClient(tab1)
	m.RegisterClient(tab2)
	m.Subscribe(tab1, "room-1")
	m.Subscribe(tab2, "room-1")

	m.Publish("room-1", []byte("hello"))

	assert.Equal(t, "hello", string(<-tab1.Send))
	assert.Equal(t, "hello", string(<-tab2.Send))

	m.UnregisterClient(tab1)
	assert.Equal(t, 1, m.SubscriberCount("room-1"))
}
