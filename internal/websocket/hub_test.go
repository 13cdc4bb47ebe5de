package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubClient(hub *Hub, userID string) *Client {
	return &Client{hub: hub, UserID: userID, Send: make(chan []byte, 16)}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestSendToUserReachesOnlyThatUsersClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	mira := newHubClient(hub, "mira")
	miraPhone := newHubClient(hub, "mira")
	bo := newHubClient(hub, "bo")
	hub.Register <- mira
	hub.Register <- miraPhone
	hub.Register <- bo

	hub.SendToUser("mira", []byte("hello"))

	assert.Equal(t, []byte("hello"), receive(t, mira))
	assert.Equal(t, []byte("hello"), receive(t, miraPhone))

	select {
	case msg := <-bo.Send:
		t.Fatalf("unexpected message for other user: %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSendToUnknownUserIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Nothing to assert beyond "does not block or panic".
	hub.SendToUser("ghost", []byte("hello"))
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	mira := newHubClient(hub, "mira")
	bo := newHubClient(hub, "bo")
	hub.Register <- mira
	hub.Register <- bo

	hub.Broadcast <- []byte("announcement")

	assert.Equal(t, []byte("announcement"), receive(t, mira))
	assert.Equal(t, []byte("announcement"), receive(t, bo))
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	mira := newHubClient(hub, "mira")
	hub.Register <- mira
	hub.Unregister <- mira

	select {
	case _, open := <-mira.Send:
		require.False(t, open, "send channel should be closed on unregister")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}

	// Pushes after disconnect are silently dropped.
	hub.SendToUser("mira", []byte("late"))
}
