package ws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []WSMessage
	closed bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, msg)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, frame := range f.frames {
		if frame.Type == event {
			n++
		}
	}
	return n
}

func addClient(hub *Hub, id string) (*Client, *fakeConn) {
	conn := &fakeConn{}
	client := NewClient(id, "127.0.0.1", conn)
	hub.Add(client)
	return client, conn
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub()
	_, a := addClient(hub, "a")
	_, b := addClient(hub, "b")

	hub.Broadcast("notification", map[string]string{"message": "lights out"})

	assert.Equal(t, 1, a.received("notification"))
	assert.Equal(t, 1, b.received("notification"))
}

func TestTeamBroadcastScopedToGroup(t *testing.T) {
	hub := NewHub()
	_, a := addClient(hub, "a")
	_, b := addClient(hub, "b")
	hub.JoinTeam(7, "a")

	hub.BroadcastToTeam(7, "board-update", map[string]any{})

	assert.Equal(t, 1, a.received("board-update"))
	assert.Equal(t, 0, b.received("board-update"))
}

func TestLeaveTeamStopsDelivery(t *testing.T) {
	hub := NewHub()
	_, a := addClient(hub, "a")
	hub.JoinTeam(7, "a")
	hub.LeaveTeam(7, "a")

	hub.BroadcastToTeam(7, "board-update", map[string]any{})
	assert.Equal(t, 0, a.received("board-update"))
}

func TestRemoveClosesAndPurgesGroups(t *testing.T) {
	hub := NewHub()
	_, conn := addClient(hub, "a")
	hub.JoinTeam(7, "a")

	hub.Remove("a")

	require.True(t, conn.closed)
	hub.Broadcast("notification", map[string]string{})
	hub.BroadcastToTeam(7, "board-update", map[string]any{})
	assert.Empty(t, conn.frames)
}

func TestJoinTeamUnknownConnectionIsNoop(t *testing.T) {
	hub := NewHub()
	hub.JoinTeam(7, "ghost")
	hub.BroadcastToTeam(7, "board-update", map[string]any{})
}
