package limiter

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestAllowBoundary(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(clock)

	window := 60 * time.Second
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("conn-1", "add-clue", 5, window), "call %d should pass", i+1)
	}
	assert.False(t, l.Allow("conn-1", "add-clue", 5, window), "6th call should be rejected")

	clock.Advance(window + time.Second)
	assert.True(t, l.Allow("conn-1", "add-clue", 5, window), "call after window should pass")
}

func TestRejectedCallNotRecorded(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(clock)

	for i := 0; i < 3; i++ {
		l.Allow("conn-1", "send-message", 2, time.Minute)
	}

	// Two accepted calls age out together; the rejected third must not
	// have extended the window.
	clock.Advance(61 * time.Second)
	assert.True(t, l.Allow("conn-1", "send-message", 2, time.Minute))
	assert.True(t, l.Allow("conn-1", "send-message", 2, time.Minute))
	assert.False(t, l.Allow("conn-1", "send-message", 2, time.Minute))
}

func TestKeysAreIndependent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(clock)

	assert.True(t, l.Allow("conn-1", "add-clue", 1, time.Minute))
	assert.False(t, l.Allow("conn-1", "add-clue", 1, time.Minute))

	assert.True(t, l.Allow("conn-1", "send-message", 1, time.Minute), "other event unaffected")
	assert.True(t, l.Allow("conn-2", "add-clue", 1, time.Minute), "other connection unaffected")
}

func TestRemoveConnection(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(clock)

	assert.True(t, l.Allow("conn-1", "add-clue", 1, time.Minute))
	assert.False(t, l.Allow("conn-1", "add-clue", 1, time.Minute))

	l.RemoveConnection("conn-1")
	assert.True(t, l.Allow("conn-1", "add-clue", 1, time.Minute))
}

func TestSweepDropsIdleEntries(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(clock)

	l.Allow("conn-1", "add-clue", 5, time.Minute)
	l.Allow("conn-2", "add-clue", 5, time.Minute)

	clock.Advance(4 * time.Minute)
	l.Allow("conn-2", "add-clue", 5, time.Minute)

	clock.Advance(2 * time.Minute)
	l.sweep()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.calls, key{connID: "conn-1", event: "add-clue"})
	assert.Contains(t, l.calls, key{connID: "conn-2", event: "add-clue"})
}
