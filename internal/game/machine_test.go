package game

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type broadcastRec struct {
	event string
	data  any
}

type recorder struct {
	events chan broadcastRec
}

func newRecorder() *recorder {
	return &recorder{events: make(chan broadcastRec, 1024)}
}

func (r *recorder) Broadcast(event string, data any) {
	r.events <- broadcastRec{event: event, data: data}
}

func (r *recorder) next(t *testing.T) broadcastRec {
	t.Helper()
	select {
	case ev := <-r.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
		return broadcastRec{}
	}
}

func (r *recorder) expectNone(t *testing.T) {
	t.Helper()
	select {
	case ev := <-r.events:
		t.Fatalf("unexpected broadcast %q", ev.event)
	case <-time.After(50 * time.Millisecond):
	}
}

func newTestMachine() (*Machine, *recorder, *clockwork.FakeClock) {
	rec := newRecorder()
	clock := clockwork.NewFakeClock()
	return NewMachine(rec, clock), rec, clock
}

func TestStartBroadcastsStateAndAnnouncement(t *testing.T) {
	m, rec, _ := newTestMachine()

	require.NoError(t, m.Start(2, "Phase 1"))

	started := rec.next(t)
	assert.Equal(t, "game-started", started.event)
	state, ok := started.data.(State)
	require.True(t, ok)
	assert.Equal(t, 120, state.CountdownSeconds)
	assert.Equal(t, "Phase 1", state.PhaseTitle)
	assert.True(t, state.Started)

	note := rec.next(t)
	assert.Equal(t, "notification", note.event)
}

func TestStartRejectsInvalidDuration(t *testing.T) {
	m, rec, _ := newTestMachine()

	assert.ErrorIs(t, m.Start(0, "x"), ErrInvalidDuration)
	assert.ErrorIs(t, m.Start(-3, "x"), ErrInvalidDuration)
	rec.expectNone(t)
	assert.False(t, m.Running())
}

func TestDoubleStartLeavesStateUntouched(t *testing.T) {
	m, rec, _ := newTestMachine()

	require.NoError(t, m.Start(2, "Phase 1"))
	rec.next(t)
	rec.next(t)

	assert.ErrorIs(t, m.Start(5, "Phase 2"), ErrAlreadyStarted)
	rec.expectNone(t)

	state := m.Snapshot()
	assert.Equal(t, 120, state.CountdownSeconds)
	assert.Equal(t, "Phase 1", state.PhaseTitle)
}

func TestStartDefaultsEmptyTitle(t *testing.T) {
	m, rec, _ := newTestMachine()

	require.NoError(t, m.Start(1, ""))
	started := rec.next(t)
	assert.Equal(t, defaultPhaseTitle, started.data.(State).PhaseTitle)
}

func TestCountdownRunsToCompletion(t *testing.T) {
	m, rec, clock := newTestMachine()

	require.NoError(t, m.Start(2, "Phase 1"))
	rec.next(t) // game-started
	rec.next(t) // notification
	clock.BlockUntil(1)

	// 119 ticks: strictly decreasing by exactly one per tick.
	for want := 119; want >= 1; want-- {
		clock.Advance(time.Second)
		ev := rec.next(t)
		require.Equal(t, "countdown-update", ev.event)
		require.Equal(t, want, ev.data.(CountdownUpdate).CountdownSeconds)
	}

	// Final tick: zero, time-expired notification, game over.
	clock.Advance(time.Second)
	ev := rec.next(t)
	assert.Equal(t, "countdown-update", ev.event)
	assert.Equal(t, 0, ev.data.(CountdownUpdate).CountdownSeconds)
	assert.Equal(t, "notification", rec.next(t).event)
	assert.Equal(t, "game-ended", rec.next(t).event)

	assert.False(t, m.Running())
	assert.Equal(t, State{}, m.Snapshot())

	// No further decrements after expiry.
	clock.Advance(5 * time.Second)
	rec.expectNone(t)

	// A new phase can start after expiry.
	require.NoError(t, m.Start(1, "Phase 2"))
	assert.Equal(t, "game-started", rec.next(t).event)
}

func TestAddTime(t *testing.T) {
	m, rec, clock := newTestMachine()

	assert.ErrorIs(t, m.AddTime(30), ErrNotStarted)

	require.NoError(t, m.Start(1, "Phase 1"))
	rec.next(t)
	rec.next(t)
	clock.BlockUntil(1)

	assert.ErrorIs(t, m.AddTime(0), ErrInvalidDuration)
	assert.ErrorIs(t, m.AddTime(-10), ErrInvalidDuration)

	require.NoError(t, m.AddTime(30))
	ev := rec.next(t)
	assert.Equal(t, "countdown-update", ev.event)
	assert.Equal(t, 90, ev.data.(CountdownUpdate).CountdownSeconds)
	assert.Equal(t, "notification", rec.next(t).event)

	clock.Advance(time.Second)
	assert.Equal(t, 89, rec.next(t).data.(CountdownUpdate).CountdownSeconds)
}

func TestEnd(t *testing.T) {
	m, rec, clock := newTestMachine()

	assert.ErrorIs(t, m.End(), ErrNotStarted)

	require.NoError(t, m.Start(5, "Phase 1"))
	rec.next(t)
	rec.next(t)
	clock.BlockUntil(1)

	require.NoError(t, m.End())
	assert.Equal(t, "game-ended", rec.next(t).event)
	assert.Equal(t, "notification", rec.next(t).event)
	assert.False(t, m.Running())

	// A tick racing the cancellation must not broadcast.
	clock.Advance(time.Second)
	rec.expectNone(t)

	assert.ErrorIs(t, m.End(), ErrNotStarted)
}
