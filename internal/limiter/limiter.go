package limiter

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	sweepInterval = 60 * time.Second
	staleAfter    = 5 * time.Minute
)

type key struct {
	connID string
	event  string
}

// Limiter is a per-connection, per-event sliding-window counter. It only
// throttles within a live process; state is not persisted.
type Limiter struct {
	mu    sync.Mutex
	clock clockwork.Clock
	calls map[key][]time.Time
}

func New(clock clockwork.Clock) *Limiter {
	return &Limiter{
		clock: clock,
		calls: make(map[key][]time.Time),
	}
}

// Allow reports whether another call for (connID, event) fits inside the
// window. A rejected call is not recorded.
func (l *Limiter) Allow(connID, event string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	k := key{connID: connID, event: event}

	recent := l.calls[k][:0]
	for _, t := range l.calls[k] {
		if now.Sub(t) < window {
			recent = append(recent, t)
		}
	}

	if len(recent) >= limit {
		l.calls[k] = recent
		return false
	}

	l.calls[k] = append(recent, now)
	return true
}

// RemoveConnection drops all counters for a disconnected client.
func (l *Limiter) RemoveConnection(connID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for k := range l.calls {
		if k.connID == connID {
			delete(l.calls, k)
		}
	}
}

// Run sweeps out idle entries every minute until stop is closed.
func (l *Limiter) Run(stop <-chan struct{}) {
	ticker := l.clock.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			l.sweep()
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	for k, times := range l.calls {
		stale := true
		for _, t := range times {
			if now.Sub(t) < staleAfter {
				stale = false
				break
			}
		}
		if stale {
			delete(l.calls, k)
		}
	}
}
