package game

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var (
	ErrAlreadyStarted  = errors.New("game already started")
	ErrNotStarted      = errors.New("game not started")
	ErrInvalidDuration = errors.New("invalid duration")
)

const defaultPhaseTitle = "Untitled Phase"

// Broadcaster is the machine's outbound port. In production it is the
// websocket hub; tests inject a recorder.
type Broadcaster interface {
	Broadcast(event string, data any)
}

// State is the snapshot pushed to clients on connect and on transitions.
type State struct {
	Started          bool   `json:"started"`
	CountdownSeconds int    `json:"countdown_seconds"`
	PhaseTitle       string `json:"phase_title"`
}

// Machine is the single authoritative countdown/phase controller. All
// transitions happen under one mutex; the tick goroutine re-checks that it
// has not been superseded before mutating, so an admin End racing a tick
// stops the run exactly once.
type Machine struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	out       Broadcaster
	started   bool
	countdown int
	title     string
	stop      chan struct{}
}

func NewMachine(out Broadcaster, clock clockwork.Clock) *Machine {
	return &Machine{clock: clock, out: out}
}

func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{Started: m.started, CountdownSeconds: m.countdown, PhaseTitle: m.title}
}

func (m *Machine) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Start begins a new phase of minutes*60 seconds. Fails while a phase is
// already running; a successful start owns the only live tick goroutine.
func (m *Machine) Start(minutes int, title string) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	if minutes <= 0 {
		m.mu.Unlock()
		return ErrInvalidDuration
	}
	if title == "" {
		title = defaultPhaseTitle
	}
	m.started = true
	m.countdown = minutes * 60
	m.title = title
	stop := make(chan struct{})
	m.stop = stop
	state := State{Started: true, CountdownSeconds: m.countdown, PhaseTitle: m.title}
	m.mu.Unlock()

	go m.run(stop)

	log.Printf("game: started phase %q (%d min)", title, minutes)
	m.out.Broadcast("game-started", state)
	m.out.Broadcast("notification", Notification{
		Kind:    "announcement",
		Message: fmt.Sprintf("%s started! %d minutes on the clock.", title, minutes),
	})
	return nil
}

// AddTime extends the running countdown. Negative or zero values are
// rejected rather than allowed to shorten the phase; ending early is what
// End is for.
func (m *Machine) AddTime(seconds int) error {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return ErrNotStarted
	}
	if seconds <= 0 {
		m.mu.Unlock()
		return ErrInvalidDuration
	}
	m.countdown += seconds
	remaining := m.countdown
	m.mu.Unlock()

	m.out.Broadcast("countdown-update", CountdownUpdate{CountdownSeconds: remaining})
	m.out.Broadcast("notification", Notification{
		Kind:    "info",
		Message: fmt.Sprintf("%d seconds added to the clock.", seconds),
	})
	return nil
}

// End cancels the running phase by admin action.
func (m *Machine) End() error {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return ErrNotStarted
	}
	close(m.stop)
	m.started = false
	m.countdown = 0
	title := m.title
	m.title = ""
	m.stop = nil
	m.mu.Unlock()

	log.Printf("game: phase %q ended by admin", title)
	m.out.Broadcast("game-ended", State{})
	m.out.Broadcast("notification", Notification{Kind: "announcement", Message: "The game has ended."})
	return nil
}

func (m *Machine) run(stop chan struct{}) {
	ticker := m.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			m.mu.Lock()
			if !m.started || m.stop != stop {
				// Cancelled or superseded between the tick firing and
				// the lock being taken.
				m.mu.Unlock()
				return
			}
			m.countdown--
			remaining := m.countdown
			if remaining <= 0 {
				m.started = false
				m.countdown = 0
				m.title = ""
				m.stop = nil
				m.mu.Unlock()

				m.out.Broadcast("countdown-update", CountdownUpdate{CountdownSeconds: 0})
				m.out.Broadcast("notification", Notification{Kind: "announcement", Message: "Time is up!"})
				m.out.Broadcast("game-ended", State{})
				log.Println("game: countdown expired")
				return
			}
			m.mu.Unlock()
			m.out.Broadcast("countdown-update", CountdownUpdate{CountdownSeconds: remaining})
		}
	}
}

type CountdownUpdate struct {
	CountdownSeconds int `json:"countdown_seconds"`
}

type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
