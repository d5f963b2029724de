// Package reconnect converts the out-of-band connection-state
// notification (SIGUSR2) into events consumable from a select loop.
//
// The shell raises SIGUSR2 at its own process when it observes the
// ensemble session change state; while armed, the bridge is the only
// handler for that signal in the process.
package reconnect

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Event marks that at least one connection-state transition occurred
// since the last receive.  It carries no payload.
type Event struct{}

// Bridge owns the SIGUSR2 registration.  Notifications arriving
// before the pending event is consumed coalesce: the receiver sees a
// single Event per burst, which is enough to restart the prompt loop
// once.
type Bridge struct {
	sig    chan os.Signal
	events chan Event
	done   chan struct{}
	once   sync.Once
}

// NewBridge returns an unarmed bridge.
func NewBridge() *Bridge {
	return &Bridge{
		sig:    make(chan os.Signal, 1),
		events: make(chan Event, 1),
		done:   make(chan struct{}),
	}
}

// Arm claims SIGUSR2 and starts delivering events.
func (b *Bridge) Arm() {
	signal.Notify(b.sig, syscall.SIGUSR2)
	go b.pump()
}

// Disarm releases the signal registration and stops the pump.  A
// disarmed bridge cannot be re-armed.
func (b *Bridge) Disarm() {
	b.once.Do(func() {
		signal.Stop(b.sig)
		close(b.done)
	})
}

// Events returns the coalesced event stream.
func (b *Bridge) Events() <-chan Event { return b.events }

func (b *Bridge) pump() {
	for {
		select {
		case <-b.done:
			return
		case <-b.sig:
			b.offer()
		}
	}
}

// offer queues the event unless one is already pending.
func (b *Bridge) offer() {
	select {
	case b.events <- Event{}:
	default:
	}
}
