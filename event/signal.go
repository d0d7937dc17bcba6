// Package event implements the signal/slot bus embedded in every addressable entity.
//
// An Object keeps, per signal, an ordered list of connections. Emitting a signal on the
// Object selects the connections whose receiver currently accepts events and delivers to
// them, either inline (Sync) or by queuing an Event that the run loop dispatches between
// ticks (Async).
//
// Ordering contract: eligibility of every connection is decided before the first handler
// runs. A handler that flips another receiver's receptivity does not change who receives the
// emission already in progress; it only affects later emissions.
package event

import "fmt"

// Signal identifies an occurrence. Input signals carry a key code, lifecycle signals only a name
type Signal struct {
	Name string
	Code int
}

// Named returns a payload-free lifecycle signal
func Named(name string) Signal {
	return Signal{Name: name}
}

func (s Signal) String() string {
	if s.Code == 0 {
		return s.Name
	}
	return fmt.Sprintf("%s:%d", s.Name, s.Code)
}

// All is the wildcard channel: connections on it receive every emitted signal
var All = Named("__all__")

// Lifecycle signals emitted by the engine
var (
	Entered         = Named("entered")
	Exited          = Named("exited")
	StateChanged    = Named("state_changed")
	Started         = Named("started")
	Stopped         = Named("stopped")
	LocationChanged = Named("location_changed")
	Tick            = Named("tick")
	Ring            = Named("ring")
	Finished        = Named("finished")
)

// Mode selects how a connection is delivered
type Mode uint8

const (
	// Async queues the event for a later loop iteration (default)
	Async Mode = iota
	// Sync invokes the handler inside Emit
	Sync
)

func (m Mode) String() string {
	if m == Sync {
		return "sync"
	}
	return "async"
}
