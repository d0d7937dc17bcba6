package event

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"
)

// Receiver gates delivery: a receiver gets an emission only if ReceivingEvents reports true
// at the moment the emission is snapshotted
// Receivers are compared by identity and cache their verdict per emission, so the dynamic
// type must be comparable. Implement it on pointer types: Connect panics on slices, maps
// and funcs
type Receiver interface {
	ReceivingEvents() bool
}

// Handler is the slot invoked for a delivered event
type Handler func(ev Event)

// Emitter is anything that embeds an Object
type Emitter interface {
	Self() *Object
}

type connection struct {
	receiver Receiver
	handler  Handler
}

// Object is the per-entity signal registry. The zero value is usable after Init
type Object struct {
	name  string
	id    uuid.UUID
	queue *Queue

	sync  map[Signal][]connection
	async map[Signal][]connection
}

// NewObject creates a standalone object bound to queue q (q may be nil if only Sync
// connections are ever made on it)
func NewObject(name string, q *Queue) *Object {
	o := &Object{}
	o.Init(name, q)
	return o
}

// Init prepares an embedded Object
func (o *Object) Init(name string, q *Queue) {
	o.name = name
	o.id = uuid.New()
	o.queue = q
}

// Self returns the object itself, promoted to every embedding type
func (o *Object) Self() *Object {
	return o
}

// Name returns the object name
func (o *Object) Name() string {
	return o.name
}

// ID returns the object's unique id
func (o *Object) ID() uuid.UUID {
	return o.id
}

// Queue returns the queue async emissions are handed to
func (o *Object) Queue() *Queue {
	return o.queue
}

// SetQueue rebinds the async queue. Owners call it when adopting an entity
func (o *Object) SetQueue(q *Queue) {
	o.queue = q
}

// ReceivingEvents reports true: plain objects always accept events
func (o *Object) ReceivingEvents() bool {
	return true
}

// Connect registers handler on receiver for sig. Duplicate registrations are kept and
// deliver twice. A nil receiver is always eligible
func (o *Object) Connect(sig Signal, receiver Receiver, handler Handler, mode Mode) {
	if receiver != nil && !reflect.TypeOf(receiver).Comparable() {
		panic(fmt.Sprintf("event: %s connected with non-comparable receiver %T", o.name, receiver))
	}
	table := o.table(mode)
	if *table == nil {
		*table = make(map[Signal][]connection)
	}
	(*table)[sig] = append((*table)[sig], connection{receiver: receiver, handler: handler})
}

// Disconnect removes every connection of receiver on sig for the given mode
// Returns the number of connections removed
func (o *Object) Disconnect(sig Signal, receiver Receiver, mode Mode) int {
	table := o.table(mode)
	conns := (*table)[sig]
	if len(conns) == 0 {
		return 0
	}

	kept := make([]connection, 0, len(conns))
	for _, c := range conns {
		if c.receiver != receiver {
			kept = append(kept, c)
		}
	}
	removed := len(conns) - len(kept)
	if len(kept) == 0 {
		delete(*table, sig)
	} else {
		(*table)[sig] = kept
	}
	return removed
}

// ConnectionCount returns how many connections exist on sig for mode
func (o *Object) ConnectionCount(sig Signal, mode Mode) int {
	return len((*o.table(mode))[sig])
}

// Emit delivers sig with payload to every eligible connection
func (o *Object) Emit(sig Signal, payload any) {
	syncConns := o.collect(o.sync, sig)
	asyncConns := o.collect(o.async, sig)
	if len(syncConns) == 0 && len(asyncConns) == 0 {
		return
	}

	// Snapshot eligibility for both modes before any handler runs
	verdicts := make(map[Receiver]bool, len(syncConns)+len(asyncConns))
	syncReady := eligible(syncConns, verdicts)
	asyncReady := eligible(asyncConns, verdicts)

	for _, c := range syncReady {
		c.handler(Event{Sender: o, Signal: sig, Payload: payload, handler: c.handler})
	}

	if len(asyncReady) == 0 {
		return
	}
	if o.queue == nil {
		slog.Warn("async emission dropped, no queue attached",
			"sender", o.name, "sender_id", o.id, "signal", sig, "connections", len(asyncReady))
		return
	}
	for _, c := range asyncReady {
		o.queue.Push(Event{Sender: o, Signal: sig, Payload: payload, handler: c.handler})
	}
}

func (o *Object) table(mode Mode) *map[Signal][]connection {
	if mode == Sync {
		return &o.sync
	}
	return &o.async
}

// collect returns a fresh slice of specific-signal connections followed by wildcard ones
func (o *Object) collect(table map[Signal][]connection, sig Signal) []connection {
	specific := table[sig]
	var wildcard []connection
	if sig != All {
		wildcard = table[All]
	}
	if len(specific)+len(wildcard) == 0 {
		return nil
	}
	out := make([]connection, 0, len(specific)+len(wildcard))
	out = append(out, specific...)
	return append(out, wildcard...)
}

// eligible filters conns by receptivity, evaluating each receiver at most once
func eligible(conns []connection, verdicts map[Receiver]bool) []connection {
	out := conns[:0:0]
	for _, c := range conns {
		if c.receiver == nil {
			out = append(out, c)
			continue
		}
		ok, seen := verdicts[c.receiver]
		if !seen {
			ok = c.receiver.ReceivingEvents()
			verdicts[c.receiver] = ok
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}
