package event

import "testing"

// toggleReceiver is a receiver with a switchable receptivity flag
type toggleReceiver struct {
	on       bool
	received []Signal
	checks   int
}

func (r *toggleReceiver) ReceivingEvents() bool {
	r.checks++
	return r.on
}

func (r *toggleReceiver) record(ev Event) {
	r.received = append(r.received, ev.Signal)
}

var sigA = Signal{Name: "keydown", Code: 7}

// TestSyncDeliveryOrder verifies registration order and duplicate delivery
func TestSyncDeliveryOrder(t *testing.T) {
	sender := NewObject("sender", NewQueue())
	var order []string

	r1 := &toggleReceiver{on: true}
	r2 := &toggleReceiver{on: true}
	sender.Connect(sigA, r1, func(Event) { order = append(order, "r1") }, Sync)
	sender.Connect(sigA, r2, func(Event) { order = append(order, "r2") }, Sync)
	sender.Connect(sigA, r1, func(Event) { order = append(order, "r1-dup") }, Sync)

	sender.Emit(sigA, nil)

	want := []string{"r1", "r2", "r1-dup"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], order[i])
		}
	}

	// Receptivity evaluated once per receiver per emission
	if r1.checks != 1 {
		t.Errorf("Expected r1 receptivity checked once, got %d", r1.checks)
	}
}

// TestWildcardReceivesEverySignal verifies the All channel follows specific connections
func TestWildcardReceivesEverySignal(t *testing.T) {
	sender := NewObject("sender", nil)
	r := &toggleReceiver{on: true}
	var order []string

	sender.Connect(All, r, func(ev Event) { order = append(order, "all:"+ev.Signal.String()) }, Sync)
	sender.Connect(sigA, r, func(ev Event) { order = append(order, "specific") }, Sync)

	sender.Emit(sigA, nil)
	sender.Emit(Entered, nil)

	want := []string{"specific", "all:keydown:7", "all:entered"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

// TestEmitWithoutConnections is a silent no-op
func TestEmitWithoutConnections(t *testing.T) {
	q := NewQueue()
	sender := NewObject("lonely", q)
	sender.Emit(Named("nobody-listens"), 42)
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got %d", q.Len())
	}
}

// TestTwoPassSnapshot verifies a handler disabling a later receiver does not cancel its delivery
func TestTwoPassSnapshot(t *testing.T) {
	sender := NewObject("sender", NewQueue())
	r1 := &toggleReceiver{on: true}
	r2 := &toggleReceiver{on: true}

	sender.Connect(sigA, r1, func(ev Event) {
		r1.record(ev)
		r2.on = false
	}, Sync)
	sender.Connect(sigA, r2, r2.record, Sync)

	sender.Emit(sigA, nil)

	if len(r2.received) != 1 {
		t.Fatalf("Expected r2 to receive the in-flight emission, got %d deliveries", len(r2.received))
	}

	// Next emission sees the new receptivity
	sender.Emit(sigA, nil)
	if len(r1.received) != 2 {
		t.Errorf("Expected r1 to receive twice, got %d", len(r1.received))
	}
	if len(r2.received) != 1 {
		t.Errorf("Expected r2 excluded from second emission, got %d deliveries", len(r2.received))
	}
}

// TestNonReceptiveExcluded verifies the receptivity gate
func TestNonReceptiveExcluded(t *testing.T) {
	sender := NewObject("sender", NewQueue())
	off := &toggleReceiver{on: false}
	sender.Connect(sigA, off, off.record, Sync)
	sender.Connect(sigA, off, off.record, Async)

	sender.Emit(sigA, nil)

	if len(off.received) != 0 {
		t.Errorf("Expected no delivery, got %d", len(off.received))
	}
	if sender.Queue().Len() != 0 {
		t.Errorf("Expected no queued events, got %d", sender.Queue().Len())
	}
}

// TestAsyncQueuedNotInvoked verifies async handlers wait for the loop
func TestAsyncQueuedNotInvoked(t *testing.T) {
	q := NewQueue()
	sender := NewObject("sender", q)
	r := &toggleReceiver{on: true}
	sender.Connect(sigA, r, r.record, Async)

	sender.Emit(sigA, "payload")

	if len(r.received) != 0 {
		t.Fatal("Expected async handler not to run inside Emit")
	}
	if q.Len() != 1 {
		t.Fatalf("Expected 1 queued event, got %d", q.Len())
	}

	ev, _ := q.Pop()
	if ev.Sender != sender || ev.Payload != "payload" || ev.Signal != sigA {
		t.Errorf("Unexpected queued event: %+v", ev)
	}
	ev.Deliver()
	if len(r.received) != 1 {
		t.Errorf("Expected delivery after dispatch, got %d", len(r.received))
	}
}

// TestAsyncEligibilitySnapshottedBeforeSync verifies a sync handler cannot revoke a queued delivery
func TestAsyncEligibilitySnapshottedBeforeSync(t *testing.T) {
	q := NewQueue()
	sender := NewObject("sender", q)
	gate := &toggleReceiver{on: true}
	late := &toggleReceiver{on: true}

	sender.Connect(sigA, gate, func(Event) { late.on = false }, Sync)
	sender.Connect(sigA, late, late.record, Async)

	sender.Emit(sigA, nil)
	if q.Len() != 1 {
		t.Errorf("Expected async delivery queued from the snapshot, got %d", q.Len())
	}
}

// TestDisconnect removes all matching connections for one mode
func TestDisconnect(t *testing.T) {
	sender := NewObject("sender", NewQueue())
	r := &toggleReceiver{on: true}
	other := &toggleReceiver{on: true}

	sender.Connect(sigA, r, r.record, Sync)
	sender.Connect(sigA, r, r.record, Sync)
	sender.Connect(sigA, other, other.record, Sync)
	sender.Connect(sigA, r, r.record, Async)

	if n := sender.Disconnect(sigA, r, Sync); n != 2 {
		t.Errorf("Expected 2 removed, got %d", n)
	}
	if n := sender.ConnectionCount(sigA, Async); n != 1 {
		t.Errorf("Expected async connection untouched, got %d", n)
	}

	sender.Emit(sigA, nil)
	if len(r.received) != 0 || len(other.received) != 1 {
		t.Errorf("Unexpected deliveries r=%d other=%d", len(r.received), len(other.received))
	}
}

// TestReentrantEmit verifies a sync handler may emit further sync signals
func TestReentrantEmit(t *testing.T) {
	sender := NewObject("sender", nil)
	r := &toggleReceiver{on: true}
	sigB := Named("b")

	sender.Connect(sigA, r, func(ev Event) {
		r.record(ev)
		sender.Emit(sigB, nil)
	}, Sync)
	sender.Connect(sigB, r, r.record, Sync)

	sender.Emit(sigA, nil)

	if len(r.received) != 2 || r.received[1] != sigB {
		t.Errorf("Expected nested delivery of b, got %v", r.received)
	}
}

// sliceReceiver has a dynamic type that cannot be compared
type sliceReceiver []Signal

func (sliceReceiver) ReceivingEvents() bool { return true }

// valueReceiver is comparable even though it is not a pointer
type valueReceiver struct{ on bool }

func (r valueReceiver) ReceivingEvents() bool { return r.on }

func TestConnectRejectsNonComparableReceiver(t *testing.T) {
	sender := NewObject("sender", NewQueue())
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for a slice receiver")
		}
		if sender.ConnectionCount(sigA, Sync) != 0 {
			t.Errorf("Expected no connection stored, got %d", sender.ConnectionCount(sigA, Sync))
		}
	}()
	sender.Connect(sigA, sliceReceiver{}, func(Event) {}, Sync)
}

func TestComparableValueReceiver(t *testing.T) {
	sender := NewObject("sender", NewQueue())
	n := 0
	sender.Connect(sigA, valueReceiver{on: true}, func(Event) { n++ }, Sync)
	sender.Connect(sigA, valueReceiver{on: false}, func(Event) { n += 10 }, Sync)

	sender.Emit(sigA, nil)
	if n != 1 {
		t.Errorf("Expected only the receptive value receiver called, got %d", n)
	}
	if removed := sender.Disconnect(sigA, valueReceiver{on: false}, Sync); removed != 1 {
		t.Errorf("Expected 1 removed, got %d", removed)
	}
}
