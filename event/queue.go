package event

// Event is one emitted occurrence bound to the handler that will receive it
type Event struct {
	Sender  *Object
	Signal  Signal
	Payload any

	handler Handler
}

// Deliver invokes the bound handler
func (e Event) Deliver() {
	if e.handler != nil {
		e.handler(e)
	}
}

const initialQueueSize = 64 // power of two

// Queue is the FIFO of pending async events
// Single-threaded: producers and the consumer all run on the loop goroutine
// Backing ring doubles when full, events are never dropped
type Queue struct {
	events []Event
	head   uint64 // Read index
	tail   uint64 // Write index
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{events: make([]Event, initialQueueSize)}
}

// Push appends an event
func (q *Queue) Push(ev Event) {
	if q.events == nil {
		q.events = make([]Event, initialQueueSize)
	}
	if q.tail-q.head == uint64(len(q.events)) {
		q.grow()
	}
	mask := uint64(len(q.events) - 1)
	q.events[q.tail&mask] = ev
	q.tail++
}

// Pop removes and returns the oldest event
func (q *Queue) Pop() (Event, bool) {
	if q.head == q.tail {
		return Event{}, false
	}
	mask := uint64(len(q.events) - 1)
	idx := q.head & mask
	ev := q.events[idx]
	q.events[idx] = Event{} // release payload
	q.head++
	return ev, true
}

// Len returns the number of pending events
func (q *Queue) Len() int {
	return int(q.tail - q.head)
}

// Dispatch pops and delivers up to max events, max <= 0 means every event pending at call
// time. Events queued by the delivered handlers are left for the next call
// Returns the number of events delivered
func (q *Queue) Dispatch(max int) int {
	pending := q.Len()
	if max <= 0 || max > pending {
		max = pending
	}
	for i := 0; i < max; i++ {
		ev, ok := q.Pop()
		if !ok {
			return i
		}
		ev.Deliver()
	}
	return max
}

// Clear drops every pending event
func (q *Queue) Clear() {
	for q.head != q.tail {
		q.Pop()
	}
}

func (q *Queue) grow() {
	n := len(q.events)
	grown := make([]Event, n*2)
	mask := uint64(n - 1)
	for i := uint64(0); i < uint64(n); i++ {
		grown[i] = q.events[(q.head+i)&mask]
	}
	q.events = grown
	q.tail = q.tail - q.head
	q.head = 0
}
