// Package timer provides the scheduling primitive the runtime advances every frame and
// the PaceMaker, a pausable one-shot or periodic timer built on top of it.
package timer

import (
	"fmt"
	"time"
)

// Callback receives the scheduler time elapsed since it was scheduled or last called
type Callback func(dt time.Duration)

// Handle identifies a scheduled callback. The zero Handle is never issued
type Handle uint64

// Scheduler is the narrow contract PaceMaker relies on
type Scheduler interface {
	ScheduleOnce(cb Callback, delay time.Duration) Handle
	ScheduleInterval(cb Callback, period time.Duration) Handle
	Unschedule(h Handle)
	// Now returns the scheduler clock, advanced only by the run loop
	Now() time.Duration
}

type scheduled struct {
	cb     Callback
	due    time.Duration
	period time.Duration // zero for one-shot
	last   time.Duration
}

// TickScheduler is a Scheduler driven by explicit Advance calls from the loop
// Due callbacks fire in due order, ties in scheduling order, with Now set to the due
// time so periodic callbacks keep their phase however coarse the advance
type TickScheduler struct {
	now     time.Duration
	next    Handle
	entries map[Handle]*scheduled
}

// NewTickScheduler creates a scheduler at time zero
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{entries: make(map[Handle]*scheduled)}
}

func (s *TickScheduler) ScheduleOnce(cb Callback, delay time.Duration) Handle {
	if delay < 0 {
		delay = 0
	}
	return s.add(&scheduled{cb: cb, due: s.now + delay, last: s.now})
}

// ScheduleInterval panics on a non-positive period
func (s *TickScheduler) ScheduleInterval(cb Callback, period time.Duration) Handle {
	if period <= 0 {
		panic(fmt.Sprintf("timer: non-positive interval %v", period))
	}
	return s.add(&scheduled{cb: cb, due: s.now + period, period: period, last: s.now})
}

func (s *TickScheduler) Unschedule(h Handle) {
	delete(s.entries, h)
}

func (s *TickScheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of scheduled callbacks
func (s *TickScheduler) Pending() int {
	return len(s.entries)
}

// Advance moves the clock forward by dt, firing every callback that falls due
func (s *TickScheduler) Advance(dt time.Duration) {
	target := s.now + dt
	for {
		h, e := s.nextDue(target)
		if e == nil {
			break
		}
		s.now = e.due
		elapsed := s.now - e.last
		e.last = s.now
		if e.period > 0 {
			e.due += e.period
		} else {
			delete(s.entries, h)
		}
		e.cb(elapsed)
	}
	s.now = target
}

func (s *TickScheduler) add(e *scheduled) Handle {
	s.next++
	s.entries[s.next] = e
	return s.next
}

// nextDue picks the earliest entry due at or before target, lowest handle on ties
func (s *TickScheduler) nextDue(target time.Duration) (Handle, *scheduled) {
	var (
		bestH Handle
		best  *scheduled
	)
	for h, e := range s.entries {
		if e.due > target {
			continue
		}
		if best == nil || e.due < best.due || (e.due == best.due && h < bestH) {
			bestH, best = h, e
		}
	}
	return bestH, best
}
