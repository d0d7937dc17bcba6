package timer

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lixenwraith/nurse/event"
)

var (
	// ErrNotRunning is returned by Pause outside Running and Resuming
	ErrNotRunning = errors.New("pacemaker is not running")
	// ErrNotPaused is returned by Resume outside Paused
	ErrNotPaused = errors.New("pacemaker is not paused")
)

// Kind selects one-shot or periodic behavior
type Kind uint8

const (
	Once Kind = iota
	Interval
)

func (k Kind) String() string {
	if k == Interval {
		return "INTERVAL"
	}
	return "ONCE"
}

// Status is the PaceMaker lifecycle state
type Status uint8

const (
	Initialized Status = iota
	Running
	Paused
	Resuming
	Ended
	Stopped
)

var statusNames = [...]string{"INITIALIZED", "RUNNING", "PAUSED", "RESUMING", "ENDED", "STOPPED"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

// PaceMaker rings once after its period (Once) or ticks every period (Interval).
// Pause keeps the progress made in the current period; Resume completes the
// interrupted period before periodic ticking resumes, so the phase is preserved
type PaceMaker struct {
	event.Object

	kind    Kind
	period  time.Duration
	sched   Scheduler
	status  Status
	handle  Handle
	elapsed time.Duration // progress in the current period, up to the last mark
	mark    time.Duration // scheduler time of the last (re)start of counting
	ticks   int

	// OnTick is called after every tick of an Interval pacemaker
	OnTick func()
	// OnRing is called when a Once pacemaker ends
	OnRing func()
}

// NewPaceMaker creates an initialized pacemaker. Panics on a non-positive period
func NewPaceMaker(name string, kind Kind, period time.Duration, sched Scheduler, q *event.Queue) *PaceMaker {
	if period <= 0 {
		panic(fmt.Sprintf("timer: pacemaker %q with non-positive period %v", name, period))
	}
	p := &PaceMaker{kind: kind, period: period, sched: sched}
	p.Init(name, q)
	return p
}

// Kind returns the pacemaker kind
func (p *PaceMaker) Kind() Kind { return p.kind }

// Period returns the configured period
func (p *PaceMaker) Period() time.Duration { return p.period }

// Status returns the lifecycle state
func (p *PaceMaker) Status() Status { return p.status }

// Ticks returns the number of ticks fired since creation
func (p *PaceMaker) Ticks() int { return p.ticks }

// Elapsed returns the progress within the current period
func (p *PaceMaker) Elapsed() time.Duration {
	if p.status == Running || p.status == Resuming {
		return p.elapsed + p.sched.Now() - p.mark
	}
	return p.elapsed
}

// Start (re)starts counting from zero, from any state
func (p *PaceMaker) Start() {
	p.cancel()
	p.elapsed = 0
	p.mark = p.sched.Now()
	p.setStatus(Running)
	if p.kind == Once {
		p.handle = p.sched.ScheduleOnce(p.ring, p.period)
	} else {
		p.handle = p.sched.ScheduleInterval(p.tick, p.period)
	}
}

// Pause records progress and cancels the pending callback
func (p *PaceMaker) Pause() error {
	if p.status != Running && p.status != Resuming {
		return fmt.Errorf("pause %q in %s: %w", p.Name(), p.status, ErrNotRunning)
	}
	now := p.sched.Now()
	p.elapsed += now - p.mark
	p.mark = now
	p.cancel()
	p.setStatus(Paused)
	return nil
}

// Resume schedules the remainder of the interrupted period
func (p *PaceMaker) Resume() error {
	if p.status != Paused {
		return fmt.Errorf("resume %q in %s: %w", p.Name(), p.status, ErrNotPaused)
	}
	remaining := p.period - p.elapsed
	if remaining < 0 {
		remaining = 0
	}
	p.mark = p.sched.Now()
	p.setStatus(Resuming)
	if p.kind == Once {
		p.handle = p.sched.ScheduleOnce(p.ring, remaining)
	} else {
		p.handle = p.sched.ScheduleOnce(p.finishInterval, remaining)
	}
	return nil
}

// Stop cancels any pending callback. Never fails
func (p *PaceMaker) Stop() {
	p.cancel()
	p.setStatus(Stopped)
}

func (p *PaceMaker) cancel() {
	if p.handle != 0 {
		p.sched.Unschedule(p.handle)
		p.handle = 0
	}
}

func (p *PaceMaker) setStatus(s Status) {
	if p.status != s {
		slog.Debug("pacemaker status", "name", p.Name(), "from", p.status, "to", s)
	}
	p.status = s
}

// finishInterval completes a resumed period then re-arms periodic ticking
func (p *PaceMaker) finishInterval(dt time.Duration) {
	p.setStatus(Running)
	p.handle = p.sched.ScheduleInterval(p.tick, p.period)
	p.tick(dt)
}

func (p *PaceMaker) tick(time.Duration) {
	p.elapsed = 0
	p.mark = p.sched.Now()
	p.ticks++
	p.Emit(event.Tick, p)
	if p.OnTick != nil {
		p.OnTick()
	}
}

func (p *PaceMaker) ring(time.Duration) {
	p.handle = 0
	p.elapsed = p.period
	p.mark = p.sched.Now()
	p.setStatus(Ended)
	p.Emit(event.Ring, p)
	if p.OnRing != nil {
		p.OnRing()
	}
}
