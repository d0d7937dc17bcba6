package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lixenwraith/nurse/config"
)

// DrainPolicy sets how many queued async events one read phase delivers
type DrainPolicy uint8

const (
	// DrainOne delivers at most one event per iteration, pacing async delivery across ticks
	DrainOne DrainPolicy = iota
	// DrainAll delivers every event queued when the read phase starts. Events queued by
	// those handlers wait for the next iteration
	DrainAll
)

func (p DrainPolicy) String() string {
	if p == DrainAll {
		return config.DrainAll
	}
	return config.DrainOne
}

// ParseDrainPolicy reads a policy name
func ParseDrainPolicy(s string) (DrainPolicy, error) {
	switch s {
	case config.DrainOne, "":
		return DrainOne, nil
	case config.DrainAll:
		return DrainAll, nil
	}
	return DrainOne, fmt.Errorf("unknown drain policy %q", s)
}

// Sleeper blocks for d. MockTimeProvider implements it by advancing
type Sleeper interface {
	Sleep(d time.Duration)
}

type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) { time.Sleep(d) }

// Loop is the single-threaded run loop
// Each Step reads (async drain, keyboard poll) and, once a frame interval has passed,
// advances the scheduler, updates and displays
type Loop struct {
	u        *Universe
	clock    TimeProvider
	sleeper  Sleeper
	interval time.Duration
	policy   DrainPolicy

	last   time.Time
	frames uint64
}

// NewLoop creates a loop over u. A nil clock uses the monotonic system clock
func NewLoop(u *Universe, clock TimeProvider) *Loop {
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	var sleeper Sleeper = realSleeper{}
	if s, ok := clock.(Sleeper); ok {
		sleeper = s
	}
	policy, err := ParseDrainPolicy(u.Config.Loop.Drain)
	if err != nil {
		slog.Warn("falling back to drain one", "error", err)
	}
	return &Loop{
		u:        u,
		clock:    clock,
		sleeper:  sleeper,
		interval: u.Config.FrameInterval(),
		policy:   policy,
		last:     clock.Now(),
	}
}

// Policy returns the drain policy in use
func (l *Loop) Policy() DrainPolicy { return l.policy }

// SetPolicy overrides the drain policy
func (l *Loop) SetPolicy(p DrainPolicy) { l.policy = p }

// Frames returns the number of update/display passes run
func (l *Loop) Frames() uint64 { return l.frames }

// Step runs one iteration. Returns true when the update/display pass ran
func (l *Loop) Step() bool {
	l.read()

	now := l.clock.Now()
	l.u.Keyboard.Poll(now)

	dt := now.Sub(l.last)
	if dt < l.interval {
		return false
	}
	l.last = now

	l.u.Scheduler.Advance(dt)
	l.u.Contexts.Update(dt)
	l.u.Contexts.Display(l.u.Graphics)
	l.frames++
	return true
}

// Run steps until ctx is done or the keyboard requests quit, sleeping until the next
// frame is due between iterations
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("loop started", "interval", l.interval, "drain", l.policy)
	for {
		if err := ctx.Err(); err != nil {
			slog.Info("loop stopped", "frames", l.frames, "reason", err)
			return err
		}
		l.Step()
		if l.u.Keyboard.QuitRequested() {
			slog.Info("loop stopped", "frames", l.frames, "reason", "quit")
			return nil
		}
		// Pending async events keep the loop spinning without sleep
		if l.u.Queue.Len() > 0 {
			continue
		}
		if wait := l.interval - l.clock.Now().Sub(l.last); wait > 0 {
			l.sleeper.Sleep(wait)
		}
	}
}

func (l *Loop) read() {
	if l.policy == DrainAll {
		l.u.Queue.Dispatch(0)
		return
	}
	l.u.Queue.Dispatch(1)
}
