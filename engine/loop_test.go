package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/nurse/config"
	"github.com/lixenwraith/nurse/event"
	"github.com/lixenwraith/nurse/input"
	"github.com/lixenwraith/nurse/render"
	"github.com/lixenwraith/nurse/timer"
	"github.com/lixenwraith/nurse/vmath"
)

func TestParseDrainPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    DrainPolicy
		wantErr bool
	}{
		{"one", DrainOne, false},
		{"", DrainOne, false},
		{"all", DrainAll, false},
		{"most", DrainOne, true},
	}
	for _, tt := range tests {
		got, err := ParseDrainPolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDrainPolicy(%q) = %v, %v", tt.in, got, err)
		}
	}
	if DrainAll.String() != "all" || DrainOne.String() != "one" {
		t.Error("Unexpected policy names")
	}
}

func TestStepFrameGate(t *testing.T) {
	u, rec := newTestUniverse(t)
	clock := NewMockTimeProvider(epoch)
	loop := NewLoop(u, clock)

	var draws []string
	c := u.NewContext("scene")
	m := &marker{name: "m", draws: &draws}
	c.Add(m, 0)
	c.AddScreen(u.FullScreen("main"))

	if loop.Step() {
		t.Error("Expected no frame before the interval elapsed")
	}
	clock.Advance(10 * time.Millisecond)
	if loop.Step() {
		t.Error("Expected no frame at 10ms with a 60 fps interval")
	}
	clock.Advance(10 * time.Millisecond)
	if !loop.Step() {
		t.Fatal("Expected a frame at 20ms")
	}
	if m.updates != 1 || m.dt != 20*time.Millisecond {
		t.Errorf("Expected one update with dt 20ms, got %d updates, dt %v", m.updates, m.dt)
	}
	if rec.Frames != 1 || len(draws) != 1 {
		t.Errorf("Expected one displayed frame, got %d flips, draws %v", rec.Frames, draws)
	}
	if u.Scheduler.Now() != 20*time.Millisecond {
		t.Errorf("Expected scheduler advanced by dt, got %v", u.Scheduler.Now())
	}
}

func TestStepDrainOne(t *testing.T) {
	u, _ := newTestUniverse(t)
	loop := NewLoop(u, NewMockTimeProvider(epoch))
	src := event.NewObject("src", u.Queue)
	sig := event.Named("ping")
	var got []int
	src.Connect(sig, nil, func(ev event.Event) { got = append(got, ev.Payload.(int)) }, event.Async)

	for i := 1; i <= 3; i++ {
		src.Emit(sig, i)
	}

	for step := 1; step <= 3; step++ {
		loop.Step()
		if len(got) != step {
			t.Fatalf("Step %d: expected %d deliveries, got %v", step, step, got)
		}
	}
	for i, v := range got {
		if v != i+1 {
			t.Errorf("Expected FIFO order, got %v", got)
			break
		}
	}
}

func TestStepDrainAllDefersReentrant(t *testing.T) {
	u, _ := newTestUniverse(t)
	loop := NewLoop(u, NewMockTimeProvider(epoch))
	loop.SetPolicy(DrainAll)

	src := event.NewObject("src", u.Queue)
	first, second := event.Named("first"), event.Named("second")
	var got []string
	src.Connect(first, nil, func(event.Event) {
		got = append(got, "first")
		src.Emit(second, nil)
	}, event.Async)
	src.Connect(second, nil, func(event.Event) { got = append(got, "second") }, event.Async)

	src.Emit(first, nil)
	src.Emit(first, nil)

	loop.Step()
	if len(got) != 2 || got[0] != "first" || got[1] != "first" {
		t.Fatalf("Expected both queued events delivered, got %v", got)
	}
	loop.Step()
	if len(got) != 4 || got[2] != "second" {
		t.Errorf("Expected re-entrant events on the next step, got %v", got)
	}
}

func TestLoopPolicyFromConfig(t *testing.T) {
	rec := render.NewRecorder(vmath.V2(10, 10))
	cfg := config.Default()
	cfg.Loop.Drain = config.DrainAll
	u := NewUniverse(cfg, rec, nil, nil)
	if NewLoop(u, NewMockTimeProvider(epoch)).Policy() != DrainAll {
		t.Error("Expected drain policy read from config")
	}
}

// quitSource asks to quit on its n-th poll
type quitSource struct {
	polls, n int
}

func (q *quitSource) Poll() []input.Stroke {
	q.polls++
	if q.polls >= q.n {
		return []input.Stroke{{Quit: true}}
	}
	return nil
}

func TestRunUntilQuit(t *testing.T) {
	rec := render.NewRecorder(vmath.V2(10, 10))
	src := &quitSource{n: 5}
	u := NewUniverse(config.Default(), rec, src, nil)
	clock := NewMockTimeProvider(epoch)
	loop := NewLoop(u, clock)

	pm := u.NewPaceMaker("t", timer.Interval, 30*time.Millisecond)
	pm.Start()

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Expected clean quit, got %v", err)
	}
	if src.polls != 5 {
		t.Errorf("Expected 5 iterations, got %d", src.polls)
	}
	// Mock sleeps advance a full interval per idle iteration
	if loop.Frames() != 4 {
		t.Errorf("Expected 4 frames, got %d", loop.Frames())
	}
	if pm.Ticks() != 2 {
		t.Errorf("Expected 2 pacemaker ticks over ~66ms, got %d", pm.Ticks())
	}
}

func TestRunCancelled(t *testing.T) {
	u, _ := newTestUniverse(t)
	loop := NewLoop(u, NewMockTimeProvider(epoch))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
