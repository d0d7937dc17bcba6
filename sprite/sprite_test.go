package sprite

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/nurse/config"
	"github.com/lixenwraith/nurse/engine"
	"github.com/lixenwraith/nurse/engine/fsm"
	"github.com/lixenwraith/nurse/render"
	"github.com/lixenwraith/nurse/vmath"
)

func newTestUniverse(t *testing.T) (*engine.Universe, *render.Recorder) {
	t.Helper()
	rec := render.NewRecorder(vmath.V2(800, 600))
	cfg := config.Default()
	cfg.Graphics.Backend = config.GraphicsHeadless
	cfg.Input.KeyReleaseMS = 0
	return engine.NewUniverse(cfg, rec, nil, nil), rec
}

// newScene returns a started context with a full screen attached
func newScene(t *testing.T) (*engine.Universe, *render.Recorder, *engine.Context) {
	t.Helper()
	u, rec := newTestUniverse(t)
	ctx := u.NewContext("game")
	ctx.AddScreen(u.FullScreen("main"))
	if err := u.Contexts.SetInitialState(ctx); err != nil {
		t.Fatal(err)
	}
	u.Contexts.Start()
	return u, rec, ctx
}

func imageName(img render.Image) string {
	if img == nil {
		return "<nil>"
	}
	return img.Name()
}

func TestFrameAtCyclesDefaultFrames(t *testing.T) {
	u, _, ctx := newScene(t)
	s := NewSprite(u, ctx, "blink", LayerSprite, 0)
	if err := s.LoadFrames(fsm.DefaultStateName, []string{"a", "b"}, Centered(), 10); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		at   time.Duration
		want string
	}{
		{0, "a"},
		{99 * time.Millisecond, "a"},
		{150 * time.Millisecond, "b"},
		{200 * time.Millisecond, "a"},
		{350 * time.Millisecond, "b"},
	}
	for _, tt := range tests {
		img, _, ok := s.FrameAt(tt.at)
		if !ok || imageName(img) != tt.want {
			t.Errorf("At %v: expected %s, got %s (ok=%v)", tt.at, tt.want, imageName(img), ok)
		}
	}
}

func TestFrameAtStateSelection(t *testing.T) {
	u, _, ctx := newScene(t)
	s := NewSprite(u, ctx, "nurse", LayerActor, 0)
	walk := fsm.NewState("walk")
	hidden := fsm.NewState("hidden")
	idle := fsm.NewState("idle")
	s.AddState(walk)
	s.AddState(hidden)
	s.AddState(idle)

	if err := s.LoadFrames(fsm.DefaultStateName, []string{"stand"}, Centered(), 0); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadFrames("walk", []string{"step1", "step2"}, Centered(), 0); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadFrames("hidden", nil, Centered(), 0); err != nil {
		t.Fatal(err)
	}
	if err := s.SetInitialState(walk); err != nil {
		t.Fatal(err)
	}
	s.Start()

	// fps 0 pins the first frame
	if img, _, ok := s.FrameAt(time.Hour); !ok || imageName(img) != "step1" {
		t.Errorf("Expected step1, got %s", imageName(img))
	}

	s.ChangeState(walk, idle, nil, nil)
	if img, _, ok := s.FrameAt(0); !ok || imageName(img) != "stand" {
		t.Errorf("Expected default frame stand, got %s", imageName(img))
	}

	s.ChangeState(idle, hidden, nil, nil)
	if _, _, ok := s.FrameAt(0); ok {
		t.Error("Expected no frame for an empty frame list")
	}
}

func TestFrameAtWithoutFrames(t *testing.T) {
	u, rec, ctx := newScene(t)
	NewSprite(u, ctx, "ghost", LayerSprite, 0)

	ctx.Display(rec)
	if len(rec.Calls) != 0 {
		t.Errorf("Expected nothing drawn, got %d calls", len(rec.Calls))
	}
}

func TestAnchors(t *testing.T) {
	u, rec, ctx := newScene(t)
	rec.SetImageSize("wide", vmath.V2(40, 20))
	s := NewSprite(u, ctx, "anchors", LayerSprite, 0)

	tests := []struct {
		name   string
		anchor Anchor
		want   []vmath.Vec2
	}{
		{"centered", Centered(), []vmath.Vec2{{X: 20, Y: 10}, {X: 8, Y: 8}}},
		{"centered_bottom", CenteredBottom(), []vmath.Vec2{{X: 20, Y: 20}, {X: 8, Y: 16}}},
		{"offset", Offset(vmath.V2(1, 2)), []vmath.Vec2{{X: 1, Y: 2}, {X: 1, Y: 2}}},
		{"offsets", Offsets(vmath.V2(3, 4)), []vmath.Vec2{{X: 3, Y: 4}, {X: 3, Y: 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.LoadFrames(tt.name, []string{"wide", "small"}, tt.anchor, 0); err != nil {
				t.Fatal(err)
			}
			fs, ok := s.Frames(tt.name)
			if !ok {
				t.Fatal("Expected frame set")
			}
			for i, want := range tt.want {
				if fs.Anchors[i] != want {
					t.Errorf("Frame %d: expected %v, got %v", i, want, fs.Anchors[i])
				}
			}
		})
	}
}

func TestLoadFramesError(t *testing.T) {
	u, _, ctx := newScene(t)
	s := NewSprite(u, ctx, "broken", LayerSprite, 0)

	err := s.LoadFrames("walk", []string{"ok", ""}, Centered(), 0)
	if !errors.Is(err, render.ErrImageNotFound) {
		t.Fatalf("Expected ErrImageNotFound, got %v", err)
	}
	if _, ok := s.Frames("walk"); ok {
		t.Error("Expected no frame set after a failed load")
	}
}

func TestSpriteDrawProjectsOnWorldScreen(t *testing.T) {
	u, rec := newTestUniverse(t)
	ctx := u.NewContext("world")
	cam := render.NewWorldScreen("cam", render.Rect{W: 400, H: 200}, vmath.V2(100, 100))
	ctx.AddScreen(cam)

	s := NewSprite(u, ctx, "nurse", LayerActor, 0)
	if err := s.LoadFrames(fsm.DefaultStateName, []string{"nurse"}, CenteredBottom(), 0); err != nil {
		t.Fatal(err)
	}
	s.SetLocation(vmath.V2(110, 120))

	ctx.Display(rec)
	if len(rec.Calls) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(rec.Calls))
	}
	// ref = center(200,100) - focus(100,100) = (100,0); (110,120)+ref-(8,16)
	want := vmath.V2(202, 104)
	if got := rec.Calls[0].Pos; got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSpriteUpdateAges(t *testing.T) {
	u, _, ctx := newScene(t)
	s := NewSprite(u, ctx, "clock", LayerSprite, 0)

	ctx.Update(30 * time.Millisecond)
	ctx.Update(20 * time.Millisecond)
	if s.Age() != 50*time.Millisecond {
		t.Errorf("Expected age 50ms, got %v", s.Age())
	}
}
