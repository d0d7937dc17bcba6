package engine

import (
	"testing"
	"time"

	"github.com/lixenwraith/nurse/config"
	"github.com/lixenwraith/nurse/engine/fsm"
	"github.com/lixenwraith/nurse/event"
	"github.com/lixenwraith/nurse/input"
	"github.com/lixenwraith/nurse/render"
	"github.com/lixenwraith/nurse/vmath"
)

func newTestUniverse(t *testing.T) (*Universe, *render.Recorder) {
	t.Helper()
	rec := render.NewRecorder(vmath.V2(800, 600))
	cfg := config.Default()
	cfg.Graphics.Backend = config.GraphicsHeadless
	cfg.Input.KeyReleaseMS = 0
	return NewUniverse(cfg, rec, nil, nil), rec
}

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestContextSwitchOnKey(t *testing.T) {
	u, _ := newTestUniverse(t)
	game := u.NewContext("game")
	pause := u.NewContext("pause", Visible(false), Active(false))

	u.Contexts.AddContextTransition(game, input.Pressed(input.KeyP), pause,
		fsm.Properties{PropActive: false}, fsm.Properties{PropVisible: true, PropActive: true})
	u.Contexts.AddContextTransition(pause, input.Pressed(input.KeyP), game,
		fsm.Properties{PropVisible: false, PropActive: false}, fsm.Properties{PropActive: true})
	if err := u.Contexts.SetInitialState(game); err != nil {
		t.Fatal(err)
	}
	u.Contexts.Start()

	u.Keyboard.Press(input.KeyP, epoch)
	if u.Contexts.CurrentContext() != pause {
		t.Fatalf("Expected pause current, got %s", u.Contexts.CurrentName())
	}
	if game.IsActive() || !game.IsVisible() {
		t.Error("Expected game frozen but still visible behind pause")
	}
	if !pause.IsVisible() || !pause.IsActive() {
		t.Error("Expected pause shown and active")
	}

	u.Keyboard.Release(input.KeyP)
	u.Keyboard.Press(input.KeyP, epoch)
	if u.Contexts.CurrentContext() != game {
		t.Fatalf("Expected game current, got %s", u.Contexts.CurrentName())
	}
	if pause.IsVisible() || !game.IsActive() {
		t.Error("Expected pause hidden and game resumed")
	}
}

func TestUnclaimedInputRelayed(t *testing.T) {
	u, _ := newTestUniverse(t)
	game := u.NewContext("game")
	hud := u.NewContext("hud")
	deaf := u.NewContext("deaf", Receiving(false))
	_ = u.Contexts.SetInitialState(game)
	u.Contexts.Start()

	var got []string
	for _, c := range []*Context{game, hud, deaf} {
		name := c.Name()
		c.Connect(input.Pressed(input.KeySpace), nil, func(event.Event) {
			got = append(got, name)
		}, event.Sync)
	}

	u.Keyboard.Press(input.KeySpace, epoch)

	if len(got) != 2 || got[0] != "game" || got[1] != "hud" {
		t.Errorf("Expected relay to game and hud only, got %v", got)
	}
}

// TestRelaySnapshot: a relayed handler silencing a later context does not stop this relay
func TestRelaySnapshot(t *testing.T) {
	u, _ := newTestUniverse(t)
	first := u.NewContext("first")
	second := u.NewContext("second")
	_ = u.Contexts.SetInitialState(first)
	u.Contexts.Start()

	sig := input.Pressed(input.KeyX)
	first.Connect(sig, nil, func(event.Event) { second.SetReceiving(false) }, event.Sync)
	received := 0
	second.Connect(sig, nil, func(event.Event) { received++ }, event.Sync)

	u.Keyboard.Press(input.KeyX, epoch)
	if received != 1 {
		t.Errorf("Expected second to receive the in-flight relay, got %d", received)
	}

	u.Keyboard.Release(input.KeyX)
	u.Keyboard.Press(input.KeyX, epoch)
	if received != 1 {
		t.Errorf("Expected second silenced for later input, got %d", received)
	}
}

// TestClaimedInputNotRelayed: a key consumed as a context transition is not relayed
func TestClaimedInputNotRelayed(t *testing.T) {
	u, _ := newTestUniverse(t)
	a := u.NewContext("a")
	b := u.NewContext("b")
	u.Contexts.AddContextTransition(a, input.Pressed(input.KeyReturn), b, nil, nil)
	_ = u.Contexts.SetInitialState(a)
	u.Contexts.Start()

	relayed := 0
	b.Connect(input.Pressed(input.KeyReturn), nil, func(event.Event) { relayed++ }, event.Sync)

	u.Keyboard.Press(input.KeyReturn, epoch)
	if u.Contexts.CurrentContext() != b {
		t.Fatal("Expected switch to b")
	}
	if relayed != 0 {
		t.Errorf("Expected claimed input not relayed, got %d", relayed)
	}
}

func TestManagerUpdateAndDisplayGates(t *testing.T) {
	u, rec := newTestUniverse(t)
	var draws []string
	shown := u.NewContext("shown", Active(false))
	hidden := u.NewContext("hidden", Visible(false))
	a := &marker{name: "a", draws: &draws}
	b := &marker{name: "b", draws: &draws}
	shown.Add(a, 0)
	hidden.Add(b, 0)
	shown.AddScreen(u.FullScreen("main"))
	hidden.AddScreen(u.FullScreen("main"))

	u.Contexts.Update(10 * time.Millisecond)
	u.Contexts.Display(rec)

	if a.updates != 0 || b.updates != 1 {
		t.Errorf("Expected only the active context updated, got a=%d b=%d", a.updates, b.updates)
	}
	if len(draws) != 1 || draws[0] != "main/a" {
		t.Errorf("Expected only the visible context drawn, got %v", draws)
	}
	if rec.Frames != 1 {
		t.Errorf("Expected one flip, got %d", rec.Frames)
	}
}

func TestAddContextTwice(t *testing.T) {
	u, _ := newTestUniverse(t)
	c := u.NewContext("once")
	u.Contexts.AddContext(c)
	if len(u.Contexts.Contexts()) != 1 {
		t.Errorf("Expected single registration, got %d", len(u.Contexts.Contexts()))
	}
}
