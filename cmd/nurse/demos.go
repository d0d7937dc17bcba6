package main

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/lixenwraith/nurse/audio"
	"github.com/lixenwraith/nurse/engine"
	"github.com/lixenwraith/nurse/engine/fsm"
	"github.com/lixenwraith/nurse/event"
	"github.com/lixenwraith/nurse/input"
	"github.com/lixenwraith/nurse/render"
	"github.com/lixenwraith/nurse/sprite"
	"github.com/lixenwraith/nurse/timer"
	"github.com/lixenwraith/nurse/vmath"
)

// demo builds a scene on u and starts its context manager
type demo func(u *engine.Universe) error

var demos = map[string]demo{
	"timer":   buildTimerDemo,
	"screens": buildScreensDemo,
	"player":  buildPlayerDemo,
}

func demoNames() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// timerControl drives a pacemaker from the keyboard: space toggles pause, return
// starts or stops
type timerControl struct {
	event.Object

	pm     *timer.PaceMaker
	status *sprite.Text
	player audio.Player
}

func (c *timerControl) onSpace(event.Event) {
	var err error
	switch c.pm.Status() {
	case timer.Paused:
		err = c.pm.Resume()
	case timer.Running, timer.Resuming:
		err = c.pm.Pause()
	default:
		c.pm.Start()
	}
	c.report(err)
}

func (c *timerControl) onReturn(event.Event) {
	var err error
	switch c.pm.Status() {
	case timer.Running, timer.Resuming:
		c.pm.Stop()
	case timer.Paused:
		err = fmt.Errorf("stop %q while paused: %w", c.pm.Name(), timer.ErrNotRunning)
	default:
		c.pm.Start()
	}
	c.report(err)
}

func (c *timerControl) report(err error) {
	if err != nil {
		slog.Warn("timer command rejected", "error", err)
		c.player.Play(audio.CueError)
	} else {
		c.player.Play(audio.CueSwitch)
	}
	c.refresh()
}

func (c *timerControl) refresh() {
	c.status.SetText(fmt.Sprintf("%s %s  ticks %d", c.pm.Name(), c.pm.Status(), c.pm.Ticks()))
}

func buildTimerDemo(u *engine.Universe) error {
	ctx := u.NewContext("context")
	ctx.AddScreen(u.FullScreen("fixed screen"))

	pm := u.NewPaceMaker("timer", timer.Interval, 5*time.Second)
	ctrl := &timerControl{
		pm:     pm,
		status: sprite.NewText(u, ctx, "status", "", "mono", 16, sprite.LayerOverlay, vmath.V2(16, 16)),
		player: u.Audio,
	}
	ctrl.Init("incrementator", u.Queue)
	ctrl.refresh()

	ctx.Connect(input.Pressed(input.KeySpace), ctrl, ctrl.onSpace, event.Async)
	ctx.Connect(input.Pressed(input.KeyReturn), ctrl, ctrl.onReturn, event.Async)
	pm.Connect(event.Tick, ctrl, func(event.Event) {
		u.Audio.Play(audio.CueTick)
		ctrl.refresh()
	}, event.Async)

	sprite.NewText(u, ctx, "help", "space: pause/resume  return: start/stop  q: quit", "mono", 16, sprite.LayerOverlay, vmath.V2(16, 48))
	sprite.NewFpsSprite(u, ctx, sprite.LayerOverlay, vmath.V2(16, 80), render.RGBWhite, render.RGBBlack)

	return startOn(u, ctx)
}

// hospitalLoop is the walk of the screens demo, mirrored for the second nurse
var hospitalLoop = []vmath.Vec2{{X: 0, Y: -100}, {X: 200, Y: -100}, {X: 200, Y: 100}, {X: -200, Y: 100}, {X: -200, Y: -100}}

func mirrored(path []vmath.Vec2) []vmath.Vec2 {
	out := make([]vmath.Vec2, len(path))
	for i, p := range path {
		out[i] = vmath.V2(-p.X, p.Y)
	}
	return out
}

func buildScreensDemo(u *engine.Universe) error {
	res := u.Graphics.Resolution()
	split := u.NewContext("context split")
	if _, err := sprite.NewStaticSprite(u, split, "hospital", "hopital.png", sprite.LayerBackground, vmath.Vec2{}); err != nil {
		return err
	}

	halves := []struct {
		screen string
		image  string
		path   []vmath.Vec2
		rect   render.Rect
	}{
		{"screen left", "infirmiere.png", hospitalLoop, render.Rect{W: res.X / 2, H: res.Y}},
		{"screen right", "perso.png", mirrored(hospitalLoop), render.Rect{X: res.X / 2, W: res.X / 2, H: res.Y}},
	}
	for _, h := range halves {
		m := sprite.NewMovingSprite(u, split, "nurse", sprite.LayerActor, 180)
		if err := m.LoadFrames(fsm.DefaultStateName, []string{h.image}, sprite.Centered(), 1); err != nil {
			return err
		}
		if err := m.SetPath(h.path); err != nil {
			return err
		}
		m.Start()

		scr := render.NewWorldScreen(h.screen, h.rect, m.Location())
		scr.Follow(m)
		split.AddScreen(scr)
	}

	pause, err := buildPauseContext(u)
	if err != nil {
		return err
	}
	addPauseToggle(u, split, pause)
	return startOn(u, split)
}

func buildPlayerDemo(u *engine.Universe) error {
	ward := u.NewContext("ward")
	if _, err := sprite.NewStaticSprite(u, ward, "hospital", "hopital.png", sprite.LayerBackground, vmath.Vec2{}); err != nil {
		return err
	}

	nurse := sprite.NewPlayer(u, ward, "nurse", sprite.LayerActor, 150)
	if err := nurse.LoadFrames(fsm.DefaultStateName, []string{"infirmiere.png"}, sprite.CenteredBottom(), 0); err != nil {
		return err
	}
	nurse.Start()

	cam := render.NewWorldScreen("camera", render.Rect{W: u.Graphics.Resolution().X, H: u.Graphics.Resolution().Y}, nurse.Location())
	cam.Follow(nurse)
	ward.AddScreen(cam)

	// Always shown, never current, deaf: the dialog stays put while the camera moves
	hud := u.NewContext("hud", engine.Receiving(false))
	hud.AddScreen(u.FullScreen("hud"))
	dialog := sprite.NewDialog(u, hud, "dialog", sprite.LayerOverlay, vmath.V2(16, 16))
	style := sprite.DefaultDialogStyle()
	style.MaxWidth = 320
	hello := dialog.AddReply("hello", "Bonjour ! Use the arrows to walk the ward.", style)
	hint := dialog.AddReply("hint", "Press p to pause, q to leave.", style)
	hello.Then(hint)
	if err := dialog.SetInitialState(hello); err != nil {
		return err
	}
	dialog.Start()

	pause, err := buildPauseContext(u)
	if err != nil {
		return err
	}
	addPauseToggle(u, ward, pause)
	return startOn(u, ward)
}

// buildPauseContext returns a hidden, frozen overlay context
func buildPauseContext(u *engine.Universe) (*engine.Context, error) {
	pause := u.NewContext("context pause", engine.Visible(false), engine.Active(false), engine.Receiving(false))
	pause.AddScreen(u.FullScreen("screen"))
	sprite.NewUniformLayer(u, pause, "veil", sprite.LayerBackground, vmath.Vec2{}, vmath.Vec2{}, render.RGBGray, 96)
	if _, err := sprite.NewStaticSprite(u, pause, "pause", "pause.png", sprite.LayerActor, vmath.V2(400, 200)); err != nil {
		return nil, err
	}
	sprite.NewFpsSprite(u, pause, sprite.LayerOverlay, vmath.V2(16, 16), render.RGBWhite, render.RGBBlack)
	return pause, nil
}

// addPauseToggle switches between game and pause on p. The game stays visible, frozen
// and deaf under the overlay
func addPauseToggle(u *engine.Universe, game, pause *engine.Context) {
	p := input.Pressed(input.KeyP)
	u.Contexts.AddContextTransition(game, p, pause,
		fsm.Properties{engine.PropActive: false, engine.PropReceiving: false},
		fsm.Properties{engine.PropVisible: true, engine.PropActive: true})
	u.Contexts.AddContextTransition(pause, p, game,
		fsm.Properties{engine.PropVisible: false, engine.PropActive: false},
		fsm.Properties{engine.PropActive: true, engine.PropReceiving: true})
	u.Contexts.Connect(event.StateChanged, u.Contexts, func(event.Event) {
		u.Audio.Play(audio.CueSwitch)
	}, event.Async)
}

func startOn(u *engine.Universe, ctx *engine.Context) error {
	if err := u.Contexts.SetInitialState(ctx); err != nil {
		return err
	}
	u.Contexts.Start()
	return nil
}
