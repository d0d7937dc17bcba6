// Package engine ties the runtime together: contexts and their manager, the run loop,
// and the Universe holding the shared queue and the backends every component uses.
package engine

import (
	"time"

	"github.com/lixenwraith/nurse/audio"
	"github.com/lixenwraith/nurse/config"
	"github.com/lixenwraith/nurse/event"
	"github.com/lixenwraith/nurse/input"
	"github.com/lixenwraith/nurse/render"
	"github.com/lixenwraith/nurse/timer"
)

// Universe is the application context passed to constructors and the loop
type Universe struct {
	Config    config.Config
	Queue     *event.Queue
	Graphics  render.Backend
	Keyboard  *input.Keyboard
	Audio     audio.Player
	Scheduler *timer.TickScheduler
	Contexts  *ContextManager
}

// NewUniverse wires the shared queue, keyboard and context manager over the given
// backends. A nil player is replaced by audio.Silent
func NewUniverse(cfg config.Config, gfx render.Backend, src input.Source, player audio.Player) *Universe {
	if player == nil {
		player = audio.Silent{}
	}
	q := event.NewQueue()
	kb := input.NewKeyboard(q, src, cfg.KeyReleaseDelay())
	return &Universe{
		Config:    cfg,
		Queue:     q,
		Graphics:  gfx,
		Keyboard:  kb,
		Audio:     player,
		Scheduler: timer.NewTickScheduler(),
		Contexts:  NewContextManager(q, kb),
	}
}

// NewContext creates a context on the shared queue and adds it to the manager
func (u *Universe) NewContext(name string, opts ...ContextOption) *Context {
	c := NewContext(name, u.Queue, opts...)
	u.Contexts.AddContext(c)
	return c
}

// NewPaceMaker creates a pacemaker driven by the loop's scheduler
func (u *Universe) NewPaceMaker(name string, kind timer.Kind, period time.Duration) *timer.PaceMaker {
	return timer.NewPaceMaker(name, kind, period, u.Scheduler, u.Queue)
}

// FullScreen returns a real-coordinate screen covering the whole device
func (u *Universe) FullScreen(name string) *render.Screen {
	res := u.Graphics.Resolution()
	return render.NewRealScreen(name, render.Rect{W: res.X, H: res.Y})
}
