package sprite

import (
	"time"

	"github.com/lixenwraith/nurse/engine"
	"github.com/lixenwraith/nurse/engine/fsm"
	"github.com/lixenwraith/nurse/event"
	"github.com/lixenwraith/nurse/input"
	"github.com/lixenwraith/nurse/vmath"
)

type axisKey struct {
	key input.Key
	dx  int // axis value while held, 0 on the other axis
	dy  int
}

var arrowKeys = []axisKey{
	{input.KeyLeft, -1, 0},
	{input.KeyRight, 1, 0},
	{input.KeyUp, 0, -1},
	{input.KeyDown, 0, 1},
}

// Player is a sprite steered by the arrow keys relayed through its context
// Its state is the heading built from the arrows currently held
type Player struct {
	Sprite

	headings [vmath.HeadingCount]*fsm.State
}

// NewPlayer creates a player registered on ctx, starting at rest
func NewPlayer(u *engine.Universe, ctx *engine.Context, name string, layer int, speed float64) *Player {
	p := &Player{}
	p.init(u, ctx, name, layer, speed, p)
	p.headings = headingStates(&p.Machine)
	p.wire(ctx)
	_ = p.SetInitialState(p.headings[vmath.HeadingRest])
	return p
}

// wire adds, for every heading, the arrow press and release transitions changing it.
// Sync delivery keeps a press and its release from racing through the queue
func (p *Player) wire(ctx *engine.Context) {
	for h := vmath.HeadingRest; h < vmath.HeadingCount; h++ {
		dx, dy := h.Axes()
		from := p.headings[h]
		for _, a := range arrowKeys {
			// Press overrides the axis
			nx, ny := dx, dy
			if a.dx != 0 {
				nx = a.dx
			} else {
				ny = a.dy
			}
			if to := vmath.HeadingFromAxes(nx, ny); to != h {
				from.AddTransition(ctx, input.Pressed(a.key), p.headings[to], nil, nil, event.Sync)
			}

			// Release clears the axis only if this arrow set it
			nx, ny = dx, dy
			if a.dx != 0 && dx == a.dx {
				nx = 0
			} else if a.dy != 0 && dy == a.dy {
				ny = 0
			}
			if to := vmath.HeadingFromAxes(nx, ny); to != h {
				from.AddTransition(ctx, input.Released(a.key), p.headings[to], nil, nil, event.Sync)
			}
		}
	}
}

// Heading returns the heading of the current state
func (p *Player) Heading() vmath.Heading {
	h, _ := vmath.HeadingFromName(p.CurrentName())
	return h
}

// Update moves along the held heading. Diagonals use the unit vector
func (p *Player) Update(dt time.Duration) {
	p.Sprite.Update(dt)
	h := p.Heading()
	if h == vmath.HeadingRest || p.speed <= 0 {
		return
	}
	p.location = vmath.V2Add(p.location, vmath.V2Scale(h.Unit(), p.speed*dt.Seconds()))
	p.Emit(event.LocationChanged, p.location)
}
