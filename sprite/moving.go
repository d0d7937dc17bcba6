package sprite

import (
	"errors"
	"time"

	"github.com/lixenwraith/nurse/engine"
	"github.com/lixenwraith/nurse/engine/fsm"
	"github.com/lixenwraith/nurse/event"
	"github.com/lixenwraith/nurse/vmath"
)

// ErrEmptyPath is returned by SetPath for a path without points
var ErrEmptyPath = errors.New("empty path")

// Way is the direction a path is walked
type Way int

const (
	Forward Way = iota
	Reverse
)

func (w Way) String() string {
	if w == Reverse {
		return "reverse"
	}
	return "forward"
}

// headingStates adds one state per compass heading, named after it
func headingStates(m *fsm.Machine) [vmath.HeadingCount]*fsm.State {
	var states [vmath.HeadingCount]*fsm.State
	for h := vmath.HeadingRest; h < vmath.HeadingCount; h++ {
		states[h] = fsm.NewState(h.String())
		m.AddState(states[h])
	}
	return states
}

// MovingSprite walks a closed path of checkpoints at constant speed. Its state is the
// quantized heading of the segment being walked
type MovingSprite struct {
	Sprite

	headings   [vmath.HeadingCount]*fsm.State
	path       []vmath.Vec2
	checkpoint int
	way        Way
	segment    vmath.Vec2
	heading    vmath.Heading
}

// NewMovingSprite creates a path follower registered on ctx at layer
func NewMovingSprite(u *engine.Universe, ctx *engine.Context, name string, layer int, speed float64) *MovingSprite {
	m := &MovingSprite{}
	m.init(u, ctx, name, layer, speed, m)
	m.headings = headingStates(&m.Machine)
	return m
}

// HeadingState returns the state standing for h
func (m *MovingSprite) HeadingState(h vmath.Heading) *fsm.State {
	return m.headings[h]
}

// SetPath restarts the walk at points[0]
func (m *MovingSprite) SetPath(points []vmath.Vec2) error {
	if len(points) == 0 {
		return ErrEmptyPath
	}
	m.path = append(m.path[:0], points...)
	m.checkpoint = 0
	m.location = m.path[0]
	m.deriveHeading()
	m.Emit(event.LocationChanged, m.location)
	return nil
}

// SetWay selects the walking direction and re-derives the heading.
// Turning back between two checkpoints walks the current segment back to the checkpoint just left
func (m *MovingSprite) SetWay(w Way) {
	if len(m.path) > 0 && w != m.way && m.location != m.path[m.checkpoint] {
		m.checkpoint = m.next(m.checkpoint)
	}
	m.way = w
	if len(m.path) > 0 {
		m.deriveHeading()
	}
}

func (m *MovingSprite) Way() Way               { return m.way }
func (m *MovingSprite) Path() []vmath.Vec2     { return m.path }
func (m *MovingSprite) Checkpoint() int        { return m.checkpoint }
func (m *MovingSprite) Heading() vmath.Heading { return m.heading }

// Target returns the checkpoint currently walked towards
func (m *MovingSprite) Target() vmath.Vec2 {
	return m.path[m.next(m.checkpoint)]
}

func (m *MovingSprite) next(i int) int {
	n := len(m.path)
	if m.way == Reverse {
		return (i - 1 + n) % n
	}
	return (i + 1) % n
}

// deriveHeading quantizes the segment from the checkpoint to its successor and moves the
// machine to the matching heading state
func (m *MovingSprite) deriveHeading() {
	m.segment = vmath.V2Sub(m.Target(), m.path[m.checkpoint])
	h := vmath.Quantize8(m.segment)
	m.heading = h
	st := m.headings[h]
	if m.Status() != fsm.StatusRunning {
		// Owned by construction
		_ = m.SetInitialState(st)
		return
	}
	if cur := m.Current(); cur != nil && cur.Base() != st.Base() {
		m.ChangeState(cur, st, nil, nil)
	}
}

// Update walks speed*dt along the current heading, snapping onto every checkpoint whose
// segment end is reached or passed on the way
func (m *MovingSprite) Update(dt time.Duration) {
	m.Sprite.Update(dt)
	if len(m.path) == 0 || m.speed <= 0 {
		return
	}

	start := m.location
	budget := dt.Seconds()
	for budget > 0 && m.heading != vmath.HeadingRest {
		target := m.Target()
		unit := m.heading.Unit()
		projected := vmath.V2Add(m.location, vmath.V2Scale(unit, m.speed*budget))

		if vmath.V2Dot(m.segment, vmath.V2Sub(projected, target)) < 0 {
			m.location = projected
			break
		}
		// Distance along the heading up to the line through target normal to the segment.
		// Quantization keeps dot(segment, unit) positive
		travelled := max(0, vmath.V2Dot(m.segment, vmath.V2Sub(target, m.location))/vmath.V2Dot(m.segment, unit))
		budget -= travelled / m.speed
		m.location = target
		m.checkpoint = m.next(m.checkpoint)
		m.deriveHeading()
	}

	if m.location != start {
		m.Emit(event.LocationChanged, m.location)
	}
}
