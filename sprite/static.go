package sprite

import (
	"github.com/lixenwraith/nurse/engine"
	"github.com/lixenwraith/nurse/engine/fsm"
	"github.com/lixenwraith/nurse/render"
	"github.com/lixenwraith/nurse/vmath"
)

// StaticSprite shows one centered image at a fixed location
type StaticSprite struct {
	Sprite
}

// NewStaticSprite loads image as the default frame
func NewStaticSprite(u *engine.Universe, ctx *engine.Context, name, image string, layer int, loc vmath.Vec2) (*StaticSprite, error) {
	s := &StaticSprite{}
	s.init(u, ctx, name, layer, 0, s)
	if err := s.LoadFrames(fsm.DefaultStateName, []string{image}, Centered(), 0); err != nil {
		return nil, err
	}
	s.location = loc
	return s, nil
}

// UniformLayer is a translucent surface of one color, drawn from shift
type UniformLayer struct {
	Sprite

	color render.RGB
	alpha uint8
}

// NewUniformLayer creates the surface through the backend. A zero size covers the
// device from shift
func NewUniformLayer(u *engine.Universe, ctx *engine.Context, name string, layer int, shift, size vmath.Vec2, color render.RGB, alpha uint8) *UniformLayer {
	l := &UniformLayer{color: color, alpha: alpha}
	l.init(u, ctx, name, layer, 0, l)
	surf := u.Graphics.UniformSurface(shift, size, color, alpha)
	l.SetFrames(fsm.DefaultStateName, []render.Image{surf}, Offset(vmath.Vec2{}), 0)
	l.location = shift
	return l
}

// Color returns the fill color and opacity
func (l *UniformLayer) Color() (render.RGB, uint8) {
	return l.color, l.alpha
}
