package sprite

import (
	"github.com/lixenwraith/nurse/engine"
	"github.com/lixenwraith/nurse/render"
	"github.com/lixenwraith/nurse/vmath"
)

// FpsSprite prints the measured frame rate of the backend
type FpsSprite struct {
	Sprite

	fg, bg render.RGB
}

// NewFpsSprite creates a frame rate overlay at a real screen position
func NewFpsSprite(u *engine.Universe, ctx *engine.Context, layer int, loc vmath.Vec2, fg, bg render.RGB) *FpsSprite {
	f := &FpsSprite{fg: fg, bg: bg}
	f.init(u, ctx, "fps", layer, 0, f)
	f.location = loc
	return f
}

func (f *FpsSprite) Draw(c render.Canvas, s *render.Screen) {
	c.DrawFPS(s, s.Project(f.location), f.fg, f.bg)
}
