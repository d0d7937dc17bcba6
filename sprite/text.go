package sprite

import (
	"github.com/lixenwraith/nurse/engine"
	"github.com/lixenwraith/nurse/render"
	"github.com/lixenwraith/nurse/vmath"
)

// Text is a single line of backend text at a world location. The rendered text is
// reloaded only when content changes
type Text struct {
	Sprite

	content string
	font    string
	size    int
	loaded  render.Text
}

// NewText creates a text visual registered on ctx at layer
func NewText(u *engine.Universe, ctx *engine.Context, name, content, font string, size, layer int, loc vmath.Vec2) *Text {
	t := &Text{font: font, size: size}
	t.init(u, ctx, name, layer, 0, t)
	t.location = loc
	t.SetText(content)
	return t
}

// SetText replaces the content
func (t *Text) SetText(content string) {
	if t.loaded != nil && content == t.content {
		return
	}
	t.content = content
	t.loaded = t.gfx.LoadText(content, t.font, t.size, t.location)
}

// Content returns the displayed string
func (t *Text) Content() string { return t.content }

// Rendered returns the backend text
func (t *Text) Rendered() render.Text { return t.loaded }

func (t *Text) Draw(c render.Canvas, s *render.Screen) {
	if t.content == "" {
		return
	}
	c.DrawText(s, t.loaded, s.Project(t.location))
}
