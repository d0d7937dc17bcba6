// Package render defines the graphics boundary of the runtime: the Backend every
// frame is drawn through, the Drawable capability each visual kind implements, and
// the Screens that map world coordinates to device pixels.
package render

import (
	"errors"

	"github.com/lixenwraith/nurse/vmath"
)

// ErrImageNotFound is returned by LoadImage when the asset does not exist
var ErrImageNotFound = errors.New("image not found")

// Rect is a device-pixel rectangle, origin top-left
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r
func (r Rect) Contains(p vmath.Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Center returns the middle point of r
func (r Rect) Center() vmath.Vec2 {
	return vmath.V2(r.X+r.W/2, r.Y+r.H/2)
}

// Image is a loaded picture or a uniform surface
type Image interface {
	Name() string
	Size() vmath.Vec2
}

// Text is a rendered string anchored at a world position
type Text interface {
	Content() string
	Position() vmath.Vec2
	Size() vmath.Vec2
}

// Canvas holds the draw primitives visuals call from Draw. Positions are device
// pixels; backends clip to the screen geometry
type Canvas interface {
	DrawImage(s *Screen, img Image, pos vmath.Vec2)
	DrawText(s *Screen, txt Text, pos vmath.Vec2)
	DrawFPS(s *Screen, pos vmath.Vec2, fg, bg RGB)
}

// Drawable is implemented by every visual kind and selects its own draw routine
type Drawable interface {
	Draw(c Canvas, s *Screen)
}

// Backend is the graphics device
type Backend interface {
	Canvas

	LoadImage(name string) (Image, error)
	LoadText(text, font string, size int, pos vmath.Vec2) Text
	UniformSurface(shift, size vmath.Vec2, color RGB, alpha uint8) Image

	Display(s *Screen, obj Drawable)
	Clean()
	Flip()

	// Resolution returns the device size in pixels
	Resolution() vmath.Vec2
}

// image is the backend-neutral Image value
type image struct {
	name string
	size vmath.Vec2
}

func (i *image) Name() string     { return i.name }
func (i *image) Size() vmath.Vec2 { return i.size }

// surface is a uniform rectangle with translucency
type surface struct {
	image
	color RGB
	alpha uint8
}

// Color returns the fill color and alpha of a uniform surface
func Color(img Image) (RGB, uint8, bool) {
	s, ok := img.(*surface)
	if !ok {
		return RGB{}, 0, false
	}
	return s.color, s.alpha, true
}

// text is the backend-neutral Text value
type text struct {
	content string
	font    string
	size    int
	pos     vmath.Vec2
	extent  vmath.Vec2
}

func (t *text) Content() string      { return t.content }
func (t *text) Position() vmath.Vec2 { return t.pos }
func (t *text) Size() vmath.Vec2     { return t.extent }
