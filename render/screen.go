package render

import (
	"log/slog"

	"github.com/lixenwraith/nurse/event"
	"github.com/lixenwraith/nurse/vmath"
)

// Screen is a viewport on the device. A real-coordinate screen has its reference at
// the geometry's top-left corner; a world-coordinate screen keeps its focus point at
// the geometry's center
type Screen struct {
	event.Object

	geometry Rect
	world    bool
	focus    vmath.Vec2
	ref      vmath.Vec2
}

// NewRealScreen creates a screen drawing in device coordinates
func NewRealScreen(name string, geometry Rect) *Screen {
	s := &Screen{geometry: geometry}
	s.Init(name, nil)
	s.ref = vmath.V2(geometry.X, geometry.Y)
	return s
}

// NewWorldScreen creates a screen centered on focus, in world coordinates
func NewWorldScreen(name string, geometry Rect, focus vmath.Vec2) *Screen {
	s := &Screen{geometry: geometry, world: true}
	s.Init(name, nil)
	s.SetFocus(focus)
	return s
}

// SetFocus recenters a world screen. Ignored on real screens
func (s *Screen) SetFocus(focus vmath.Vec2) {
	if !s.world {
		return
	}
	s.focus = focus
	s.ref = vmath.V2Sub(s.geometry.Center(), focus)
}

// Follow keeps the focus on target's LocationChanged payload, delivered synchronously
func (s *Screen) Follow(target event.Emitter) {
	target.Self().Connect(event.LocationChanged, s, s.onFocusChanged, event.Sync)
}

func (s *Screen) onFocusChanged(ev event.Event) {
	loc, ok := ev.Payload.(vmath.Vec2)
	if !ok {
		slog.Warn("location_changed without position payload", "screen", s.Name(), "sender", ev.Sender.Name())
		return
	}
	s.SetFocus(loc)
}

// Ref returns the device offset added to a world position
func (s *Screen) Ref() vmath.Vec2 {
	return s.ref
}

// Project maps a world position to device pixels
func (s *Screen) Project(world vmath.Vec2) vmath.Vec2 {
	return vmath.V2Add(s.ref, world)
}

// Geometry returns the device rectangle covered by the screen
func (s *Screen) Geometry() Rect {
	return s.geometry
}

// Focus returns the followed world point, zero for real screens
func (s *Screen) Focus() vmath.Vec2 {
	return s.focus
}

// IsWorld reports whether the screen uses world coordinates
func (s *Screen) IsWorld() bool {
	return s.world
}

// Display draws obj through gfx on this screen
func (s *Screen) Display(gfx Backend, obj Drawable) {
	gfx.Display(s, obj)
}
