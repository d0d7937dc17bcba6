package render

import (
	"fmt"

	"github.com/lixenwraith/nurse/vmath"
)

// DrawKind names the primitive a recorded call used
type DrawKind uint8

const (
	DrawImage DrawKind = iota
	DrawText
	DrawFPS
)

func (k DrawKind) String() string {
	switch k {
	case DrawText:
		return "text"
	case DrawFPS:
		return "fps"
	default:
		return "image"
	}
}

// DrawCall is one primitive recorded by Recorder
type DrawCall struct {
	Kind   DrawKind
	Screen string
	Name   string // image name or text content
	Pos    vmath.Vec2
}

// Recorder is a headless Backend that keeps every draw call of the current frame
type Recorder struct {
	resolution vmath.Vec2
	sizes      map[string]vmath.Vec2

	// Calls holds the draw calls since the last Clean
	Calls []DrawCall
	// Frames is the number of completed frames (Flip calls)
	Frames int
	// Displayed counts Display invocations since the last Clean
	Displayed int
}

// DefaultImageSize is the size Recorder reports for images without a registered size
var DefaultImageSize = vmath.V2(16, 16)

// NewRecorder creates a headless backend of the given resolution
func NewRecorder(resolution vmath.Vec2) *Recorder {
	return &Recorder{
		resolution: resolution,
		sizes:      make(map[string]vmath.Vec2),
	}
}

// SetImageSize registers the size reported for name
func (r *Recorder) SetImageSize(name string, size vmath.Vec2) {
	r.sizes[name] = size
}

func (r *Recorder) LoadImage(name string) (Image, error) {
	if name == "" {
		return nil, fmt.Errorf("load %q: %w", name, ErrImageNotFound)
	}
	size, ok := r.sizes[name]
	if !ok {
		size = DefaultImageSize
	}
	return &image{name: name, size: size}, nil
}

func (r *Recorder) LoadText(content, font string, size int, pos vmath.Vec2) Text {
	return &text{
		content: content,
		font:    font,
		size:    size,
		pos:     pos,
		extent:  vmath.V2(float64(len([]rune(content))*size/2), float64(size)),
	}
}

func (r *Recorder) UniformSurface(shift, size vmath.Vec2, color RGB, alpha uint8) Image {
	if size.X <= 0 || size.Y <= 0 {
		size = r.resolution
	}
	return &surface{image: image{name: "uniform", size: size}, color: color, alpha: alpha}
}

func (r *Recorder) Display(s *Screen, obj Drawable) {
	r.Displayed++
	obj.Draw(r, s)
}

func (r *Recorder) Clean() {
	r.Calls = r.Calls[:0]
	r.Displayed = 0
}

func (r *Recorder) Flip() {
	r.Frames++
}

func (r *Recorder) Resolution() vmath.Vec2 {
	return r.resolution
}

func (r *Recorder) DrawImage(s *Screen, img Image, pos vmath.Vec2) {
	r.Calls = append(r.Calls, DrawCall{Kind: DrawImage, Screen: s.Name(), Name: img.Name(), Pos: pos})
}

func (r *Recorder) DrawText(s *Screen, txt Text, pos vmath.Vec2) {
	r.Calls = append(r.Calls, DrawCall{Kind: DrawText, Screen: s.Name(), Name: txt.Content(), Pos: pos})
}

func (r *Recorder) DrawFPS(s *Screen, pos vmath.Vec2, fg, bg RGB) {
	r.Calls = append(r.Calls, DrawCall{Kind: DrawFPS, Screen: s.Name(), Pos: pos})
}
