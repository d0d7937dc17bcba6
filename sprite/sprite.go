// Package sprite provides the visual entities of a context. Every sprite is a state
// machine whose current state selects the frames drawn; subtypes add motion policy.
package sprite

import (
	"fmt"
	"time"

	"github.com/lixenwraith/nurse/engine"
	"github.com/lixenwraith/nurse/engine/fsm"
	"github.com/lixenwraith/nurse/render"
	"github.com/lixenwraith/nurse/vmath"
)

// Default layers
const (
	LayerBackground = 0
	LayerSprite     = 1
	LayerActor      = 2
	LayerOverlay    = 3
)

type anchorKind uint8

const (
	anchorOffset anchorKind = iota
	anchorCentered
	anchorCenteredBottom
	anchorOffsets
)

// Anchor places a frame relative to the sprite location. Offsets are measured from
// the frame's top-left corner, y down
type Anchor struct {
	kind    anchorKind
	offsets []vmath.Vec2
}

// Centered anchors on the middle of each frame
func Centered() Anchor { return Anchor{kind: anchorCentered} }

// CenteredBottom anchors on the middle of each frame's bottom edge
func CenteredBottom() Anchor { return Anchor{kind: anchorCenteredBottom} }

// Offset uses the same offset for every frame
func Offset(v vmath.Vec2) Anchor { return Anchor{kind: anchorOffset, offsets: []vmath.Vec2{v}} }

// Offsets gives one offset per frame; missing entries reuse the last one
func Offsets(vs ...vmath.Vec2) Anchor { return Anchor{kind: anchorOffsets, offsets: vs} }

func (a Anchor) resolve(images []render.Image) []vmath.Vec2 {
	out := make([]vmath.Vec2, len(images))
	for i, img := range images {
		size := img.Size()
		switch a.kind {
		case anchorCentered:
			out[i] = vmath.V2Scale(size, 0.5)
		case anchorCenteredBottom:
			out[i] = vmath.V2(size.X/2, size.Y)
		case anchorOffsets:
			if len(a.offsets) > 0 {
				out[i] = a.offsets[min(i, len(a.offsets)-1)]
			}
		default:
			if len(a.offsets) > 0 {
				out[i] = a.offsets[0]
			}
		}
	}
	return out
}

// FrameSet is the animation of one state
type FrameSet struct {
	Images  []render.Image
	Anchors []vmath.Vec2
	Delay   time.Duration // zero shows the first frame only
}

// Sprite is a state machine with per-state frames, a world location and a speed
type Sprite struct {
	fsm.Machine

	gfx      render.Backend
	frames   map[string]*FrameSet
	location vmath.Vec2
	speed    float64 // world units per second
	age      time.Duration
}

// NewSprite creates a static animated sprite registered on ctx at layer
func NewSprite(u *engine.Universe, ctx *engine.Context, name string, layer int, speed float64) *Sprite {
	s := &Sprite{}
	s.init(u, ctx, name, layer, speed, s)
	return s
}

// init prepares an embedded Sprite and registers self, the outermost type, on ctx
func (s *Sprite) init(u *engine.Universe, ctx *engine.Context, name string, layer int, speed float64, self engine.Visual) {
	s.Init(name, u.Queue)
	s.gfx = u.Graphics
	s.frames = make(map[string]*FrameSet)
	s.speed = speed
	ctx.Add(self, layer)
}

// LoadFrames loads images through the backend for state. fps <= 0 shows the first frame
// only. An empty name list means nothing is drawn in that state
func (s *Sprite) LoadFrames(state string, names []string, anchor Anchor, fps float64) error {
	images := make([]render.Image, 0, len(names))
	for _, name := range names {
		img, err := s.gfx.LoadImage(name)
		if err != nil {
			return fmt.Errorf("sprite %q state %q: %w", s.Name(), state, err)
		}
		images = append(images, img)
	}
	s.SetFrames(state, images, anchor, fps)
	return nil
}

// SetFrames installs already loaded images for state
func (s *Sprite) SetFrames(state string, images []render.Image, anchor Anchor, fps float64) {
	var delay time.Duration
	if fps > 0 {
		delay = time.Duration(float64(time.Second) / fps)
	}
	s.frames[state] = &FrameSet{Images: images, Anchors: anchor.resolve(images), Delay: delay}
}

// Frames returns the set registered for state
func (s *Sprite) Frames(state string) (*FrameSet, bool) {
	fs, ok := s.frames[state]
	return fs, ok
}

// FrameAt returns the frame shown at animation time t. States without frames fall
// back to the default set; ok is false when nothing should be drawn
func (s *Sprite) FrameAt(t time.Duration) (img render.Image, anchor vmath.Vec2, ok bool) {
	fs, found := s.frames[s.CurrentName()]
	if !found {
		fs, found = s.frames[fsm.DefaultStateName]
	}
	if !found || len(fs.Images) == 0 {
		return nil, vmath.Vec2{}, false
	}
	idx := 0
	if n := len(fs.Images); fs.Delay > 0 && n > 1 {
		idx = int((t % (fs.Delay * time.Duration(n))) / fs.Delay)
	}
	return fs.Images[idx], fs.Anchors[idx], true
}

// Location returns the world position
func (s *Sprite) Location() vmath.Vec2 { return s.location }

// SetLocation moves the sprite without emitting
func (s *Sprite) SetLocation(v vmath.Vec2) { s.location = v }

// Speed returns world units per second
func (s *Sprite) Speed() float64 { return s.speed }

// SetSpeed changes the speed
func (s *Sprite) SetSpeed(v float64) { s.speed = v }

// Age returns the accumulated animation time
func (s *Sprite) Age() time.Duration { return s.age }

// Update advances the animation clock
func (s *Sprite) Update(dt time.Duration) {
	s.age += dt
}

// Draw blits the current frame with its anchor on the sprite location
func (s *Sprite) Draw(c render.Canvas, scr *render.Screen) {
	img, anchor, ok := s.FrameAt(s.age)
	if !ok {
		return
	}
	c.DrawImage(scr, img, vmath.V2Sub(scr.Project(s.location), anchor))
}
