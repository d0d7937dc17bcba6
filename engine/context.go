package engine

import (
	"log/slog"
	"sort"
	"time"

	"github.com/lixenwraith/nurse/engine/fsm"
	"github.com/lixenwraith/nurse/event"
	"github.com/lixenwraith/nurse/render"
)

// Context property names settable through transition patches
const (
	PropVisible   = "is_visible"
	PropActive    = "is_active"
	PropReceiving = "is_receiving_events"
)

// Visual is an entity that is both drawn and updated by its context
type Visual interface {
	render.Drawable
	fsm.Updater
}

// Context is a scene: it owns updaters, layered visuals and screens, and is a state of
// the ContextManager. Its three flags are independent of which context is current
type Context struct {
	fsm.Machine

	layers   map[int][]render.Drawable
	order    []int // ascending layer indices
	updaters []fsm.Updater
	screens  []*render.Screen

	visible   bool
	active    bool
	receiving bool
}

// ContextOption configures a new Context
type ContextOption func(*Context)

// Visible sets the initial display flag
func Visible(v bool) ContextOption { return func(c *Context) { c.visible = v } }

// Active sets the initial update flag
func Active(v bool) ContextOption { return func(c *Context) { c.active = v } }

// Receiving sets the initial input relay flag
func Receiving(v bool) ContextOption { return func(c *Context) { c.receiving = v } }

// NewContext creates a visible, active and receiving context
func NewContext(name string, q *event.Queue, opts ...ContextOption) *Context {
	c := &Context{
		layers:    make(map[int][]render.Drawable),
		visible:   true,
		active:    true,
		receiving: true,
	}
	c.Init(name, q)
	c.SetGate(c.ReceivingEvents)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddFSM registers an updater driven by Update
func (c *Context) AddFSM(u fsm.Updater) {
	c.updaters = append(c.updaters, u)
}

// AddVisible appends d to layer. Layers draw in ascending order, insertion order within
func (c *Context) AddVisible(d render.Drawable, layer int) {
	if _, ok := c.layers[layer]; !ok {
		c.order = append(c.order, layer)
		sort.Ints(c.order)
	}
	c.layers[layer] = append(c.layers[layer], d)
}

// Add registers v both as updater and as visual on layer
func (c *Context) Add(v Visual, layer int) {
	c.AddFSM(v)
	c.AddVisible(v, layer)
}

// AddScreen attaches a viewport
func (c *Context) AddScreen(s *render.Screen) {
	c.screens = append(c.screens, s)
}

// Screens returns the attached viewports
func (c *Context) Screens() []*render.Screen {
	return c.screens
}

// Layers returns the populated layer indices in draw order
func (c *Context) Layers() []int {
	return append([]int(nil), c.order...)
}

// Visuals returns the drawables of layer in insertion order
func (c *Context) Visuals(layer int) []render.Drawable {
	return c.layers[layer]
}

// Display draws every visual on every screen, back layer to front
func (c *Context) Display(gfx render.Backend) {
	for _, s := range c.screens {
		for _, layer := range c.order {
			for _, d := range c.layers[layer] {
				s.Display(gfx, d)
			}
		}
	}
}

// Update forwards dt to every owned updater
func (c *Context) Update(dt time.Duration) {
	for _, u := range c.updaters {
		u.Update(dt)
	}
}

// Delegate re-emits a relayed event from the context to its own subscribers
func (c *Context) Delegate(ev event.Event) {
	c.Emit(ev.Signal, ev.Payload)
}

// SetProperty toggles the context flags; other names go to the property bag
func (c *Context) SetProperty(name string, value any) {
	var flag *bool
	switch name {
	case PropVisible:
		flag = &c.visible
	case PropActive:
		flag = &c.active
	case PropReceiving:
		flag = &c.receiving
	default:
		c.Machine.SetProperty(name, value)
		return
	}
	b, ok := value.(bool)
	if !ok {
		slog.Warn("context flag needs a bool", "context", c.Name(), "property", name, "value", value)
		return
	}
	*flag = b
}

// IsVisible reports whether the manager displays the context
func (c *Context) IsVisible() bool { return c.visible }

// IsActive reports whether the manager updates the context
func (c *Context) IsActive() bool { return c.active }

// ReceivingEvents reports the relay flag
func (c *Context) ReceivingEvents() bool { return c.receiving }

// SetVisible toggles display, same as the "is_visible" property
func (c *Context) SetVisible(v bool) { c.visible = v }

// SetActive toggles updates, same as the "is_active" property
func (c *Context) SetActive(v bool) { c.active = v }

// SetReceiving toggles keyboard relay, same as the "is_receiving_events" property
func (c *Context) SetReceiving(v bool) { c.receiving = v }
