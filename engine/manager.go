package engine

import (
	"time"

	"github.com/lixenwraith/nurse/engine/fsm"
	"github.com/lixenwraith/nurse/event"
	"github.com/lixenwraith/nurse/render"
)

// ContextManager is the machine whose states are contexts. It listens synchronously
// to every keyboard signal: the current context gets first claim as a transition,
// unclaimed input is relayed to every receiving context
type ContextManager struct {
	fsm.Machine

	keyboard *event.Object
	contexts []*Context
}

// NewContextManager creates the manager and subscribes it to keyboard
func NewContextManager(q *event.Queue, keyboard event.Emitter) *ContextManager {
	m := &ContextManager{keyboard: keyboard.Self()}
	m.Init("context manager", q)
	m.keyboard.Connect(event.All, m, m.receive, event.Sync)
	return m
}

// AddContext adopts c as a state. Re-adding a context is a no-op
func (m *ContextManager) AddContext(c *Context) {
	for _, have := range m.contexts {
		if have == c {
			return
		}
	}
	m.AddState(c)
	m.contexts = append(m.contexts, c)
}

// AddContextTransition switches from -> to when the keyboard emits sig while from is current
func (m *ContextManager) AddContextTransition(from *Context, sig event.Signal, to *Context, src, dst fsm.Properties) {
	from.AddRule(m.keyboard, sig, to, src, dst)
}

// Contexts returns the managed contexts in insertion order
func (m *ContextManager) Contexts() []*Context {
	return m.contexts
}

// CurrentContext returns the context holding transition focus, nil before Start
func (m *ContextManager) CurrentContext() *Context {
	c, _ := m.Current().(*Context)
	return c
}

// Update advances every active context
func (m *ContextManager) Update(dt time.Duration) {
	for _, c := range m.contexts {
		if c.IsActive() {
			c.Update(dt)
		}
	}
}

// Display renders one frame of every visible context
func (m *ContextManager) Display(gfx render.Backend) {
	gfx.Clean()
	for _, c := range m.contexts {
		if c.IsVisible() {
			c.Display(gfx)
		}
	}
	gfx.Flip()
}

func (m *ContextManager) receive(ev event.Event) {
	if cur := m.CurrentContext(); cur != nil && cur.HandleTransition(ev) {
		return
	}

	// Receptivity is snapshotted before relaying, like an emission
	targets := make([]*Context, 0, len(m.contexts))
	for _, c := range m.contexts {
		if c.ReceivingEvents() {
			targets = append(targets, c)
		}
	}
	for _, c := range targets {
		c.Delegate(ev)
	}
}
