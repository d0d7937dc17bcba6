package fsm

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lixenwraith/nurse/event"
)

// Machine owns a set of named states and tracks the current one
// A Machine is itself a State so machines can be nested as states of other machines
type Machine struct {
	State

	states  map[string]Node
	order   []string
	current Node
	initial Node
	status  Status
}

// NewMachine creates an idle machine whose states emit async events onto q
func NewMachine(name string, q *event.Queue) *Machine {
	m := &Machine{}
	m.Init(name, q)
	return m
}

// Init prepares an embedded Machine
func (m *Machine) Init(name string, q *event.Queue) {
	m.State.Init(name, q)
	m.states = make(map[string]Node)
}

// ReceivingEvents is always true for a machine acting as a receiver
func (m *Machine) ReceivingEvents() bool {
	return true
}

// AddState adopts n. A state with the same name is replaced in place
func (m *Machine) AddState(n Node) {
	if m.states == nil {
		m.states = make(map[string]Node)
	}
	base := n.Base()
	name := base.Name()
	if _, exists := m.states[name]; !exists {
		m.order = append(m.order, name)
	}
	m.states[name] = n
	base.machine = m
	if base.Queue() == nil {
		base.SetQueue(m.Queue())
	}
}

// SetInitialState selects the state entered by Start
func (m *Machine) SetInitialState(n Node) error {
	if !m.owns(n) {
		return fmt.Errorf("machine %q: unknown initial state %q", m.Name(), nodeName(n))
	}
	m.initial = n
	return nil
}

// Lookup returns the state registered under name
func (m *Machine) Lookup(name string) (Node, bool) {
	n, ok := m.states[name]
	return n, ok
}

// States returns the owned states in insertion order
func (m *Machine) States() []Node {
	out := make([]Node, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.states[name])
	}
	return out
}

// Current returns the current state, nil before Start
func (m *Machine) Current() Node {
	return m.current
}

// CurrentName returns the current state's name, empty before Start
func (m *Machine) CurrentName() string {
	if m.current == nil {
		return ""
	}
	return m.current.Base().Name()
}

// Initial returns the configured initial state
func (m *Machine) Initial() Node {
	return m.initial
}

// Status returns the run status
func (m *Machine) Status() Status {
	return m.status
}

// Start enters the initial state, synthesizing an empty default one if none was set
func (m *Machine) Start() {
	if m.initial == nil {
		def := NewState(DefaultStateName)
		m.AddState(def)
		m.initial = def
	}
	m.current = m.initial
	m.current.Base().enter()
	m.status = StatusRunning
	m.Emit(event.Started, nil)
}

// Stop marks the machine stopped. The current state is kept
func (m *Machine) Stop() {
	m.status = StatusStopped
	m.Emit(event.Stopped, nil)
}

// ChangeState moves from `from` to `to` if `from` is still the current state
// Stale requests are ignored and reported as false. Patches apply to the old and new
// states after entry, then event.StateChanged carries Change{From, To}
func (m *Machine) ChangeState(from, to Node, src, dst Properties) bool {
	if !sameNode(from, m.current) {
		slog.Debug("stale transition ignored",
			"machine", m.Name(), "machine_id", m.ID(), "from", nodeName(from), "current", nodeName(m.current), "to", nodeName(to))
		return false
	}
	if !m.owns(to) {
		panic(fmt.Sprintf("FSM: machine %q attempted transition to unknown state %q", m.Name(), nodeName(to)))
	}

	old := m.current
	if old != nil {
		old.Base().exit()
	}
	m.current = to
	to.Base().enter()

	if old != nil {
		src.Apply(old)
	}
	dst.Apply(to)

	m.Emit(event.StateChanged, Change{From: old, To: to})
	return true
}

// Update is a no-op hook; entity types embedding Machine override it
func (m *Machine) Update(dt time.Duration) {}

func (m *Machine) owns(n Node) bool {
	if n == nil {
		return false
	}
	base := n.Base()
	owned, ok := m.states[base.Name()]
	return ok && owned.Base() == base
}

func sameNode(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Base() == b.Base()
}

func nodeName(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Base().Name()
}
