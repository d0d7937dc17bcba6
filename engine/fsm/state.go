package fsm

import (
	"log/slog"

	"github.com/lixenwraith/nurse/event"
)

// State is a named node with entry assignments and signal-triggered transitions
type State struct {
	event.Object

	machine     *Machine
	gate        func() bool
	assignments []Assignment
	transitions map[event.Signal]Transition
	props       map[string]any
}

// NewState creates a free state; AddState adopts it into a machine
func NewState(name string) *State {
	s := &State{}
	s.Init(name, nil)
	return s
}

// Init prepares an embedded State
func (s *State) Init(name string, q *event.Queue) {
	s.Object.Init(name, q)
}

// Base returns the state itself, promoted to embedding types
func (s *State) Base() *State {
	return s
}

// Machine returns the owning machine, nil while unowned
func (s *State) Machine() *Machine {
	return s.machine
}

// SetGate overrides receptivity with fn; nil restores the default
func (s *State) SetGate(fn func() bool) {
	s.gate = fn
}

// ReceivingEvents is true while the state is its machine's current state
// Unowned states always receive
func (s *State) ReceivingEvents() bool {
	if s.gate != nil {
		return s.gate()
	}
	if s.machine == nil {
		return true
	}
	cur := s.machine.current
	return cur != nil && cur.Base() == s
}

// SetProperty stores a named value in the state's property bag
func (s *State) SetProperty(name string, value any) {
	if s.props == nil {
		s.props = make(map[string]any)
	}
	s.props[name] = value
}

// Property reads a value stored by SetProperty
func (s *State) Property(name string) (any, bool) {
	v, ok := s.props[name]
	return v, ok
}

// AssignProperty queues target.name = value for every entry into this state
func (s *State) AssignProperty(target PropertySetter, name string, value any) {
	s.assignments = append(s.assignments, Assignment{Target: target, Name: name, Value: value})
}

// AddTransition subscribes the state to sender's sig and records the rule leading to target
func (s *State) AddTransition(sender event.Emitter, sig event.Signal, target Node, src, dst Properties, mode event.Mode) {
	obj := sender.Self()
	s.AddRule(obj, sig, target, src, dst)
	obj.Connect(sig, s, s.onTransition, mode)
}

// AddRule records a transition without subscribing. The owner routes events to
// HandleTransition itself
func (s *State) AddRule(sender event.Emitter, sig event.Signal, target Node, src, dst Properties) {
	if s.transitions == nil {
		s.transitions = make(map[event.Signal]Transition)
	}
	var obj *event.Object
	if sender != nil {
		obj = sender.Self()
	}
	s.transitions[sig] = Transition{Sender: obj, Target: target, Src: src, Dst: dst}
}

// RemoveTransition drops the rule for sig and its subscription
func (s *State) RemoveTransition(sig event.Signal) {
	t, ok := s.transitions[sig]
	if !ok {
		return
	}
	delete(s.transitions, sig)
	if t.Sender != nil {
		t.Sender.Disconnect(sig, s, event.Sync)
		t.Sender.Disconnect(sig, s, event.Async)
	}
}

// Transition returns the rule registered for sig
func (s *State) Transition(sig event.Signal) (Transition, bool) {
	t, ok := s.transitions[sig]
	return t, ok
}

// HandleTransition applies the rule for ev.Signal, if any
// Returns true when a rule matched, even if the machine rejected the change as stale
func (s *State) HandleTransition(ev event.Event) bool {
	t, ok := s.transitions[ev.Signal]
	if !ok {
		return false
	}
	if t.Sender != nil && ev.Sender != nil && t.Sender != ev.Sender {
		return false
	}
	if s.machine == nil {
		slog.Debug("transition on unowned state ignored", "state", s.Name(), "signal", ev.Signal)
		return true
	}
	s.machine.ChangeState(s, t.Target, t.Src, t.Dst)
	return true
}

func (s *State) onTransition(ev event.Event) {
	s.HandleTransition(ev)
}

// enter applies entry assignments in order then announces the entry
func (s *State) enter() {
	for _, a := range s.assignments {
		a.Target.SetProperty(a.Name, a.Value)
	}
	s.Emit(event.Entered, nil)
}

func (s *State) exit() {
	s.Emit(event.Exited, nil)
}
