// Package fsm provides the State and Machine types every entity is built from.
//
// A State is an event.Object that owns its outgoing transitions: AddTransition subscribes
// the state to (sender, signal) and the handler asks the owning Machine to change state.
// Machine.ChangeState only applies when the caller's source state is still current, which
// absorbs duplicate or reordered requests arriving through the async queue.
package fsm

import (
	"sort"
	"time"

	"github.com/lixenwraith/nurse/event"
)

// DefaultStateName is the state synthesized by Start when no initial state was set
const DefaultStateName = "__default__"

// Status is the machine run status
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// PropertySetter accepts named property assignments
type PropertySetter interface {
	SetProperty(name string, value any)
}

// Properties is a property patch applied on a transition
type Properties map[string]any

// Apply assigns every property on target in sorted key order
func (p Properties) Apply(target PropertySetter) {
	if len(p) == 0 || target == nil {
		return
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		target.SetProperty(k, p[k])
	}
}

// Assignment is a property set performed when a state is entered
type Assignment struct {
	Target PropertySetter
	Name   string
	Value  any
}

// Node is a state as seen by its machine. *State implements it, and so does every
// type embedding State (contexts, sprites, dialog states)
type Node interface {
	event.Receiver
	PropertySetter
	Base() *State
}

// Transition is one outgoing rule of a state
type Transition struct {
	Sender *event.Object
	Target Node
	Src    Properties
	Dst    Properties
}

// Change is the payload of event.StateChanged
type Change struct {
	From Node
	To   Node
}

// Updater advances with frame time
type Updater interface {
	Update(dt time.Duration)
}
