// Package input turns device key strokes into signals on the keyboard object.
//
// Every key has a Pressed and a Released signal. Contexts and states subscribe to them
// by value, and the context manager listens on the wildcard to route input.
//
// Keys configured as quit keys on a source (q and escape by default) are turned into quit
// strokes by that source, so no context sees their signals.
package input

import (
	"github.com/lixenwraith/nurse/event"
)

// Key is a code of the closed key vocabulary
type Key int

const (
	KeyNone Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeySpace
	KeyReturn
	KeyUnknown
)

// Signal names of the two stroke directions
const (
	PressedName  = "keydown"
	ReleasedName = "keyup"
)

var specialNames = map[Key]string{
	KeyNone:    "none",
	KeyUp:      "up",
	KeyDown:    "down",
	KeyLeft:    "left",
	KeyRight:   "right",
	KeyEscape:  "escape",
	KeySpace:   "space",
	KeyReturn:  "return",
	KeyUnknown: "unknown",
}

func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('a' + int(k-KeyA)))
	case k >= Key0 && k <= Key9:
		return string(rune('0' + int(k-Key0)))
	}
	if name, ok := specialNames[k]; ok {
		return name
	}
	return "unknown"
}

// KeyFromRune maps a printable rune to its key, lower and upper case letters alike
func KeyFromRune(r rune) (Key, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + Key(r-'a'), true
	case r >= 'A' && r <= 'Z':
		return KeyA + Key(r-'A'), true
	case r >= '0' && r <= '9':
		return Key0 + Key(r-'0'), true
	case r == ' ':
		return KeySpace, true
	}
	return KeyUnknown, false
}

// KeyFromName parses a key name as printed by String
func KeyFromName(name string) (Key, bool) {
	if r := []rune(name); len(r) == 1 {
		if k, ok := KeyFromRune(r[0]); ok && r[0] != ' ' {
			return k, true
		}
	}
	for k, n := range specialNames {
		if n == name && k != KeyNone {
			return k, true
		}
	}
	return KeyUnknown, false
}

// Pressed is the signal emitted when k goes down
func Pressed(k Key) event.Signal {
	return event.Signal{Name: PressedName, Code: int(k)}
}

// Released is the signal emitted when k goes up
func Released(k Key) event.Signal {
	return event.Signal{Name: ReleasedName, Code: int(k)}
}

// Decode splits a keyboard signal into its key and direction
func Decode(sig event.Signal) (k Key, down bool, ok bool) {
	switch sig.Name {
	case PressedName:
		return Key(sig.Code), true, true
	case ReleasedName:
		return Key(sig.Code), false, true
	}
	return KeyNone, false, false
}
