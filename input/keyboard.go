package input

import (
	"log/slog"
	"time"

	"github.com/lixenwraith/nurse/event"
)

// Stroke is one translated device event
type Stroke struct {
	Key  Key
	Down bool
	Quit bool // device asked the application to exit
}

// Source yields the strokes received since the previous call without blocking
type Source interface {
	Poll() []Stroke
}

// Keyboard is the input device object. It emits Pressed/Released signals from the
// strokes of its source. With a release delay set, keys held without repeat for that
// long are released automatically, for sources that never report key-up
type Keyboard struct {
	event.Object

	source       Source
	releaseDelay time.Duration
	held         map[Key]time.Time
	quit         bool
}

// NewKeyboard creates the keyboard device. src may be nil for scripted input
func NewKeyboard(q *event.Queue, src Source, releaseDelay time.Duration) *Keyboard {
	k := &Keyboard{
		source:       src,
		releaseDelay: releaseDelay,
		held:         make(map[Key]time.Time),
	}
	k.Init("keyboard", q)
	return k
}

// Poll reads the source and emits the resulting signals
func (k *Keyboard) Poll(now time.Time) {
	if k.source != nil {
		for _, s := range k.source.Poll() {
			switch {
			case s.Quit:
				k.RequestQuit()
			case s.Down:
				k.Press(s.Key, now)
			default:
				k.Release(s.Key)
			}
		}
	}
	k.expire(now)
}

// Press emits Pressed(key) unless key is already held; a repeat only refreshes the hold
func (k *Keyboard) Press(key Key, now time.Time) {
	if _, down := k.held[key]; down {
		k.held[key] = now
		return
	}
	k.held[key] = now
	k.Emit(Pressed(key), key)
}

// Release emits Released(key). Releasing a key that is not held still emits
func (k *Keyboard) Release(key Key) {
	delete(k.held, key)
	k.Emit(Released(key), key)
}

// Held reports whether key is down
func (k *Keyboard) Held(key Key) bool {
	_, ok := k.held[key]
	return ok
}

// RequestQuit flags the application for exit
func (k *Keyboard) RequestQuit() {
	if !k.quit {
		slog.Info("quit requested", "device", k.Name())
	}
	k.quit = true
}

// QuitRequested reports whether the device asked to exit
func (k *Keyboard) QuitRequested() bool {
	return k.quit
}

// expire releases keys whose last stroke is older than the release delay
// Keys are released in vocabulary order so emission order is deterministic
func (k *Keyboard) expire(now time.Time) {
	if k.releaseDelay <= 0 || len(k.held) == 0 {
		return
	}
	for key := KeyNone; key <= KeyUnknown; key++ {
		last, ok := k.held[key]
		if ok && now.Sub(last) >= k.releaseDelay {
			k.Release(key)
		}
	}
}
