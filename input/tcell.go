package input

import (
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/nurse/core"
)

const eventBuffer = 100

// TcellSource pumps tcell events from a background goroutine into a buffered channel
// that Poll drains on the loop goroutine
type TcellSource struct {
	screen tcell.Screen
	quit   map[Key]bool
	events chan tcell.Event
	done   chan struct{}
	once   sync.Once
}

// NewTcellSource starts the event pump on an initialized screen. Presses of the quit keys
// become quit strokes and never reach the keyboard as key signals. Ctrl+C always quits
func NewTcellSource(screen tcell.Screen, quit ...Key) *TcellSource {
	s := &TcellSource{
		screen: screen,
		quit:   make(map[Key]bool, len(quit)),
		events: make(chan tcell.Event, eventBuffer),
		done:   make(chan struct{}),
	}
	for _, k := range quit {
		s.quit[k] = true
	}
	core.Go(s.pump)
	return s
}

func (s *TcellSource) pump() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			// screen finalized
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

// Poll drains pending key events without blocking
func (s *TcellSource) Poll() []Stroke {
	var out []Stroke
	for {
		select {
		case ev := <-s.events:
			switch e := ev.(type) {
			case *tcell.EventKey:
				st := TranslateKey(e)
				if st.Down && s.quit[st.Key] {
					st = Stroke{Quit: true}
				}
				out = append(out, st)
			case *tcell.EventResize:
				s.screen.Sync()
			}
		default:
			return out
		}
	}
}

// Close stops the pump. The screen itself is finalized by its owner
func (s *TcellSource) Close() {
	s.once.Do(func() { close(s.done) })
}

// TranslateKey maps a tcell key event onto the key vocabulary. Terminals only report
// key-down, so every stroke is a press
func TranslateKey(ev *tcell.EventKey) Stroke {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return Stroke{Quit: true}
	case tcell.KeyEscape:
		return Stroke{Key: KeyEscape, Down: true}
	case tcell.KeyUp:
		return Stroke{Key: KeyUp, Down: true}
	case tcell.KeyDown:
		return Stroke{Key: KeyDown, Down: true}
	case tcell.KeyLeft:
		return Stroke{Key: KeyLeft, Down: true}
	case tcell.KeyRight:
		return Stroke{Key: KeyRight, Down: true}
	case tcell.KeyEnter:
		return Stroke{Key: KeyReturn, Down: true}
	case tcell.KeyRune:
		r := ev.Rune()
		if k, ok := KeyFromRune(r); ok {
			return Stroke{Key: k, Down: true}
		}
		slog.Warn("unmapped key", "rune", string(r))
		return Stroke{Key: KeyUnknown, Down: true}
	}
	slog.Warn("unmapped key", "key", ev.Name())
	return Stroke{Key: KeyUnknown, Down: true}
}
