package sprite

import (
	"time"

	"github.com/lixenwraith/nurse/engine"
	"github.com/lixenwraith/nurse/engine/fsm"
	"github.com/lixenwraith/nurse/event"
	"github.com/lixenwraith/nurse/render"
	"github.com/lixenwraith/nurse/vmath"
)

// DialogStyle controls how a dialog line is laid out and revealed
type DialogStyle struct {
	Font        string
	Size        int
	MaxWidth    float64 // device px, zero disables wrapping
	MaxLines    int     // zero keeps every line
	CharsPerSec float64 // zero reveals the whole text at once
}

// DefaultDialogStyle returns a three line typewriter at five characters per second
func DefaultDialogStyle() DialogStyle {
	return DialogStyle{Font: "Times New Roman", Size: 20, MaxWidth: 100, MaxLines: 3, CharsPerSec: 5}
}

// DialogState is one reply of a Dialog. Entering it restarts the reveal; once the last
// character is shown it emits event.Finished with its name
type DialogState struct {
	fsm.State

	gfx       render.Backend
	text      []rune
	style     DialogStyle
	charDelay time.Duration

	elapsed time.Duration
	index   int
	lines   []render.Text
	done    bool
}

// NewDialogState creates a free dialog state; add it to a Dialog with AddState
func NewDialogState(gfx render.Backend, name, text string, style DialogStyle) *DialogState {
	d := &DialogState{gfx: gfx, text: []rune(text), style: style}
	d.Init(name, nil)
	if style.CharsPerSec > 0 {
		d.charDelay = time.Duration(float64(time.Second) / style.CharsPerSec)
	}
	d.Connect(event.Entered, d, d.onEntered, event.Sync)
	return d
}

// Then moves the dialog to next once this reply is fully shown
func (d *DialogState) Then(next fsm.Node) {
	d.AddTransition(d, event.Finished, next, nil, nil, event.Async)
}

func (d *DialogState) onEntered(event.Event) {
	d.elapsed = 0
	d.index = 0
	d.lines = d.lines[:0]
	d.done = false
}

// Update reveals the characters due after dt
func (d *DialogState) Update(dt time.Duration) {
	if d.done {
		return
	}
	if d.charDelay <= 0 {
		d.reveal(len(d.text) - d.index)
	} else {
		d.elapsed += dt
		n := int(d.elapsed / d.charDelay)
		d.elapsed -= time.Duration(n) * d.charDelay
		d.reveal(n)
	}
	if d.index >= len(d.text) {
		d.done = true
		d.Emit(event.Finished, d.Name())
	}
}

// reveal appends n characters, wrapping past MaxWidth and scrolling past MaxLines
func (d *DialogState) reveal(n int) {
	for ; n > 0 && d.index < len(d.text); n-- {
		r := d.text[d.index]
		d.index++

		if r == '\n' {
			d.newLine("")
			continue
		}
		if last := len(d.lines) - 1; last >= 0 {
			cand := d.load(d.lines[last].Content() + string(r))
			if d.style.MaxWidth <= 0 || cand.Size().X <= d.style.MaxWidth {
				d.lines[last] = cand
				continue
			}
		}
		d.newLine(string(r))
	}
}

func (d *DialogState) newLine(content string) {
	d.lines = append(d.lines, d.load(content))
	if d.style.MaxLines > 0 && len(d.lines) > d.style.MaxLines {
		d.lines = d.lines[1:]
	}
}

func (d *DialogState) load(content string) render.Text {
	return d.gfx.LoadText(content, d.style.Font, d.style.Size, vmath.Vec2{})
}

// Lines returns the visible lines
func (d *DialogState) Lines() []string {
	out := make([]string, len(d.lines))
	for i, t := range d.lines {
		out[i] = t.Content()
	}
	return out
}

// Done reports whether the whole text is shown
func (d *DialogState) Done() bool { return d.done }

// Dialog is a sprite whose states are dialog replies drawn as stacked lines
type Dialog struct {
	Sprite
}

// NewDialog creates a dialog box with its top-left line at loc
func NewDialog(u *engine.Universe, ctx *engine.Context, name string, layer int, loc vmath.Vec2) *Dialog {
	d := &Dialog{}
	d.init(u, ctx, name, layer, 0, d)
	d.location = loc
	return d
}

// AddReply creates a reply state on the dialog's backend and adopts it
func (d *Dialog) AddReply(name, text string, style DialogStyle) *DialogState {
	ds := NewDialogState(d.gfx, name, text, style)
	d.AddState(ds)
	return ds
}

// Reply returns the current reply, nil before Start or in a plain state
func (d *Dialog) Reply() *DialogState {
	ds, _ := d.Current().(*DialogState)
	return ds
}

func (d *Dialog) Update(dt time.Duration) {
	d.Sprite.Update(dt)
	if ds := d.Reply(); ds != nil {
		ds.Update(dt)
	}
}

func (d *Dialog) Draw(c render.Canvas, s *render.Screen) {
	ds := d.Reply()
	if ds == nil {
		return
	}
	pos := s.Project(d.location)
	for _, line := range ds.lines {
		c.DrawText(s, line, pos)
		pos.Y += line.Size().Y
	}
}
