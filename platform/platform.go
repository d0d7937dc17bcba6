// Package platform turns a Config into the concrete graphics, input and audio backends.
// Backends are resolved once at startup and released together by Close.
package platform

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/nurse/asset"
	"github.com/lixenwraith/nurse/audio"
	"github.com/lixenwraith/nurse/config"
	"github.com/lixenwraith/nurse/core"
	"github.com/lixenwraith/nurse/input"
	"github.com/lixenwraith/nurse/render"
	"github.com/lixenwraith/nurse/vmath"
)

// ErrUnknownBackend is returned for a graphics backend name Open cannot build
var ErrUnknownBackend = errors.New("unknown graphics backend")

// Swapped in tests
var (
	newScreen  = tcell.NewScreen
	newSpeaker = audio.NewSpeaker
)

// Platform holds the resolved backends
type Platform struct {
	Graphics render.Backend
	Input    input.Source // nil when headless
	Audio    audio.Player

	screen  tcell.Screen
	source  *input.TcellSource
	speaker *audio.Speaker
}

// Open initializes the backends named by cfg. Audio failures fall back to silence,
// graphics failures are returned
func Open(cfg config.Config) (*Platform, error) {
	p := &Platform{Audio: audio.Silent{}}

	switch cfg.Graphics.Backend {
	case config.GraphicsHeadless:
		p.Graphics = render.NewRecorder(vmath.V2(float64(cfg.Window.Width), float64(cfg.Window.Height)))
	case config.GraphicsTerminal:
		if err := p.openTerminal(cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Graphics.Backend)
	}

	if cfg.Audio.Enabled {
		spk, err := newSpeaker(cfg.Audio.SampleRate, cfg.Audio.Volume)
		if err != nil {
			slog.Warn("audio unavailable, continuing without sound", "error", err)
		} else {
			p.speaker = spk
			p.Audio = spk
		}
	}

	slog.Info("platform ready",
		"graphics", cfg.Graphics.Backend,
		"audio", p.speaker != nil,
		"resolution", p.Graphics.Resolution())
	return p, nil
}

func (p *Platform) openTerminal(cfg config.Config) error {
	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(render.RGBBlack.Tcell()).Foreground(render.RGBWhite.Tcell()))
	screen.HideCursor()
	screen.Clear()

	// Restore the terminal before any crash report is printed
	core.SetCrashHook(screen.Fini)

	p.screen = screen
	p.Graphics = render.NewTerminal(screen, asset.Resolve(cfg.Graphics.AssetDir), cfg.Graphics.CellWidth, cfg.Graphics.CellHeight)
	p.source = input.NewTcellSource(screen, cfg.QuitKeys()...)
	p.Input = p.source
	return nil
}

// Close stops the input pump, restores the terminal and silences the speaker
func (p *Platform) Close() {
	if p.source != nil {
		p.source.Close()
	}
	if p.screen != nil {
		core.SetCrashHook(nil)
		p.screen.Fini()
	}
	if p.speaker != nil {
		p.speaker.Close()
	}
}
