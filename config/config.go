// Package config holds the runtime configuration resolved once at startup.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/nurse/input"
)

// Graphics backend names
const (
	GraphicsTerminal = "terminal"
	GraphicsHeadless = "headless"
)

// Drain policy names
const (
	DrainOne = "one"
	DrainAll = "all"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Window is the device geometry and frame pacing
type Window struct {
	Width   int     `toml:"width" yaml:"width"`
	Height  int     `toml:"height" yaml:"height"`
	Caption string  `toml:"caption" yaml:"caption"`
	FPS     float64 `toml:"fps" yaml:"fps"`
}

// Graphics selects the backend and where it finds assets
type Graphics struct {
	Backend    string `toml:"backend" yaml:"backend"`
	AssetDir   string `toml:"asset_dir" yaml:"asset_dir"`
	CellWidth  int    `toml:"cell_width" yaml:"cell_width"`
	CellHeight int    `toml:"cell_height" yaml:"cell_height"`
}

// Input tunes the keyboard device
type Input struct {
	// KeyReleaseMS releases a key held this long without repeat, 0 disables
	KeyReleaseMS int `toml:"key_release_ms" yaml:"key_release_ms"`
	// QuitKeys are key names that exit instead of reaching contexts
	QuitKeys []string `toml:"quit_keys" yaml:"quit_keys"`
}

// Loop tunes the event loop
type Loop struct {
	Drain string `toml:"drain" yaml:"drain"`
}

// Audio configures cue playback
type Audio struct {
	Enabled    bool    `toml:"enabled" yaml:"enabled"`
	SampleRate int     `toml:"sample_rate" yaml:"sample_rate"`
	Volume     float64 `toml:"volume" yaml:"volume"`
}

// Config is the complete runtime configuration
type Config struct {
	Window   Window   `toml:"window" yaml:"window"`
	Graphics Graphics `toml:"graphics" yaml:"graphics"`
	Input    Input    `toml:"input" yaml:"input"`
	Loop     Loop     `toml:"loop" yaml:"loop"`
	Audio    Audio    `toml:"audio" yaml:"audio"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Window: Window{
			Width:   800,
			Height:  600,
			Caption: "nurse game engine",
			FPS:     60,
		},
		Graphics: Graphics{
			Backend:    GraphicsTerminal,
			AssetDir:   "asset",
			CellWidth:  8,
			CellHeight: 16,
		},
		Input: Input{KeyReleaseMS: 150, QuitKeys: []string{"q", "escape"}},
		Loop:  Loop{Drain: DrainOne},
		Audio: Audio{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     0.5,
		},
	}
}

// Validate checks ranges and names
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %v must be positive", c.Window.FPS))
	}
	switch c.Graphics.Backend {
	case GraphicsTerminal, GraphicsHeadless:
	default:
		errs = append(errs, fmt.Errorf("unknown graphics backend %q", c.Graphics.Backend))
	}
	if c.Graphics.CellWidth <= 0 || c.Graphics.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("cell size %dx%d must be positive", c.Graphics.CellWidth, c.Graphics.CellHeight))
	}
	if c.Input.KeyReleaseMS < 0 {
		errs = append(errs, fmt.Errorf("key_release_ms %d must not be negative", c.Input.KeyReleaseMS))
	}
	for _, name := range c.Input.QuitKeys {
		if k, ok := input.KeyFromName(name); !ok || k == input.KeyUnknown {
			errs = append(errs, fmt.Errorf("unknown quit key %q", name))
		}
	}
	switch c.Loop.Drain {
	case DrainOne, DrainAll:
	default:
		errs = append(errs, fmt.Errorf("unknown drain policy %q", c.Loop.Drain))
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate %d must be positive", c.Audio.SampleRate))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume %v out of [0,1]", c.Audio.Volume))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// FrameInterval is the minimum spacing between update passes
func (c Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.Window.FPS)
}

// QuitKeys resolves the quit key names, skipping unknown ones
func (c Config) QuitKeys() []input.Key {
	keys := make([]input.Key, 0, len(c.Input.QuitKeys))
	for _, name := range c.Input.QuitKeys {
		if k, ok := input.KeyFromName(name); ok && k != input.KeyUnknown {
			keys = append(keys, k)
		}
	}
	return keys
}

// KeyReleaseDelay is the synthesized key release delay
func (c Config) KeyReleaseDelay() time.Duration {
	return time.Duration(c.Input.KeyReleaseMS) * time.Millisecond
}
