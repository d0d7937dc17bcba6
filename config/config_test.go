package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/nurse/input"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config valid, got %v", err)
	}
	if cfg.FrameInterval() != time.Second/60 {
		t.Errorf("Expected 1/60s frame interval, got %v", cfg.FrameInterval())
	}
	if cfg.KeyReleaseDelay() != 150*time.Millisecond {
		t.Errorf("Expected 150ms release delay, got %v", cfg.KeyReleaseDelay())
	}
	keys := cfg.QuitKeys()
	if len(keys) != 2 || keys[0] != input.KeyQ || keys[1] != input.KeyEscape {
		t.Errorf("Expected q and escape as quit keys, got %v", keys)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"zero fps", func(c *Config) { c.Window.FPS = 0 }},
		{"unknown backend", func(c *Config) { c.Graphics.Backend = "sdl" }},
		{"zero cell", func(c *Config) { c.Graphics.CellHeight = 0 }},
		{"negative release", func(c *Config) { c.Input.KeyReleaseMS = -1 }},
		{"unknown drain", func(c *Config) { c.Loop.Drain = "some" }},
		{"bad sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"loud", func(c *Config) { c.Audio.Volume = 2 }},
		{"unknown quit key", func(c *Config) { c.Input.QuitKeys = []string{"f13"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Expected ErrInvalid, got %v", err)
			}
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "nurse.toml", `
[window]
width = 1024
fps = 30.0

[graphics]
backend = "headless"

[loop]
drain = "all"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Width != 1024 || cfg.Window.FPS != 30 {
		t.Errorf("Expected file values, got %+v", cfg.Window)
	}
	if cfg.Window.Height != 600 {
		t.Errorf("Expected default height kept, got %d", cfg.Window.Height)
	}
	if cfg.Graphics.Backend != GraphicsHeadless || cfg.Loop.Drain != DrainAll {
		t.Errorf("Unexpected graphics/loop %+v %+v", cfg.Graphics, cfg.Loop)
	}
	if cfg.Graphics.AssetDir != "asset" {
		t.Errorf("Expected default asset dir, got %q", cfg.Graphics.AssetDir)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "nurse.yml", `
input:
  key_release_ms: 0
audio:
  enabled: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.KeyReleaseDelay() != 0 {
		t.Errorf("Expected release synthesis disabled, got %v", cfg.KeyReleaseDelay())
	}
	if cfg.Audio.Enabled {
		t.Error("Expected audio disabled")
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Expected default sample rate kept, got %d", cfg.Audio.SampleRate)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
	if _, err := Load(writeFile(t, "nurse.ini", "x=1")); err == nil {
		t.Error("Expected unsupported format error")
	}
	if _, err := Load(writeFile(t, "bad.toml", "[window\nwidth=")); err == nil {
		t.Error("Expected parse error")
	}
	if _, err := Load(writeFile(t, "invalid.toml", "[loop]\ndrain = \"twice\"\n")); !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAudioEnabled: "false",
		EnvVolume:       "250",
		EnvDrain:        "ALL",
		EnvGraphics:     "",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Audio.Enabled {
		t.Error("Expected audio disabled from env")
	}
	if cfg.Audio.Volume != 1 {
		t.Errorf("Expected volume clamped to 1, got %v", cfg.Audio.Volume)
	}
	if cfg.Loop.Drain != DrainAll {
		t.Errorf("Expected drain all, got %q", cfg.Loop.Drain)
	}
	if cfg.Graphics.Backend != GraphicsTerminal {
		t.Errorf("Expected backend unchanged, got %q", cfg.Graphics.Backend)
	}
}
