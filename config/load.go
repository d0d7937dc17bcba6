package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads path over the defaults. The format follows the extension: .toml,
// .yaml or .yml. Keys absent from the file keep their default value
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Environment overrides
const (
	EnvAudioEnabled = "NURSE_AUDIO_ENABLED"
	EnvVolume       = "NURSE_VOLUME"
	EnvDrain        = "NURSE_DRAIN"
	EnvGraphics     = "NURSE_GRAPHICS"
)

// ApplyEnv overrides settings from the environment. Malformed values are ignored
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvAudioEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Audio.Enabled = b
		}
	}
	// Volume 0-100 converted to 0.0-1.0
	if v := getenv(EnvVolume); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Audio.Volume = min(max(float64(n)/100.0, 0), 1)
		}
	}
	if v := getenv(EnvDrain); v != "" {
		c.Loop.Drain = strings.ToLower(v)
	}
	if v := getenv(EnvGraphics); v != "" {
		c.Graphics.Backend = strings.ToLower(v)
	}
}
