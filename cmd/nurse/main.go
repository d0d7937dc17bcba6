package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lixenwraith/nurse/config"
	"github.com/lixenwraith/nurse/core"
	"github.com/lixenwraith/nurse/engine"
	"github.com/lixenwraith/nurse/platform"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "nurse: %v\n", err)
		os.Exit(1)
	}
}

// options are the command line settings; zero values leave the config untouched
type options struct {
	configPath string
	debug      bool
	demo       string
	fps        float64
	drain      string
	headless   bool
	mute       bool
	duration   time.Duration
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("nurse", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "config file (.toml, .yaml)")
	fs.BoolVar(&o.debug, "debug", false, "write logs to "+logDir+"/"+logFileName)
	fs.StringVar(&o.demo, "demo", "screens", "scene to run: "+strings.Join(demoNames(), ", "))
	fs.Float64Var(&o.fps, "fps", 0, "frame rate override")
	fs.StringVar(&o.drain, "drain", "", "async drain policy override: one, all")
	fs.BoolVar(&o.headless, "headless", false, "record frames instead of drawing to the terminal")
	fs.BoolVar(&o.mute, "mute", false, "disable audio cues")
	fs.DurationVar(&o.duration, "duration", 0, "stop after this long, 0 runs until quit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if _, ok := demos[o.demo]; !ok {
		return o, fmt.Errorf("unknown demo %q, want one of %s", o.demo, strings.Join(demoNames(), ", "))
	}
	return o, nil
}

// resolveConfig layers defaults, file, environment and flags
func resolveConfig(o options, getenv func(string) string) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(getenv)

	if o.fps > 0 {
		cfg.Window.FPS = o.fps
	}
	if o.drain != "" {
		cfg.Loop.Drain = o.drain
	}
	if o.headless {
		cfg.Graphics.Backend = config.GraphicsHeadless
	}
	if o.mute {
		cfg.Audio.Enabled = false
	}
	return cfg, cfg.Validate()
}

func run(args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if logFile := setupLogging(o.debug); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := resolveConfig(o, os.Getenv)
	if err != nil {
		return err
	}

	p, err := platform.Open(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	u := engine.NewUniverse(cfg, p.Graphics, p.Input, p.Audio)
	if err := demos[o.demo](u); err != nil {
		return fmt.Errorf("building %s demo: %w", o.demo, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if o.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.duration)
		defer cancel()
	}

	loop := engine.NewLoop(u, nil)
	slog.Info("running", "demo", o.demo, "fps", cfg.Window.FPS, "drain", loop.Policy())
	err = loop.Run(ctx)
	slog.Info("stopped", "frames", loop.Frames(), "error", err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
