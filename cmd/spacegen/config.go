package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kmadk/spacegen/tier"
)

const defaultLevels = "0.1:quantum,0.5:atomic,2:standard,inf:system"

// config is the demo configuration. Flags override the environment.
type config struct {
	levels []tier.Threshold
	budget time.Duration
	perf   bool
	debug  bool
	margin float64

	width, height int
	output        string
	frames        int

	groups   int
	perGroup int
	seed     uint64

	load string
	save string
	addr string
}

// loadConfig reads SPACEGEN_* variables through getenv, then parses args.
func loadConfig(args []string, getenv func(string) string, stderr io.Writer) (config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var (
		cfg      config
		levels   string
		budgetMs float64
		err      error
	)
	if budgetMs, err = strconv.ParseFloat(env("SPACEGEN_FRAME_BUDGET_MS", "16.67"), 64); err != nil {
		return cfg, fmt.Errorf("SPACEGEN_FRAME_BUDGET_MS: %w", err)
	}
	perfOn, err := strconv.ParseBool(env("SPACEGEN_PERF", "true"))
	if err != nil {
		return cfg, fmt.Errorf("SPACEGEN_PERF: %w", err)
	}
	debug, err := strconv.ParseBool(env("SPACEGEN_DEBUG", "false"))
	if err != nil {
		return cfg, fmt.Errorf("SPACEGEN_DEBUG: %w", err)
	}
	margin, err := strconv.ParseFloat(env("SPACEGEN_MARGIN", "50"), 64)
	if err != nil {
		return cfg, fmt.Errorf("SPACEGEN_MARGIN: %w", err)
	}

	fs := flag.NewFlagSet("spacegen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&levels, "levels", env("SPACEGEN_LEVELS", defaultLevels), "semantic levels as bound:name pairs")
	fs.Float64Var(&budgetMs, "budget", budgetMs, "frame time budget in milliseconds")
	fs.BoolVar(&cfg.perf, "perf", perfOn, "enable performance monitoring")
	fs.BoolVar(&cfg.debug, "debug", debug, "enable diagnostics and the debug layer")
	fs.Float64Var(&cfg.margin, "margin", margin, "cull margin in world units")
	fs.IntVar(&cfg.width, "width", 800, "image width")
	fs.IntVar(&cfg.height, "height", 600, "image height")
	fs.StringVar(&cfg.output, "output", "spacegen.png", "PNG of the last frame; empty to skip")
	fs.IntVar(&cfg.frames, "frames", 60, "scripted frames to run")
	fs.IntVar(&cfg.groups, "groups", 12, "synthetic groups")
	fs.IntVar(&cfg.perGroup, "cards", 16, "synthetic cards per group")
	fs.Uint64Var(&cfg.seed, "seed", 1, "scene seed")
	fs.StringVar(&cfg.load, "load", "", "load the scene from a snapshot")
	fs.StringVar(&cfg.save, "save", "", "save the scene to a snapshot")
	fs.StringVar(&cfg.addr, "addr", "", "serve the HTTP API on addr after the script")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.levels, err = tier.ParseTable(levels); err != nil {
		return cfg, err
	}
	cfg.budget = time.Duration(budgetMs * float64(time.Millisecond))
	if cfg.width <= 0 || cfg.height <= 0 {
		return cfg, fmt.Errorf("invalid size %dx%d", cfg.width, cfg.height)
	}
	if cfg.frames < 0 || cfg.groups < 0 || cfg.perGroup < 0 {
		return cfg, fmt.Errorf("frames, groups and cards must be >= 0")
	}
	return cfg, nil
}
