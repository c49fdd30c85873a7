// Command spacegen runs the spatial engine over a synthetic or saved scene,
// renders the last frame to PNG and optionally serves an HTTP API for
// driving the view.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gogpu/gg"
	"github.com/joho/godotenv"

	"github.com/kmadk/spacegen"
	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
	"github.com/kmadk/spacegen/overlay"
	"github.com/kmadk/spacegen/perf"
	"github.com/kmadk/spacegen/snapshot"
	"github.com/kmadk/spacegen/surface"
	"github.com/kmadk/spacegen/tier"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))

	log := setupLogger(os.Getenv)
	cfg, err := loadConfig(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Error("config_error", "err", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("run_error", "err", err)
		os.Exit(1)
	}
}

// setupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func setupLogger(getenv func(string) string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	var h slog.Handler
	if strings.ToLower(getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	l := slog.New(h)
	spacegen.SetLogger(l)
	return l
}

// demoStyle is the demo's palette; the engine itself picks no colors.
func demoStyle() surface.Style {
	return surface.Style{
		Background: gg.Hex("#101418"),
		Stroke:     gg.Hex("#8aa1b4"),
		Fill:       gg.Hex("#3d7ea6"),
		Label:      gg.Hex("#e8eef2"),
		Summary:    gg.Hex("#c0704a"),
		Debug:      gg.Hex("#f2c94c"),
		LineWidth:  1.5,
		FontSize:   11,
	}
}

// demo bundles everything run wires together.
type demo struct {
	engine *spacegen.Engine
	canvas *surface.Canvas
	region *overlay.HeadlessRegion
}

func newDemo(cfg config, log *slog.Logger, view geom.ViewState) (*demo, error) {
	font, err := surface.GoRegular()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	canvas, err := surface.New(cfg.width, cfg.height, demoStyle(),
		surface.WithFont(font),
		surface.WithLogger(log),
		surface.WithDebugLayer(cfg.debug, cfg.margin),
	)
	if err != nil {
		return nil, err
	}

	region := overlay.NewHeadlessRegion()
	eng, err := spacegen.New(
		spacegen.WithSemanticLevels(cfg.levels),
		spacegen.WithFrameTimeBudget(cfg.budget),
		spacegen.WithPerformanceMonitoring(cfg.perf),
		spacegen.WithDebug(cfg.debug),
		spacegen.WithCullMargin(cfg.margin),
		spacegen.WithOverlay(region, &overlay.HeadlessFactory{}),
		spacegen.WithDrawSurface(canvas),
		spacegen.WithViewState(view),
		spacegen.WithZoomLimits(0.01, 64),
		spacegen.WithOverrunHandler(func(o perf.Overrun) {
			log.Warn("frame_overrun", "frame", o.Frame, "over", o.Over(), "tier", o.Tier)
		}),
	)
	if err != nil {
		canvas.Close()
		return nil, err
	}
	return &demo{engine: eng, canvas: canvas, region: region}, nil
}

func (d *demo) Close() error {
	return errors.Join(d.engine.Close(), d.canvas.Close())
}

func run(ctx context.Context, cfg config, log *slog.Logger) error {
	view := geom.ViewState{Zoom: 0.5, Width: float64(cfg.width), Height: float64(cfg.height)}

	var els []*element.Element
	if cfg.load != "" {
		snap, err := snapshot.Load(cfg.load)
		if err != nil {
			return err
		}
		if len(snap.Levels) > 0 {
			cfg.levels = snap.Levels
		}
		view.X, view.Y, view.Zoom = snap.View.X, snap.View.Y, snap.View.Zoom
		els = snap.Elements
		log.Info("snapshot_loaded", "id", snap.ID, "elements", len(els))
	}

	d, err := newDemo(cfg, log, view)
	if err != nil {
		return err
	}
	defer d.Close()

	if els == nil {
		els = buildScene(d.engine.Classifier().Tiers(), cfg.groups, cfg.perGroup, cfg.seed)
	}
	res, err := d.engine.AddElements(els...)
	if err != nil {
		return err
	}
	log.Info("scene_loaded",
		"added", res.Added,
		"rejected", len(res.Rejected),
		"overlay_nodes", res.Overlay.Attached,
		"tiers", tier.String(cfg.levels))

	script(d.engine, cfg.frames, log)

	if cfg.output != "" {
		if err := writePNG(cfg.output, d.canvas); err != nil {
			return err
		}
		log.Info("frame_saved", "path", cfg.output)
	}
	if cfg.save != "" {
		snap := snapshot.New(d.engine.ViewState(), d.engine.Classifier().Table(), d.engine.Elements())
		if err := snapshot.Save(cfg.save, snap); err != nil {
			return err
		}
		log.Info("snapshot_saved", "id", snap.ID, "path", cfg.save)
	}
	if cfg.addr == "" {
		return nil
	}
	return serve(ctx, cfg.addr, newServer(d, log), log)
}

// script zooms in from the overview to the detail tier and back out while
// panning around the ring, one Frame per step.
func script(eng *spacegen.Engine, frames int, log *slog.Logger) {
	if frames == 0 {
		eng.Frame()
		return
	}
	half := max(frames/2, 1)
	step := 0.0
	for i := range frames {
		factor := 1.06
		if i >= half {
			factor = 1 / factor
		}
		_ = eng.Zoom(factor)
		_ = eng.Pan(8*math.Cos(step), 8*math.Sin(step))
		step += 0.1

		m := eng.Frame()
		if i%10 == 0 || i == frames-1 {
			log.Debug("frame",
				"i", i,
				"tier", m.CurrentTier,
				"rendered", m.RenderedCount,
				"culled", m.CulledCount,
				"overlay_visible", m.Visible,
				"frame_time", m.FrameTime)
		}
	}
	m := eng.Metrics()
	log.Info("script_done",
		"frames", frames,
		"tier", m.CurrentTier,
		"rendered", m.RenderedCount,
		"overruns", m.Overruns)
}

func writePNG(path string, c *surface.Canvas) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := c.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
