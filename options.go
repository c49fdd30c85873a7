package spacegen

import (
	"log/slog"
	"time"

	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
	"github.com/kmadk/spacegen/mapping"
	"github.com/kmadk/spacegen/overlay"
	"github.com/kmadk/spacegen/perf"
	"github.com/kmadk/spacegen/tier"
)

// DrawSurface paints the renderable set of a frame. *surface.Canvas
// implements it.
type DrawSurface interface {
	Draw(v geom.ViewState, lvl tier.Level, els []*element.Element) error
}

// Option configures an Engine during creation.
//
// Example:
//
//	eng, err := spacegen.New(
//	    spacegen.WithSemanticLevels(levels),
//	    spacegen.WithFrameTimeBudget(8*time.Millisecond),
//	    spacegen.WithDebug(true),
//	)
type Option func(*options)

// options holds the Engine configuration.
type options struct {
	levels    []tier.Threshold
	budget    time.Duration
	perf      bool
	debug     bool
	mapping   mapping.Config
	margin    float64
	region    overlay.Region
	factory   overlay.Factory
	surface   DrawSurface
	now       func() time.Time
	onOverrun func(perf.Overrun)
	view      geom.ViewState
	minZoom   float64
	maxZoom   float64
	logger    *slog.Logger
}

// defaultOptions returns the default engine options.
func defaultOptions() options {
	return options{
		budget:  perf.DefaultBudget,
		perf:    true,
		mapping: mapping.DefaultConfig(),
		margin:  DefaultCullMargin,
		now:     time.Now,
		view:    geom.ViewState{Zoom: 1},
	}
}

// DefaultCullMargin is the cull margin in world units.
const DefaultCullMargin = 50.0

// WithSemanticLevels sets the ordered zoom threshold table. It is required.
// Each entry covers zooms below its bound; the last entry catches the rest.
func WithSemanticLevels(table []tier.Threshold) Option {
	return func(o *options) {
		o.levels = table
	}
}

// WithFrameTimeBudget sets the per-frame budget (default ≈16.67ms).
func WithFrameTimeBudget(d time.Duration) Option {
	return func(o *options) {
		o.budget = d
	}
}

// WithPerformanceMonitoring enables or disables frame timing. It is enabled
// by default; when disabled, metrics report counts with a zero frame time.
func WithPerformanceMonitoring(enabled bool) Option {
	return func(o *options) {
		o.perf = enabled
	}
}

// WithDebug enables diagnostic logging of budget breaches and viewport
// changes.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// WithMapping sets the initial external-to-world mapping.
func WithMapping(cfg mapping.Config) Option {
	return func(o *options) {
		o.mapping = cfg
	}
}

// WithCullMargin sets the world-space margin added around the visible rect.
func WithCullMargin(margin float64) Option {
	return func(o *options) {
		o.margin = margin
	}
}

// WithOverlay enables interactive overlay nodes in region, built by factory.
func WithOverlay(region overlay.Region, factory overlay.Factory) Option {
	return func(o *options) {
		o.region = region
		o.factory = factory
	}
}

// WithDrawSurface sets the surface Frame paints the renderable set on.
func WithDrawSurface(s DrawSurface) Option {
	return func(o *options) {
		o.surface = s
	}
}

// WithClock replaces time.Now for frame timing and animations.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithOverrunHandler receives a signal for every frame over budget. The
// engine never changes policy on its own.
func WithOverrunHandler(fn func(perf.Overrun)) Option {
	return func(o *options) {
		o.onOverrun = fn
	}
}

// WithViewState sets the initial view.
func WithViewState(v geom.ViewState) Option {
	return func(o *options) {
		o.view = v
	}
}

// WithZoomLimits clamps zoom to [lo, hi]. A zero bound is open.
func WithZoomLimits(lo, hi float64) Option {
	return func(o *options) {
		o.minZoom = lo
		o.maxZoom = hi
	}
}

// WithLogger sets the engine logger. Without it the engine uses Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
