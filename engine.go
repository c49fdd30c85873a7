package spacegen

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/kmadk/spacegen/cull"
	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
	"github.com/kmadk/spacegen/lod"
	"github.com/kmadk/spacegen/mapping"
	"github.com/kmadk/spacegen/overlay"
	"github.com/kmadk/spacegen/perf"
	"github.com/kmadk/spacegen/tier"
)

// AddResult describes one AddElements batch.
type AddResult struct {
	Added    int
	Replaced int
	// Rejected elements failed validation and were not stored.
	Rejected []error
	Overlay  overlay.AddReport
}

// animation is the single in-flight AnimateToViewState transition.
type animation struct {
	from, to ViewState
	start    time.Time
	duration time.Duration
}

// ViewState is the engine camera. See geom.ViewState.
type ViewState = geom.ViewState

// Engine orchestrates the per-frame pipeline over one element set and one
// ViewState.
//
// Engine is NOT safe for concurrent use.
type Engine struct {
	classifier *tier.Classifier
	mapper     *mapping.Mapper
	sync       *overlay.Sync
	monitor    *perf.Monitor
	surface    DrawSurface
	log        *slog.Logger
	now        func() time.Time

	perf    bool
	debug   bool
	margin  float64
	minZoom float64
	maxZoom float64

	view ViewState
	anim *animation

	elements []*element.Element
	index    map[string]int

	inView   []*element.Element
	metrics  perf.Metrics
	rejected int
	surfErrs int
	closed   bool
}

// New creates an Engine. Invalid configuration returns a
// *ConfigurationError; nothing is validated later.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	if log == nil {
		log = Logger()
	}

	if len(o.levels) == 0 {
		return nil, configError("semanticLevels", ErrNoLevels)
	}
	classifier, err := tier.New(o.levels)
	if err != nil {
		return nil, configError("semanticLevels", err)
	}
	if o.budget <= 0 {
		return nil, configError("frameTimeBudget", fmt.Errorf("must be > 0, got %v", o.budget))
	}
	mapper, err := mapping.NewMapper(o.mapping, mapping.WithLogger(log))
	if err != nil {
		return nil, configError("mapping", err)
	}
	if !(o.margin >= 0) || math.IsInf(o.margin, 0) {
		return nil, configError("cullMargin", fmt.Errorf("must be finite and >= 0, got %v", o.margin))
	}
	if err := validateZoomLimits(o.minZoom, o.maxZoom); err != nil {
		return nil, configError("zoomLimits", err)
	}
	if err := o.view.Validate(); err != nil {
		return nil, configError("viewState", err)
	}
	if (o.region == nil) != (o.factory == nil) {
		return nil, configError("overlay", fmt.Errorf("region and factory must both be set"))
	}
	if o.now == nil {
		return nil, configError("clock", fmt.Errorf("nil clock"))
	}

	e := &Engine{
		classifier: classifier,
		mapper:     mapper,
		surface:    o.surface,
		log:        log,
		now:        o.now,
		perf:       o.perf,
		debug:      o.debug,
		margin:     o.margin,
		minZoom:    o.minZoom,
		maxZoom:    o.maxZoom,
		index:      make(map[string]int),
	}
	e.view = e.clamp(o.view)
	e.monitor = perf.New(
		perf.WithBudget(o.budget),
		perf.WithClock(o.now),
		perf.WithOverrunHandler(o.onOverrun),
		perf.WithLogger(log),
		perf.WithDebug(o.debug),
	)
	if o.region != nil {
		e.sync = overlay.NewSync(o.region, o.factory, overlay.WithLogger(log))
	}

	log.Info("spacegen: engine created",
		"tiers", classifier.Len(),
		"budget", o.budget,
		"overlay", e.sync != nil,
		"surface", e.surface != nil)
	return e, nil
}

func validateZoomLimits(lo, hi float64) error {
	if !(lo >= 0) || !(hi >= 0) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return fmt.Errorf("limits must be finite and >= 0, got [%v, %v]", lo, hi)
	}
	if hi > 0 && lo > hi {
		return fmt.Errorf("min %v exceeds max %v", lo, hi)
	}
	return nil
}

// AddElements stores copies of els, replacing elements with the same id in
// place. Invalid elements are rejected individually; the batch continues.
// Interactive elements get exactly one overlay node each.
func (e *Engine) AddElements(els ...*element.Element) (AddResult, error) {
	var res AddResult
	if e.closed {
		return res, ErrClosed
	}

	accepted := make([]*element.Element, 0, len(els))
	for _, in := range els {
		if in == nil {
			continue
		}
		el := in.Clone()
		if err := el.Resolve(e.classifier); err != nil {
			e.rejected++
			res.Rejected = append(res.Rejected, err)
			e.log.Warn("spacegen: element rejected", "id", el.ID, "err", err)
			continue
		}
		if i, ok := e.index[el.ID]; ok {
			e.elements[i] = el
			res.Replaced++
		} else {
			e.index[el.ID] = len(e.elements)
			e.elements = append(e.elements, el)
			res.Added++
		}
		accepted = append(accepted, el)
	}

	if e.sync != nil && len(accepted) > 0 {
		rep, err := e.sync.AddElements(accepted)
		if err != nil {
			return res, err
		}
		res.Overlay = rep
	}
	return res, nil
}

// RemoveElements deletes the elements with the given ids and destroys their
// overlay nodes. Unknown ids are ignored. It returns the number removed.
func (e *Engine) RemoveElements(ids ...string) int {
	if e.closed || len(ids) == 0 {
		return 0
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := e.index[id]; ok {
			drop[id] = struct{}{}
		}
	}
	if e.sync != nil {
		e.sync.RemoveElements(ids)
	}
	if len(drop) == 0 {
		return 0
	}

	e.elements = slices.DeleteFunc(e.elements, func(el *element.Element) bool {
		_, ok := drop[el.ID]
		return ok
	})
	clear(e.index)
	for i, el := range e.elements {
		e.index[el.ID] = i
	}
	return len(drop)
}

// Pan moves the view center by (dx, dy) world units.
func (e *Engine) Pan(dx, dy float64) error {
	if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		return ErrInvalidOffset
	}
	v := e.view
	v.X += dx
	v.Y += dy
	e.replaceView(v, "pan")
	return nil
}

// Zoom multiplies the zoom by factor around the view center.
func (e *Engine) Zoom(factor float64) error {
	if !validFactor(factor) {
		return ErrInvalidFactor
	}
	v := e.view
	v.Zoom *= factor
	v = e.clamp(v)
	if !validFactor(v.Zoom) {
		return ErrInvalidFactor
	}
	e.replaceView(v, "zoom")
	return nil
}

// ZoomAt multiplies the zoom by factor keeping the world point under the
// screen point at fixed.
func (e *Engine) ZoomAt(factor float64, at geom.Point) error {
	if !validFactor(factor) {
		return ErrInvalidFactor
	}
	if !at.IsFinite() {
		return ErrInvalidOffset
	}
	anchor := mapping.ScreenToWorld(at, e.view)
	v := e.view
	v.Zoom *= factor
	v = e.clamp(v)
	if !validFactor(v.Zoom) {
		return ErrInvalidFactor
	}
	v.X = anchor.X - (at.X-v.Width/2)/v.Zoom
	v.Y = anchor.Y - (at.Y-v.Height/2)/v.Zoom
	e.replaceView(v, "zoomAt")
	return nil
}

// SetViewState replaces the view. Zoom is clamped to the engine limits.
func (e *Engine) SetViewState(v ViewState) error {
	if err := v.Validate(); err != nil {
		return err
	}
	e.replaceView(e.clamp(v), "set")
	return nil
}

// Resize changes the container size, keeping center and zoom.
func (e *Engine) Resize(width, height float64) error {
	v := e.view
	v.Width, v.Height = width, height
	return e.SetViewState(v)
}

// AnimateToViewState starts a transition to target over d, advanced by
// Frame. It supersedes any running transition; Pan, Zoom, ZoomAt and
// SetViewState supersede it in turn. A non-positive d jumps immediately.
// A zero container size in target keeps the current one.
func (e *Engine) AnimateToViewState(target ViewState, d time.Duration) error {
	if target.Width == 0 && target.Height == 0 {
		target.Width, target.Height = e.view.Width, e.view.Height
	}
	if err := target.Validate(); err != nil {
		return err
	}
	target = e.clamp(target)
	if d <= 0 {
		e.replaceView(target, "animate")
		return nil
	}
	e.anim = &animation{from: e.view, to: target, start: e.now(), duration: d}
	if e.debug {
		e.log.Debug("spacegen: animation started", "to", target, "duration", d)
	}
	return nil
}

// Animating reports whether a transition is in flight.
func (e *Engine) Animating() bool { return e.anim != nil }

// SetMapping replaces the external-to-world mapping.
func (e *Engine) SetMapping(cfg mapping.Config) error {
	return e.mapper.SetConfig(cfg)
}

// Frame runs the pipeline once and returns its metrics.
func (e *Engine) Frame() perf.Metrics {
	if e.perf {
		e.monitor.Begin()
	}
	e.advance()

	v := e.view
	lvl := e.classifier.Level(v.Zoom)
	collapsed := lod.Collapse(e.elements, lvl)
	visible := cull.Cull(collapsed, v, e.margin)
	e.inView = visible

	stats := perf.FrameStats{
		Rendered: len(visible),
		Culled:   len(collapsed) - len(visible),
		Total:    len(e.elements),
		Tier:     lvl.Name,
		Rejected: e.rejected,
	}

	if e.sync != nil {
		e.sync.UpdateTransform(v, cull.NewSet(visible))
		c := e.sync.Counts()
		stats.Attached, stats.Visible, stats.Hidden = c.Attached, c.Visible, c.Hidden
		stats.NodeFailures = c.Failures
	}

	if e.surface != nil {
		if err := e.surface.Draw(v, lvl, visible); err != nil {
			e.surfErrs++
			e.log.Warn("spacegen: draw surface failed", "err", err)
		}
	}
	stats.SurfaceErrors = e.surfErrs

	if e.perf {
		e.metrics = e.monitor.End(stats)
	} else {
		e.metrics = perf.Metrics{
			RenderedCount: stats.Rendered,
			CulledCount:   stats.Culled,
			TotalCount:    stats.Total,
			CurrentTier:   stats.Tier,
			Attached:      stats.Attached,
			Visible:       stats.Visible,
			Hidden:        stats.Hidden,
			NodeFailures:  stats.NodeFailures,
			Rejected:      stats.Rejected,
			SurfaceErrors: stats.SurfaceErrors,
		}
	}
	return e.metrics
}

// ViewState returns the current view.
func (e *Engine) ViewState() ViewState { return e.view }

// Tier returns the tier of the current zoom.
func (e *Engine) Tier() tier.Level { return e.classifier.Level(e.view.Zoom) }

// Classifier returns the engine's tier classifier.
func (e *Engine) Classifier() *tier.Classifier { return e.classifier }

// ElementsInView returns the renderable set computed by the last Frame.
func (e *Engine) ElementsInView() []*element.Element {
	return slices.Clone(e.inView)
}

// Metrics returns the metrics of the last Frame.
func (e *Engine) Metrics() perf.Metrics { return e.metrics }

// Monitor returns the frame monitor, e.g. for perf.NewCollector.
func (e *Engine) Monitor() *perf.Monitor { return e.monitor }

// Element returns the stored element with id.
func (e *Engine) Element(id string) (*element.Element, bool) {
	i, ok := e.index[id]
	if !ok {
		return nil, false
	}
	return e.elements[i], true
}

// Elements returns every stored element in insertion order.
func (e *Engine) Elements() []*element.Element {
	return slices.Clone(e.elements)
}

// Len returns the number of stored elements.
func (e *Engine) Len() int { return len(e.elements) }

// Mapper returns the engine's coordinate mapper.
func (e *Engine) Mapper() *mapping.Mapper { return e.mapper }

// Overlay returns the overlay sync, or nil without WithOverlay.
func (e *Engine) Overlay() *overlay.Sync { return e.sync }

// Close destroys every overlay node. Close is idempotent.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.anim = nil
	var err error
	if e.sync != nil {
		err = e.sync.Close()
	}
	e.log.Info("spacegen: engine closed", "elements", len(e.elements))
	return err
}

// replaceView stores v as a whole value and cancels any animation.
func (e *Engine) replaceView(v ViewState, op string) {
	e.anim = nil
	e.view = v
	if e.debug {
		e.log.Debug("spacegen: viewport changed",
			"op", op,
			"x", v.X,
			"y", v.Y,
			"zoom", v.Zoom)
	}
}

// advance steps the running animation to the current time.
func (e *Engine) advance() {
	a := e.anim
	if a == nil {
		return
	}
	t := float64(e.now().Sub(a.start)) / float64(a.duration)
	e.view = a.from.Lerp(a.to, t)
	if t >= 1 {
		e.anim = nil
	}
}

func (e *Engine) clamp(v ViewState) ViewState {
	if e.minZoom > 0 && v.Zoom < e.minZoom {
		v.Zoom = e.minZoom
	}
	if e.maxZoom > 0 && v.Zoom > e.maxZoom {
		v.Zoom = e.maxZoom
	}
	return v
}

func validFactor(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}
