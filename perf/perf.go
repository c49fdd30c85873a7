// Package perf measures per-frame cost against a budget.
//
// A Monitor reports overruns and never changes rendering policy; the host
// decides what to do with the signal.
package perf

import (
	"log/slog"
	"time"

	"github.com/kmadk/spacegen/internal/logx"
)

// DefaultBudget is one frame at 60 Hz.
const DefaultBudget = 16670 * time.Microsecond

// Metrics is the RenderingMetrics of one frame. Only the last frame is kept.
type Metrics struct {
	FrameTime     time.Duration `json:"frame_time"`
	RenderedCount int           `json:"rendered"`
	CulledCount   int           `json:"culled"`
	TotalCount    int           `json:"total"`
	CurrentTier   string        `json:"tier"`

	Attached int `json:"overlay_attached"`
	Visible  int `json:"overlay_visible"`
	Hidden   int `json:"overlay_hidden"`

	NodeFailures  int `json:"node_failures"`
	Rejected      int `json:"rejected"`
	SurfaceErrors int `json:"surface_errors"`
	// Overruns is the lifetime overrun count.
	Overruns int `json:"overruns"`
}

// FrameStats are the pipeline counts a frame reports to End.
type FrameStats struct {
	Rendered      int
	Culled        int
	Total         int
	Tier          string
	Attached      int
	Visible       int
	Hidden        int
	NodeFailures  int
	Rejected      int
	SurfaceErrors int
}

// Overrun is the warning signal for a frame that exceeded the budget.
type Overrun struct {
	Frame     uint64
	FrameTime time.Duration
	Budget    time.Duration
	Tier      string
	Rendered  int
}

// Over returns how far the frame exceeded the budget.
func (o Overrun) Over() time.Duration { return o.FrameTime - o.Budget }

// Option configures a Monitor.
type Option func(*Monitor)

// WithBudget sets the frame time budget. Non-positive values keep the default.
func WithBudget(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.budget = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// WithOverrunHandler registers fn to receive overruns.
func WithOverrunHandler(fn func(Overrun)) Option {
	return func(m *Monitor) { m.onOverrun = fn }
}

// WithLogger sets the logger used for overrun warnings.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) { m.log = logx.OrNop(l) }
}

// WithDebug enables a warning log line per overrun.
func WithDebug(debug bool) Option {
	return func(m *Monitor) { m.debug = debug }
}

// Monitor times frames. It is not safe for concurrent use.
type Monitor struct {
	budget    time.Duration
	now       func() time.Time
	onOverrun func(Overrun)
	log       *slog.Logger
	debug     bool

	start    time.Time
	running  bool
	frames   uint64
	overruns int
	last     Metrics
}

// New creates a Monitor.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		budget: DefaultBudget,
		now:    time.Now,
		log:    logx.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Budget returns the frame time budget.
func (m *Monitor) Budget() time.Duration { return m.budget }

// Begin records the frame start.
func (m *Monitor) Begin() {
	m.start = m.now()
	m.running = true
}

// End closes the frame opened by Begin and returns its metrics. Calling End
// without Begin reports a zero frame time.
func (m *Monitor) End(s FrameStats) Metrics {
	var elapsed time.Duration
	if m.running {
		elapsed = m.now().Sub(m.start)
		m.running = false
	}
	m.frames++

	if elapsed > m.budget {
		m.overruns++
		o := Overrun{
			Frame:     m.frames,
			FrameTime: elapsed,
			Budget:    m.budget,
			Tier:      s.Tier,
			Rendered:  s.Rendered,
		}
		if m.debug {
			m.log.Warn("perf: frame over budget",
				"frame", o.Frame,
				"frame_time", o.FrameTime,
				"budget", o.Budget,
				"tier", o.Tier,
				"rendered", o.Rendered)
		}
		if m.onOverrun != nil {
			m.onOverrun(o)
		}
	}

	m.last = Metrics{
		FrameTime:     elapsed,
		RenderedCount: s.Rendered,
		CulledCount:   s.Culled,
		TotalCount:    s.Total,
		CurrentTier:   s.Tier,
		Attached:      s.Attached,
		Visible:       s.Visible,
		Hidden:        s.Hidden,
		NodeFailures:  s.NodeFailures,
		Rejected:      s.Rejected,
		SurfaceErrors: s.SurfaceErrors,
		Overruns:      m.overruns,
	}
	return m.last
}

// Measure runs fn between Begin and End. fn returns the frame's stats.
func (m *Monitor) Measure(fn func() FrameStats) Metrics {
	m.Begin()
	return m.End(fn())
}

// Metrics returns the last frame's metrics.
func (m *Monitor) Metrics() Metrics { return m.last }

// Frames returns the number of frames measured.
func (m *Monitor) Frames() uint64 { return m.frames }

// FrameTimeMs returns FrameTime in milliseconds.
func (m Metrics) FrameTimeMs() float64 {
	return float64(m.FrameTime) / float64(time.Millisecond)
}
