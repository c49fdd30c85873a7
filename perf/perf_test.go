package perf

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestOverrunScenario(t *testing.T) {
	clock := newFakeClock()
	var overruns []Overrun
	var buf bytes.Buffer
	m := New(
		WithClock(clock.Now),
		WithOverrunHandler(func(o Overrun) { overruns = append(overruns, o) }),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithDebug(true),
	)

	m.Begin()
	clock.Advance(20 * time.Millisecond)
	got := m.End(FrameStats{Rendered: 3, Tier: "standard"})

	if len(overruns) != 1 {
		t.Fatalf("overruns = %d, want 1", len(overruns))
	}
	if got.FrameTime != 20*time.Millisecond {
		t.Errorf("FrameTime = %v, want 20ms", got.FrameTime)
	}
	if got.FrameTimeMs() != 20 {
		t.Errorf("FrameTimeMs() = %v, want 20", got.FrameTimeMs())
	}
	if o := overruns[0]; o.Budget != DefaultBudget || o.Tier != "standard" || o.Over() != 20*time.Millisecond-DefaultBudget {
		t.Errorf("overrun = %+v", o)
	}
	if n := strings.Count(buf.String(), "frame over budget"); n != 1 {
		t.Errorf("warn lines = %d, want 1", n)
	}
	if got.Overruns != 1 {
		t.Errorf("Overruns = %d, want 1", got.Overruns)
	}
}

func TestWithinBudget(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	m := New(WithClock(clock.Now), WithOverrunHandler(func(Overrun) { calls++ }))

	for _, d := range []time.Duration{time.Millisecond, 10 * time.Millisecond, DefaultBudget} {
		m.Begin()
		clock.Advance(d)
		m.End(FrameStats{})
	}
	if calls != 0 {
		t.Errorf("overrun handler called %d times, want 0", calls)
	}
	if m.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", m.Frames())
	}
}

func TestNoLogWithoutDebug(t *testing.T) {
	clock := newFakeClock()
	var buf bytes.Buffer
	m := New(WithClock(clock.Now), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	m.Begin()
	clock.Advance(time.Second)
	m.End(FrameStats{})
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %s", buf.String())
	}
	if m.Metrics().Overruns != 1 {
		t.Errorf("Overruns = %d, want 1", m.Metrics().Overruns)
	}
}

func TestCustomBudget(t *testing.T) {
	tests := []struct {
		budget time.Duration
		frame  time.Duration
		want   int
	}{
		{5 * time.Millisecond, 6 * time.Millisecond, 1},
		{5 * time.Millisecond, 5 * time.Millisecond, 0},
		{0, 17 * time.Millisecond, 1}, // keeps default
		{-time.Second, 10 * time.Millisecond, 0},
	}
	for _, tt := range tests {
		clock := newFakeClock()
		calls := 0
		m := New(WithClock(clock.Now), WithBudget(tt.budget), WithOverrunHandler(func(Overrun) { calls++ }))
		m.Begin()
		clock.Advance(tt.frame)
		m.End(FrameStats{})
		if calls != tt.want {
			t.Errorf("budget %v frame %v: overruns = %d, want %d", tt.budget, tt.frame, calls, tt.want)
		}
	}
}

func TestMeasure(t *testing.T) {
	clock := newFakeClock()
	m := New(WithClock(clock.Now))
	got := m.Measure(func() FrameStats {
		clock.Advance(4 * time.Millisecond)
		return FrameStats{Rendered: 7, Culled: 3, Total: 10, Tier: "atomic", Attached: 2, Visible: 1, Hidden: 1}
	})
	want := Metrics{
		FrameTime:     4 * time.Millisecond,
		RenderedCount: 7,
		CulledCount:   3,
		TotalCount:    10,
		CurrentTier:   "atomic",
		Attached:      2,
		Visible:       1,
		Hidden:        1,
	}
	if got != want {
		t.Errorf("Measure() = %+v, want %+v", got, want)
	}
	if m.Metrics() != want {
		t.Errorf("Metrics() = %+v, want %+v", m.Metrics(), want)
	}
}

func TestEndWithoutBegin(t *testing.T) {
	m := New()
	if got := m.End(FrameStats{}); got.FrameTime != 0 {
		t.Errorf("FrameTime = %v, want 0", got.FrameTime)
	}
}
