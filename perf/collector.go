package perf

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	frameSecondsDesc = prometheus.NewDesc(
		"spacegen_frame_seconds",
		"Duration of the last measured frame in seconds",
		nil, nil)
	elementsDesc = prometheus.NewDesc(
		"spacegen_elements",
		"Element counts of the last frame by stage",
		[]string{"stage"}, nil)
	overlayNodesDesc = prometheus.NewDesc(
		"spacegen_overlay_nodes",
		"Overlay node counts of the last frame by state",
		[]string{"state"}, nil)
	tierDesc = prometheus.NewDesc(
		"spacegen_tier_info",
		"Semantic tier of the last frame",
		[]string{"tier"}, nil)
	framesDesc = prometheus.NewDesc(
		"spacegen_frames_total",
		"Total number of measured frames",
		nil, nil)
	overrunsDesc = prometheus.NewDesc(
		"spacegen_frame_overruns_total",
		"Total number of frames over budget",
		nil, nil)
	failuresDesc = prometheus.NewDesc(
		"spacegen_node_failures_total",
		"Total number of overlay node construction failures",
		nil, nil)
)

// Collector exports a Monitor to Prometheus. Frames are produced by the
// render loop while scrapes arrive on other goroutines, so the collector
// reads through Locker when one is set.
type Collector struct {
	m      *Monitor
	locker sync.Locker
}

// NewCollector returns a collector over m. locker may be nil when the host
// never measures and scrapes concurrently.
func NewCollector(m *Monitor, locker sync.Locker) *Collector {
	return &Collector{m: m, locker: locker}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- frameSecondsDesc
	ch <- elementsDesc
	ch <- overlayNodesDesc
	ch <- tierDesc
	ch <- framesDesc
	ch <- overrunsDesc
	ch <- failuresDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.locker != nil {
		c.locker.Lock()
	}
	last, frames := c.m.Metrics(), c.m.Frames()
	if c.locker != nil {
		c.locker.Unlock()
	}

	ch <- prometheus.MustNewConstMetric(frameSecondsDesc, prometheus.GaugeValue, last.FrameTime.Seconds())
	ch <- prometheus.MustNewConstMetric(elementsDesc, prometheus.GaugeValue, float64(last.TotalCount), "total")
	ch <- prometheus.MustNewConstMetric(elementsDesc, prometheus.GaugeValue, float64(last.RenderedCount), "rendered")
	ch <- prometheus.MustNewConstMetric(elementsDesc, prometheus.GaugeValue, float64(last.CulledCount), "culled")
	ch <- prometheus.MustNewConstMetric(elementsDesc, prometheus.GaugeValue, float64(last.Rejected), "rejected")
	ch <- prometheus.MustNewConstMetric(overlayNodesDesc, prometheus.GaugeValue, float64(last.Attached), "attached")
	ch <- prometheus.MustNewConstMetric(overlayNodesDesc, prometheus.GaugeValue, float64(last.Visible), "visible")
	ch <- prometheus.MustNewConstMetric(overlayNodesDesc, prometheus.GaugeValue, float64(last.Hidden), "hidden")
	if last.CurrentTier != "" {
		ch <- prometheus.MustNewConstMetric(tierDesc, prometheus.GaugeValue, 1, last.CurrentTier)
	}
	ch <- prometheus.MustNewConstMetric(framesDesc, prometheus.CounterValue, float64(frames))
	ch <- prometheus.MustNewConstMetric(overrunsDesc, prometheus.CounterValue, float64(last.Overruns))
	ch <- prometheus.MustNewConstMetric(failuresDesc, prometheus.CounterValue, float64(last.NodeFailures))
}

var _ prometheus.Collector = (*Collector)(nil)
