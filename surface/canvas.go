// Copyright 2026 The spacegen Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kmadk/spacegen/cull"
	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
	"github.com/kmadk/spacegen/internal/logx"
	"github.com/kmadk/spacegen/mapping"
	"github.com/kmadk/spacegen/tier"
)

// Common errors returned by Canvas operations.
var (
	// ErrClosed is returned when drawing on a closed canvas.
	ErrClosed = errors.New("surface: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("surface: invalid dimensions")

	// ErrUnsupportedFormat is returned when a layered target does not hold
	// RGBA8 pixels.
	ErrUnsupportedFormat = errors.New("surface: unsupported target format")
)

// Option configures a Canvas.
type Option func(*options)

type options struct {
	font   *text.FontSource
	log    *slog.Logger
	debug  bool
	margin float64
	lang   language.Tag
}

func defaultOptions() options {
	return options{
		log:  logx.Nop(),
		lang: language.English,
	}
}

// WithFont sets the font source for labels. Without one, labels are skipped.
func WithFont(src *text.FontSource) Option {
	return func(o *options) { o.font = src }
}

// WithLogger sets the canvas logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = logx.OrNop(l) }
}

// WithDebugLayer draws the culling rectangle and tier name on a separate
// layer composited above the scene. margin is the cull margin in world units.
func WithDebugLayer(enabled bool, margin float64) Option {
	return func(o *options) {
		o.debug = enabled
		o.margin = margin
	}
}

// WithLanguage sets the language used to title-case tier names.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) { o.lang = tag }
}

// Stats describes the last Draw call.
type Stats struct {
	Drawn   int
	Labeled int
	// Offscreen counts elements whose screen rect missed the canvas.
	Offscreen int
	// Failed counts elements whose fill or stroke returned an error.
	Failed int
}

// Canvas draws element sets onto a gg.Context.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	dc     *gg.Context
	style  Style
	face   text.Face
	caser  cases.Caser
	layers *layers
	log    *slog.Logger
	margin float64

	// onDraw runs after each successful Draw; NewGPU uses it to mark the
	// GPU canvas dirty.
	onDraw  func()
	onClose func() error

	fill   func(*gg.Context) error
	stroke func(*gg.Context) error

	last   Stats
	width  int
	height int
	closed bool
}

// New creates a CPU canvas of the given size.
func New(width, height int, style Style, opts ...Option) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return newCanvas(gg.NewContext(width, height), style, opts...)
}

func newCanvas(dc *gg.Context, style Style, opts ...Option) (*Canvas, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Canvas{
		dc:     dc,
		style:  style,
		caser:  cases.Title(o.lang),
		log:    o.log,
		margin: o.margin,
		width:  dc.Width(),
		height: dc.Height(),
		fill:   (*gg.Context).Fill,
		stroke: (*gg.Context).Stroke,
	}
	if o.font != nil && style.FontSize > 0 {
		c.face = o.font.Face(style.FontSize)
	}
	if o.debug {
		l, err := newLayers(c.width, c.height)
		if err != nil {
			return nil, err
		}
		c.layers = l
	}
	return c, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Stats returns the statistics of the last Draw call.
func (c *Canvas) Stats() Stats { return c.last }

// Context returns the underlying gg context.
func (c *Canvas) Context() *gg.Context { return c.dc }

// Draw clears the canvas and paints els as seen through v. lvl is the tier
// the set was collapsed for; it labels the debug layer. An element that fails
// to paint is skipped and the rest of the set is still drawn; the joined
// element errors are returned after the frame is complete.
func (c *Canvas) Draw(v geom.ViewState, lvl tier.Level, els []*element.Element) error {
	if c.closed {
		return ErrClosed
	}

	dc := c.dc
	dc.ClearWithColor(c.style.Background)
	if c.face != nil {
		dc.SetFont(c.face)
	}
	dc.SetLineWidth(c.style.LineWidth)

	m := toGG(mapping.ScreenMatrix(v))
	bounds := image.Rect(0, 0, c.width, c.height)
	var (
		stats Stats
		errs  []error
	)
	for _, el := range els {
		r := screenRect(m, el.Rect())
		if !r.Overlaps(bounds) {
			stats.Offscreen++
			continue
		}
		labeled, err := c.paint(el, m)
		if err != nil {
			stats.Failed++
			errs = append(errs, fmt.Errorf("surface: draw %s: %w", el.ID, err))
			c.log.Warn("surface: element draw failed", "id", el.ID, "err", err)
			continue
		}
		stats.Drawn++
		if labeled {
			stats.Labeled++
		}
	}
	c.last = stats

	if c.layers != nil {
		if err := c.layers.compose(dc, c.debugOverlay(v, lvl)); err != nil {
			errs = append(errs, err)
		}
	}
	if c.onDraw != nil {
		c.onDraw()
	}
	c.log.Debug("surface: drew frame",
		"tier", lvl.Name,
		"drawn", stats.Drawn,
		"failed", stats.Failed,
		"offscreen", stats.Offscreen)
	return errors.Join(errs...)
}

// paint draws a single element and reports whether it drew a label.
func (c *Canvas) paint(el *element.Element, m gg.Matrix) (bool, error) {
	b := el.Behavior()
	dc := c.dc
	rect := el.Rect()
	p0 := m.TransformPoint(gg.Point{X: rect.Min.X, Y: rect.Min.Y})
	p1 := m.TransformPoint(gg.Point{X: rect.Max.X, Y: rect.Max.Y})
	w, h := p1.X-p0.X, p1.Y-p0.Y

	col := c.style.paint(b)
	dc.SetRGBA(col.R, col.G, col.B, col.A)

	switch {
	case w < 1 && h < 1:
		// Point-only or sub-pixel: a dot keeps it visible.
		dc.DrawCircle(p0.X, p0.Y, max(c.style.LineWidth, 1))
		if err := c.fill(dc); err != nil {
			return false, err
		}
	case b.Paint == element.PaintFill || b.Summary:
		dc.DrawRectangle(p0.X, p0.Y, w, h)
		if err := c.fill(dc); err != nil {
			return false, err
		}
	case b.Paint == element.PaintStroke:
		dc.DrawRectangle(p0.X, p0.Y, w, h)
		if err := c.stroke(dc); err != nil {
			return false, err
		}
	}

	if c.face == nil || el.Content == nil {
		return false, nil
	}
	caption := el.Content.Caption()
	if caption == "" {
		return false, nil
	}
	lc := c.style.Label
	dc.SetRGBA(lc.R, lc.G, lc.B, lc.A)
	dc.DrawStringAnchored(caption, p0.X+w/2, p0.Y+h/2, 0.5, 0.5)
	return true, nil
}

// debugOverlay returns a function drawing the culling rectangle and tier
// name onto the debug layer context.
func (c *Canvas) debugOverlay(v geom.ViewState, lvl tier.Level) func(*gg.Context) error {
	return func(dc *gg.Context) error {
		m := toGG(mapping.ScreenMatrix(v))
		r := cull.VisibleRect(v, c.margin)
		p0 := m.TransformPoint(gg.Point{X: r.Min.X, Y: r.Min.Y})
		p1 := m.TransformPoint(gg.Point{X: r.Max.X, Y: r.Max.Y})

		col := c.style.Debug
		dc.SetRGBA(col.R, col.G, col.B, col.A)
		dc.SetLineWidth(1)
		dc.DrawRectangle(p0.X, p0.Y, p1.X-p0.X, p1.Y-p0.Y)
		if err := dc.Stroke(); err != nil {
			return err
		}
		if c.face != nil {
			dc.SetFont(c.face)
			dc.DrawString(c.TierLabel(lvl), 8, c.style.FontSize+4)
		}
		return nil
	}
}

// TierLabel formats lvl for display, e.g. "Standard ×1.50".
func (c *Canvas) TierLabel(lvl tier.Level) string {
	return fmt.Sprintf("%s ×%.2f", c.caser.String(lvl.Name), lvl.Zoom)
}

// SetDebugVisible shows or hides the debug layer on the next Draw. It is a
// no-op without WithDebugLayer.
func (c *Canvas) SetDebugVisible(visible bool) {
	if c.layers != nil {
		c.layers.setVisible(visible)
	}
}

// Image returns the last drawn frame. With the debug layer enabled it is the
// composited result.
func (c *Canvas) Image() image.Image {
	if c.layers != nil {
		return c.layers.target.Image()
	}
	return c.dc.Image()
}

// EncodePNG writes the last drawn frame as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if c.layers != nil {
		return encodePNG(w, c.layers.target.Image())
	}
	return c.dc.EncodePNG(w)
}

// Close releases the canvas. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.onClose != nil {
		return c.onClose()
	}
	return c.dc.Close()
}

// toGG converts a geom matrix to gg's identical layout.
func toGG(m geom.Matrix) gg.Matrix {
	return gg.Matrix{A: m.A, B: m.B, C: m.C, D: m.D, E: m.E, F: m.F}
}

// screenRect returns the integer pixel rectangle covering r under m.
func screenRect(m gg.Matrix, r geom.Rect) image.Rectangle {
	p := m.TransformPoint(gg.Point{X: r.Min.X, Y: r.Min.Y})
	q := m.TransformPoint(gg.Point{X: r.Max.X, Y: r.Max.Y})
	return image.Rect(int(p.X), int(p.Y), int(q.X)+1, int(q.Y)+1)
}
