// Package mapping converts between the external design coordinate system,
// world space and screen space.
//
// Design space is what a design tool exports (commonly Y down, arbitrary
// unit). World space is the engine's zoom-independent space:
//
//	world.x = ext.x*scale/baseUnit + origin.x
//	world.y = ±ext.y*scale/baseUnit + origin.y   (negated when FlipY)
//
// Widths and heights scale without a sign flip. Screen space is derived from
// world space and a geom.ViewState.
package mapping

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/kmadk/spacegen/geom"
	"github.com/kmadk/spacegen/internal/logx"
)

// ErrInvalidConfig is returned when a Config has a non-positive or
// non-finite scale or base unit.
var ErrInvalidConfig = errors.New("mapping: invalid config")

// DefaultTargetSpan is the world extent the larger content dimension is
// fitted to by ComputeOptimalMapping.
const DefaultTargetSpan = 1000

// Config parameterizes a Mapper. It is owned by one engine instance and
// changed only through Mapper.SetConfig.
type Config struct {
	Scale    float64
	BaseUnit float64
	Origin   geom.Point
	FlipY    bool
	// TargetSpan is the world extent used by ComputeOptimalMapping.
	// Zero means DefaultTargetSpan.
	TargetSpan float64
}

// DefaultConfig returns an identity-like mapping with a downward-Y source.
func DefaultConfig() Config {
	return Config{Scale: 1, BaseUnit: 1, FlipY: true, TargetSpan: DefaultTargetSpan}
}

// Validate checks Scale and BaseUnit.
func (c Config) Validate() error {
	if !(c.Scale > 0) || math.IsInf(c.Scale, 0) {
		return fmt.Errorf("%w: scale=%v", ErrInvalidConfig, c.Scale)
	}
	if !(c.BaseUnit > 0) || math.IsInf(c.BaseUnit, 0) {
		return fmt.Errorf("%w: baseUnit=%v", ErrInvalidConfig, c.BaseUnit)
	}
	if !c.Origin.IsFinite() {
		return fmt.Errorf("%w: origin=%+v", ErrInvalidConfig, c.Origin)
	}
	if c.TargetSpan < 0 || math.IsNaN(c.TargetSpan) || math.IsInf(c.TargetSpan, 0) {
		return fmt.Errorf("%w: targetSpan=%v", ErrInvalidConfig, c.TargetSpan)
	}
	return nil
}

// Box is an axis-aligned box in external design coordinates.
type Box struct {
	X, Y          float64
	Width, Height float64
}

// IsFinite reports whether every component is a finite number.
func (b Box) IsFinite() bool {
	for _, v := range [...]float64{b.X, b.Y, b.Width, b.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// World is a Box mapped into world space: the mapped corner and the scaled
// size. With FlipY the mapped corner is the top-left of the design box,
// which is the maximum-Y corner in world space.
type World struct {
	Position geom.Point
	Size     geom.Size
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger used for bounds warnings.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.log = l
		}
	}
}

// Mapper is the CoordinateMapper. It is not safe for concurrent use.
type Mapper struct {
	cfg Config
	log *slog.Logger
}

// NewMapper validates cfg and returns a Mapper.
func NewMapper(cfg Config, opts ...Option) (*Mapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TargetSpan == 0 {
		cfg.TargetSpan = DefaultTargetSpan
	}
	m := &Mapper{cfg: cfg, log: logx.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Config returns the current configuration.
func (m *Mapper) Config() Config { return m.cfg }

// SetConfig replaces the configuration. It is the only mutator.
func (m *Mapper) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.TargetSpan == 0 {
		cfg.TargetSpan = DefaultTargetSpan
	}
	m.cfg = cfg
	return nil
}

func (m *Mapper) unit() float64 { return m.cfg.Scale / m.cfg.BaseUnit }

// ToWorld maps an external box into world space.
func (m *Mapper) ToWorld(b Box) World {
	u := m.unit()
	y := b.Y * u
	if m.cfg.FlipY {
		y = -y
	}
	return World{
		Position: geom.Point{X: b.X*u + m.cfg.Origin.X, Y: y + m.cfg.Origin.Y},
		Size:     geom.Size{Width: b.Width * u, Height: b.Height * u},
	}
}

// ToExternal is the exact inverse of ToWorld.
func (m *Mapper) ToExternal(w World) Box {
	inv := m.cfg.BaseUnit / m.cfg.Scale
	y := (w.Position.Y - m.cfg.Origin.Y) * inv
	if m.cfg.FlipY {
		y = -y
	}
	return Box{
		X:      (w.Position.X - m.cfg.Origin.X) * inv,
		Y:      y,
		Width:  w.Size.Width * inv,
		Height: w.Size.Height * inv,
	}
}

// WorldRect maps an external box to its world rectangle, taking the Y flip
// into account so that Min <= Max.
func (m *Mapper) WorldRect(b Box) geom.Rect {
	w := m.ToWorld(b)
	if m.cfg.FlipY {
		return geom.Rect{
			Min: geom.Point{X: w.Position.X, Y: w.Position.Y - w.Size.Height},
			Max: geom.Point{X: w.Position.X + w.Size.Width, Y: w.Position.Y},
		}.Canon()
	}
	return geom.RectFrom(w.Position, w.Size)
}

// WorldToScreen maps a world point to container pixels.
func WorldToScreen(p geom.Point, v geom.ViewState) geom.Point {
	return p.Sub(v.Center()).Mul(v.Zoom).Add(halfContainer(v))
}

// ScreenToWorld is the exact inverse of WorldToScreen.
func ScreenToWorld(p geom.Point, v geom.ViewState) geom.Point {
	return p.Sub(halfContainer(v)).Div(v.Zoom).Add(v.Center())
}

// halfContainer is the screen position of the view center.
func halfContainer(v geom.ViewState) geom.Point {
	c := v.Container()
	return geom.Pt(c.Width, c.Height).Div(2)
}

// ScreenMatrix returns WorldToScreen as an affine matrix.
func ScreenMatrix(v geom.ViewState) geom.Matrix {
	return geom.TranslateScale(v.Width/2-v.X*v.Zoom, v.Height/2-v.Y*v.Zoom, v.Zoom)
}

// WorldToScreen is the method form of the package function.
func (m *Mapper) WorldToScreen(p geom.Point, v geom.ViewState) geom.Point {
	return WorldToScreen(p, v)
}

// ScreenToWorld is the method form of the package function.
func (m *Mapper) ScreenToWorld(p geom.Point, v geom.ViewState) geom.Point {
	return ScreenToWorld(p, v)
}
