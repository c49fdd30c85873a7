package geom

import "math"

// Rect is an axis-aligned rectangle. Min is inclusive, Max is inclusive;
// a Rect with Min == Max is a single point.
type Rect struct {
	Min, Max Point
}

// RectFrom returns the rectangle with origin p and size s. Negative
// dimensions are normalized so Min <= Max holds.
func RectFrom(p Point, s Size) Rect {
	r := Rect{Min: p, Max: Point{X: p.X + s.Width, Y: p.Y + s.Height}}
	return r.Canon()
}

// RectCentered returns the rectangle centered on c with half extents hw, hh.
func RectCentered(c Point, hw, hh float64) Rect {
	return Rect{
		Min: Point{X: c.X - hw, Y: c.Y - hh},
		Max: Point{X: c.X + hw, Y: c.Y + hh},
	}
}

// EmptyRect returns an inverted rectangle that acts as the identity for Union.
func EmptyRect() Rect {
	return Rect{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Canon returns r with Min and Max swapped per axis where needed.
func (r Rect) Canon() Rect {
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

// Empty reports whether r contains no points (an inverted rectangle).
func (r Rect) Empty() bool {
	return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the center point.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether r and s share at least one point, edges included.
func (r Rect) Intersects(s Rect) bool {
	return r.Min.X <= s.Max.X && s.Min.X <= r.Max.X &&
		r.Min.Y <= s.Max.Y && s.Min.Y <= r.Max.Y
}

// Expand grows r by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - m, Y: r.Min.Y - m},
		Max: Point{X: r.Max.X + m, Y: r.Max.Y + m},
	}
}

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, s.Min.X), Y: math.Min(r.Min.Y, s.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, s.Max.X), Y: math.Max(r.Max.Y, s.Max.Y)},
	}
}
