package geom

import (
	"math"
	"strconv"
	"strings"
)

// Matrix is a 2D affine transform in world or screen units, stored as the
// top two rows of a 3x3 matrix:
//
//	| a  b  c |
//	| d  e  f |
//
// so a point maps as
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the transform that leaves points unchanged.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate returns a pure offset by (x, y).
func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale returns an axis-aligned scale about the origin.
func Scale(x, y float64) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// TranslateScale creates the combined matrix Translate(tx, ty) * Scale(s, s)
// in one step. Overlay nodes receive exactly this shape.
func TranslateScale(tx, ty, s float64) Matrix {
	return Matrix{
		A: s, B: 0, C: tx,
		D: 0, E: s, F: ty,
	}
}

// Multiply returns m applied after other.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint maps p through m.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Invert returns the inverse of m, or Identity when m is singular.
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-12 {
		return Identity()
	}

	k := 1 / det
	return Matrix{
		A: k * m.E, B: -k * m.B, C: k * (m.B*m.F - m.C*m.E),
		D: -k * m.D, E: k * m.A, F: k * (m.C*m.D - m.A*m.F),
	}
}

// IsTranslationOnly reports whether the matrix has no scale, rotation or shear.
func (m Matrix) IsTranslationOnly() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// IsScaleOnly reports whether the matrix is an axis-aligned scale plus
// optional translation (no rotation or shear).
func (m Matrix) IsScaleOnly() bool {
	return m.B == 0 && m.D == 0
}

// CSS formats the matrix in CSS transform notation, matrix(a, b, c, d, e, f),
// where the CSS components map to (A, D, B, E, C, F).
func (m Matrix) CSS() string {
	var b strings.Builder
	b.WriteString("matrix(")
	for i, v := range [6]float64{m.A, m.D, m.B, m.E, m.C, m.F} {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteByte(')')
	return b.String()
}
