// Package cull filters elements to those intersecting the visible world
// rectangle of a view.
package cull

import (
	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
)

// DefaultMargin is the world-unit margin added around the visible rectangle
// so that elements appear slightly before they scroll into view.
const DefaultMargin = 50

// VisibleRect returns the world rectangle seen by v, centered on (v.X, v.Y)
// with half extents (Width/2/Zoom, Height/2/Zoom), grown by margin world
// units on every side.
func VisibleRect(v geom.ViewState, margin float64) geom.Rect {
	return geom.RectCentered(v.Center(), v.Width/2/v.Zoom, v.Height/2/v.Zoom).Expand(margin)
}

// Cull returns the elements whose world rectangle intersects the expanded
// visible rectangle of v, preserving input order. Elements with zero bounds
// (or kinds that are not bounds-aware) are tested by position alone.
func Cull(elements []*element.Element, v geom.ViewState, margin float64) []*element.Element {
	return CullRect(elements, VisibleRect(v, margin))
}

// CullRect is Cull against an explicit world rectangle.
func CullRect(elements []*element.Element, visible geom.Rect) []*element.Element {
	out := make([]*element.Element, 0, len(elements))
	for _, el := range elements {
		if visible.Intersects(el.Rect()) {
			out = append(out, el)
		}
	}
	return out
}

// Set is a membership view over a culled slice, used to toggle overlay
// visibility.
type Set map[string]struct{}

// NewSet indexes elements by id.
func NewSet(elements []*element.Element) Set {
	s := make(Set, len(elements))
	for _, el := range elements {
		s[el.ID] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set.
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}
