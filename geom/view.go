package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidViewState is returned when a ViewState violates Zoom > 0 or
// carries non-finite components.
var ErrInvalidViewState = errors.New("geom: invalid view state")

// ViewState is the camera: the world point at the center of the container,
// the zoom factor (screen pixels per world unit) and the container size in
// pixels. It is always replaced as a whole value.
type ViewState struct {
	X, Y   float64
	Zoom   float64
	Width  float64
	Height float64
}

// Validate checks the ViewState invariants.
func (v ViewState) Validate() error {
	if !(v.Zoom > 0) || math.IsInf(v.Zoom, 0) {
		return fmt.Errorf("%w: zoom=%v", ErrInvalidViewState, v.Zoom)
	}
	for _, c := range [...]float64{v.X, v.Y, v.Width, v.Height} {
		if !isFinite(c) {
			return fmt.Errorf("%w: non-finite component in %+v", ErrInvalidViewState, v)
		}
	}
	if v.Width < 0 || v.Height < 0 {
		return fmt.Errorf("%w: negative container %vx%v", ErrInvalidViewState, v.Width, v.Height)
	}
	return nil
}

// Center returns the world point at the center of the container.
func (v ViewState) Center() Point {
	return Point{X: v.X, Y: v.Y}
}

// Container returns the container size in pixels.
func (v ViewState) Container() Size {
	return Size{Width: v.Width, Height: v.Height}
}

// Lerp interpolates between v and to. Position and container size are
// interpolated linearly, zoom geometrically so that zooming feels uniform
// at every scale.
func (v ViewState) Lerp(to ViewState, t float64) ViewState {
	switch {
	case t <= 0:
		return v
	case t >= 1:
		return to
	}
	c := v.Center().Lerp(to.Center(), t)
	return ViewState{
		X:      c.X,
		Y:      c.Y,
		Zoom:   v.Zoom * math.Pow(to.Zoom/v.Zoom, t),
		Width:  v.Width + (to.Width-v.Width)*t,
		Height: v.Height + (to.Height-v.Height)*t,
	}
}
