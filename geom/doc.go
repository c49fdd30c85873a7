// Package geom holds the value types shared by every stage of the spatial
// pipeline: points, sizes, axis-aligned rectangles, 2D affine matrices and
// the ViewState that drives a frame.
//
// # Coordinate spaces
//
// World space is zoom-independent and is where every element is positioned.
// Screen space is pixels relative to the viewport container:
//
//	screen = (world - view.XY) * zoom + container/2
//
// The same formula is applied to both axes; World and screen share axis
// orientation, any Y flip happens when design coordinates enter world space.
package geom
