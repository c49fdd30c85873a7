// Copyright 2026 The spacegen Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/render"
	"github.com/gogpu/gputypes"
)

// debugZ is the z-order of the debug layer above the scene.
const debugZ = 1

// layers composites the scene and the debug overlay through a
// render.LayeredPixmapTarget.
type layers struct {
	target  *render.LayeredPixmapTarget
	debug   *render.PixmapTarget
	scratch *gg.Context
}

func newLayers(width, height int) (*layers, error) {
	target := render.NewLayeredPixmapTarget(width, height)
	if f := target.Format(); f != gputypes.TextureFormatRGBA8Unorm {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	rt, err := target.CreateLayer(debugZ)
	if err != nil {
		return nil, fmt.Errorf("surface: create debug layer: %w", err)
	}
	debug, ok := rt.(*render.PixmapTarget)
	if !ok {
		return nil, fmt.Errorf("%w: debug layer is %T", ErrUnsupportedFormat, rt)
	}
	return &layers{
		target:  target,
		debug:   debug,
		scratch: gg.NewContext(width, height),
	}, nil
}

// compose copies the scene onto the base layer, redraws the debug layer with
// overlay and composites both.
func (l *layers) compose(scene *gg.Context, overlay func(*gg.Context) error) error {
	base := l.target.Image()
	draw.Draw(base, base.Bounds(), scene.Image(), image.Point{}, draw.Src)

	l.scratch.ClearWithColor(gg.RGBA{})
	if err := overlay(l.scratch); err != nil {
		return fmt.Errorf("surface: debug layer: %w", err)
	}
	dst := l.debug.Image()
	draw.Draw(dst, dst.Bounds(), l.scratch.Image(), image.Point{}, draw.Src)

	l.target.Composite()
	return nil
}

// setVisible toggles the debug layer without dropping its pixels.
func (l *layers) setVisible(visible bool) {
	l.target.SetLayerVisible(debugZ, visible)
}

func encodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
