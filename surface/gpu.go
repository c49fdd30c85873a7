// Copyright 2026 The spacegen Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"github.com/gogpu/gg/integration/ggcanvas"
	"github.com/gogpu/gpucontext"
)

// GPUCanvas is a Canvas bound to a host GPU device through ggcanvas.
// Draw marks the texture dirty; the host uploads it with Flush or RenderTo
// on the underlying ggcanvas.Canvas.
type GPUCanvas struct {
	*Canvas
	gpu *ggcanvas.Canvas
}

// NewGPU creates a canvas that shares the provider's device. The provider
// usually comes from gogpu.App.GPUContextProvider().
func NewGPU(provider gpucontext.DeviceProvider, width, height int, style Style, opts ...Option) (*GPUCanvas, error) {
	gc, err := ggcanvas.New(provider, width, height)
	if err != nil {
		return nil, err
	}
	c, err := newCanvas(gc.Context(), style, opts...)
	if err != nil {
		_ = gc.Close()
		return nil, err
	}
	c.onDraw = gc.MarkDirty
	c.onClose = gc.Close
	return &GPUCanvas{Canvas: c, gpu: gc}, nil
}

// GG returns the ggcanvas.Canvas for texture upload and presentation.
func (g *GPUCanvas) GG() *ggcanvas.Canvas { return g.gpu }

// Dirty reports whether a drawn frame awaits upload.
func (g *GPUCanvas) Dirty() bool { return g.gpu.IsDirty() }
