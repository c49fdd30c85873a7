// Copyright 2026 The spacegen Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface draws the renderable element set with gg.
//
// A Canvas is the draw-surface half of the dual render: it paints frames,
// groups, shapes and summaries for one ViewState while the overlay package
// positions interactive nodes over the same pixels. Colors, line widths and
// fonts come from a host-supplied Style.
//
// Three constructors cover the usual hosts:
//
//	c, _ := surface.New(800, 600, style)                 // CPU, PNG output
//	c, _ := surface.New(800, 600, style, surface.WithDebugLayer(true))
//	g, _ := surface.NewGPU(provider, 800, 600, style)    // gogpu window
//
// With the debug layer enabled, drawing goes through a render.LayeredPixmapTarget:
// the scene lands on the base layer and the culling rectangle plus the tier
// name land on a separate layer composited on top.
package surface
