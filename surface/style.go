// Copyright 2026 The spacegen Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/kmadk/spacegen/element"
)

// Style is the host's look for the draw surface.
type Style struct {
	Background gg.RGBA
	Stroke     gg.RGBA
	Fill       gg.RGBA
	Label      gg.RGBA
	Summary    gg.RGBA
	// Debug colors the culling rectangle on the debug layer.
	Debug gg.RGBA

	LineWidth float64
	// FontSize is in pixels. Zero disables labels.
	FontSize float64
}

// paint returns the color used for a paint mode.
func (s Style) paint(b element.Behavior) gg.RGBA {
	switch {
	case b.Summary:
		return s.Summary
	case b.Paint == element.PaintFill:
		return s.Fill
	case b.Paint == element.PaintLabel:
		return s.Label
	}
	return s.Stroke
}

// GoRegular returns a font source for the Go Regular face bundled with
// golang.org/x/image.
func GoRegular() (*text.FontSource, error) {
	return text.NewFontSource(goregular.TTF)
}
