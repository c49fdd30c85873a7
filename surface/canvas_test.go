// Copyright 2026 The spacegen Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/text/language"

	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
	"github.com/kmadk/spacegen/tier"
)

func testStyle() Style {
	return Style{
		Background: gg.RGB(0, 0, 0),
		Stroke:     gg.RGB(1, 1, 1),
		Fill:       gg.RGB(1, 0, 0),
		Label:      gg.RGB(0, 1, 0),
		Summary:    gg.RGB(0, 0, 1),
		Debug:      gg.RGB(1, 1, 0),
		LineWidth:  1,
		FontSize:   12,
	}
}

func shape(id string, x, y, w, h float64) *element.Element {
	return &element.Element{
		ID:       id,
		Kind:     element.KindShape,
		Position: geom.Pt(x, y),
		Bounds:   geom.Size{Width: w, Height: h},
		Content:  element.ShapeContent{Shape: "rect"},
	}
}

var view = geom.ViewState{Zoom: 1, Width: 800, Height: 600}

func level(name string, zoom float64) tier.Level {
	return tier.Level{Tier: tier.Tier{Name: name}, Zoom: zoom}
}

func TestNewInvalidDimensions(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		if _, err := New(size[0], size[1], testStyle()); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("New(%d, %d) err = %v, want ErrInvalidDimensions", size[0], size[1], err)
		}
	}
}

func TestDrawFillsShape(t *testing.T) {
	c, err := New(800, 600, testStyle())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	els := []*element.Element{shape("s", -10, -10, 20, 20)}
	if err := c.Draw(view, level("standard", 1), els); err != nil {
		t.Fatal(err)
	}
	if got := c.Stats(); got.Drawn != 1 || got.Labeled != 0 {
		t.Errorf("Stats() = %+v, want 1 drawn without labels", got)
	}

	r, g, b, _ := c.Image().At(400, 300).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("center pixel = (%d, %d, %d), want red", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = c.Image().At(10, 10).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("corner pixel = (%d, %d, %d), want background", r>>8, g>>8, b>>8)
	}
}

func TestDrawCountsOffscreen(t *testing.T) {
	c, err := New(100, 100, testStyle())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	v := geom.ViewState{Zoom: 1, Width: 100, Height: 100}
	els := []*element.Element{
		shape("in", 0, 0, 10, 10),
		shape("out", 500, 500, 10, 10),
	}
	if err := c.Draw(v, level("standard", 1), els); err != nil {
		t.Fatal(err)
	}
	if got := c.Stats(); got.Drawn != 1 || got.Offscreen != 1 {
		t.Errorf("Stats() = %+v, want 1 drawn, 1 offscreen", got)
	}
}

func TestDrawContinuesAfterElementError(t *testing.T) {
	c, err := New(800, 600, testStyle())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	errFill := errors.New("accelerator lost")
	calls := 0
	c.fill = func(dc *gg.Context) error {
		calls++
		if calls == 2 {
			dc.ClearPath()
			return errFill
		}
		return dc.Fill()
	}

	els := []*element.Element{
		shape("first", -300, -200, 20, 20),
		shape("broken", -10, -10, 20, 20),
		shape("last", 200, 100, 20, 20),
	}
	err = c.Draw(view, level("standard", 1), els)
	if !errors.Is(err, errFill) {
		t.Fatalf("Draw() error = %v, want %v", err, errFill)
	}
	if got := c.Stats(); got.Drawn != 2 || got.Failed != 1 {
		t.Errorf("Stats() = %+v, want 2 drawn, 1 failed", got)
	}

	tests := []struct {
		name string
		x, y int
		red  bool
	}{
		{"first", 110, 110, true},
		{"broken", 400, 300, false},
		{"last", 610, 410, true},
	}
	for _, tt := range tests {
		r, _, _, _ := c.Image().At(tt.x, tt.y).RGBA()
		if got := r>>8 == 255; got != tt.red {
			t.Errorf("%s pixel red = %v, want %v", tt.name, got, tt.red)
		}
	}
}

func TestDrawLabels(t *testing.T) {
	src, err := GoRegular()
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	c, err := New(200, 200, testStyle(), WithFont(src))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	summary := &element.Element{
		ID:       "S",
		Kind:     element.KindSummary,
		Position: geom.Pt(-20, -20),
		Bounds:   geom.Size{Width: 40, Height: 40},
		Content:  element.SummaryContent{Label: "cards", Count: 12},
	}
	unlabeled := shape("blank", 0, 0, 5, 5)
	unlabeled.Content = nil

	v := geom.ViewState{Zoom: 1, Width: 200, Height: 200}
	if err := c.Draw(v, level("system", 0.2), []*element.Element{summary, unlabeled}); err != nil {
		t.Fatal(err)
	}
	if got := c.Stats(); got.Drawn != 2 || got.Labeled != 1 {
		t.Errorf("Stats() = %+v, want 2 drawn, 1 labeled", got)
	}
}

func TestDebugLayerComposites(t *testing.T) {
	c, err := New(800, 600, testStyle(), WithDebugLayer(true, 50))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Draw(view, level("standard", 1), []*element.Element{shape("s", -10, -10, 20, 20)}); err != nil {
		t.Fatal(err)
	}
	img := c.Image()
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 600 {
		t.Fatalf("Image() bounds = %v", img.Bounds())
	}
	r, g, b, _ := img.At(400, 300).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("composited center = (%d, %d, %d), want red", r>>8, g>>8, b>>8)
	}

	c.SetDebugVisible(false)
	if err := c.Draw(view, level("standard", 1), nil); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("EncodePNG() produced invalid PNG: %v", err)
	}
}

func TestTierLabel(t *testing.T) {
	c, err := New(10, 10, testStyle(), WithLanguage(language.English))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if got, want := c.TierLabel(level("standard", 1.5)), "Standard ×1.50"; got != want {
		t.Errorf("TierLabel() = %q, want %q", got, want)
	}
}

func TestCloseIdempotent(t *testing.T) {
	c, err := New(10, 10, testStyle())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Draw(view, level("x", 1), nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Draw after Close err = %v, want ErrClosed", err)
	}
}

type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

type mockQueue struct{}

type mockAdapter struct{}

type mockProvider struct{}

func (mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

func TestNewGPU(t *testing.T) {
	if _, err := NewGPU(nil, 10, 10, testStyle()); err == nil {
		t.Error("NewGPU(nil) succeeded, want error")
	}

	g, err := NewGPU(mockProvider{}, 64, 64, testStyle())
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Draw(geom.ViewState{Zoom: 1, Width: 64, Height: 64}, level("standard", 1), []*element.Element{shape("s", 0, 0, 4, 4)}); err != nil {
		t.Fatal(err)
	}
	if !g.Dirty() {
		t.Error("Dirty() = false after Draw")
	}
	if g.GG().Width() != 64 {
		t.Errorf("GG().Width() = %d, want 64", g.GG().Width())
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}
}
