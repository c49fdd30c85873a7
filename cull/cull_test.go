package cull

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
)

func TestVisibleRect(t *testing.T) {
	v := geom.ViewState{X: 100, Y: 50, Zoom: 2, Width: 800, Height: 600}
	got := VisibleRect(v, 10)
	want := geom.Rect{Min: geom.Pt(100-200-10, 50-150-10), Max: geom.Pt(100+200+10, 50+150+10)}
	if got != want {
		t.Errorf("VisibleRect() = %+v, want %+v", got, want)
	}
}

func TestCullCenterAlwaysVisible(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		v := geom.ViewState{
			X:      r.Float64()*2e4 - 1e4,
			Y:      r.Float64()*2e4 - 1e4,
			Zoom:   r.ExpFloat64() + 1e-6,
			Width:  r.Float64() * 2000,
			Height: r.Float64() * 2000,
		}
		el := &element.Element{ID: "c", Kind: element.KindShape, Position: v.Center()}
		if got := Cull([]*element.Element{el}, v, 0); len(got) != 1 {
			t.Fatalf("center element culled for %+v", v)
		}
	}
}

func TestCullBoundsAware(t *testing.T) {
	v := geom.ViewState{X: 0, Y: 0, Zoom: 1, Width: 100, Height: 100}
	els := []*element.Element{
		{ID: "inside", Kind: element.KindShape, Position: geom.Pt(0, 0)},
		{ID: "far point", Kind: element.KindShape, Position: geom.Pt(500, 0)},
		// Origin is off-screen but the bounds reach into view.
		{ID: "wide", Kind: element.KindFrame, Position: geom.Pt(-500, -10), Bounds: geom.Size{Width: 460, Height: 20}},
		{ID: "edge", Kind: element.KindShape, Position: geom.Pt(50, 50)},
		{ID: "margin only", Kind: element.KindShape, Position: geom.Pt(55, 0)},
	}

	got := fmt.Sprint(ids(Cull(els, v, 0)))
	if want := "[inside wide edge]"; got != want {
		t.Errorf("Cull(margin 0) = %s, want %s", got, want)
	}
	got = fmt.Sprint(ids(Cull(els, v, 10)))
	if want := "[inside wide edge margin only]"; got != want {
		t.Errorf("Cull(margin 10) = %s, want %s", got, want)
	}
}

func TestSet(t *testing.T) {
	s := NewSet([]*element.Element{{ID: "a"}, {ID: "b"}})
	if !s.Contains("a") || s.Contains("z") {
		t.Errorf("Set = %v", s)
	}
}

func ids(els []*element.Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.ID
	}
	return out
}

func BenchmarkCull(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	els := make([]*element.Element, 10000)
	for i := range els {
		els[i] = &element.Element{
			ID:       fmt.Sprint(i),
			Kind:     element.KindShape,
			Position: geom.Pt(r.Float64()*1e4, r.Float64()*1e4),
			Bounds:   geom.Size{Width: 20, Height: 20},
		}
	}
	v := geom.ViewState{X: 5000, Y: 5000, Zoom: 1, Width: 1920, Height: 1080}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Cull(els, v, DefaultMargin)
	}
}
