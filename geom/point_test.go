package geom

import "testing"

func TestPointArithmetic(t *testing.T) {
	p, q := Pt(2, -4), Pt(6, 8)
	tests := []struct {
		name string
		got  Point
		want Point
	}{
		{"Add", p.Add(q), Pt(8, 4)},
		{"Sub", q.Sub(p), Pt(4, 12)},
		{"Mul", p.Mul(1.5), Pt(3, -6)},
		{"Div", q.Div(2), Pt(3, 4)},
		{"Lerp0", p.Lerp(q, 0), p},
		{"Lerp1", p.Lerp(q, 1), q},
		{"LerpHalf", p.Lerp(q, 0.5), Pt(4, 2)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %+v, want %+v", tt.name, tt.got, tt.want)
		}
	}
	if got := Pt(0, 0).Distance(Pt(3, 4)); got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
}
