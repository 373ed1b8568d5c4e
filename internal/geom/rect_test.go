package geom

import "testing"

func TestRangeContains(t *testing.T) {
	r := Range{Lower: -1, Upper: 3}
	for _, v := range []float64{-1, 0, 3} {
		if !r.Contains(v) {
			t.Errorf("Contains(%v) = false, want true", v)
		}
	}
	for _, v := range []float64{-1.001, 3.001} {
		if r.Contains(v) {
			t.Errorf("Contains(%v) = true, want false", v)
		}
	}
}

func TestRangeExtend(t *testing.T) {
	r := Range{Lower: 0, Upper: 1}
	r = r.Extend(5)
	r = r.Extend(-2)
	r = r.Extend(0.5) // inside, no change
	if r.Lower != -2 || r.Upper != 5 {
		t.Errorf("after extends: %+v, want [-2, 5]", r)
	}
}

func TestRangeShrink(t *testing.T) {
	r := Range{Lower: 0, Upper: 10}.Shrink(2)
	if r.Lower != 2 || r.Upper != 8 {
		t.Errorf("Shrink(2) = %+v, want [2, 8]", r)
	}
	// Over-shrinking collapses to the midpoint.
	c := Range{Lower: 0, Upper: 10}.Shrink(7)
	if c.Lower != 5 || c.Upper != 5 {
		t.Errorf("over-shrunk = %+v, want collapsed to 5", c)
	}
}

func TestRangeDelta(t *testing.T) {
	r := Range{Lower: 0, Upper: 10}
	tests := []struct {
		v, margin, want float64
	}{
		{5, 0, 0},
		{-3, 0, 3},
		{12, 0, -2},
		{1, 2, 1},  // inside the range but within the margin band
		{9.5, 2, -1.5},
		{0, 0, 0},  // border is inside
	}
	for _, tt := range tests {
		if got := r.Delta(tt.v, tt.margin); got != tt.want {
			t.Errorf("Delta(%v, %v) = %v, want %v", tt.v, tt.margin, got, tt.want)
		}
	}
}

func TestRangeClamp(t *testing.T) {
	r := Range{Lower: 0, Upper: 10}
	if got := r.Clamp(-5); got != 0 {
		t.Errorf("Clamp(-5) = %v", got)
	}
	if got := r.Clamp(15); got != 10 {
		t.Errorf("Clamp(15) = %v", got)
	}
	if got := r.Clamp(7); got != 7 {
		t.Errorf("Clamp(7) = %v", got)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{
		Width: Range{Lower: -10, Upper: 10},
		Depth: Range{Lower: 0, Upper: 5},
	}
	if !r.Contains(Projection{Main: 0, Secondary: 2}) {
		t.Error("point inside reported outside")
	}
	if r.Contains(Projection{Main: 11, Secondary: 2}) {
		t.Error("point past width reported inside")
	}
	if r.Contains(Projection{Main: 0, Secondary: -1}) {
		t.Error("point past depth reported inside")
	}
}
