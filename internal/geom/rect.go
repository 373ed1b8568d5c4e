package geom

// Range is a closed interval of one frame coordinate.
type Range struct {
	Lower float64
	Upper float64
}

// Size returns the length of the interval.
func (r Range) Size() float64 { return r.Upper - r.Lower }

// Contains reports whether v is inside the interval, borders included.
func (r Range) Contains(v float64) bool { return v >= r.Lower && v <= r.Upper }

// Extend grows the interval as needed to include v.
func (r Range) Extend(v float64) Range {
	if v < r.Lower {
		r.Lower = v
	}
	if v > r.Upper {
		r.Upper = v
	}
	return r
}

// Shrink moves both borders inward by amount. An over-shrunk interval
// collapses to its midpoint.
func (r Range) Shrink(amount float64) Range {
	r.Lower += amount
	r.Upper -= amount
	if r.Lower > r.Upper {
		mid := (r.Lower + r.Upper) / 2
		r.Lower, r.Upper = mid, mid
	}
	return r
}

// Delta returns the displacement that brings v inside the interval
// shrunk by margin on both sides, or 0 if it is already there.
func (r Range) Delta(v, margin float64) float64 {
	lo, hi := r.Lower+margin, r.Upper-margin
	if v < lo {
		return lo - v
	}
	if v > hi {
		return hi - v
	}
	return 0
}

// Clamp returns v forced into the interval.
func (r Range) Clamp(v float64) float64 {
	if v < r.Lower {
		return r.Lower
	}
	if v > r.Upper {
		return r.Upper
	}
	return v
}

// Rect is a rectangle in plane frame coordinates (width and depth).
type Rect struct {
	Width Range
	Depth Range
}

// Contains reports whether the projection is inside the rectangle,
// borders included.
func (r Rect) Contains(p Projection) bool {
	return r.Width.Contains(p.Main) && r.Depth.Contains(p.Secondary)
}
