package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// verticalTieBreak is the z extent below which a wire counts as vertical
// for endpoint ordering purposes.
const verticalTieBreak = 0.01

// Wire is one sensing element: a straight segment in world coordinates,
// stored as center, unit direction and half-length. Wires are immutable
// once constructed. The endpoint order is normalized so that End has the
// larger z coordinate; for near-vertical wires (z extent below 0.01 cm)
// End has the larger y instead.
type Wire struct {
	center  r3.Vec
	dir     r3.Vec
	halfLen float64
}

// NewWire builds a wire from its center, direction and full length.
// The direction is normalized and flipped if needed to satisfy the
// endpoint ordering rule.
func NewWire(center, direction r3.Vec, length float64) Wire {
	w := Wire{center: center, dir: r3.Unit(direction), halfLen: length / 2}
	if w.shouldFlip() {
		w.dir = r3.Scale(-1, w.dir)
	}
	return w
}

// NewWireFromEndpoints builds a wire spanning the segment from a to b.
func NewWireFromEndpoints(a, b r3.Vec) Wire {
	d := r3.Sub(b, a)
	return NewWire(r3.Scale(0.5, r3.Add(a, b)), d, r3.Norm(d))
}

// shouldFlip reports whether the stored direction points from End toward
// Start under the ordering rule.
func (w Wire) shouldFlip() bool {
	span := r3.Scale(2*w.halfLen, w.dir)
	if math.Abs(span.Z) < verticalTieBreak {
		return span.Y < 0
	}
	return span.Z < 0
}

// Center returns the midpoint of the wire.
func (w Wire) Center() r3.Vec { return w.center }

// Direction returns the unit vector from Start to End.
func (w Wire) Direction() r3.Vec { return w.dir }

// HalfLength returns half the wire length.
func (w Wire) HalfLength() float64 { return w.halfLen }

// Length returns the full wire length.
func (w Wire) Length() float64 { return 2 * w.halfLen }

// Start returns the endpoint with the smaller z (smaller y for vertical
// wires).
func (w Wire) Start() r3.Vec {
	return r3.Add(w.center, r3.Scale(-w.halfLen, w.dir))
}

// End returns the endpoint with the larger z (larger y for vertical
// wires).
func (w Wire) End() r3.Vec {
	return r3.Add(w.center, r3.Scale(+w.halfLen, w.dir))
}

// PointAlong returns the point at signed distance s from the center
// along the wire direction. s is not clamped to the wire extent.
func (w Wire) PointAlong(s float64) r3.Vec {
	return r3.Add(w.center, r3.Scale(s, w.dir))
}

// ThetaZ returns the angle of the wire from the positive z axis, in
// [0, pi] radians.
func (w Wire) ThetaZ() float64 {
	c := w.dir.Z
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}

// DistanceFrom returns the distance of a point from the infinite line
// through the wire.
func (w Wire) DistanceFrom(p r3.Vec) float64 {
	rel := r3.Sub(p, w.center)
	along := r3.Dot(rel, w.dir)
	perp := r3.Sub(rel, r3.Scale(along, w.dir))
	return r3.Norm(perp)
}
