package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// The solid-model loader (outside this package) hands over only three
// things per volume: a rigid local-to-world transform, the bounding
// extents of the solid, and the wires it contains. The types below carry
// that hand-off; nothing here knows about the loader's tree.

// Transform is a rigid local-to-world transform as a 4x4 row-major
// matrix (m00..m03, m10..m13, m20..m23, m30..m33). The upper-left 3x3
// block must be a pure rotation.
type Transform struct {
	T [16]float64
}

// IdentityTransform returns the transform that maps every point to itself.
func IdentityTransform() Transform {
	return Transform{T: [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// Translation returns the transform that shifts points by d.
func Translation(d r3.Vec) Transform {
	t := IdentityTransform()
	t.T[3] = d.X
	t.T[7] = d.Y
	t.T[11] = d.Z
	return t
}

// RotationX returns the transform rotating by angle (radians) about the
// local x axis.
func RotationX(angle float64) Transform {
	s, c := math.Sincos(angle)
	return Transform{T: [16]float64{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}}
}

// RotationY returns the transform rotating by angle (radians) about the
// local y axis.
func RotationY(angle float64) Transform {
	s, c := math.Sincos(angle)
	return Transform{T: [16]float64{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}}
}

// RotationZ returns the transform rotating by angle (radians) about the
// local z axis.
func RotationZ(angle float64) Transform {
	s, c := math.Sincos(angle)
	return Transform{T: [16]float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// Compose returns the transform applying b first, then a.
func Compose(a, b Transform) Transform {
	var out Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a.T[i*4+k] * b.T[k*4+j]
			}
			out.T[i*4+j] = sum
		}
	}
	return out
}

// Apply maps a point from local to world coordinates.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: t.T[0]*p.X + t.T[1]*p.Y + t.T[2]*p.Z + t.T[3],
		Y: t.T[4]*p.X + t.T[5]*p.Y + t.T[6]*p.Z + t.T[7],
		Z: t.T[8]*p.X + t.T[9]*p.Y + t.T[10]*p.Z + t.T[11],
	}
}

// ApplyVector maps a direction from local to world coordinates
// (rotation only, no translation).
func (t Transform) ApplyVector(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: t.T[0]*v.X + t.T[1]*v.Y + t.T[2]*v.Z,
		Y: t.T[4]*v.X + t.T[5]*v.Y + t.T[6]*v.Z,
		Z: t.T[8]*v.X + t.T[9]*v.Y + t.T[10]*v.Z,
	}
}

// Inverse returns the world-to-local transform. Valid only for rigid
// transforms (rotation block orthonormal).
func (t Transform) Inverse() Transform {
	var inv Transform
	// transpose of the rotation block
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv.T[i*4+j] = t.T[j*4+i]
		}
	}
	// -R^T * translation
	tx, ty, tz := t.T[3], t.T[7], t.T[11]
	inv.T[3] = -(inv.T[0]*tx + inv.T[1]*ty + inv.T[2]*tz)
	inv.T[7] = -(inv.T[4]*tx + inv.T[5]*ty + inv.T[6]*tz)
	inv.T[11] = -(inv.T[8]*tx + inv.T[9]*ty + inv.T[10]*tz)
	inv.T[15] = 1
	return inv
}

// Box is an axis-aligned box in world coordinates, described by its two
// extreme corners. Coordinates are in centimeters.
type Box struct {
	MinCorner r3.Vec
	MaxCorner r3.Vec
}

// NewBox builds a box from any two opposite corners, sorting the
// coordinates as needed.
func NewBox(a, b r3.Vec) Box {
	return Box{
		MinCorner: r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		MaxCorner: r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// Min returns the corner with the smallest coordinates.
func (b Box) Min() r3.Vec { return b.MinCorner }

// Max returns the corner with the largest coordinates.
func (b Box) Max() r3.Vec { return b.MaxCorner }

// Center returns the geometric center of the box.
func (b Box) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.MinCorner, b.MaxCorner))
}

// HalfSizes returns the half extent of the box along each axis.
func (b Box) HalfSizes() r3.Vec {
	return r3.Scale(0.5, r3.Sub(b.MaxCorner, b.MinCorner))
}

// ContainsPosition reports whether point is inside the box, inclusive of
// the surface. The wiggle factor scales the box around its center:
// values slightly above 1 accept points just outside (rounding slack),
// values below 1 demand the point be well inside.
func (b Box) ContainsPosition(p r3.Vec, wiggle float64) bool {
	c := b.Center()
	h := r3.Scale(wiggle, b.HalfSizes())
	return math.Abs(p.X-c.X) <= h.X &&
		math.Abs(p.Y-c.Y) <= h.Y &&
		math.Abs(p.Z-c.Z) <= h.Z
}

// ExtendToInclude grows the box as needed so that it contains p.
func (b Box) ExtendToInclude(p r3.Vec) Box {
	return Box{
		MinCorner: r3.Vec{
			X: math.Min(b.MinCorner.X, p.X),
			Y: math.Min(b.MinCorner.Y, p.Y),
			Z: math.Min(b.MinCorner.Z, p.Z),
		},
		MaxCorner: r3.Vec{
			X: math.Max(b.MaxCorner.X, p.X),
			Y: math.Max(b.MaxCorner.Y, p.Y),
			Z: math.Max(b.MaxCorner.Z, p.Z),
		},
	}
}
