package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// TPC is one drift volume: the box of active medium read out by a stack
// of wire planes on one of its sides. Charges drift along the direction
// opposite to the plane normals.
type TPC struct {
	trans     Transform
	localHalf r3.Vec
	planes    []*Plane
	id        TPCID
	box       Box
	driftDir  r3.Vec
}

// NewTPC builds a TPC from its local-to-world transform, the half
// extents of its active box on the local axes, and its wire planes.
// At least one plane is required.
func NewTPC(trans Transform, localHalfExtents r3.Vec, planes []*Plane) *TPC {
	if len(planes) == 0 {
		panic("geom: TPC with no planes")
	}
	t := &TPC{trans: trans, localHalf: localHalfExtents, planes: planes}
	t.box = worldBox(trans, localHalfExtents)
	return t
}

func worldBox(trans Transform, half r3.Vec) Box {
	box := NewBox(trans.Apply(r3.Vec{X: -half.X, Y: -half.Y, Z: -half.Z}),
		trans.Apply(r3.Vec{X: +half.X, Y: +half.Y, Z: +half.Z}))
	for _, corner := range []r3.Vec{
		{X: -half.X, Y: -half.Y, Z: +half.Z},
		{X: -half.X, Y: +half.Y, Z: -half.Z},
		{X: -half.X, Y: +half.Y, Z: +half.Z},
		{X: +half.X, Y: -half.Y, Z: -half.Z},
		{X: +half.X, Y: -half.Y, Z: +half.Z},
		{X: +half.X, Y: +half.Y, Z: -half.Z},
	} {
		box = box.ExtendToInclude(trans.Apply(corner))
	}
	return box
}

// ID returns the identifier assigned to this TPC after sorting.
func (t *TPC) ID() TPCID { return t.id }

// Box returns the world-coordinate bounding box of the active volume.
func (t *TPC) Box() Box { return t.box }

// ContainsPosition reports whether the point is inside the active
// volume, with the box wiggle semantics.
func (t *TPC) ContainsPosition(p r3.Vec, wiggle float64) bool {
	return t.box.ContainsPosition(p, wiggle)
}

// NPlanes returns the number of wire planes.
func (t *TPC) NPlanes() int { return len(t.planes) }

// HasPlane reports whether a plane with the given index exists.
func (t *TPC) HasPlane(i int) bool { return i >= 0 && i < len(t.planes) }

// Plane returns the i-th plane, or ErrNoSuchPlane.
func (t *TPC) Plane(i int) (*Plane, error) {
	if !t.HasPlane(i) {
		return nil, fmt.Errorf("%w: plane %d of %v (TPC has %d planes)",
			ErrNoSuchPlane, i, t.id, len(t.planes))
	}
	return t.planes[i], nil
}

// Planes returns the ordered plane sequence. Callers must not modify it.
func (t *TPC) Planes() []*Plane { return t.planes }

// PlaneWithView returns the first plane measuring the given view, or
// ErrNoSuchView.
func (t *TPC) PlaneWithView(v View) (*Plane, error) {
	for _, p := range t.planes {
		if p.View() == v {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: view %s in %v", ErrNoSuchView, ViewName(v), t.id)
}

// Views returns the set of views measured by this TPC, in plane order.
func (t *TPC) Views() []View {
	views := make([]View, 0, len(t.planes))
	seen := make(map[View]bool, len(t.planes))
	for _, p := range t.planes {
		if !seen[p.View()] {
			seen[p.View()] = true
			views = append(views, p.View())
		}
	}
	return views
}

// MaxWires returns the largest wire count over the planes.
func (t *TPC) MaxWires() int {
	max := 0
	for _, p := range t.planes {
		if n := p.NWires(); n > max {
			max = n
		}
	}
	return max
}

// DriftDirection returns the unit direction along which charges drift
// toward the planes (opposite to the first plane's normal).
func (t *TPC) DriftDirection() r3.Vec { return t.driftDir }

// DriftDistance returns the maximum drift length: the distance from the
// first wire plane to the far side of the active volume.
func (t *TPC) DriftDistance() float64 {
	far := r3.Add(t.box.Center(), r3.Scale(-1, mulEach(t.driftDir, t.box.HalfSizes())))
	return math.Abs(t.planes[0].DistanceFromPlane(far))
}

func mulEach(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// PlanePitch returns the distance between two planes of this TPC,
// measured along the first plane's normal.
func (t *TPC) PlanePitch(p1, p2 int) (float64, error) {
	a, err := t.Plane(p1)
	if err != nil {
		return 0, err
	}
	b, err := t.Plane(p2)
	if err != nil {
		return 0, err
	}
	return math.Abs(a.DistanceFromPlane(b.Center())), nil
}

// SortSubVolumes applies the sorter to the planes and to the wires of
// each plane.
func (t *TPC) SortSubVolumes(sorter ObjectSorter) {
	sorter.SortPlanes(t.planes)
	for _, p := range t.planes {
		p.SortWires(sorter)
	}
}

// UpdateAfterSorting assigns the TPC ID and cascades the update to the
// planes, then derives the drift direction from the first plane.
func (t *TPC) UpdateAfterSorting(id TPCID) {
	t.id = id
	for i, p := range t.planes {
		p.UpdateAfterSorting(PlaneID{TPCID: id, Plane: i}, t.box)
	}
	t.driftDir = r3.Scale(-1, t.planes[0].NormalDirection())
}
