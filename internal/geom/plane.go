package geom

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// orientationTolerance is how close a direction cosine must be to 1 for
// a plane to count as exactly vertical or horizontal.
const orientationTolerance = 1e-4

// Plane is one wire plane: an ordered sequence of mutually parallel,
// equally pitched wires, plus the two coordinate frames derived from
// them.
//
// The wire frame is (wire direction, increasing-wire direction, normal):
// a positive orthonormal triple anchored at the center of wire 0, with
// the normal pointing toward the inside of the TPC. PlaneCoordinate and
// WireCoordinate measure along its secondary axis, so wire 0 sits at
// coordinate zero and each further wire adds one pitch.
//
// The frame ("width/depth") base is anchored at the center of the plane
// box and aligned with the box sides; it does not depend on the wire
// direction and is the frame of the active area. Its normal is the
// cross product of width and depth and is arranged to match the wire
// frame normal for this geometry class, though the two are computed
// independently.
//
// A plane is built once from the solid-model hand-off, has its wires
// sorted exactly once, then UpdateAfterSorting fixes the identifier and
// every derived quantity. After that the plane is read-only.
type Plane struct {
	trans       Transform
	localHalf   r3.Vec // box half extents on the local axes; z is thickness
	wires       []Wire
	id          PlaneID
	view        View
	orientation Orientation

	wirePitch float64
	sinPhiZ   float64
	cosPhiZ   float64

	normal      r3.Vec
	decompWire  Decomposer
	decompFrame Decomposer

	halfWidth  float64
	halfDepth  float64
	activeArea Rect
	center     r3.Vec
}

// NewPlane builds a plane from its local-to-world transform, the half
// extents of the plane box on its local axes (local z is the thickness)
// and its wires. The plane must contain at least one wire; derived
// quantities are placeholders until UpdateAfterSorting runs.
func NewPlane(trans Transform, localHalfExtents r3.Vec, wires []Wire) *Plane {
	if len(wires) == 0 {
		panic("geom: plane with no wires")
	}
	p := &Plane{
		trans:     trans,
		localHalf: localHalfExtents,
		wires:     wires,
		view:      ViewUnknown,
	}
	p.detectGeometryDirections()
	return p
}

// detectGeometryDirections picks the width and depth axes from the box
// sides: width is the longer of the two in-plane sides.
func (p *Plane) detectGeometryDirections() {
	xDir := p.trans.ApplyVector(r3.Vec{X: 1})
	yDir := p.trans.ApplyVector(r3.Vec{Y: 1})
	widthDir, depthDir := xDir, yDir
	hw, hd := p.localHalf.X, p.localHalf.Y
	if hd > hw {
		widthDir, depthDir = yDir, xDir
		hw, hd = hd, hw
	}
	p.halfWidth, p.halfDepth = hw, hd
	p.decompFrame = NewDecomposer(p.boxCenter(), widthDir, depthDir)
}

func (p *Plane) boxCenter() r3.Vec { return p.trans.Apply(r3.Vec{}) }

// ID returns the identifier assigned to this plane after sorting.
func (p *Plane) ID() PlaneID { return p.id }

// View returns which coordinate this plane measures.
func (p *Plane) View() View { return p.view }

// SetView overrides the classified view. Used by readouts whose view
// assignment does not follow wire angles.
func (p *Plane) SetView(v View) { p.view = v }

// Orientation reports whether the plane is vertical or horizontal.
func (p *Plane) Orientation() Orientation { return p.orientation }

// ThetaZ returns the angle of the wires from the positive z axis.
func (p *Plane) ThetaZ() float64 { return p.wires[0].ThetaZ() }

// PhiZ returns the angle from the positive z axis of the wire
// coordinate axis, in radians.
func (p *Plane) PhiZ() float64 { return math.Atan2(p.sinPhiZ, p.cosPhiZ) }

// SinPhiZ returns the sine of PhiZ.
func (p *Plane) SinPhiZ() float64 { return p.sinPhiZ }

// CosPhiZ returns the cosine of PhiZ.
func (p *Plane) CosPhiZ() float64 { return p.cosPhiZ }

// WirePitch returns the spacing between adjacent wires in centimeters.
func (p *Plane) WirePitch() float64 { return p.wirePitch }

// NWires returns the number of wires in the plane.
func (p *Plane) NWires() int { return len(p.wires) }

// HasWire reports whether the plane has a wire with the given index.
func (p *Plane) HasWire(i int) bool { return i >= 0 && i < len(p.wires) }

// Wire returns the i-th wire, or ErrNoSuchWire if the index is out of
// range.
func (p *Plane) Wire(i int) (Wire, error) {
	if !p.HasWire(i) {
		return Wire{}, fmt.Errorf("%w: wire %d of %v (plane has %d wires)",
			ErrNoSuchWire, i, p.id, len(p.wires))
	}
	return p.wires[i], nil
}

// FirstWire returns the wire with the lowest index.
func (p *Plane) FirstWire() Wire { return p.wires[0] }

// MiddleWire returns the wire in the middle of the plane.
func (p *Plane) MiddleWire() Wire { return p.wires[len(p.wires)/2] }

// LastWire returns the wire with the highest index.
func (p *Plane) LastWire() Wire { return p.wires[len(p.wires)-1] }

// Wires returns the ordered wire sequence. Callers must not modify it.
func (p *Plane) Wires() []Wire { return p.wires }

// ClosestWireID returns the valid wire ID on this plane closest to the
// requested wire number: the request itself if it exists, otherwise the
// first or last wire.
func (p *Plane) ClosestWireID(wireNo int) WireID {
	if wireNo < 0 {
		wireNo = 0
	} else if wireNo >= len(p.wires) {
		wireNo = len(p.wires) - 1
	}
	return WireIDAt(p.id, wireNo)
}

// NormalDirection returns the unit normal to the plane, pointing toward
// the inside of the TPC.
func (p *Plane) NormalDirection() r3.Vec { return p.normal }

// WireDirection returns the common direction of the wires.
func (p *Plane) WireDirection() r3.Vec { return p.decompWire.MainDir() }

// IncreasingWireDirection returns the in-plane direction along which
// wire numbers grow.
func (p *Plane) IncreasingWireDirection() r3.Vec { return p.decompWire.SecondaryDir() }

// WireIDIncreasesWithZ reports whether wires at higher z have higher
// index.
func (p *Plane) WireIDIncreasesWithZ() bool {
	return p.IncreasingWireDirection().Z > 0
}

// WidthDir returns the direction of the plane width.
func (p *Plane) WidthDir() r3.Vec { return p.decompFrame.MainDir() }

// DepthDir returns the direction of the plane depth.
func (p *Plane) DepthDir() r3.Vec { return p.decompFrame.SecondaryDir() }

// Width returns the extent of the plane box along WidthDir.
func (p *Plane) Width() float64 { return 2 * p.halfWidth }

// Depth returns the extent of the plane box along DepthDir.
func (p *Plane) Depth() float64 { return 2 * p.halfDepth }

// Center returns the point at the middle of the plane box, projected
// onto the wire plane (drift distance zero).
func (p *Plane) Center() r3.Vec { return p.center }

// BoundingBox returns the world-coordinate box containing the plane.
func (p *Plane) BoundingBox() Box {
	h := p.localHalf
	box := NewBox(p.trans.Apply(r3.Vec{X: -h.X, Y: -h.Y, Z: -h.Z}),
		p.trans.Apply(r3.Vec{X: +h.X, Y: +h.Y, Z: +h.Z}))
	for _, corner := range []r3.Vec{
		{X: -h.X, Y: -h.Y, Z: +h.Z},
		{X: -h.X, Y: +h.Y, Z: -h.Z},
		{X: -h.X, Y: +h.Y, Z: +h.Z},
		{X: +h.X, Y: -h.Y, Z: -h.Z},
		{X: +h.X, Y: -h.Y, Z: +h.Z},
		{X: +h.X, Y: +h.Y, Z: -h.Z},
	} {
		box = box.ExtendToInclude(p.trans.Apply(corner))
	}
	return box
}

// ActiveArea returns the frame-coordinate rectangle covering all wire
// endpoint projections, inset by half a pitch.
func (p *Plane) ActiveArea() Rect { return p.activeArea }

// ToWorldCoords maps a point from the local plane frame to world
// coordinates.
func (p *Plane) ToWorldCoords(local r3.Vec) r3.Vec { return p.trans.Apply(local) }

// ToLocalCoords maps a world point into the local plane frame.
func (p *Plane) ToLocalCoords(world r3.Vec) r3.Vec { return p.trans.Inverse().Apply(world) }

//
// Wire frame coordinates
//

// DistanceFromPlane returns the signed distance of the point from the
// wire plane, positive on the side the normal points to. It matches the
// drift distance to this plane.
func (p *Plane) DistanceFromPlane(point r3.Vec) float64 {
	return p.decompWire.PointNormalComponent(point)
}

// DriftPoint shifts the position by distance opposite to the plane
// normal, the way a drifting charge approaches the plane.
func (p *Plane) DriftPoint(position r3.Vec, distance float64) r3.Vec {
	return r3.Sub(position, r3.Scale(distance, p.normal))
}

// DriftPointToPlane shifts the position along the drift direction until
// it lies on the wire plane.
func (p *Plane) DriftPointToPlane(position r3.Vec) r3.Vec {
	return p.DriftPoint(position, p.DistanceFromPlane(position))
}

// PlaneCoordinateFrom returns the coordinate of the point along the
// wire measurement direction, in centimeters from the reference wire.
func (p *Plane) PlaneCoordinateFrom(point r3.Vec, ref Wire) float64 {
	return p.decompWire.VectorSecondaryComponent(r3.Sub(point, ref.Center()))
}

// PlaneCoordinate returns the coordinate of the point along the wire
// measurement direction, in centimeters from the first wire.
func (p *Plane) PlaneCoordinate(point r3.Vec) float64 {
	return p.decompWire.PointSecondaryComponent(point)
}

// WireCoordinate returns the coordinate of the point in wire pitch
// units: 0 on the first wire, 1 on the next and so on.
func (p *Plane) WireCoordinate(point r3.Vec) float64 {
	return p.PlaneCoordinate(point) / p.wirePitch
}

// NearestWireID returns the ID of the wire closest to the projection of
// pos on the plane. If that projection falls beyond the first or last
// wire, the returned ID is the closest existing wire and the error is an
// *InvalidWireError carrying both the nominal and the corrected IDs.
func (p *Plane) NearestWireID(pos r3.Vec) (WireID, error) {
	nearest := int(math.Round(p.WireCoordinate(pos)))
	if p.HasWire(nearest) {
		return WireIDAt(p.id, nearest), nil
	}
	better := p.ClosestWireID(nearest)
	return better, &InvalidWireError{
		Bad:    WireIDAt(p.id, nearest).MarkInvalid(),
		Better: better,
	}
}

// NearestWire returns the wire closest to the projection of pos,
// with the same out-of-range behavior as NearestWireID.
func (p *Plane) NearestWire(pos r3.Vec) (Wire, error) {
	id, err := p.NearestWireID(pos)
	return p.wires[id.Wire], err
}

// InterWireProjectedDistance returns the distance, measured on the wire
// plane along the given projected direction, between two adjacent
// wires. The modulus of the projection is ignored. The result grows
// without bound as the direction approaches the wire direction; callers
// must check for non-finite values.
func (p *Plane) InterWireProjectedDistance(projDir Projection) float64 {
	return p.wirePitch * math.Hypot(projDir.Main, projDir.Secondary) / math.Abs(projDir.Secondary)
}

// InterWireDistance returns the full 3D distance along dir that spans
// two adjacent wires. As the projected direction approaches the wire
// direction the result is unbounded; callers must check for non-finite
// values.
func (p *Plane) InterWireDistance(dir r3.Vec) float64 {
	return p.wirePitch * r3.Norm(dir) / math.Abs(p.decompWire.VectorSecondaryComponent(dir))
}

// Projection returns the wire frame projection of a world point.
func (p *Plane) Projection(point r3.Vec) Projection {
	return p.decompWire.ProjectPointOnPlane(point)
}

// VectorProjection returns the wire frame projection of a vector.
func (p *Plane) VectorProjection(v r3.Vec) Projection {
	return p.decompWire.ProjectVectorOnPlane(v)
}

// DecomposePoint splits a world point into drift distance and wire
// frame projection.
func (p *Plane) DecomposePoint(point r3.Vec) DecomposedVector {
	return p.decompWire.DecomposePoint(point)
}

// ComposePoint is the inverse of DecomposePoint.
func (p *Plane) ComposePoint(distance float64, proj Projection) r3.Vec {
	return p.decompWire.ComposePoint(distance, proj)
}

// ComposeVector rebuilds a 3D vector from its wire frame decomposition.
func (p *Plane) ComposeVector(distance float64, proj Projection) r3.Vec {
	return p.decompWire.ComposeVector(distance, proj)
}

// ProjectionReferencePoint returns the point whose wire frame
// decomposition is all zeroes (the center of the first wire).
func (p *Plane) ProjectionReferencePoint() r3.Vec {
	return p.decompWire.ReferencePoint()
}

//
// Width/depth frame coordinates
//

// PointWidthDepthProjection returns the width/depth projection of a
// world point, relative to the center of the plane box.
func (p *Plane) PointWidthDepthProjection(point r3.Vec) Projection {
	return p.decompFrame.ProjectPointOnPlane(point)
}

// VectorWidthDepthProjection returns the width/depth projection of a
// vector.
func (p *Plane) VectorWidthDepthProjection(v r3.Vec) Projection {
	return p.decompFrame.ProjectVectorOnPlane(v)
}

// DecomposePointWidthDepth splits a world point on the width/depth
// frame.
func (p *Plane) DecomposePointWidthDepth(point r3.Vec) DecomposedVector {
	return p.decompFrame.DecomposePoint(point)
}

// ComposePointWidthDepth is the inverse of DecomposePointWidthDepth.
func (p *Plane) ComposePointWidthDepth(distance float64, proj Projection) r3.Vec {
	return p.decompFrame.ComposePoint(distance, proj)
}

// IsProjectionOnPlane reports whether the width/depth projection of the
// point falls within the plane box.
func (p *Plane) IsProjectionOnPlane(point r3.Vec) bool {
	proj := p.PointWidthDepthProjection(point)
	return p.DeltaFromPlane(proj, 0, 0) == (Projection{})
}

// DeltaFromPlane returns the displacement that, added to the
// projection, brings it inside the plane box shrunk by the given
// margins. The zero value means the projection is already inside.
func (p *Plane) DeltaFromPlane(proj Projection, wMargin, dMargin float64) Projection {
	w := Range{Lower: -p.halfWidth, Upper: +p.halfWidth}
	d := Range{Lower: -p.halfDepth, Upper: +p.halfDepth}
	return Projection{
		Main:      w.Delta(proj.Main, wMargin),
		Secondary: d.Delta(proj.Secondary, dMargin),
	}
}

// DeltaFromActivePlane is DeltaFromPlane against the active area
// instead of the full plane box.
func (p *Plane) DeltaFromActivePlane(proj Projection, wMargin, dMargin float64) Projection {
	return Projection{
		Main:      p.activeArea.Width.Delta(proj.Main, wMargin),
		Secondary: p.activeArea.Depth.Delta(proj.Secondary, dMargin),
	}
}

// MoveProjectionToPlane caps the projection so it stays on the plane
// box.
func (p *Plane) MoveProjectionToPlane(proj Projection) Projection {
	delta := p.DeltaFromPlane(proj, 0, 0)
	return Projection{Main: proj.Main + delta.Main, Secondary: proj.Secondary + delta.Secondary}
}

// MovePointOverPlane translates the point along the frame directions
// until its projection lies on the plane box.
func (p *Plane) MovePointOverPlane(point r3.Vec) r3.Vec {
	proj := p.PointWidthDepthProjection(point)
	delta := p.DeltaFromPlane(proj, 0, 0)
	shift := r3.Add(r3.Scale(delta.Main, p.WidthDir()), r3.Scale(delta.Secondary, p.DepthDir()))
	return r3.Add(point, shift)
}

//
// Sorting and update
//

// SortWires applies the sorter's wire ordering. Called exactly once,
// before UpdateAfterSorting.
func (p *Plane) SortWires(sorter ObjectSorter) {
	sorter.SortWires(p.wires)
}

// UpdateAfterSorting assigns the plane ID and recomputes every derived
// quantity. tpcBox is the bounding box of the containing TPC, needed to
// orient the normal toward the volume inside.
func (p *Plane) UpdateAfterSorting(id PlaneID, tpcBox Box) {
	p.id = id
	p.updatePlaneNormal(tpcBox)
	p.updateWidthDepthDir()
	p.updateWireDir()
	p.updateOrientation()
	p.updateWirePitch()
	p.updateWirePlaneCenter()
	p.updatePhiZ()
	p.updateView()
	p.updateActiveArea()
}

// updatePlaneNormal sets the normal from the local thickness axis,
// oriented so the TPC center lies on its positive side.
func (p *Plane) updatePlaneNormal(tpcBox Box) {
	n := r3.Unit(p.trans.ApplyVector(r3.Vec{Z: 1}))
	toCenter := r3.Sub(tpcBox.Center(), p.boxCenter())
	if r3.Dot(toCenter, n) < 0 {
		n = r3.Scale(-1, n)
	}
	p.normal = n
}

// updateWidthDepthDir flips the depth axis if needed so that
// width x depth agrees with the plane normal.
func (p *Plane) updateWidthDepthDir() {
	widthDir, depthDir := p.WidthDir(), p.DepthDir()
	if r3.Dot(r3.Cross(widthDir, depthDir), p.normal) < 0 {
		depthDir = r3.Scale(-1, depthDir)
	}
	p.decompFrame = NewDecomposer(p.boxCenter(), widthDir, depthDir)
}

// updateWireDir rebuilds the wire frame: main axis along wire 0,
// secondary axis toward increasing wire numbers, normal matching the
// plane normal. The wire direction sign is not physical, so it is
// flipped freely to keep the triple positive.
func (p *Plane) updateWireDir() {
	wireDir := p.wires[0].Direction()
	incrDir := r3.Unit(r3.Cross(p.normal, wireDir))
	if len(p.wires) > 1 {
		span := r3.Sub(p.LastWire().Center(), p.FirstWire().Center())
		if r3.Dot(span, incrDir) < 0 {
			wireDir = r3.Scale(-1, wireDir)
			incrDir = r3.Scale(-1, incrDir)
		}
	}
	p.decompWire = NewDecomposer(p.wires[0].Center(), wireDir, incrDir)
}

func (p *Plane) updateOrientation() {
	switch {
	case math.Abs(p.normal.Y) > 1-orientationTolerance:
		p.orientation = Horizontal
	default:
		p.orientation = Vertical
	}
}

// updateWirePitch sets the pitch to the median of the spacings between
// adjacent wires, which absorbs numeric noise from the solid-model
// transforms on individual wire placements.
func (p *Plane) updateWirePitch() {
	if len(p.wires) < 2 {
		p.wirePitch = 0
		return
	}
	spacings := make([]float64, 0, len(p.wires)-1)
	prev := p.decompWire.PointSecondaryComponent(p.wires[0].Center())
	for _, w := range p.wires[1:] {
		cur := p.decompWire.PointSecondaryComponent(w.Center())
		spacings = append(spacings, cur-prev)
		prev = cur
	}
	sort.Float64s(spacings)
	p.wirePitch = stat.Quantile(0.5, stat.Empirical, spacings, nil)
}

// updateWirePlaneCenter projects the box center onto the wire plane so
// the stored center has drift distance zero.
func (p *Plane) updateWirePlaneCenter() {
	c := p.boxCenter()
	p.center = r3.Sub(c, r3.Scale(p.DistanceFromPlane(c), p.normal))
}

// updatePhiZ caches the angle of the wire coordinate axis on the
// transverse (y, z) plane.
func (p *Plane) updatePhiZ() {
	incr := p.IncreasingWireDirection()
	norm := math.Hypot(incr.Y, incr.Z)
	if norm == 0 {
		p.sinPhiZ, p.cosPhiZ = 0, 1
		return
	}
	p.sinPhiZ = incr.Y / norm
	p.cosPhiZ = incr.Z / norm
}

// updateView classifies the plane by the angle of its wire coordinate
// axis on the transverse plane. Channel maps with their own view
// assignment override it afterwards through SetView.
func (p *Plane) updateView() {
	incr := p.IncreasingWireDirection()
	switch {
	case math.Abs(incr.X) > 1-orientationTolerance:
		p.view = ViewX
	case math.Abs(p.cosPhiZ) > 1-orientationTolerance:
		p.view = ViewZ
	case math.Abs(p.sinPhiZ) > 1-orientationTolerance:
		p.view = ViewY
	case p.sinPhiZ*p.cosPhiZ > 0:
		p.view = ViewU
	default:
		p.view = ViewV
	}
}

// updateActiveArea computes the smallest width/depth rectangle covering
// all wire endpoint projections and insets it by half a pitch along the
// wire coordinate direction, keeping the border inside the outermost
// wires rather than through their centers.
func (p *Plane) updateActiveArea() {
	first := p.decompFrame.ProjectPointOnPlane(p.wires[0].Start())
	area := Rect{
		Width: Range{Lower: first.Main, Upper: first.Main},
		Depth: Range{Lower: first.Secondary, Upper: first.Secondary},
	}
	for _, w := range p.wires {
		for _, end := range []r3.Vec{w.Start(), w.End()} {
			proj := p.decompFrame.ProjectPointOnPlane(end)
			area.Width = area.Width.Extend(proj.Main)
			area.Depth = area.Depth.Extend(proj.Secondary)
		}
	}
	incr := p.IncreasingWireDirection()
	halfPitch := p.wirePitch / 2
	area.Width = area.Width.Shrink(halfPitch * math.Abs(r3.Dot(incr, p.WidthDir())))
	area.Depth = area.Depth.Shrink(halfPitch * math.Abs(r3.Dot(incr, p.DepthDir())))
	p.activeArea = area
}

//
// Reporting
//

// PlaneInfo returns a multi-line description of the plane. Verbosity
// runs from 0 (ID only) to 4 (frame directions and active area).
func (p *Plane) PlaneInfo(indent string, verbosity int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "plane %v", p.id)
	if verbosity <= 0 {
		return b.String()
	}
	fmt.Fprintf(&b, " at (%.2f, %.2f, %.2f) cm, theta: %.3f rad",
		p.center.X, p.center.Y, p.center.Z, p.ThetaZ())
	if verbosity <= 1 {
		return b.String()
	}
	fmt.Fprintf(&b, "\n%snormal to wire: %.3f rad, %s orientation, %d wires measuring %s with a wire pitch of %g cm",
		indent, p.PhiZ(), OrientationName(p.orientation), len(p.wires), ViewName(p.view), p.wirePitch)
	if verbosity <= 2 {
		return b.String()
	}
	n, incr := p.normal, p.IncreasingWireDirection()
	fmt.Fprintf(&b, "\n%snormal to plane: (%.3f, %.3f, %.3f), direction of increasing wire number: (%.3f, %.3f, %.3f)",
		indent, n.X, n.Y, n.Z, incr.X, incr.Y, incr.Z)
	if verbosity <= 3 {
		return b.String()
	}
	area := p.activeArea
	fmt.Fprintf(&b, "\n%swidth %g cm, depth %g cm; wires cover width %.2f to %.2f, depth %.2f to %.2f cm",
		indent, p.Width(), p.Depth(),
		area.Width.Lower, area.Width.Upper, area.Depth.Lower, area.Depth.Upper)
	return b.String()
}
