package geom

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Intersection of wires on the transverse plane and the third-plane
// slope inference. Wire pairs that cannot intersect for structural
// reasons (different TPCs, same plane, missing wire) are a routine
// caller probe, so those paths log and return a failed result instead
// of erroring; asking for the third plane of a TPC that does not have
// exactly three is a usage error and fails hard.

const (
	// minSlope is the magnitude below which a track slope carries no
	// usable directional information.
	minSlope = 0.001

	// flatSlopeSentinel replaces an exactly zero inferred slope.
	flatSlopeSentinel = 999.
)

// Point2 is a point on the transverse (y,z) plane.
type Point2 struct {
	Y, Z float64
}

// Segment2 is a finite segment on the transverse plane.
type Segment2 struct {
	Start, End Point2
}

// TransverseSegment projects the wire onto the transverse plane.
func TransverseSegment(w Wire) Segment2 {
	a, b := w.Start(), w.End()
	return Segment2{
		Start: Point2{Y: a.Y, Z: a.Z},
		End:   Point2{Y: b.Y, Z: b.Z},
	}
}

// IntersectLines intersects the two infinite lines through the given
// segments. Parallel lines (zero determinant) have no solution.
func IntersectLines(a, b Segment2) (Point2, bool) {
	dYa := a.End.Y - a.Start.Y
	dZa := a.End.Z - a.Start.Z
	dYb := b.End.Y - b.Start.Y
	dZb := b.End.Z - b.Start.Z

	det := dZa*dYb - dYa*dZb
	if det == 0 {
		return Point2{}, false
	}
	s := ((b.Start.Y-a.Start.Y)*dZb - (b.Start.Z-a.Start.Z)*dYb) / (dYa*dZb - dZa*dYb)
	return Point2{
		Y: a.Start.Y + s*dYa,
		Z: a.Start.Z + s*dZa,
	}, true
}

// PointWithinSegments reports whether the point lies within the
// bounding extents of both segments, inclusive.
func PointWithinSegments(p Point2, a, b Segment2) bool {
	return pointWithinSegment(p, a) && pointWithinSegment(p, b)
}

func pointWithinSegment(p Point2, s Segment2) bool {
	return p.Y >= math.Min(s.Start.Y, s.End.Y) && p.Y <= math.Max(s.Start.Y, s.End.Y) &&
		p.Z >= math.Min(s.Start.Z, s.End.Z) && p.Z <= math.Max(s.Start.Z, s.End.Z)
}

// WireIntersection is the crossing point of two wires on the
// transverse plane of their common TPC.
type WireIntersection struct {
	Y, Z float64
	TPC  TPCID
}

// failedIntersection marks a crossing that could not be computed.
func failedIntersection() WireIntersection {
	return WireIntersection{
		Y:   math.Inf(+1),
		Z:   math.Inf(+1),
		TPC: TPCID{}.MarkInvalid(),
	}
}

// widsIntersectPrecondition checks that two wire IDs may cross at all:
// same TPC, different planes, both wires existing.
func (g *Geometry) widsIntersectPrecondition(a, b WireID) bool {
	if !a.Valid || !b.Valid {
		log.Printf("geom: wire intersection of invalid ID (%v, %v)", a, b)
		return false
	}
	if a.AsTPCID().Cmp(b.AsTPCID()) != 0 {
		log.Printf("geom: wire intersection across TPCs (%v, %v)", a, b)
		return false
	}
	if a.Plane == b.Plane {
		log.Printf("geom: wire intersection on the same plane (%v, %v)", a, b)
		return false
	}
	if !g.HasWire(a) || !g.HasWire(b) {
		log.Printf("geom: wire intersection of missing wire (%v, %v)", a, b)
		return false
	}
	return true
}

// WireIDsIntersect computes the crossing point of two wires on the
// transverse plane of their TPC. It reports false when the wires
// cannot cross (precondition failure or parallel wires, coordinates
// set to +Inf) and when the crossing of their infinite lines falls
// outside either wire's extent; in the latter case the computed
// coordinates are still returned.
func (g *Geometry) WireIDsIntersect(a, b WireID) (WireIntersection, bool) {
	if !g.widsIntersectPrecondition(a, b) {
		return failedIntersection(), false
	}
	wireA, _ := g.Wire(a)
	wireB, _ := g.Wire(b)
	segA, segB := TransverseSegment(wireA), TransverseSegment(wireB)

	p, ok := IntersectLines(segA, segB)
	if !ok {
		return failedIntersection(), false
	}
	return WireIntersection{Y: p.Y, Z: p.Z, TPC: a.AsTPCID()}, PointWithinSegments(p, segA, segB)
}

// WireIDsIntersect3D computes the point of nearest approach of the two
// (generally skew) wire lines in 3D. It reports false on precondition
// failure or parallel wires (coordinates +Inf), and when the nearest
// approach falls beyond either wire's half-length; in the latter case
// the computed point is still returned.
func (g *Geometry) WireIDsIntersect3D(a, b WireID) (r3.Vec, bool) {
	if !g.widsIntersectPrecondition(a, b) {
		inf := math.Inf(+1)
		return r3.Vec{X: inf, Y: inf, Z: inf}, false
	}
	wireA, _ := g.Wire(a)
	wireB, _ := g.Wire(b)

	point, sA, sB, ok := nearestApproach(wireA, wireB)
	if !ok {
		inf := math.Inf(+1)
		return r3.Vec{X: inf, Y: inf, Z: inf}, false
	}
	within := math.Abs(sA) <= wireA.HalfLength() && math.Abs(sB) <= wireB.HalfLength()
	return point, within
}

// nearestApproach solves for the closest points of the two wire lines,
// parameterized by signed offsets from each wire's center. The
// returned point is the midpoint of the two closest points. Parallel
// lines are degenerate.
func nearestApproach(a, b Wire) (point r3.Vec, offsetA, offsetB float64, ok bool) {
	d := r3.Sub(b.Center(), a.Center())
	e := r3.Dot(a.Direction(), b.Direction())
	denom := 1 - e*e
	if math.Abs(denom) < 1e-12 {
		return r3.Vec{}, 0, 0, false
	}
	dA := r3.Dot(d, a.Direction())
	dB := r3.Dot(d, b.Direction())
	offsetA = (dA - e*dB) / denom
	offsetB = (e*dA - dB) / denom
	onA := r3.Add(a.Center(), r3.Scale(offsetA, a.Direction()))
	onB := r3.Add(b.Center(), r3.Scale(offsetB, b.Direction()))
	point = r3.Scale(0.5, r3.Add(onA, onB))
	return point, offsetA, offsetB, true
}

// checkIndependentPlanes verifies that the two plane IDs name distinct
// existing planes of the same TPC.
func (g *Geometry) checkIndependentPlanes(pid1, pid2 PlaneID) error {
	if pid1.AsTPCID().Cmp(pid2.AsTPCID()) != 0 {
		return fmt.Errorf("planes %v and %v are not in the same TPC", pid1, pid2)
	}
	if pid1.Plane == pid2.Plane {
		return fmt.Errorf("%v and %v are the same plane", pid1, pid2)
	}
	if !g.HasPlane(pid1) {
		return fmt.Errorf("%w: %v", ErrNoSuchPlane, pid1)
	}
	if !g.HasPlane(pid2) {
		return fmt.Errorf("%w: %v", ErrNoSuchPlane, pid2)
	}
	return nil
}

// ThirdPlane returns the one plane of the TPC that is neither of the
// two given. It is a closed-form special case: the TPC must have
// exactly three planes, anything else is a usage error.
func (g *Geometry) ThirdPlane(pid1, pid2 PlaneID) (PlaneID, error) {
	if err := g.checkIndependentPlanes(pid1, pid2); err != nil {
		return PlaneID{}.MarkInvalid(), err
	}
	tpc, err := g.TPC(pid1.AsTPCID())
	if err != nil {
		return PlaneID{}.MarkInvalid(), err
	}
	if tpc.NPlanes() != 3 {
		return PlaneID{}.MarkInvalid(),
			fmt.Errorf("%w: TPC %v has %d planes", ErrNotThreePlanes, tpc.ID(), tpc.NPlanes())
	}
	for i := 0; i < tpc.NPlanes(); i++ {
		if i != pid1.Plane && i != pid2.Plane {
			return PlaneID{TPCID: pid1.TPCID, Plane: i}, nil
		}
	}
	// Unreachable with three planes and two distinct inputs.
	return PlaneID{}.MarkInvalid(), fmt.Errorf("no third plane besides %v and %v", pid1, pid2)
}

// ComputeThirdPlaneSlope infers the slope a straight track shows in a
// third plane from the slopes measured in two others. Angles are the
// in-plane angles of each plane's wire coordinate axis from the z axis
// (PhiZ); slopes are d(wire coordinate)/d(drift). Slopes too small to
// resolve are clamped to a fixed threshold, and an exactly flat result
// is replaced by a large sentinel instead of dividing by zero.
func ComputeThirdPlaneSlope(angle1, slope1, angle2, slope2, angle3 float64) float64 {
	if math.Abs(slope1) < minSlope && math.Abs(slope2) < minSlope {
		return minSlope
	}
	inv := minSlope
	if math.Abs(slope1) > minSlope && math.Abs(slope2) > minSlope {
		inv = ((1/slope1)*math.Sin(angle3-angle2) - (1/slope2)*math.Sin(angle3-angle1)) /
			math.Sin(angle1-angle2)
	}
	if inv == 0 {
		return flatSlopeSentinel
	}
	return 1 / inv
}

// ComputeThirdPlaneDTDW is the pitch-aware variant of
// ComputeThirdPlaneSlope for slopes expressed as time over wire
// number: each input slope is rescaled by its plane's wire pitch and
// the result by the target plane's.
func ComputeThirdPlaneDTDW(angle1, pitch1, dTdW1, angle2, pitch2, dTdW2, angle3, pitch3 float64) float64 {
	return ComputeThirdPlaneSlope(angle1, dTdW1*pitch1, angle2, dTdW2*pitch2, angle3) / pitch3
}

// ThirdPlaneSlope infers the slope in the remaining plane of a
// three-plane TPC from the slopes measured in the two given planes.
func (g *Geometry) ThirdPlaneSlope(pid1 PlaneID, slope1 float64, pid2 PlaneID, slope2 float64) (float64, error) {
	pid3, err := g.ThirdPlane(pid1, pid2)
	if err != nil {
		return 0, err
	}
	plane1, _ := g.Plane(pid1)
	plane2, _ := g.Plane(pid2)
	plane3, _ := g.Plane(pid3)
	return ComputeThirdPlaneSlope(plane1.PhiZ(), slope1, plane2.PhiZ(), slope2, plane3.PhiZ()), nil
}

// ThirdPlaneDTDW infers the time-over-wire-number slope in the
// remaining plane of a three-plane TPC.
func (g *Geometry) ThirdPlaneDTDW(pid1 PlaneID, dTdW1 float64, pid2 PlaneID, dTdW2 float64) (float64, error) {
	pid3, err := g.ThirdPlane(pid1, pid2)
	if err != nil {
		return 0, err
	}
	plane1, _ := g.Plane(pid1)
	plane2, _ := g.Plane(pid2)
	plane3, _ := g.Plane(pid3)
	return ComputeThirdPlaneDTDW(
		plane1.PhiZ(), plane1.WirePitch(), dTdW1,
		plane2.PhiZ(), plane2.WirePitch(), dTdW2,
		plane3.PhiZ(), plane3.WirePitch(),
	), nil
}

// ChannelsIntersect computes the crossing point of the wires read by
// two channels. Channels multiplexing several wires are probed on
// their first wire only. Wires whose z spans are separated by more
// than the configured clearance are rejected without solving.
func (g *Geometry) ChannelsIntersect(c1, c2 ChannelID) (WireIntersection, bool) {
	wires1 := g.chanMap.ChannelToWires(c1)
	wires2 := g.chanMap.ChannelToWires(c2)
	if len(wires1) == 0 || len(wires2) == 0 {
		log.Printf("geom: channel intersection of unknown channel (%d, %d)", c1, c2)
		return failedIntersection(), false
	}
	if len(wires1) > 1 || len(wires2) > 1 {
		log.Printf("geom: channels %d, %d multiplex several wires; using the first of each", c1, c2)
	}
	w1, err1 := g.Wire(wires1[0])
	w2, err2 := g.Wire(wires2[0])
	if err1 == nil && err2 == nil && !zSpansWithin(w1, w2, g.params.MinWireZDist) {
		return failedIntersection(), false
	}
	return g.WireIDsIntersect(wires1[0], wires2[0])
}

// zSpansWithin reports whether the z extents of the two wires come
// within dist of each other.
func zSpansWithin(a, b Wire, dist float64) bool {
	// Start/End normalization puts the larger z on End.
	aLo, aHi := a.Start().Z, a.End().Z
	bLo, bHi := b.Start().Z, b.End().Z
	return aLo-bHi <= dist && bLo-aHi <= dist
}
