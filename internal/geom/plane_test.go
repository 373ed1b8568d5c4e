package geom_test

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sabasehrish/larcorealg/internal/geom"
	"github.com/sabasehrish/larcorealg/internal/geom/geomtest"
)

func mustPlane(t *testing.T, g *geom.Geometry, p int) *geom.Plane {
	t.Helper()
	plane, err := g.Plane(geom.NewPlaneID(0, 0, p))
	if err != nil {
		t.Fatalf("plane %d: %v", p, err)
	}
	return plane
}

func TestPlaneWirePitch(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	for p := 0; p < 3; p++ {
		plane := mustPlane(t, g, p)
		geomtest.AssertNear(t, "wire pitch", plane.WirePitch(), geomtest.WirePitch, 1e-9)
	}
}

func TestWireCoordinateAtWireCenters(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	for p := 0; p < 3; p++ {
		plane := mustPlane(t, g, p)
		for _, w := range []int{0, plane.NWires() / 2, plane.NWires() - 1} {
			wire, err := plane.Wire(w)
			geomtest.AssertNoError(t, err)
			got := plane.WireCoordinate(wire.Center())
			geomtest.AssertNear(t, "wire coordinate at wire center", got, float64(w), 1e-9)
		}
	}
}

func TestNearestWireIDIdempotent(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	plane := mustPlane(t, g, 1)
	for _, w := range []int{0, 7, plane.NWires() - 1} {
		wire, err := plane.Wire(w)
		geomtest.AssertNoError(t, err)
		id, err := plane.NearestWireID(wire.Center())
		geomtest.AssertNoError(t, err)
		if id.Wire != w {
			t.Errorf("nearest wire to wire %d center = %v", w, id)
		}
		if !id.Valid {
			t.Errorf("nearest wire ID %v is invalid", id)
		}
	}
}

func TestNearestWireIDOutOfRange(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	plane := mustPlane(t, g, 0)

	// Three pitches past the last wire along the wire coordinate axis.
	last, err := plane.Wire(plane.NWires() - 1)
	geomtest.AssertNoError(t, err)
	pos := r3.Add(last.Center(), r3.Scale(3*geomtest.WirePitch, plane.IncreasingWireDirection()))

	id, err := plane.NearestWireID(pos)
	geomtest.AssertError(t, err)
	var iwe *geom.InvalidWireError
	if !errors.As(err, &iwe) {
		t.Fatalf("error %v is not an InvalidWireError", err)
	}
	if iwe.Bad.Valid {
		t.Errorf("nominal wire ID %v should be invalid", iwe.Bad)
	}
	if iwe.Bad.Wire != plane.NWires()-1+3 {
		t.Errorf("nominal wire index = %d, want %d", iwe.Bad.Wire, plane.NWires()-1+3)
	}
	if iwe.Better.Wire != plane.NWires()-1 {
		t.Errorf("corrected wire index = %d, want last wire", iwe.Better.Wire)
	}
	if id != iwe.Better {
		t.Errorf("returned ID %v differs from corrected ID %v", id, iwe.Better)
	}
}

func TestWireIndexPastEndSignals(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	plane := mustPlane(t, g, 0)
	if _, err := plane.Wire(plane.NWires()); !errors.Is(err, geom.ErrNoSuchWire) {
		t.Errorf("Wire(one past end) error = %v, want ErrNoSuchWire", err)
	}
	if plane.HasWire(plane.NWires()) {
		t.Error("HasWire(one past end) = true")
	}
}

func TestPlaneNormalAndDrift(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	tpc, err := g.TPC(geom.NewTPCID(0, 0))
	geomtest.AssertNoError(t, err)

	// Planes sit at high x; the TPC center is at lower x, so every
	// normal points along -x and the drift runs along +x.
	for p := 0; p < 3; p++ {
		plane := mustPlane(t, g, p)
		geomtest.AssertVecNear(t, "plane normal", plane.NormalDirection(), r3.Vec{X: -1}, 1e-9)
	}
	geomtest.AssertVecNear(t, "drift direction", tpc.DriftDirection(), r3.Vec{X: 1}, 1e-9)
}

func TestPlaneFrameRoundTrip(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	points := []r3.Vec{
		{X: 10, Y: 20, Z: 30},
		{X: 49, Y: 0, Z: 100},
		{X: -3, Y: -80, Z: 190},
	}
	for p := 0; p < 3; p++ {
		plane := mustPlane(t, g, p)
		for _, pt := range points {
			dec := plane.DecomposePoint(pt)
			back := plane.ComposePoint(dec.Distance, dec.Projection)
			geomtest.AssertVecNear(t, "wire frame round trip", back, pt, 1e-9)

			decWD := plane.DecomposePointWidthDepth(pt)
			backWD := plane.ComposePointWidthDepth(decWD.Distance, decWD.Projection)
			geomtest.AssertVecNear(t, "width/depth frame round trip", backWD, pt, 1e-9)
		}
	}
}

func TestPlaneViewsDistinct(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	seen := make(map[geom.View]int)
	for p := 0; p < 3; p++ {
		plane := mustPlane(t, g, p)
		if plane.View() == geom.ViewUnknown {
			t.Errorf("plane %d has unknown view", p)
		}
		seen[plane.View()]++
	}
	if len(seen) != 3 {
		t.Errorf("views not distinct: %v", seen)
	}
}

func TestPlaneOrientation(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	for p := 0; p < 3; p++ {
		if got := mustPlane(t, g, p).Orientation(); got != geom.Vertical {
			t.Errorf("plane %d orientation = %v, want vertical", p, got)
		}
	}
}

func TestDistanceFromPlane(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	plane := mustPlane(t, g, 0) // at x = 49, normal -x

	pos := r3.Vec{X: 40, Y: 0, Z: 100}
	geomtest.AssertNear(t, "distance from plane", plane.DistanceFromPlane(pos), 9, 1e-9)

	onPlane := plane.DriftPointToPlane(pos)
	geomtest.AssertNear(t, "drifted point x", onPlane.X, 49, 1e-9)
	geomtest.AssertNear(t, "residual distance", plane.DistanceFromPlane(onPlane), 0, 1e-9)
}

func TestActiveArea(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	plane := mustPlane(t, g, 0) // wires along z, stacked in y

	area := plane.ActiveArea()
	// Along the wires the area spans the wire length; across them it
	// spans the wire stack inset by half a pitch on each side.
	sizes := []float64{area.Width.Size(), area.Depth.Size()}
	wantAcross := float64(geomtest.WiresPerPlane-1)*geomtest.WirePitch - geomtest.WirePitch
	found := false
	for _, s := range sizes {
		if math.Abs(s-wantAcross) < 1e-9 {
			found = true
		}
	}
	if !found {
		t.Errorf("active area sizes %v do not include %v across the wires", sizes, wantAcross)
	}

	center := plane.Center()
	if !area.Contains(plane.PointWidthDepthProjection(center)) {
		t.Error("plane center projects outside the active area")
	}
}

func TestIsProjectionOnPlane(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	plane := mustPlane(t, g, 0)

	if !plane.IsProjectionOnPlane(r3.Vec{X: 0, Y: 0, Z: 100}) {
		t.Error("TPC center projects off the plane")
	}
	if plane.IsProjectionOnPlane(r3.Vec{X: 0, Y: 150, Z: 100}) {
		t.Error("point far off in y projects on the plane")
	}
}

func TestMovePointOverPlane(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	plane := mustPlane(t, g, 0)

	off := r3.Vec{X: 49, Y: 150, Z: 100}
	moved := plane.MovePointOverPlane(off)
	if !plane.IsProjectionOnPlane(moved) {
		t.Errorf("moved point %v still projects off the plane", moved)
	}
	geomtest.AssertNear(t, "capped y", moved.Y, 100, 1e-9)
	geomtest.AssertNear(t, "untouched z", moved.Z, 100, 1e-9)

	// A point already over the plane does not move.
	on := r3.Vec{X: 0, Y: 0, Z: 100}
	geomtest.AssertVecNear(t, "already on plane", plane.MovePointOverPlane(on), on, 1e-12)
}

func TestInterWireDistance(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	plane := mustPlane(t, g, 0)

	// Crossing the wires at right angle spans exactly one pitch.
	got := plane.InterWireDistance(plane.IncreasingWireDirection())
	geomtest.AssertNear(t, "inter-wire distance across", got, geomtest.WirePitch, 1e-9)

	// Along the wires no neighboring wire is ever reached.
	along := plane.InterWireDistance(plane.WireDirection())
	if !math.IsInf(along, +1) {
		t.Errorf("inter-wire distance along the wires = %v, want +Inf", along)
	}
}

func TestWireIDIncreasesWithZ(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	// Plane 0 stacks wires along y: no z growth. Plane 2 (120 degrees)
	// has a wire coordinate axis with positive z component.
	if mustPlane(t, g, 0).WireIDIncreasesWithZ() {
		t.Error("plane 0 wire numbers should not grow with z")
	}
	if !mustPlane(t, g, 2).WireIDIncreasesWithZ() {
		t.Error("plane 2 wire numbers should grow with z")
	}
}

func TestPlaneInfoVerbosity(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	plane := mustPlane(t, g, 0)
	prev := -1
	for v := 0; v <= 4; v++ {
		info := plane.PlaneInfo("  ", v)
		if len(info) <= prev {
			t.Errorf("verbosity %d did not add detail", v)
		}
		prev = len(info)
	}
}
