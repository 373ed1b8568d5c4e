package geom_test

import (
	"errors"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sabasehrish/larcorealg/internal/geom"
	"github.com/sabasehrish/larcorealg/internal/geom/geomtest"
)

func TestNewRejectsEmptyDetector(t *testing.T) {
	if _, err := geom.New(geom.DefaultParams(), nil); err == nil {
		t.Fatal("New with no cryostats succeeded")
	}
}

func TestDetectorCounts(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	if g.DetectorName() != "threeplane" {
		t.Errorf("DetectorName() = %q", g.DetectorName())
	}
	if got := g.NCryostats(); got != 1 {
		t.Errorf("NCryostats() = %d", got)
	}
	if got := g.NTPCs(geom.NewCryostatID(0)); got != 1 {
		t.Errorf("NTPCs() = %d", got)
	}
	if got := g.TotalNTPCs(); got != 1 {
		t.Errorf("TotalNTPCs() = %d", got)
	}
	if got := g.MaxTPCs(); got != 1 {
		t.Errorf("MaxTPCs() = %d", got)
	}
	if got := g.MaxPlanes(); got != 3 {
		t.Errorf("MaxPlanes() = %d", got)
	}
	if got := g.MaxWires(); got != geomtest.WiresPerPlane {
		t.Errorf("MaxWires() = %d", got)
	}
	if got := g.NViews(); got != 3 {
		t.Errorf("NViews() = %d", got)
	}
}

func TestAccessorErrors(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	if _, err := g.Cryostat(geom.NewCryostatID(1)); !errors.Is(err, geom.ErrNoSuchCryostat) {
		t.Errorf("missing cryostat error = %v", err)
	}
	if _, err := g.TPC(geom.NewTPCID(0, 1)); !errors.Is(err, geom.ErrNoSuchTPC) {
		t.Errorf("missing TPC error = %v", err)
	}
	if _, err := g.Plane(geom.NewPlaneID(0, 0, 3)); !errors.Is(err, geom.ErrNoSuchPlane) {
		t.Errorf("missing plane error = %v", err)
	}
	if _, err := g.Wire(geom.NewWireID(0, 0, 0, 99)); !errors.Is(err, geom.ErrNoSuchWire) {
		t.Errorf("missing wire error = %v", err)
	}

	if !g.HasPlane(geom.NewPlaneID(0, 0, 2)) {
		t.Error("existing plane reported missing")
	}
	if g.HasWire(geom.NewWireID(0, 0, 2, geomtest.WiresPerPlane)) {
		t.Error("wire one past the end reported present")
	}
}

func TestPositionLookup(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	inside := r3.Vec{X: 0, Y: 0, Z: 100}
	tid := g.FindTPCAtPosition(inside)
	if !tid.Valid || tid.TPC != 0 || tid.Cryostat != 0 {
		t.Errorf("FindTPCAtPosition(inside) = %v", tid)
	}
	if _, ok := g.PositionToTPC(inside); !ok {
		t.Error("PositionToTPC(inside) failed")
	}

	// Between the TPC wall (|x| <= 50) and the cryostat wall
	// (|x| <= 60): the cryostat is known, the TPC is not.
	gap := r3.Vec{X: 55, Y: 0, Z: 100}
	tid = g.FindTPCAtPosition(gap)
	if tid.Valid {
		t.Errorf("FindTPCAtPosition(gap) = %v, want invalid", tid)
	}
	if tid.Cryostat != 0 {
		t.Errorf("FindTPCAtPosition(gap) lost the cryostat: %v", tid)
	}
	cid := g.PositionToCryostatID(gap)
	if !cid.Valid || cid.Cryostat != 0 {
		t.Errorf("PositionToCryostatID(gap) = %v", cid)
	}

	far := r3.Vec{X: 1000, Y: 0, Z: 0}
	if tid := g.FindTPCAtPosition(far); tid.Valid {
		t.Errorf("FindTPCAtPosition(far) = %v, want invalid", tid)
	}
	if cid := g.PositionToCryostatID(far); cid.Valid {
		t.Errorf("PositionToCryostatID(far) = %v, want invalid", cid)
	}
}

func TestIterationBounds(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	end := g.EndCryostatID()
	if !end.Valid || end.Cryostat != 1 {
		t.Errorf("EndCryostatID() = %v", end)
	}

	endTPC := g.EndTPCID(geom.NewCryostatID(0))
	if !endTPC.Valid || endTPC.Cryostat != 1 || endTPC.TPC != 0 {
		t.Errorf("EndTPCID() = %v", endTPC)
	}

	endPlane := g.EndPlaneID(geom.NewTPCID(0, 0))
	if !endPlane.Valid || endPlane.TPC != 1 || endPlane.Plane != 0 {
		t.Errorf("EndPlaneID() = %v", endPlane)
	}

	endWire := g.EndWireID(geom.NewPlaneID(0, 0, 0))
	if !endWire.Valid || endWire.Plane != 1 || endWire.Wire != 0 {
		t.Errorf("EndWireID() = %v", endWire)
	}

	// A missing parent yields an invalid copy of the begin ID, so an
	// iteration over it covers nothing.
	begin := g.BeginWireID(geom.NewPlaneID(0, 0, 9))
	endMissing := g.EndWireID(geom.NewPlaneID(0, 0, 9))
	if endMissing.Valid {
		t.Errorf("EndWireID(missing plane) = %v, want invalid", endMissing)
	}
	if endMissing.Plane != begin.Plane || endMissing.Wire != begin.Wire {
		t.Errorf("EndWireID(missing plane) = %v, want copy of %v", endMissing, begin)
	}
}

func TestWireEndPoints(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	wid := geom.NewWireID(0, 0, 2, 10)
	start, end, err := g.WireEndPoints(wid)
	if err != nil {
		t.Fatalf("WireEndPoints: %v", err)
	}
	if start.Z > end.Z {
		t.Errorf("endpoints out of order: start %v, end %v", start, end)
	}
	wire, err := g.Wire(wid)
	geomtest.AssertNoError(t, err)
	geomtest.AssertNear(t, "wire length", r3.Norm(r3.Sub(end, start)), wire.Length(), 1e-9)

	if _, _, err := g.WireEndPoints(geom.NewWireID(0, 0, 0, 99)); err == nil {
		t.Error("WireEndPoints on a missing wire succeeded")
	}
}

func TestPitchesAndAngles(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	pitch, err := g.WirePitch(geom.NewPlaneID(0, 0, 1))
	geomtest.AssertNoError(t, err)
	geomtest.AssertNear(t, "wire pitch", pitch, geomtest.WirePitch, 1e-9)

	pitch, err = g.WirePitchForView(geom.ViewY)
	geomtest.AssertNoError(t, err)
	geomtest.AssertNear(t, "view pitch", pitch, geomtest.WirePitch, 1e-9)

	if _, err := g.WirePitchForView(geom.ViewX); !errors.Is(err, geom.ErrNoSuchView) {
		t.Errorf("pitch of absent view error = %v", err)
	}

	// The V plane wires run 60 degrees off the z axis.
	angle, err := g.WireAngleToVertical(geom.ViewV, geom.NewTPCID(0, 0))
	geomtest.AssertNoError(t, err)
	geomtest.AssertNear(t, "angle to vertical", angle, geomtest.ThreePlaneAngles[1], 1e-9)

	// Planes sit one centimeter apart in drift.
	pp, err := g.PlanePitch(geom.NewTPCID(0, 0), 0, 1)
	geomtest.AssertNoError(t, err)
	geomtest.AssertNear(t, "plane pitch 0-1", pp, 1, 1e-9)
	pp, err = g.PlanePitch(geom.NewTPCID(0, 0), 0, 2)
	geomtest.AssertNoError(t, err)
	geomtest.AssertNear(t, "plane pitch 0-2", pp, 2, 1e-9)
}

func TestNearestChannel(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	// The channel nearest to a wire's center is the one reading it.
	wid := geom.NewWireID(0, 0, 1, 5)
	wire, err := g.Wire(wid)
	geomtest.AssertNoError(t, err)
	want, err := g.PlaneWireToChannel(wid)
	geomtest.AssertNoError(t, err)

	got, err := g.NearestChannel(wire.Center(), wid.PlaneID)
	geomtest.AssertNoError(t, err)
	if got != want {
		t.Errorf("NearestChannel = %d, want %d", got, want)
	}
}

func TestNearestChannelOutOfRange(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	pid := geom.NewPlaneID(0, 0, 0)
	plane, err := g.Plane(pid)
	geomtest.AssertNoError(t, err)

	// Three pitches before the first wire: the first wire's channel
	// comes back along with the range error.
	pos := r3.Add(plane.FirstWire().Center(),
		r3.Scale(-3*geomtest.WirePitch, plane.IncreasingWireDirection()))
	ch, err := g.NearestChannel(pos, pid)
	geomtest.AssertError(t, err)
	var iwe *geom.InvalidWireError
	if !errors.As(err, &iwe) {
		t.Fatalf("error %v is not an InvalidWireError", err)
	}
	if ch != 0 {
		t.Errorf("NearestChannel = %d, want first channel of the plane", ch)
	}
}

func TestOpticalDetectors(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	if got := g.NOpDets(); got != 2 {
		t.Fatalf("NOpDets() = %d, want 2", got)
	}

	cid := geom.NewCryostatID(0)
	for i := 0; i < 2; i++ {
		global, err := g.OpDetFromCryo(cid, i)
		geomtest.AssertNoError(t, err)
		if global != i {
			t.Errorf("OpDetFromCryo(%d) = %d", i, global)
		}
		backCid, local, err := g.OpDetToCryo(global)
		geomtest.AssertNoError(t, err)
		if backCid != cid || local != i {
			t.Errorf("OpDetToCryo(%d) = %v, %d", global, backCid, local)
		}
	}
	if _, err := g.OpDetFromCryo(cid, 2); err == nil {
		t.Error("OpDetFromCryo past the end succeeded")
	}
	if _, _, err := g.OpDetToCryo(5); err == nil {
		t.Error("OpDetToCryo past the end succeeded")
	}

	center, err := g.OpDetCenter(1)
	geomtest.AssertNoError(t, err)
	geomtest.AssertVecNear(t, "optical detector center", center, r3.Vec{X: 0, Y: 0, Z: 150}, 1e-9)

	near, err := g.ClosestOpDet(r3.Vec{X: 0, Y: 0, Z: 60})
	geomtest.AssertNoError(t, err)
	if near != 0 {
		t.Errorf("ClosestOpDet(z=60) = %d, want 0", near)
	}
	near, err = g.ClosestOpDet(r3.Vec{X: 10, Y: 10, Z: 140})
	geomtest.AssertNoError(t, err)
	if near != 1 {
		t.Errorf("ClosestOpDet(z=140) = %d, want 1", near)
	}
}

func TestInfoVerbosity(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	brief := g.Info(0)
	if !strings.Contains(brief, "threeplane") {
		t.Errorf("Info(0) does not name the detector: %q", brief)
	}
	prev := len(brief)
	for v := 1; v <= 4; v++ {
		info := g.Info(v)
		if len(info) <= prev {
			t.Errorf("Info(%d) did not add detail", v)
		}
		prev = len(info)
	}
	if !strings.Contains(g.Info(2), "drift direction") {
		t.Error("Info(2) does not describe the drift")
	}
}

func TestWireCoordinateThroughGeometry(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	pid := geom.NewPlaneID(0, 0, 2)
	wire, err := g.Wire(geom.WireIDAt(pid, 7))
	geomtest.AssertNoError(t, err)
	coord, err := g.WireCoordinate(wire.Center(), pid)
	geomtest.AssertNoError(t, err)
	geomtest.AssertNear(t, "wire coordinate", coord, 7, 1e-9)

	if _, err := g.WireCoordinate(wire.Center(), geom.NewPlaneID(0, 0, 9)); err == nil {
		t.Error("WireCoordinate on a missing plane succeeded")
	}
}
