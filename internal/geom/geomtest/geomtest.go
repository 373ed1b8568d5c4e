// Package geomtest provides shared geometry fixtures for tests and
// demo tooling.
//
// The fixtures build small fully-constructed detectors (one cryostat,
// one TPC, a handful of wire planes) with known dimensions, so tests
// can assert against hand-computed coordinates.
package geomtest

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sabasehrish/larcorealg/internal/geom"
)

// Fixture dimensions, in cm.
const (
	WirePitch     = 5.0
	WiresPerPlane = 41
	WireLength    = 150.0
)

// ThreePlaneAngles are the wire angles from the z axis of the standard
// three-plane fixture, in radians.
var ThreePlaneAngles = []float64{0, 60 * math.Pi / 180, 120 * math.Pi / 180}

// NewTPCGeometry builds a detector with one cryostat holding one TPC
// with one wire plane per entry of wireAngles. Each angle is the wire
// direction from the z axis on the transverse plane. Planes are
// stacked along x near the +x face of the TPC, in the given order
// after sorting; the drift direction is +x. The cryostat carries two
// optical detectors on the z axis.
func NewTPCGeometry(detectorName string, wireAngles []float64) (*geom.Geometry, error) {
	return NewDetector(geom.Params{DetectorName: detectorName}, wireAngles)
}

// NewDetector is NewTPCGeometry with full control over the geometry
// parameters.
func NewDetector(params geom.Params, wireAngles []float64) (*geom.Geometry, error) {
	tpcCenter := r3.Vec{X: 0, Y: 0, Z: 100}

	planes := make([]*geom.Plane, len(wireAngles))
	for i, angle := range wireAngles {
		planes[i] = newPlane(49-float64(i), angle)
	}

	tpc := geom.NewTPC(
		geom.Translation(tpcCenter),
		r3.Vec{X: 50, Y: 100, Z: 100},
		planes,
	)
	cryostat := geom.NewCryostat(
		geom.Translation(tpcCenter),
		r3.Vec{X: 60, Y: 110, Z: 110},
		[]*geom.TPC{tpc},
		[]r3.Vec{{X: 0, Y: 0, Z: 50}, {X: 0, Y: 0, Z: 150}},
	)

	g, err := geom.New(params, []*geom.Cryostat{cryostat})
	if err != nil {
		return nil, err
	}
	if err := g.ApplyChannelMap(geom.NewStandardChannelMap()); err != nil {
		return nil, err
	}
	return g, nil
}

// newPlane builds a plane at the given x whose wires run at the given
// angle from z, spaced WirePitch apart around the plane center.
func newPlane(x, angle float64) *geom.Plane {
	// Local z is the plane thickness axis; rotate it onto world x.
	trans := geom.Compose(
		geom.Translation(r3.Vec{X: x, Y: 0, Z: 100}),
		geom.RotationY(math.Pi/2),
	)

	wireDir := r3.Vec{X: 0, Y: math.Sin(angle), Z: math.Cos(angle)}
	stepDir := r3.Vec{X: 0, Y: math.Cos(angle), Z: -math.Sin(angle)}
	wires := make([]geom.Wire, WiresPerPlane)
	for k := range wires {
		offset := float64(k-WiresPerPlane/2) * WirePitch
		center := r3.Vec{
			X: x,
			Y: offset * stepDir.Y,
			Z: 100 + offset*stepDir.Z,
		}
		wires[k] = geom.NewWire(center, wireDir, WireLength)
	}
	return geom.NewPlane(trans, r3.Vec{X: 100, Y: 100, Z: 0.1}, wires)
}

// MustThreePlane returns the standard three-plane (0, 60, 120 degree)
// detector, failing the test if construction fails.
func MustThreePlane(t testing.TB) *geom.Geometry {
	t.Helper()
	g, err := NewTPCGeometry("threeplane", ThreePlaneAngles)
	if err != nil {
		t.Fatalf("building three-plane fixture: %v", err)
	}
	return g
}

// MustTPCGeometry returns a detector with the given wire angles,
// failing the test if construction fails.
func MustTPCGeometry(t testing.TB, wireAngles []float64) *geom.Geometry {
	t.Helper()
	g, err := NewTPCGeometry("fixture", wireAngles)
	if err != nil {
		t.Fatalf("building fixture: %v", err)
	}
	return g
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertNear fails the test if got is not within tol of want.
func AssertNear(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (tolerance %v)", name, got, want, tol)
	}
}

// AssertVecNear fails the test if any component of got is not within
// tol of want.
func AssertVecNear(t *testing.T, name string, got, want r3.Vec, tol float64) {
	t.Helper()
	if math.Abs(got.X-want.X) > tol || math.Abs(got.Y-want.Y) > tol || math.Abs(got.Z-want.Z) > tol {
		t.Errorf("%s = %v, want %v (tolerance %v)", name, got, want, tol)
	}
}
