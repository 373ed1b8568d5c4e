package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Cryostat is the outermost enclosure: it contains the drift volumes
// and the optical detectors mounted around them.
type Cryostat struct {
	trans        Transform
	localHalf    r3.Vec
	tpcs         []*TPC
	opDetCenters []r3.Vec
	id           CryostatID
	box          Box
}

// NewCryostat builds a cryostat from its transform, the half extents of
// its envelope, its TPCs and the centers of its optical detectors (the
// latter may be empty). At least one TPC is required.
func NewCryostat(trans Transform, localHalfExtents r3.Vec, tpcs []*TPC, opDetCenters []r3.Vec) *Cryostat {
	if len(tpcs) == 0 {
		panic("geom: cryostat with no TPCs")
	}
	return &Cryostat{
		trans:        trans,
		localHalf:    localHalfExtents,
		tpcs:         tpcs,
		opDetCenters: opDetCenters,
		box:          worldBox(trans, localHalfExtents),
	}
}

// ID returns the identifier assigned to this cryostat after sorting.
func (c *Cryostat) ID() CryostatID { return c.id }

// Box returns the world-coordinate bounding box of the cryostat.
func (c *Cryostat) Box() Box { return c.box }

// ContainsPosition reports whether the point is inside the cryostat,
// with the box wiggle semantics.
func (c *Cryostat) ContainsPosition(p r3.Vec, wiggle float64) bool {
	return c.box.ContainsPosition(p, wiggle)
}

// NTPC returns the number of drift volumes.
func (c *Cryostat) NTPC() int { return len(c.tpcs) }

// HasTPC reports whether a TPC with the given index exists.
func (c *Cryostat) HasTPC(i int) bool { return i >= 0 && i < len(c.tpcs) }

// TPC returns the i-th TPC, or ErrNoSuchTPC.
func (c *Cryostat) TPC(i int) (*TPC, error) {
	if !c.HasTPC(i) {
		return nil, fmt.Errorf("%w: TPC %d of %v (cryostat has %d TPCs)",
			ErrNoSuchTPC, i, c.id, len(c.tpcs))
	}
	return c.tpcs[i], nil
}

// TPCs returns the ordered TPC sequence. Callers must not modify it.
func (c *Cryostat) TPCs() []*TPC { return c.tpcs }

// MaxPlanes returns the largest plane count over the TPCs.
func (c *Cryostat) MaxPlanes() int {
	max := 0
	for _, t := range c.tpcs {
		if n := t.NPlanes(); n > max {
			max = n
		}
	}
	return max
}

// MaxWires returns the largest wire count over all planes of all TPCs.
func (c *Cryostat) MaxWires() int {
	max := 0
	for _, t := range c.tpcs {
		if n := t.MaxWires(); n > max {
			max = n
		}
	}
	return max
}

// PositionToTPC returns the TPC containing the point, or false if none
// does.
func (c *Cryostat) PositionToTPC(p r3.Vec, wiggle float64) (*TPC, bool) {
	for _, t := range c.tpcs {
		if t.ContainsPosition(p, wiggle) {
			return t, true
		}
	}
	return nil, false
}

// NOpDet returns the number of optical detectors in the cryostat.
func (c *Cryostat) NOpDet() int { return len(c.opDetCenters) }

// OpDetCenter returns the center of the i-th optical detector.
func (c *Cryostat) OpDetCenter(i int) (r3.Vec, error) {
	if i < 0 || i >= len(c.opDetCenters) {
		return r3.Vec{}, fmt.Errorf("%w: optical detector %d of %v (cryostat has %d)",
			ErrNoSuchOpDet, i, c.id, len(c.opDetCenters))
	}
	return c.opDetCenters[i], nil
}

// ClosestOpDet returns the index of the optical detector closest to the
// point, or -1 if the cryostat has none.
func (c *Cryostat) ClosestOpDet(p r3.Vec) int {
	best, bestDist := -1, math.Inf(+1)
	for i, center := range c.opDetCenters {
		if d := r3.Norm(r3.Sub(p, center)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// SortSubVolumes applies the sorter to the TPCs and cascades into them.
func (c *Cryostat) SortSubVolumes(sorter ObjectSorter) {
	sorter.SortTPCs(c.tpcs)
	for _, t := range c.tpcs {
		t.SortSubVolumes(sorter)
	}
}

// UpdateAfterSorting assigns the cryostat ID and cascades the update to
// the TPCs.
func (c *Cryostat) UpdateAfterSorting(id CryostatID) {
	c.id = id
	for i, t := range c.tpcs {
		t.UpdateAfterSorting(TPCID{CryostatID: id, TPC: i})
	}
}
