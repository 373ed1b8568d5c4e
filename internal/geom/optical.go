package geom

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Optical detector numbering. Detectors are numbered globally across
// cryostats in cryostat order; the mapping lives in a prefix-sum table
// built once when the hierarchy is finalized, owned by the service.

// buildOpDetTable fills opDetFirst from the sorted cryostats.
func (g *Geometry) buildOpDetTable() {
	g.opDetFirst = make([]int, len(g.cryostats)+1)
	for i, c := range g.cryostats {
		g.opDetFirst[i+1] = g.opDetFirst[i] + c.NOpDet()
	}
}

// NOpDets returns the total number of optical detectors.
func (g *Geometry) NOpDets() int {
	if len(g.opDetFirst) == 0 {
		return 0
	}
	return g.opDetFirst[len(g.opDetFirst)-1]
}

// OpDetFromCryo converts a per-cryostat optical detector index to the
// global optical detector number.
func (g *Geometry) OpDetFromCryo(cid CryostatID, i int) (int, error) {
	cryo, err := g.Cryostat(cid)
	if err != nil {
		return -1, err
	}
	if i < 0 || i >= cryo.NOpDet() {
		return -1, fmt.Errorf("%w: detector %d of %v", ErrNoSuchOpDet, i, cid)
	}
	return g.opDetFirst[cid.Cryostat] + i, nil
}

// OpDetToCryo splits a global optical detector number into the owning
// cryostat and the index within it.
func (g *Geometry) OpDetToCryo(opDet int) (CryostatID, int, error) {
	if opDet < 0 || opDet >= g.NOpDets() {
		return CryostatID{}.MarkInvalid(), -1, fmt.Errorf("%w: detector %d", ErrNoSuchOpDet, opDet)
	}
	// First cryostat whose block ends past opDet.
	c := sort.Search(len(g.cryostats), func(i int) bool {
		return g.opDetFirst[i+1] > opDet
	})
	return NewCryostatID(c), opDet - g.opDetFirst[c], nil
}

// OpDetCenter returns the center of the optical detector with the
// given global number.
func (g *Geometry) OpDetCenter(opDet int) (r3.Vec, error) {
	cid, i, err := g.OpDetToCryo(opDet)
	if err != nil {
		return r3.Vec{}, err
	}
	return g.cryostats[cid.Cryostat].OpDetCenter(i)
}

// ClosestOpDet returns the global number of the optical detector
// closest to the point, over all cryostats.
func (g *Geometry) ClosestOpDet(p r3.Vec) (int, error) {
	best := -1
	bestDist := math.Inf(+1)
	for ci, cryo := range g.cryostats {
		local := cryo.ClosestOpDet(p)
		if local < 0 {
			continue
		}
		center, err := cryo.OpDetCenter(local)
		if err != nil {
			continue
		}
		if d := r3.Norm(r3.Sub(center, p)); d < bestDist {
			bestDist = d
			best = g.opDetFirst[ci] + local
		}
	}
	if best < 0 {
		return -1, fmt.Errorf("%w: detector has no optical detectors", ErrNoSuchOpDet)
	}
	return best, nil
}
