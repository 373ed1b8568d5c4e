package geom

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// ObjectSorter assigns the final index order at every level of the
// hierarchy. The channel mapping prescribes the sorter, since channel
// numbering only makes sense against a specific ordering; the geometry
// applies it exactly once, before identifiers are assigned.
type ObjectSorter interface {
	SortCryostats(cryostats []*Cryostat)
	SortTPCs(tpcs []*TPC)
	SortPlanes(planes []*Plane)
	SortWires(wires []Wire)
}

// StandardSorter orders volumes by position: cryostats and TPCs by
// center coordinates (x, then y, then z), planes by drift coordinate,
// and wires by z with a y tie-break for vertical wires.
type StandardSorter struct{}

func (StandardSorter) SortCryostats(cryostats []*Cryostat) {
	sort.SliceStable(cryostats, func(i, j int) bool {
		return lessXYZ(cryostats[i].Box().Center(), cryostats[j].Box().Center())
	})
}

func (StandardSorter) SortTPCs(tpcs []*TPC) {
	sort.SliceStable(tpcs, func(i, j int) bool {
		return lessXYZ(tpcs[i].Box().Center(), tpcs[j].Box().Center())
	})
}

// SortPlanes orders planes by decreasing x: the plane closest to the
// anode side (largest drift coordinate) comes first.
func (StandardSorter) SortPlanes(planes []*Plane) {
	sort.SliceStable(planes, func(i, j int) bool {
		return planes[i].boxCenter().X > planes[j].boxCenter().X
	})
}

func (StandardSorter) SortWires(wires []Wire) {
	sort.SliceStable(wires, func(i, j int) bool {
		a, b := wires[i].Center(), wires[j].Center()
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.Y < b.Y
	})
}

func lessXYZ(a, b r3.Vec) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}
