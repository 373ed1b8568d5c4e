package geom

import "fmt"

// Identifier types for the four nested levels of the readout hierarchy:
// cryostat, TPC (drift volume), wire plane and wire. Each level embeds its
// parent and adds one non-negative index, so a WireID fully locates a wire
// in the detector. IDs are plain values; an ID can exist but be marked
// invalid (for example the "one past the last TPC" bound used by the
// iteration helpers), so validity travels with the value instead of being
// implied by the index range.

// CryostatID identifies one cryostat in the detector.
type CryostatID struct {
	Cryostat int
	Valid    bool
}

// NewCryostatID returns a valid ID for cryostat c.
func NewCryostatID(c int) CryostatID {
	return CryostatID{Cryostat: c, Valid: true}
}

// MarkInvalid returns a copy of the ID with the validity flag cleared.
// The index is preserved so callers can still report which ID failed.
func (id CryostatID) MarkInvalid() CryostatID {
	id.Valid = false
	return id
}

// Cmp compares two IDs lexicographically by index, ignoring validity.
// It returns -1, 0 or +1.
func (id CryostatID) Cmp(other CryostatID) int {
	return cmpInt(id.Cryostat, other.Cryostat)
}

// Less reports whether id sorts before other.
func (id CryostatID) Less(other CryostatID) bool { return id.Cmp(other) < 0 }

func (id CryostatID) String() string {
	if !id.Valid {
		return fmt.Sprintf("C:%d (invalid)", id.Cryostat)
	}
	return fmt.Sprintf("C:%d", id.Cryostat)
}

// TPCID identifies one TPC (drift volume) within a cryostat.
type TPCID struct {
	CryostatID
	TPC int
}

// NewTPCID returns a valid ID for TPC t of cryostat c.
func NewTPCID(c, t int) TPCID {
	return TPCID{CryostatID: NewCryostatID(c), TPC: t}
}

// AsCryostatID returns the cryostat part of the ID.
func (id TPCID) AsCryostatID() CryostatID { return id.CryostatID }

func (id TPCID) MarkInvalid() TPCID {
	id.Valid = false
	return id
}

func (id TPCID) Cmp(other TPCID) int {
	if c := id.CryostatID.Cmp(other.CryostatID); c != 0 {
		return c
	}
	return cmpInt(id.TPC, other.TPC)
}

func (id TPCID) Less(other TPCID) bool { return id.Cmp(other) < 0 }

func (id TPCID) String() string {
	if !id.Valid {
		return fmt.Sprintf("C:%d T:%d (invalid)", id.Cryostat, id.TPC)
	}
	return fmt.Sprintf("C:%d T:%d", id.Cryostat, id.TPC)
}

// PlaneID identifies one wire plane within a TPC.
type PlaneID struct {
	TPCID
	Plane int
}

// NewPlaneID returns a valid ID for plane p of TPC t of cryostat c.
func NewPlaneID(c, t, p int) PlaneID {
	return PlaneID{TPCID: NewTPCID(c, t), Plane: p}
}

// AsTPCID returns the TPC part of the ID.
func (id PlaneID) AsTPCID() TPCID { return id.TPCID }

func (id PlaneID) MarkInvalid() PlaneID {
	id.Valid = false
	return id
}

func (id PlaneID) Cmp(other PlaneID) int {
	if c := id.TPCID.Cmp(other.TPCID); c != 0 {
		return c
	}
	return cmpInt(id.Plane, other.Plane)
}

func (id PlaneID) Less(other PlaneID) bool { return id.Cmp(other) < 0 }

func (id PlaneID) String() string {
	if !id.Valid {
		return fmt.Sprintf("C:%d T:%d P:%d (invalid)", id.Cryostat, id.TPC, id.Plane)
	}
	return fmt.Sprintf("C:%d T:%d P:%d", id.Cryostat, id.TPC, id.Plane)
}

// WireID identifies one wire within a plane.
type WireID struct {
	PlaneID
	Wire int
}

// NewWireID returns a valid ID for wire w of plane p of TPC t of cryostat c.
func NewWireID(c, t, p, w int) WireID {
	return WireID{PlaneID: NewPlaneID(c, t, p), Wire: w}
}

// WireIDAt returns a valid wire ID for wire w of the given plane.
func WireIDAt(pid PlaneID, w int) WireID {
	return WireID{PlaneID: pid, Wire: w}
}

// AsPlaneID returns the plane part of the ID.
func (id WireID) AsPlaneID() PlaneID { return id.PlaneID }

func (id WireID) MarkInvalid() WireID {
	id.Valid = false
	return id
}

func (id WireID) Cmp(other WireID) int {
	if c := id.PlaneID.Cmp(other.PlaneID); c != 0 {
		return c
	}
	return cmpInt(id.Wire, other.Wire)
}

func (id WireID) Less(other WireID) bool { return id.Cmp(other) < 0 }

func (id WireID) String() string {
	if !id.Valid {
		return fmt.Sprintf("C:%d T:%d P:%d W:%d (invalid)", id.Cryostat, id.TPC, id.Plane, id.Wire)
	}
	return fmt.Sprintf("C:%d T:%d P:%d W:%d", id.Cryostat, id.TPC, id.Plane, id.Wire)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}

// View is the orientation class shared by all wires in a plane that
// measure the same spatial projection.
type View int

const (
	ViewU       View = iota // planes measuring the U coordinate
	ViewV                   // planes measuring the V coordinate
	ViewZ                   // planes measuring Z (compatible with collection)
	ViewY                   // planes measuring Y
	ViewX                   // planes measuring X (drift-parallel wires)
	View3D                  // full 3D readout, no wire projection
	ViewUnknown             // orientation not recognized
)

// ViewName returns a printable name for the view.
func ViewName(v View) string {
	switch v {
	case ViewU:
		return "U"
	case ViewV:
		return "V"
	case ViewZ:
		return "Z"
	case ViewY:
		return "Y"
	case ViewX:
		return "X"
	case View3D:
		return "3D"
	default:
		return "?"
	}
}

// Orientation tells whether the wire plane is vertical or horizontal.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// OrientationName returns a printable name for the orientation.
func OrientationName(o Orientation) string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unexpected"
	}
}
