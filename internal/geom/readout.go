package geom

import "fmt"

// Readout-side identifiers. These group the geometry by electronics rather
// than by physical nesting: a TPC set is the group of TPCs sharing readout,
// and a readout plane (ROP) is the group of wire planes read out together.
// Only the channel mapping strategy can produce them; they are not
// structurally derivable from the geometric IDs.

// TPCsetID identifies a group of TPCs sharing the same readout.
type TPCsetID struct {
	CryostatID
	TPCset int
}

// NewTPCsetID returns a valid ID for TPC set s of cryostat c.
func NewTPCsetID(c, s int) TPCsetID {
	return TPCsetID{CryostatID: NewCryostatID(c), TPCset: s}
}

// AsCryostatID returns the cryostat part of the ID.
func (id TPCsetID) AsCryostatID() CryostatID { return id.CryostatID }

func (id TPCsetID) MarkInvalid() TPCsetID {
	id.Valid = false
	return id
}

func (id TPCsetID) Cmp(other TPCsetID) int {
	if c := id.CryostatID.Cmp(other.CryostatID); c != 0 {
		return c
	}
	return cmpInt(id.TPCset, other.TPCset)
}

func (id TPCsetID) Less(other TPCsetID) bool { return id.Cmp(other) < 0 }

func (id TPCsetID) String() string {
	if !id.Valid {
		return fmt.Sprintf("C:%d S:%d (invalid)", id.Cryostat, id.TPCset)
	}
	return fmt.Sprintf("C:%d S:%d", id.Cryostat, id.TPCset)
}

// ROPID identifies a readout plane within a TPC set.
type ROPID struct {
	TPCsetID
	ROP int
}

// NewROPID returns a valid ID for readout plane r of TPC set s of cryostat c.
func NewROPID(c, s, r int) ROPID {
	return ROPID{TPCsetID: NewTPCsetID(c, s), ROP: r}
}

// AsTPCsetID returns the TPC set part of the ID.
func (id ROPID) AsTPCsetID() TPCsetID { return id.TPCsetID }

func (id ROPID) MarkInvalid() ROPID {
	id.Valid = false
	return id
}

func (id ROPID) Cmp(other ROPID) int {
	if c := id.TPCsetID.Cmp(other.TPCsetID); c != 0 {
		return c
	}
	return cmpInt(id.ROP, other.ROP)
}

func (id ROPID) Less(other ROPID) bool { return id.Cmp(other) < 0 }

func (id ROPID) String() string {
	if !id.Valid {
		return fmt.Sprintf("C:%d S:%d R:%d (invalid)", id.Cryostat, id.TPCset, id.ROP)
	}
	return fmt.Sprintf("C:%d S:%d R:%d", id.Cryostat, id.TPCset, id.ROP)
}

// ChannelID is the flat number of one electronics channel.
type ChannelID int

// InvalidChannel marks a channel number with no channel behind it.
const InvalidChannel ChannelID = -1

// IsValid reports whether the channel number may identify a real channel.
func (c ChannelID) IsValid() bool { return c >= 0 }

// SignalType tells what kind of signal a channel or plane carries.
type SignalType int

const (
	SignalInduction  SignalType = iota // charge induced while drifting by
	SignalCollection                   // charge collected on the wires
	SignalUnknown                      // mapping could not classify the channel
)

// SignalTypeName returns a printable name for the signal type.
func SignalTypeName(s SignalType) string {
	switch s {
	case SignalInduction:
		return "induction"
	case SignalCollection:
		return "collection"
	default:
		return "unknown"
	}
}
