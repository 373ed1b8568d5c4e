package geom

import (
	"fmt"
	"sort"
)

// StandardChannelMap is the mapping for detectors whose readout follows
// the geometry one to one: every wire has its own channel, channels are
// numbered wire-major within plane within TPC within cryostat, each TPC
// is its own TPC set and each wire plane its own readout plane. The
// last plane of each TPC (the innermost one after sorting) collects the
// drifting charge; the others see induced signal.
//
// All lookup tables are immutable prefix sums built once in Initialize;
// there is no lazily materialized state.
type StandardChannelMap struct {
	ranges    []channelRange
	nChannels int

	// nTPCs[c] and nPlanes[c][t] record the hierarchy dimensions.
	nTPCs   []int
	nPlanes [][]int

	// firstChannel[c][t][p] is the channel of wire 0 of the plane.
	firstChannel [][][]ChannelID
}

// channelRange is one contiguous block of channels serving one plane.
type channelRange struct {
	plane PlaneID
	first ChannelID
	n     int
}

// NewStandardChannelMap returns an uninitialized standard mapping.
func NewStandardChannelMap() *StandardChannelMap {
	return &StandardChannelMap{}
}

// Sorter returns the position-based ordering the numbering assumes.
func (m *StandardChannelMap) Sorter() ObjectSorter { return StandardSorter{} }

// Initialize walks the sorted hierarchy and builds the prefix-sum
// tables mapping planes to channel blocks.
func (m *StandardChannelMap) Initialize(cryostats []*Cryostat) error {
	if len(cryostats) == 0 {
		return fmt.Errorf("channel map: no cryostats to map")
	}
	m.ranges = m.ranges[:0]
	m.nChannels = 0
	m.nTPCs = make([]int, len(cryostats))
	m.nPlanes = make([][]int, len(cryostats))
	m.firstChannel = make([][][]ChannelID, len(cryostats))

	next := ChannelID(0)
	for ci, cryo := range cryostats {
		m.nTPCs[ci] = cryo.NTPC()
		m.nPlanes[ci] = make([]int, cryo.NTPC())
		m.firstChannel[ci] = make([][]ChannelID, cryo.NTPC())
		for ti, tpc := range cryo.TPCs() {
			m.nPlanes[ci][ti] = tpc.NPlanes()
			m.firstChannel[ci][ti] = make([]ChannelID, tpc.NPlanes())
			for pi, plane := range tpc.Planes() {
				m.firstChannel[ci][ti][pi] = next
				m.ranges = append(m.ranges, channelRange{
					plane: plane.ID(),
					first: next,
					n:     plane.NWires(),
				})
				next += ChannelID(plane.NWires())
			}
		}
	}
	m.nChannels = int(next)
	return nil
}

// NChannels returns the total number of channels.
func (m *StandardChannelMap) NChannels() int { return m.nChannels }

// HasChannel reports whether ch maps to a wire.
func (m *StandardChannelMap) HasChannel(ch ChannelID) bool {
	return ch.IsValid() && int(ch) < m.nChannels
}

// rangeFor locates the channel block containing ch.
func (m *StandardChannelMap) rangeFor(ch ChannelID) (channelRange, bool) {
	if !m.HasChannel(ch) {
		return channelRange{}, false
	}
	i := sort.Search(len(m.ranges), func(i int) bool {
		return m.ranges[i].first+ChannelID(m.ranges[i].n) > ch
	})
	if i == len(m.ranges) {
		return channelRange{}, false
	}
	return m.ranges[i], true
}

// ChannelToWires returns the single wire behind the channel.
func (m *StandardChannelMap) ChannelToWires(ch ChannelID) []WireID {
	r, ok := m.rangeFor(ch)
	if !ok {
		return nil
	}
	return []WireID{WireIDAt(r.plane, int(ch-r.first))}
}

// PlaneWireToChannel returns the channel reading the wire.
func (m *StandardChannelMap) PlaneWireToChannel(wid WireID) (ChannelID, error) {
	first, err := m.planeFirstChannel(wid.AsPlaneID())
	if err != nil {
		return InvalidChannel, err
	}
	r, _ := m.rangeFor(first)
	if wid.Wire < 0 || wid.Wire >= r.n {
		return InvalidChannel, fmt.Errorf("%w: %v (plane has %d wires)", ErrNoSuchWire, wid, r.n)
	}
	return first + ChannelID(wid.Wire), nil
}

func (m *StandardChannelMap) planeFirstChannel(pid PlaneID) (ChannelID, error) {
	if pid.Cryostat < 0 || pid.Cryostat >= len(m.firstChannel) {
		return InvalidChannel, fmt.Errorf("%w: %v", ErrNoSuchCryostat, pid)
	}
	byTPC := m.firstChannel[pid.Cryostat]
	if pid.TPC < 0 || pid.TPC >= len(byTPC) {
		return InvalidChannel, fmt.Errorf("%w: %v", ErrNoSuchTPC, pid)
	}
	byPlane := byTPC[pid.TPC]
	if pid.Plane < 0 || pid.Plane >= len(byPlane) {
		return InvalidChannel, fmt.Errorf("%w: %v", ErrNoSuchPlane, pid)
	}
	return byPlane[pid.Plane], nil
}

// SignalTypeForChannel classifies the channel by the plane it reads.
func (m *StandardChannelMap) SignalTypeForChannel(ch ChannelID) SignalType {
	r, ok := m.rangeFor(ch)
	if !ok {
		return SignalUnknown
	}
	return m.signalTypeForPlane(r.plane)
}

func (m *StandardChannelMap) signalTypeForPlane(pid PlaneID) SignalType {
	nPlanes := m.nPlanes[pid.Cryostat][pid.TPC]
	if pid.Plane == nPlanes-1 {
		return SignalCollection
	}
	return SignalInduction
}

//
// TPC sets: one per TPC.
//

func (m *StandardChannelMap) NTPCsets(cid CryostatID) int {
	if cid.Cryostat < 0 || cid.Cryostat >= len(m.nTPCs) {
		return 0
	}
	return m.nTPCs[cid.Cryostat]
}

func (m *StandardChannelMap) MaxTPCsets() int {
	max := 0
	for _, n := range m.nTPCs {
		if n > max {
			max = n
		}
	}
	return max
}

func (m *StandardChannelMap) HasTPCset(id TPCsetID) bool {
	return id.TPCset >= 0 && id.TPCset < m.NTPCsets(id.AsCryostatID())
}

func (m *StandardChannelMap) TPCtoTPCset(tid TPCID) TPCsetID {
	id := TPCsetID{CryostatID: tid.CryostatID, TPCset: tid.TPC}
	if !m.HasTPCset(id) {
		return id.MarkInvalid()
	}
	return id
}

func (m *StandardChannelMap) TPCsetToTPCs(id TPCsetID) []TPCID {
	if !m.HasTPCset(id) {
		return nil
	}
	return []TPCID{{CryostatID: id.CryostatID, TPC: id.TPCset}}
}

//
// Readout planes: one per wire plane.
//

func (m *StandardChannelMap) NROPs(id TPCsetID) int {
	if !m.HasTPCset(id) {
		return 0
	}
	return m.nPlanes[id.Cryostat][id.TPCset]
}

func (m *StandardChannelMap) MaxROPs() int {
	max := 0
	for _, byTPC := range m.nPlanes {
		for _, n := range byTPC {
			if n > max {
				max = n
			}
		}
	}
	return max
}

func (m *StandardChannelMap) HasROP(id ROPID) bool {
	return id.ROP >= 0 && id.ROP < m.NROPs(id.AsTPCsetID())
}

func (m *StandardChannelMap) WirePlaneToROP(pid PlaneID) ROPID {
	id := ROPID{
		TPCsetID: TPCsetID{CryostatID: pid.CryostatID, TPCset: pid.TPC},
		ROP:      pid.Plane,
	}
	if !m.HasROP(id) {
		return id.MarkInvalid()
	}
	return id
}

func (m *StandardChannelMap) ROPtoWirePlanes(id ROPID) []PlaneID {
	if !m.HasROP(id) {
		return nil
	}
	return []PlaneID{{
		TPCID: TPCID{CryostatID: id.CryostatID, TPC: id.TPCset},
		Plane: id.ROP,
	}}
}

func (m *StandardChannelMap) ROPtoTPCs(id ROPID) []TPCID {
	if !m.HasROP(id) {
		return nil
	}
	return []TPCID{{CryostatID: id.CryostatID, TPC: id.TPCset}}
}

func (m *StandardChannelMap) ChannelToROP(ch ChannelID) ROPID {
	r, ok := m.rangeFor(ch)
	if !ok {
		return ROPID{}.MarkInvalid()
	}
	return m.WirePlaneToROP(r.plane)
}

func (m *StandardChannelMap) FirstChannelInROP(id ROPID) ChannelID {
	planes := m.ROPtoWirePlanes(id)
	if len(planes) == 0 {
		return InvalidChannel
	}
	first, err := m.planeFirstChannel(planes[0])
	if err != nil {
		return InvalidChannel
	}
	return first
}

func (m *StandardChannelMap) NChannelsInROP(id ROPID) int {
	first := m.FirstChannelInROP(id)
	if !first.IsValid() {
		return 0
	}
	r, _ := m.rangeFor(first)
	return r.n
}

func (m *StandardChannelMap) SignalTypeForROP(id ROPID) SignalType {
	planes := m.ROPtoWirePlanes(id)
	if len(planes) == 0 {
		return SignalUnknown
	}
	return m.signalTypeForPlane(planes[0])
}
