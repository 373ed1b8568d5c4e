package geom

// ChannelMap is the strategy that binds wire IDs, readout groupings and
// flat channel numbers. The geometry core never interprets channel
// numbers itself; everything crossing the wire/channel/electronics
// boundary is forwarded here, so the core stays agnostic to the
// physical multiplexing scheme. A mapping is installed wholesale via
// Geometry.ApplyChannelMap and never mutated afterwards.
//
// One channel may multiplex several wires (ChannelToWires is 1->N);
// a wire always feeds exactly one channel (PlaneWireToChannel is N->1).
type ChannelMap interface {
	// Sorter returns the ordering this mapping numbers channels against.
	Sorter() ObjectSorter

	// Initialize digests the sorted hierarchy and builds the mapping
	// tables. Called once by Geometry.ApplyChannelMap after sorting.
	Initialize(cryostats []*Cryostat) error

	// NChannels returns the total number of readout channels.
	NChannels() int

	// HasChannel reports whether the channel number maps to wires.
	HasChannel(ch ChannelID) bool

	// ChannelToWires returns the wires multiplexed on the channel, in ID
	// order; nil for an unknown channel.
	ChannelToWires(ch ChannelID) []WireID

	// PlaneWireToChannel returns the channel reading the wire.
	PlaneWireToChannel(wid WireID) (ChannelID, error)

	// SignalTypeForChannel classifies the signal carried by the channel.
	SignalTypeForChannel(ch ChannelID) SignalType

	// TPC set grouping.
	NTPCsets(cid CryostatID) int
	MaxTPCsets() int
	HasTPCset(id TPCsetID) bool
	TPCtoTPCset(tid TPCID) TPCsetID
	TPCsetToTPCs(id TPCsetID) []TPCID

	// Readout plane grouping.
	NROPs(id TPCsetID) int
	MaxROPs() int
	HasROP(id ROPID) bool
	WirePlaneToROP(pid PlaneID) ROPID
	ROPtoWirePlanes(id ROPID) []PlaneID
	ROPtoTPCs(id ROPID) []TPCID
	ChannelToROP(ch ChannelID) ROPID
	FirstChannelInROP(id ROPID) ChannelID
	NChannelsInROP(id ROPID) int
	SignalTypeForROP(id ROPID) SignalType
}
