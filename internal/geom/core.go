package geom

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Params are the tunable knobs of the geometry service.
type Params struct {
	// DetectorName labels the loaded detector description.
	DetectorName string

	// PositionEpsilon is the relative tolerance applied to volume
	// containment tests: a point counts as inside a volume whose half
	// sizes, scaled by 1+PositionEpsilon, cover it.
	PositionEpsilon float64

	// MinWireZDist is the z clearance below which two wires are still
	// considered candidates for crossing in ChannelsIntersect.
	MinWireZDist float64
}

// DefaultParams returns the parameters used when a field is left zero.
func DefaultParams() Params {
	return Params{
		DetectorName:    "unknown",
		PositionEpsilon: 1e-4,
		MinWireZDist:    3.0,
	}
}

func (p Params) withDefaults() Params {
	def := DefaultParams()
	if p.DetectorName == "" {
		p.DetectorName = def.DetectorName
	}
	if p.PositionEpsilon <= 0 {
		p.PositionEpsilon = def.PositionEpsilon
	}
	if p.MinWireZDist <= 0 {
		p.MinWireZDist = def.MinWireZDist
	}
	return p
}

// Geometry is the service object tying the volume hierarchy to a
// channel mapping. It is built once, finalized once by ApplyChannelMap
// and read-only afterwards; concurrent reads are safe as long as no
// caller swaps the channel map mid-flight.
type Geometry struct {
	params    Params
	cryostats []*Cryostat
	chanMap   ChannelMap

	// opDetFirst[c] is the global number of the first optical detector
	// of cryostat c; opDetFirst[NCryostats] is the total count.
	opDetFirst []int
}

// New assembles a geometry service over the given cryostats. The
// hierarchy is not usable for queries until ApplyChannelMap has run.
func New(params Params, cryostats []*Cryostat) (*Geometry, error) {
	if len(cryostats) == 0 {
		return nil, fmt.Errorf("geometry %q: no cryostats", params.DetectorName)
	}
	return &Geometry{
		params:    params.withDefaults(),
		cryostats: cryostats,
	}, nil
}

// DetectorName returns the label of the loaded detector description.
func (g *Geometry) DetectorName() string { return g.params.DetectorName }

// ChannelMap returns the active mapping strategy, nil before
// ApplyChannelMap.
func (g *Geometry) ChannelMap() ChannelMap { return g.chanMap }

// wiggle is the scale factor for containment tests.
func (g *Geometry) wiggle() float64 { return 1 + g.params.PositionEpsilon }

// ApplyChannelMap finalizes the hierarchy under the given mapping: it
// sorts every level with the sorter the mapping prescribes, reassigns
// identifiers and recomputes the derived geometric quantities, builds
// the optical detector numbering table, initializes the mapping over
// the sorted hierarchy and finally publishes it. The previous mapping,
// if any, is replaced wholesale.
func (g *Geometry) ApplyChannelMap(m ChannelMap) error {
	sorter := m.Sorter()
	sorter.SortCryostats(g.cryostats)
	for ci, cryo := range g.cryostats {
		cryo.SortSubVolumes(sorter)
		cryo.UpdateAfterSorting(NewCryostatID(ci))
	}
	g.buildOpDetTable()
	if err := m.Initialize(g.cryostats); err != nil {
		return fmt.Errorf("initializing channel map: %w", err)
	}
	g.chanMap = m
	return nil
}

//
// Counts.
//

// NCryostats returns the number of cryostats.
func (g *Geometry) NCryostats() int { return len(g.cryostats) }

// NTPCs returns the number of TPCs in the given cryostat, 0 if it does
// not exist.
func (g *Geometry) NTPCs(cid CryostatID) int {
	if !g.HasCryostat(cid) {
		return 0
	}
	return g.cryostats[cid.Cryostat].NTPC()
}

// TotalNTPCs returns the number of TPCs in the whole detector.
func (g *Geometry) TotalNTPCs() int {
	n := 0
	for _, c := range g.cryostats {
		n += c.NTPC()
	}
	return n
}

// MaxTPCs returns the largest TPC count of any cryostat.
func (g *Geometry) MaxTPCs() int {
	max := 0
	for _, c := range g.cryostats {
		if n := c.NTPC(); n > max {
			max = n
		}
	}
	return max
}

// MaxPlanes returns the largest plane count of any TPC.
func (g *Geometry) MaxPlanes() int {
	max := 0
	for _, c := range g.cryostats {
		if n := c.MaxPlanes(); n > max {
			max = n
		}
	}
	return max
}

// MaxWires returns the largest wire count of any plane.
func (g *Geometry) MaxWires() int {
	max := 0
	for _, c := range g.cryostats {
		if n := c.MaxWires(); n > max {
			max = n
		}
	}
	return max
}

// Views returns the distinct views present in the detector, in the
// order their planes appear.
func (g *Geometry) Views() []View {
	var views []View
	seen := make(map[View]bool)
	for _, c := range g.cryostats {
		for _, t := range c.TPCs() {
			for _, p := range t.Planes() {
				if !seen[p.View()] {
					seen[p.View()] = true
					views = append(views, p.View())
				}
			}
		}
	}
	return views
}

// NViews returns the number of distinct views.
func (g *Geometry) NViews() int { return len(g.Views()) }

//
// Accessors by identifier. Missing elements are hard errors carrying
// the offending ID.
//

// HasCryostat reports whether the ID names an existing cryostat.
func (g *Geometry) HasCryostat(cid CryostatID) bool {
	return cid.Cryostat >= 0 && cid.Cryostat < len(g.cryostats)
}

// HasTPC reports whether the ID names an existing TPC.
func (g *Geometry) HasTPC(tid TPCID) bool {
	return g.HasCryostat(tid.CryostatID) && g.cryostats[tid.Cryostat].HasTPC(tid.TPC)
}

// HasPlane reports whether the ID names an existing plane.
func (g *Geometry) HasPlane(pid PlaneID) bool {
	if !g.HasTPC(pid.TPCID) {
		return false
	}
	return g.cryostats[pid.Cryostat].tpcs[pid.TPC].HasPlane(pid.Plane)
}

// HasWire reports whether the ID names an existing wire.
func (g *Geometry) HasWire(wid WireID) bool {
	if !g.HasPlane(wid.PlaneID) {
		return false
	}
	return g.cryostats[wid.Cryostat].tpcs[wid.TPC].planes[wid.Plane].HasWire(wid.Wire)
}

// Cryostat returns the cryostat with the given ID.
func (g *Geometry) Cryostat(cid CryostatID) (*Cryostat, error) {
	if !g.HasCryostat(cid) {
		return nil, fmt.Errorf("%w: %v", ErrNoSuchCryostat, cid)
	}
	return g.cryostats[cid.Cryostat], nil
}

// TPC returns the TPC with the given ID.
func (g *Geometry) TPC(tid TPCID) (*TPC, error) {
	cryo, err := g.Cryostat(tid.AsCryostatID())
	if err != nil {
		return nil, err
	}
	tpc, err := cryo.TPC(tid.TPC)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSuchTPC, tid)
	}
	return tpc, nil
}

// Plane returns the plane with the given ID.
func (g *Geometry) Plane(pid PlaneID) (*Plane, error) {
	tpc, err := g.TPC(pid.AsTPCID())
	if err != nil {
		return nil, err
	}
	plane, err := tpc.Plane(pid.Plane)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSuchPlane, pid)
	}
	return plane, nil
}

// Wire returns the wire with the given ID.
func (g *Geometry) Wire(wid WireID) (Wire, error) {
	plane, err := g.Plane(wid.AsPlaneID())
	if err != nil {
		return Wire{}, err
	}
	wire, err := plane.Wire(wid.Wire)
	if err != nil {
		return Wire{}, fmt.Errorf("%w: %v", ErrNoSuchWire, wid)
	}
	return wire, nil
}

// Cryostats returns the ordered cryostats.
func (g *Geometry) Cryostats() []*Cryostat { return g.cryostats }

//
// Position queries.
//

// PositionToCryostat returns the cryostat containing the point.
func (g *Geometry) PositionToCryostat(p r3.Vec) (*Cryostat, bool) {
	for _, c := range g.cryostats {
		if c.ContainsPosition(p, g.wiggle()) {
			return c, true
		}
	}
	return nil, false
}

// PositionToCryostatID returns the ID of the cryostat containing the
// point; the ID is invalid if no cryostat contains it.
func (g *Geometry) PositionToCryostatID(p r3.Vec) CryostatID {
	if c, ok := g.PositionToCryostat(p); ok {
		return c.ID()
	}
	return CryostatID{}.MarkInvalid()
}

// PositionToTPC returns the TPC containing the point.
func (g *Geometry) PositionToTPC(p r3.Vec) (*TPC, bool) {
	cryo, ok := g.PositionToCryostat(p)
	if !ok {
		return nil, false
	}
	return cryo.PositionToTPC(p, g.wiggle())
}

// FindTPCAtPosition returns the ID of the TPC containing the point.
// When the point is inside a cryostat but outside all of its TPCs, the
// returned ID carries the cryostat index but is marked invalid; when it
// is outside every cryostat the whole ID is invalid.
func (g *Geometry) FindTPCAtPosition(p r3.Vec) TPCID {
	cryo, ok := g.PositionToCryostat(p)
	if !ok {
		return TPCID{}.MarkInvalid()
	}
	tpc, ok := cryo.PositionToTPC(p, g.wiggle())
	if !ok {
		return TPCID{CryostatID: cryo.ID()}.MarkInvalid()
	}
	return tpc.ID()
}

// NearestWireID returns the ID of the wire of the given plane closest
// to the point. Positions projecting outside the wire range produce an
// InvalidWireError carrying both the nominal and the closest wire.
func (g *Geometry) NearestWireID(p r3.Vec, pid PlaneID) (WireID, error) {
	plane, err := g.Plane(pid)
	if err != nil {
		return WireID{}.MarkInvalid(), err
	}
	return plane.NearestWireID(p)
}

// NearestChannel returns the channel reading the wire of the given
// plane closest to the point. On an out-of-range position the closest
// wire's channel is still resolved and returned along with the error.
func (g *Geometry) NearestChannel(p r3.Vec, pid PlaneID) (ChannelID, error) {
	wid, err := g.NearestWireID(p, pid)
	if err != nil {
		var iwe *InvalidWireError
		if !errors.As(err, &iwe) {
			return InvalidChannel, err
		}
		ch, chErr := g.chanMap.PlaneWireToChannel(iwe.Better)
		if chErr != nil {
			return InvalidChannel, chErr
		}
		return ch, err
	}
	return g.chanMap.PlaneWireToChannel(wid)
}

// WireCoordinate returns the wire-pitch coordinate of the point on the
// given plane.
func (g *Geometry) WireCoordinate(p r3.Vec, pid PlaneID) (float64, error) {
	plane, err := g.Plane(pid)
	if err != nil {
		return 0, err
	}
	return plane.WireCoordinate(p), nil
}

// WireEndPoints returns the two endpoints of the wire, start first.
func (g *Geometry) WireEndPoints(wid WireID) (start, end r3.Vec, err error) {
	wire, err := g.Wire(wid)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	return wire.Start(), wire.End(), nil
}

//
// Iteration bounds. The end ID of a level is the begin ID of the next
// parent when the parent has at least one child, and an invalid copy of
// the begin ID otherwise, so that begin == end exactly for empty
// parents.
//

// BeginCryostatID returns the ID of the first cryostat.
func (g *Geometry) BeginCryostatID() CryostatID { return NewCryostatID(0) }

// EndCryostatID returns the ID one past the last cryostat.
func (g *Geometry) EndCryostatID() CryostatID {
	return NewCryostatID(len(g.cryostats))
}

// BeginTPCID returns the ID of the first TPC of the cryostat.
func (g *Geometry) BeginTPCID(cid CryostatID) TPCID {
	return TPCID{CryostatID: cid, TPC: 0}
}

// EndTPCID returns the ID one past the last TPC of the cryostat.
func (g *Geometry) EndTPCID(cid CryostatID) TPCID {
	if g.NTPCs(cid) == 0 {
		return g.BeginTPCID(cid).MarkInvalid()
	}
	return TPCID{CryostatID: NewCryostatID(cid.Cryostat + 1), TPC: 0}
}

// BeginPlaneID returns the ID of the first plane of the TPC.
func (g *Geometry) BeginPlaneID(tid TPCID) PlaneID {
	return PlaneID{TPCID: tid, Plane: 0}
}

// EndPlaneID returns the ID one past the last plane of the TPC.
func (g *Geometry) EndPlaneID(tid TPCID) PlaneID {
	tpc, err := g.TPC(tid)
	if err != nil || tpc.NPlanes() == 0 {
		return g.BeginPlaneID(tid).MarkInvalid()
	}
	next := TPCID{CryostatID: tid.CryostatID, TPC: tid.TPC + 1}
	next.Valid = true
	return PlaneID{TPCID: next, Plane: 0}
}

// BeginWireID returns the ID of the first wire of the plane.
func (g *Geometry) BeginWireID(pid PlaneID) WireID {
	return WireID{PlaneID: pid, Wire: 0}
}

// EndWireID returns the ID one past the last wire of the plane.
func (g *Geometry) EndWireID(pid PlaneID) WireID {
	plane, err := g.Plane(pid)
	if err != nil || plane.NWires() == 0 {
		return g.BeginWireID(pid).MarkInvalid()
	}
	next := PlaneID{TPCID: pid.TPCID, Plane: pid.Plane + 1}
	next.Valid = true
	return WireID{PlaneID: next, Wire: 0}
}

//
// Pitch and angle queries.
//

// WirePitch returns the wire pitch of the plane.
func (g *Geometry) WirePitch(pid PlaneID) (float64, error) {
	plane, err := g.Plane(pid)
	if err != nil {
		return 0, err
	}
	return plane.WirePitch(), nil
}

// WirePitchForView returns the pitch of the first plane with the given
// view, assuming all planes of a view share it.
func (g *Geometry) WirePitchForView(v View) (float64, error) {
	for _, c := range g.cryostats {
		for _, t := range c.TPCs() {
			for _, p := range t.Planes() {
				if p.View() == v {
					return p.WirePitch(), nil
				}
			}
		}
	}
	return 0, fmt.Errorf("%w: view %s", ErrNoSuchView, ViewName(v))
}

// WireAngleToVertical returns the angle of the wires of the given view
// with respect to the z axis, in the TPC named by the ID.
func (g *Geometry) WireAngleToVertical(v View, tid TPCID) (float64, error) {
	tpc, err := g.TPC(tid)
	if err != nil {
		return 0, err
	}
	plane, err := tpc.PlaneWithView(v)
	if err != nil {
		return 0, err
	}
	return plane.ThetaZ(), nil
}

// PlanePitch returns the distance between two planes of a TPC along the
// first plane's normal.
func (g *Geometry) PlanePitch(tid TPCID, p1, p2 int) (float64, error) {
	tpc, err := g.TPC(tid)
	if err != nil {
		return 0, err
	}
	return tpc.PlanePitch(p1, p2)
}

//
// Channel and readout pass-throughs.
//

// NChannels returns the total number of readout channels.
func (g *Geometry) NChannels() int { return g.chanMap.NChannels() }

// HasChannel reports whether the channel exists.
func (g *Geometry) HasChannel(ch ChannelID) bool { return g.chanMap.HasChannel(ch) }

// ChannelToWires returns the wires read by the channel, nil if the
// channel does not exist.
func (g *Geometry) ChannelToWires(ch ChannelID) []WireID {
	return g.chanMap.ChannelToWires(ch)
}

// PlaneWireToChannel returns the channel reading the wire.
func (g *Geometry) PlaneWireToChannel(wid WireID) (ChannelID, error) {
	return g.chanMap.PlaneWireToChannel(wid)
}

// SignalType classifies the signal carried by the channel.
func (g *Geometry) SignalType(ch ChannelID) SignalType {
	return g.chanMap.SignalTypeForChannel(ch)
}

// ChannelView returns the view of the plane whose wires the channel
// reads, ViewUnknown if the channel does not exist.
func (g *Geometry) ChannelView(ch ChannelID) View {
	wires := g.chanMap.ChannelToWires(ch)
	if len(wires) == 0 {
		return ViewUnknown
	}
	plane, err := g.Plane(wires[0].AsPlaneID())
	if err != nil {
		return ViewUnknown
	}
	return plane.View()
}

// NTPCsets returns the number of TPC sets in the cryostat.
func (g *Geometry) NTPCsets(cid CryostatID) int { return g.chanMap.NTPCsets(cid) }

// MaxTPCsets returns the largest TPC set count of any cryostat.
func (g *Geometry) MaxTPCsets() int { return g.chanMap.MaxTPCsets() }

// HasTPCset reports whether the TPC set exists.
func (g *Geometry) HasTPCset(id TPCsetID) bool { return g.chanMap.HasTPCset(id) }

// TPCtoTPCset returns the TPC set containing the TPC.
func (g *Geometry) TPCtoTPCset(tid TPCID) TPCsetID { return g.chanMap.TPCtoTPCset(tid) }

// TPCsetToTPCs returns the TPCs grouped in the set.
func (g *Geometry) TPCsetToTPCs(id TPCsetID) []TPCID { return g.chanMap.TPCsetToTPCs(id) }

// NROPs returns the number of readout planes in the TPC set.
func (g *Geometry) NROPs(id TPCsetID) int { return g.chanMap.NROPs(id) }

// MaxROPs returns the largest readout plane count of any TPC set.
func (g *Geometry) MaxROPs() int { return g.chanMap.MaxROPs() }

// HasROP reports whether the readout plane exists.
func (g *Geometry) HasROP(id ROPID) bool { return g.chanMap.HasROP(id) }

// WirePlaneToROP returns the readout plane covering the wire plane.
func (g *Geometry) WirePlaneToROP(pid PlaneID) ROPID { return g.chanMap.WirePlaneToROP(pid) }

// ROPtoWirePlanes returns the wire planes grouped in the readout plane.
func (g *Geometry) ROPtoWirePlanes(id ROPID) []PlaneID { return g.chanMap.ROPtoWirePlanes(id) }

// ROPtoTPCs returns the TPCs touched by the readout plane.
func (g *Geometry) ROPtoTPCs(id ROPID) []TPCID { return g.chanMap.ROPtoTPCs(id) }

// ChannelToROP returns the readout plane owning the channel.
func (g *Geometry) ChannelToROP(ch ChannelID) ROPID { return g.chanMap.ChannelToROP(ch) }

// FirstChannelInROP returns the lowest channel of the readout plane.
func (g *Geometry) FirstChannelInROP(id ROPID) ChannelID {
	return g.chanMap.FirstChannelInROP(id)
}

// NChannelsInROP returns the channel count of the readout plane.
func (g *Geometry) NChannelsInROP(id ROPID) int { return g.chanMap.NChannelsInROP(id) }

// SignalTypeForROP classifies the signal of the readout plane.
func (g *Geometry) SignalTypeForROP(id ROPID) SignalType {
	return g.chanMap.SignalTypeForROP(id)
}

//
// Report.
//

// Info returns a textual description of the detector hierarchy.
// Verbosity runs from 0 (counts only) to 4 (per-wire detail).
func (g *Geometry) Info(verbosity int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "detector %q: %d cryostat(s), %d TPC(s), %d channel(s)\n",
		g.params.DetectorName, g.NCryostats(), g.TotalNTPCs(), g.NChannels())
	if verbosity < 1 {
		return b.String()
	}
	for _, cryo := range g.cryostats {
		fmt.Fprintf(&b, "  %v: box %v to %v, %d TPC(s), %d optical detector(s)\n",
			cryo.ID(), cryo.Box().Min(), cryo.Box().Max(), cryo.NTPC(), cryo.NOpDet())
		if verbosity < 2 {
			continue
		}
		for _, tpc := range cryo.TPCs() {
			fmt.Fprintf(&b, "    %v: drift direction %v, distance %g, %d plane(s)\n",
				tpc.ID(), tpc.DriftDirection(), tpc.DriftDistance(), tpc.NPlanes())
			if verbosity < 3 {
				continue
			}
			for _, plane := range tpc.Planes() {
				fmt.Fprintf(&b, "      %s\n", plane.PlaneInfo("      ", verbosity-3))
			}
		}
	}
	return b.String()
}
