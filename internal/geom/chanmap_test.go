package geom_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sabasehrish/larcorealg/internal/geom"
	"github.com/sabasehrish/larcorealg/internal/geom/geomtest"
)

func TestStandardChannelCount(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	want := 3 * geomtest.WiresPerPlane
	if got := g.NChannels(); got != want {
		t.Errorf("NChannels() = %d, want %d", got, want)
	}
	if !g.HasChannel(0) || !g.HasChannel(geom.ChannelID(want-1)) {
		t.Error("first or last channel missing")
	}
	if g.HasChannel(geom.ChannelID(want)) {
		t.Error("one past the last channel exists")
	}
	if g.HasChannel(geom.InvalidChannel) {
		t.Error("invalid channel exists")
	}
}

func TestChannelNumberingIsPlaneMajor(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	cases := []struct {
		wid  geom.WireID
		want geom.ChannelID
	}{
		{geom.NewWireID(0, 0, 0, 0), 0},
		{geom.NewWireID(0, 0, 0, 40), 40},
		{geom.NewWireID(0, 0, 1, 0), 41},
		{geom.NewWireID(0, 0, 1, 5), 46},
		{geom.NewWireID(0, 0, 2, 0), 82},
		{geom.NewWireID(0, 0, 2, 40), 122},
	}
	for _, tc := range cases {
		got, err := g.PlaneWireToChannel(tc.wid)
		if err != nil {
			t.Fatalf("PlaneWireToChannel(%v): %v", tc.wid, err)
		}
		if got != tc.want {
			t.Errorf("PlaneWireToChannel(%v) = %d, want %d", tc.wid, got, tc.want)
		}
	}
}

func TestChannelToWiresRoundTrip(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	for ch := geom.ChannelID(0); int(ch) < g.NChannels(); ch++ {
		wids := g.ChannelToWires(ch)
		if len(wids) != 1 {
			t.Fatalf("channel %d reads %d wires, want 1", ch, len(wids))
		}
		back, err := g.PlaneWireToChannel(wids[0])
		if err != nil {
			t.Fatalf("PlaneWireToChannel(%v): %v", wids[0], err)
		}
		if back != ch {
			t.Errorf("channel %d -> %v -> channel %d", ch, wids[0], back)
		}
	}
	if wids := g.ChannelToWires(geom.ChannelID(g.NChannels())); wids != nil {
		t.Errorf("out-of-range channel maps to wires %v", wids)
	}
}

func TestPlaneWireToChannelErrors(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	if _, err := g.PlaneWireToChannel(geom.NewWireID(0, 0, 0, 41)); !errors.Is(err, geom.ErrNoSuchWire) {
		t.Errorf("bad wire error = %v, want ErrNoSuchWire", err)
	}
	if _, err := g.PlaneWireToChannel(geom.NewWireID(0, 0, 3, 0)); !errors.Is(err, geom.ErrNoSuchPlane) {
		t.Errorf("bad plane error = %v, want ErrNoSuchPlane", err)
	}
	if _, err := g.PlaneWireToChannel(geom.NewWireID(1, 0, 0, 0)); !errors.Is(err, geom.ErrNoSuchCryostat) {
		t.Errorf("bad cryostat error = %v, want ErrNoSuchCryostat", err)
	}
}

func TestSignalTypes(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	// The plane farthest from the drift volume collects; the rest
	// induce.
	if got := g.SignalType(0); got != geom.SignalInduction {
		t.Errorf("first plane signal = %v, want induction", got)
	}
	if got := g.SignalType(50); got != geom.SignalInduction {
		t.Errorf("middle plane signal = %v, want induction", got)
	}
	if got := g.SignalType(100); got != geom.SignalCollection {
		t.Errorf("last plane signal = %v, want collection", got)
	}
	if got := g.SignalType(geom.InvalidChannel); got != geom.SignalUnknown {
		t.Errorf("invalid channel signal = %v, want unknown", got)
	}
}

func TestChannelView(t *testing.T) {
	g := geomtest.MustThreePlane(t)
	for ch, want := range map[geom.ChannelID]geom.View{
		10:  geom.ViewY,
		50:  geom.ViewV,
		100: geom.ViewU,
	} {
		if got := g.ChannelView(ch); got != want {
			t.Errorf("ChannelView(%d) = %v, want %v", ch, got, want)
		}
	}
	if got := g.ChannelView(geom.ChannelID(999)); got != geom.ViewUnknown {
		t.Errorf("ChannelView(out of range) = %v, want unknown", got)
	}
}

func TestTPCsetMirrorsTPC(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	cid := geom.NewCryostatID(0)
	if got := g.NTPCsets(cid); got != 1 {
		t.Fatalf("NTPCsets = %d, want 1", got)
	}
	if g.MaxTPCsets() != 1 {
		t.Errorf("MaxTPCsets = %d, want 1", g.MaxTPCsets())
	}

	sid := g.TPCtoTPCset(geom.NewTPCID(0, 0))
	if !sid.Valid || sid.TPCset != 0 {
		t.Fatalf("TPCtoTPCset = %v", sid)
	}
	if !g.HasTPCset(sid) {
		t.Error("mapped TPC set does not exist")
	}
	if diff := cmp.Diff([]geom.TPCID{geom.NewTPCID(0, 0)}, g.TPCsetToTPCs(sid)); diff != "" {
		t.Errorf("TPCsetToTPCs mismatch (-want +got):\n%s", diff)
	}

	bad := g.TPCtoTPCset(geom.NewTPCID(0, 9))
	if bad.Valid {
		t.Errorf("TPC set for missing TPC is valid: %v", bad)
	}
}

func TestROPMirrorsPlane(t *testing.T) {
	g := geomtest.MustThreePlane(t)

	sid := g.TPCtoTPCset(geom.NewTPCID(0, 0))
	if got := g.NROPs(sid); got != 3 {
		t.Fatalf("NROPs = %d, want 3", got)
	}
	if g.MaxROPs() != 3 {
		t.Errorf("MaxROPs = %d, want 3", g.MaxROPs())
	}

	rid := g.WirePlaneToROP(geom.NewPlaneID(0, 0, 1))
	if !rid.Valid || rid.ROP != 1 {
		t.Fatalf("WirePlaneToROP = %v", rid)
	}
	if !g.HasROP(rid) {
		t.Error("mapped readout plane does not exist")
	}
	if diff := cmp.Diff([]geom.PlaneID{geom.NewPlaneID(0, 0, 1)}, g.ROPtoWirePlanes(rid)); diff != "" {
		t.Errorf("ROPtoWirePlanes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]geom.TPCID{geom.NewTPCID(0, 0)}, g.ROPtoTPCs(rid)); diff != "" {
		t.Errorf("ROPtoTPCs mismatch (-want +got):\n%s", diff)
	}

	if got := g.FirstChannelInROP(rid); got != 41 {
		t.Errorf("FirstChannelInROP = %d, want 41", got)
	}
	if got := g.NChannelsInROP(rid); got != geomtest.WiresPerPlane {
		t.Errorf("NChannelsInROP = %d, want %d", got, geomtest.WiresPerPlane)
	}

	if got := g.ChannelToROP(46); got != rid {
		t.Errorf("ChannelToROP(46) = %v, want %v", got, rid)
	}
	badROP := g.ChannelToROP(geom.ChannelID(999))
	if badROP.Valid {
		t.Errorf("readout plane for missing channel is valid: %v", badROP)
	}

	last := g.WirePlaneToROP(geom.NewPlaneID(0, 0, 2))
	if got := g.SignalTypeForROP(last); got != geom.SignalCollection {
		t.Errorf("last readout plane signal = %v, want collection", got)
	}
}
