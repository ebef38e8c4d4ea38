package link_test

import (
	"bytes"
	"net"
	"testing"

	"github.com/go-test/deep"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"

	"github.com/m-lab/rtnetlink/link"
	"github.com/m-lab/rtnetlink/rtattr"
)

// parseInfoFromWire emits info as an IFLA_LINKINFO attribute and parses it
// back through the link attribute section.
func parseInfoFromWire(t *testing.T, info link.Info) link.Info {
	t.Helper()
	b := make([]byte, rtattr.Len(info))
	rtattr.Emit(b, info)
	attrs, err := link.ParseAttributes(b, unix.AF_UNSPEC)
	if err != nil {
		t.Fatal(err)
	}
	if len(attrs) != 1 {
		t.Fatal("Expected one attribute, got", attrs)
	}
	got, ok := attrs[0].(link.Info)
	if !ok {
		t.Fatal("Expected Info, got", attrs[0])
	}
	return got
}

func TestVxlanWire(t *testing.T) {
	data := link.VxlanData{
		link.VxlanID(42),
		link.VxlanLearning(true),
	}

	// Two records: 4 value bytes for the id, then a 1-byte flag padded
	// out to the next 4-byte boundary.
	if data.ValueLen() != 16 {
		t.Fatal("Nested value should be 16 bytes, got", data.ValueLen())
	}
	b := make([]byte, data.ValueLen())
	data.EmitValue(b)

	want := make([]byte, 16)
	nlenc.PutUint16(want[0:2], 8)
	nlenc.PutUint16(want[2:4], unix.IFLA_VXLAN_ID)
	nlenc.PutUint32(want[4:8], 42)
	nlenc.PutUint16(want[8:10], 5)
	nlenc.PutUint16(want[10:12], unix.IFLA_VXLAN_LEARNING)
	want[12] = 1
	if !bytes.Equal(b, want) {
		t.Errorf("Wire mismatch:\n got %v\nwant %v", b, want)
	}
}

func TestVxlanInfoRoundTrip(t *testing.T) {
	info := link.Info{
		link.InfoKind(link.KindVxlan),
		link.VxlanData{
			link.VxlanID(42),
			link.VxlanGroup{239, 1, 1, 1},
			link.VxlanPort(4789),
			link.VxlanPortRange{Low: 10000, High: 20000},
			link.VxlanTTL(64),
			link.VxlanLearning(true),
			link.VxlanUDPZeroCsumTX(false),
			link.VxlanGBP{},
			link.Other{Type: 200, Data: []byte{9}},
		},
	}
	got := parseInfoFromWire(t, info)
	if diff := deep.Equal(got, info); diff != nil {
		t.Error(diff)
	}
}

func TestVxlanPortByteOrder(t *testing.T) {
	// The UDP port is one of the few network-order fields.
	p := link.VxlanPort(4789)
	b := make([]byte, rtattr.Len(p))
	rtattr.Emit(b, p)
	if b[4] != 0x12 || b[5] != 0xb5 {
		t.Errorf("Port must be big endian on the wire, got %#x %#x", b[4], b[5])
	}
}

func TestPresenceOnlyAttributes(t *testing.T) {
	gbp := link.VxlanGBP{}
	if gbp.ValueLen() != 0 {
		t.Error("Presence flags carry no value, got", gbp.ValueLen())
	}
	if rtattr.Len(gbp) != rtattr.HeaderLen {
		t.Error("Presence flags occupy a bare header, got", rtattr.Len(gbp))
	}
}

func TestIPVlanInfo(t *testing.T) {
	info := link.Info{
		link.InfoKind(link.KindIPVlan),
		link.IPVlanData{
			link.IPVlanModeL2,
			link.IPVlanPrivate | 0x8000,
		},
	}
	got := parseInfoFromWire(t, info)
	if diff := deep.Equal(got, info); diff != nil {
		t.Error(diff)
	}

	data, ok := got[1].(link.IPVlanData)
	if !ok {
		t.Fatal("Expected IPVlanData, got", got[1])
	}
	flags, ok := data[1].(link.IPVlanFlags)
	if !ok {
		t.Fatal("Expected IPVlanFlags, got", data[1])
	}
	if !flags.Private() || flags.Vepa() {
		t.Error("Wrong named bits", flags)
	}
	if flags&0x8000 == 0 {
		t.Error("Unnamed flag bits must be retained", flags)
	}
}

func TestBondSlaveInfo(t *testing.T) {
	info := link.Info{
		link.InfoKind("veth"),
		link.InfoSlaveKind(link.KindBond),
		link.BondPortData{
			link.BondPortBackup,
			link.MiiUp,
			link.BondPortLinkFailureCount(2),
			link.BondPortQueueID(1),
			link.BondPortPrio(-1),
		},
	}
	got := parseInfoFromWire(t, info)
	if diff := deep.Equal(got, info); diff != nil {
		t.Error(diff)
	}
}

func TestUnknownDriverKindStaysOpaque(t *testing.T) {
	// No model exists for the dummy driver, so its data blob survives
	// verbatim.
	blob := []byte{8, 0, 1, 0, 1, 2, 3, 4}
	info := link.Info{
		link.InfoKind("dummy"),
		link.InfoData(blob),
	}
	got := parseInfoFromWire(t, info)
	if diff := deep.Equal(got, info); diff != nil {
		t.Error(diff)
	}
}

func TestDuplicateKindRecordsPreserved(t *testing.T) {
	// Duplicate records are data, not an error.  Two differing kind
	// strings must survive as two records with their own values, not
	// collapse to the last one seen.
	info := link.Info{
		link.InfoKind(link.KindVxlan),
		link.InfoKind("dummy"),
		link.InfoSlaveKind(link.KindBond),
		link.InfoSlaveKind("team"),
	}
	got := parseInfoFromWire(t, info)
	if diff := deep.Equal(got, info); diff != nil {
		t.Error(diff)
	}
}

func TestVxlanAddressWidth(t *testing.T) {
	// net.ParseIP returns a 16-byte representation even for IPv4, and
	// the address attributes must still emit their wire width.
	g := link.VxlanGroup(net.ParseIP("239.1.1.1"))
	b := make([]byte, rtattr.Len(g))
	rtattr.Emit(b, g)
	if want := []byte{239, 1, 1, 1}; !bytes.Equal(b[4:8], want) {
		t.Errorf("Group value = %v, want %v", b[4:8], want)
	}

	l := link.VxlanLocal6(net.IP{10, 0, 0, 1})
	b = make([]byte, rtattr.Len(l))
	rtattr.Emit(b, l)
	if want := (net.IP{10, 0, 0, 1}).To16(); !bytes.Equal(b[4:20], want) {
		t.Errorf("Local6 value = %v, want %v", b[4:20], want)
	}
}

func TestInfoDataBeforeKind(t *testing.T) {
	// Nothing in the format orders the kind string before the data
	// container; parsing must resolve the kind either way.
	data := link.VxlanData{link.VxlanID(7)}
	reordered := link.Info{
		data,
		link.InfoKind(link.KindVxlan),
	}
	got := parseInfoFromWire(t, reordered)
	if diff := deep.Equal(got, reordered); diff != nil {
		t.Error(diff)
	}
}
