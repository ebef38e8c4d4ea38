package neigh_test

import (
	"errors"
	"log"
	"net"
	"testing"

	"github.com/go-test/deep"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"

	"github.com/m-lab/rtnetlink/neigh"
	"github.com/m-lab/rtnetlink/rtattr"
)

func init() {
	// Always prepend the filename and line number.
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func TestMessageRoundTrip(t *testing.T) {
	hw, err := net.ParseMAC("52:54:00:12:34:56")
	if err != nil {
		t.Fatal(err)
	}
	msg := neigh.Message{
		Header: neigh.Header{
			Family:  unix.AF_INET,
			IfIndex: 2,
			State:   unix.NUD_REACHABLE,
			Flags:   unix.NTF_ROUTER,
			Type:    unix.RTN_UNICAST,
		},
		Attributes: []neigh.Attribute{
			neigh.Destination{192, 168, 1, 1},
			neigh.LLAddr(hw),
			neigh.CacheInfo{Confirmed: 100, Used: 50, Updated: 75, RefCount: 2},
			neigh.Probes(1),
			neigh.Other{Type: 99, Data: []byte{1, 2}},
		},
	}

	parsed, err := neigh.ParseMessage(msg.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(*parsed, msg); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(parsed.Marshal(), msg.Marshal()); diff != nil {
		t.Error(diff)
	}
}

func TestDestinationWidthByFamily(t *testing.T) {
	dst := neigh.Destination{10, 0, 0, 1}
	b := make([]byte, rtattr.Len(dst))
	rtattr.Emit(b, dst)

	// An IPv4-width destination in an AF_INET6 message is malformed.
	if _, err := neigh.ParseAttributes(b, unix.AF_INET6); !errors.Is(err, rtattr.ErrInvalidLength) {
		t.Error("4 destination bytes under AF_INET6 should fail, got", err)
	}
	attrs, err := neigh.ParseAttributes(b, unix.AF_INET)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(attrs, []neigh.Attribute{dst}); diff != nil {
		t.Error(diff)
	}
}

func TestDestinationUnknownFamilyByLength(t *testing.T) {
	ip := net.ParseIP("fe80::1")
	dst := neigh.Destination(ip)
	b := make([]byte, rtattr.Len(dst))
	rtattr.Emit(b, dst)

	// MPLS and friends have no fixed width; the payload length decides.
	attrs, err := neigh.ParseAttributes(b, unix.AF_UNSPEC)
	if err != nil {
		t.Fatal(err)
	}
	if net.IP(attrs[0].(neigh.Destination)).String() != "fe80::1" {
		t.Error("Wrong destination", attrs[0])
	}
}

func TestCacheInfoLayout(t *testing.T) {
	v := make([]byte, neigh.CacheInfoLen)
	nlenc.PutUint32(v[0:4], 10)
	nlenc.PutUint32(v[4:8], 20)
	nlenc.PutUint32(v[8:12], 30)
	nlenc.PutUint32(v[12:16], 40)

	ci, err := neigh.ParseCacheInfo(v)
	if err != nil {
		t.Fatal(err)
	}
	want := neigh.CacheInfo{Confirmed: 10, Used: 20, Updated: 30, RefCount: 40}
	if diff := deep.Equal(ci, want); diff != nil {
		t.Error(diff)
	}

	if _, err := neigh.ParseCacheInfo(v[:12]); !errors.Is(err, rtattr.ErrTruncated) {
		t.Error("Short cache info should fail, got", err)
	}
}

func TestFDBAttributes(t *testing.T) {
	attrs := []neigh.Attribute{
		neigh.Vlan(100),
		neigh.Port(4789),
		neigh.VNI(42),
		neigh.IfIndex(3),
		neigh.Master(7),
	}
	var b []byte
	for _, a := range attrs {
		rec := make([]byte, rtattr.Len(a))
		rtattr.Emit(rec, a)
		b = append(b, rec...)
	}

	got, err := neigh.ParseAttributes(b, unix.AF_BRIDGE)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(got, attrs); diff != nil {
		t.Error(diff)
	}
}

func TestPortByteOrder(t *testing.T) {
	p := neigh.Port(4789)
	b := make([]byte, rtattr.Len(p))
	rtattr.Emit(b, p)
	if b[4] != 0x12 || b[5] != 0xb5 {
		t.Errorf("Port must be big endian on the wire, got %#x %#x", b[4], b[5])
	}
}
