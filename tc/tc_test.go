package tc_test

import (
	"log"
	"net"
	"testing"

	"github.com/go-test/deep"
	"golang.org/x/sys/unix"

	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/m-lab/rtnetlink/tc"
)

func init() {
	// Always prepend the filename and line number.
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func TestFqCodelRoundTrip(t *testing.T) {
	msg := tc.Message{
		Header: tc.Header{
			Family:  unix.AF_UNSPEC,
			IfIndex: 2,
			Handle:  0x8001 << 16,
			Parent:  0xffffffff,
		},
		Attributes: []tc.Attribute{
			tc.Kind(tc.KindFqCodel),
			tc.Options{
				tc.FqCodelTarget(4999),
				tc.FqCodelLimit(10240),
				tc.FqCodelInterval(99999),
				tc.FqCodelEcn(1),
				tc.FqCodelFlows(1024),
				tc.FqCodelQuantum(1514),
				tc.FqCodelDropBatchSize(64),
				tc.FqCodelMemoryLimit(32 << 20),
				tc.Other{Type: 99, Data: []byte{1, 0, 0, 0}},
			},
			tc.HwOffload(0),
		},
	}

	parsed, err := tc.ParseMessage(msg.Marshal())
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

func TestFilterRoundTrip(t *testing.T) {
	matchall := tc.Message{
		Header: tc.Header{IfIndex: 3, Parent: 0xfffffff1},
		Attributes: []tc.Attribute{
			tc.Kind(tc.KindMatchall),
			tc.Chain(0),
			tc.Options{
				tc.MatchallClassID(0x10001),
				tc.MatchallFlags(8),
			},
		},
	}
	u32 := tc.Message{
		Header: tc.Header{IfIndex: 3},
		Attributes: []tc.Attribute{
			tc.Kind(tc.KindU32),
			tc.Options{
				tc.U32ClassID(0x10002),
				tc.U32Hash(0x80000000),
				tc.U32Divisor(256),
				tc.U32Flags(1),
			},
		},
	}

	for _, msg := range []tc.Message{matchall, u32} {
		parsed, err := tc.ParseMessage(msg.Marshal())
		if err != nil {
			t.Fatal(err)
		}
		if diff := deep.Equal(*parsed, msg); diff != nil {
			t.Error(diff)
		}
	}
}

func TestFlowerRoundTrip(t *testing.T) {
	msg := tc.Message{
		Header: tc.Header{IfIndex: 4, Parent: 0xfffffff1},
		Attributes: []tc.Attribute{
			tc.Kind(tc.KindFlower),
			tc.Chain(1),
			tc.Options{
				tc.FlowerClassID(0x10003),
				tc.FlowerKeyEthType(0x0800),
				tc.FlowerKeyIPProto(6),
				tc.FlowerKeyIPv4Src(net.IP{10, 0, 0, 0}),
				tc.FlowerKeyIPv4SrcMask(net.IP{255, 0, 0, 0}),
				tc.FlowerKeyIPv4Dst(net.IP{192, 168, 1, 9}),
				tc.FlowerKeyIPv4DstMask(net.IP{255, 255, 255, 255}),
				tc.FlowerKeyTCPDst(443),
				tc.FlowerFlags(1),
				tc.Other{Type: 99, Data: []byte{7, 0, 0, 0}},
			},
		},
	}
	parsed, err := tc.ParseMessage(msg.Marshal())
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

func TestFlowerPortByteOrder(t *testing.T) {
	// Ethertype and port keys are network order on the wire.
	opts := tc.Options{tc.FlowerKeyEthType(0x86dd), tc.FlowerKeyUDPDst(4789)}
	b := make([]byte, rtattr.Len(opts))
	rtattr.Emit(b, opts)

	// Each record is a 4-byte header plus a 2-byte value padded to 4.
	if b[4] != 0x86 || b[5] != 0xdd {
		t.Errorf("ethertype bytes = %#x %#x, want 0x86 0xdd", b[4], b[5])
	}
	if b[12] != 0x12 || b[13] != 0xb5 {
		t.Errorf("port bytes = %#x %#x, want 0x12 0xb5", b[12], b[13])
	}
}

func TestIngressOptionsSurfaceAsOpaque(t *testing.T) {
	msg := tc.Message{
		Header: tc.Header{IfIndex: 2, Parent: 0xfffffff1},
		Attributes: []tc.Attribute{
			tc.Kind(tc.KindIngress),
			tc.Options{
				tc.Other{Type: 1, Data: []byte{4, 0, 0, 0}},
			},
		},
	}
	parsed, err := tc.ParseMessage(msg.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(*parsed, msg); diff != nil {
		t.Error(diff)
	}
}

func TestUnknownKindOptionsStayWhole(t *testing.T) {
	// sfq has no model here.  Its options value must come back as one
	// opaque record spanning the whole value, not split into records.
	blob := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	kind := tc.Kind("sfq")
	opts := tc.Other{Type: 2, Data: blob}

	b := make([]byte, rtattr.Len(kind)+rtattr.Len(opts))
	n := rtattr.Emit(b, kind)
	rtattr.Emit(b[n:], opts)

	attrs, err := tc.ParseAttributes(b)
	if err != nil {
		t.Fatal(err)
	}
	want := []tc.Attribute{kind, opts}
	if diff := deep.Equal(attrs, want); diff != nil {
		t.Error(diff)
	}
}

func TestKindAfterOptions(t *testing.T) {
	// The kind string may follow the options on the wire; parsing makes
	// two passes so gating still works.
	opts := tc.Options{tc.FqCodelTarget(5000)}
	kind := tc.Kind(tc.KindFqCodel)

	b := make([]byte, rtattr.Len(opts)+rtattr.Len(kind))
	n := rtattr.Emit(b, opts)
	rtattr.Emit(b[n:], kind)

	attrs, err := tc.ParseAttributes(b)
	if err != nil {
		t.Fatal(err)
	}
	want := []tc.Attribute{opts, kind}
	if diff := deep.Equal(attrs, want); diff != nil {
		t.Error(diff)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := tc.Header{Family: unix.AF_UNSPEC, IfIndex: -1, Handle: 1, Parent: 2, Info: 3}
	b := make([]byte, tc.HeaderLen)
	h.Emit(b)
	got, err := tc.ParseHeader(b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(got, h); diff != nil {
		t.Error(diff)
	}
}
