package address_test

import (
	"errors"
	"log"
	"net"
	"testing"

	"github.com/go-test/deep"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"

	"github.com/m-lab/rtnetlink/address"
	"github.com/m-lab/rtnetlink/rtattr"
)

func init() {
	// Always prepend the filename and line number.
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func TestMessageRoundTrip(t *testing.T) {
	msg := address.Message{
		Header: address.Header{
			Family:    unix.AF_INET,
			PrefixLen: 24,
			Scope:     unix.RT_SCOPE_UNIVERSE,
			Index:     2,
		},
		Attributes: []address.Attribute{
			address.Address{192, 168, 1, 5},
			address.Local{192, 168, 1, 5},
			address.Broadcast{192, 168, 1, 255},
			address.Label("eth0"),
			address.Flags(unix.IFA_F_PERMANENT),
			address.CacheInfo{Preferred: 3600, Valid: 7200, CStamp: 100, TStamp: 200},
			address.Other{Type: 99, Data: []byte{1, 2, 3}},
		},
	}

	parsed, err := address.ParseMessage(msg.Marshal())
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

func TestIPv6Message(t *testing.T) {
	ip := net.ParseIP("2001:db8::1")
	msg := address.Message{
		Header: address.Header{
			Family:    unix.AF_INET6,
			PrefixLen: 64,
			Index:     3,
		},
		Attributes: []address.Attribute{
			address.Address(ip),
			address.RoutePriority(100),
		},
	}
	parsed, err := address.ParseMessage(msg.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(*parsed, msg); diff != nil {
		t.Error(diff)
	}
}

func TestAddressWidthByFamily(t *testing.T) {
	a := address.Address{10, 0, 0, 1}
	b := make([]byte, rtattr.Len(a))
	rtattr.Emit(b, a)

	if _, err := address.ParseAttributes(b, unix.AF_INET6); !errors.Is(err, rtattr.ErrInvalidLength) {
		t.Error("4 address bytes under AF_INET6 should fail, got", err)
	}
	if _, err := address.ParseAttributes(b, unix.AF_INET); err != nil {
		t.Error(err)
	}
}

func TestCacheInfoLayout(t *testing.T) {
	v := make([]byte, address.CacheInfoLen)
	nlenc.PutUint32(v[0:4], 10)
	nlenc.PutUint32(v[4:8], 20)
	nlenc.PutUint32(v[8:12], 30)
	nlenc.PutUint32(v[12:16], 40)

	ci, err := address.ParseCacheInfo(v)
	if err != nil {
		t.Fatal(err)
	}
	want := address.CacheInfo{Preferred: 10, Valid: 20, CStamp: 30, TStamp: 40}
	if diff := deep.Equal(ci, want); diff != nil {
		t.Error(diff)
	}

	if _, err := address.ParseCacheInfo(v[:8]); !errors.Is(err, rtattr.ErrTruncated) {
		t.Error("Short cache info should fail, got", err)
	}
}
