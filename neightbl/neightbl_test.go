package neightbl_test

import (
	"errors"
	"log"
	"testing"

	"github.com/go-test/deep"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"

	"github.com/m-lab/rtnetlink/neightbl"
	"github.com/m-lab/rtnetlink/rtattr"
)

func init() {
	// Always prepend the filename and line number.
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func TestMessageRoundTrip(t *testing.T) {
	msg := neightbl.Message{
		Header: neightbl.Header{Family: unix.AF_INET},
		Attributes: []neightbl.Attribute{
			neightbl.Name("arp_cache"),
			neightbl.Thresh1(128),
			neightbl.Thresh2(512),
			neightbl.Thresh3(1024),
			neightbl.GcInterval(30000),
			neightbl.Config{
				KeyLen:    4,
				EntrySize: 360,
				Entries:   12,
				HashRnd:   0xdeadbeef,
				HashMask:  0xff,
			},
			neightbl.Parms{
				neightbl.IfIndex(2),
				neightbl.RefCount(1),
				neightbl.ReachableTime(21841),
				neightbl.BaseReachableTime(30000),
				neightbl.RetransTime(1000),
				neightbl.GcStaleTime(60000),
				neightbl.DelayProbeTime(5000),
				neightbl.UcastProbes(3),
				neightbl.McastProbes(3),
				neightbl.QueueLenBytes(212992),
				neightbl.Other{Type: 99, Data: []byte{1}},
			},
			neightbl.Stats{Allocs: 10, Hits: 1000, ForcedGcRuns: 1},
			neightbl.Other{Type: 200, Data: []byte{5, 6, 7, 8}},
		},
	}

	parsed, err := neightbl.ParseMessage(msg.Marshal())
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

func TestConfigLayout(t *testing.T) {
	v := make([]byte, neightbl.ConfigLen)
	nlenc.PutUint16(v[0:2], 4)
	nlenc.PutUint16(v[2:4], 360)
	nlenc.PutUint32(v[4:8], 12)
	nlenc.PutUint32(v[28:32], 64)

	cfg, err := neightbl.ParseConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	want := neightbl.Config{KeyLen: 4, EntrySize: 360, Entries: 12, ProxyQlen: 64}
	if diff := deep.Equal(cfg, want); diff != nil {
		t.Error(diff)
	}

	if _, err := neightbl.ParseConfig(v[:16]); !errors.Is(err, rtattr.ErrTruncated) {
		t.Error("Short config should fail, got", err)
	}
}

func TestStatsTail(t *testing.T) {
	// A kernel newer than this layout appends more counters.
	v := make([]byte, neightbl.StatsLen+8)
	nlenc.PutUint64(v[0:8], 3)
	nlenc.PutUint64(v[40:48], 99)
	nlenc.PutUint64(v[neightbl.StatsLen:], 7)

	stats, err := neightbl.ParseStats(v)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Allocs != 3 || stats.Hits != 99 {
		t.Error("Wrong counters", stats)
	}
	if len(stats.Tail) != 8 {
		t.Fatal("Trailing counters must be preserved, got", stats.Tail)
	}

	out := make([]byte, stats.ValueLen())
	stats.EmitValue(out)
	if diff := deep.Equal(out, v); diff != nil {
		t.Error(diff)
	}
}

func TestHeaderPadding(t *testing.T) {
	h := neightbl.Header{Family: unix.AF_INET6}
	b := []byte{0xff, 0xff, 0xff, 0xff}
	h.Emit(b)
	if b[0] != unix.AF_INET6 {
		t.Error("Wrong family byte", b[0])
	}
	if b[1] != 0 || b[2] != 0 || b[3] != 0 {
		t.Error("Header padding must be zeroed", b)
	}
}
