package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m-lab/go/rtx"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"

	"github.com/m-lab/rtnetlink/link"
	"github.com/m-lab/rtnetlink/neigh"
)

// frame wraps a message body in an nlmsghdr.
func frame(typ uint16, body []byte) []byte {
	b := make([]byte, unix.SizeofNlMsghdr+len(body))
	nlenc.PutUint32(b[0:4], uint32(len(b)))
	nlenc.PutUint16(b[4:6], typ)
	copy(b[unix.SizeofNlMsghdr:], body)
	return b
}

func testStream(t *testing.T) []byte {
	t.Helper()
	lm := link.Message{
		Header: link.Header{Family: unix.AF_UNSPEC, Index: 2},
		Attributes: []link.Attribute{
			link.IfName("eth0"),
			link.MTU(1500),
		},
	}
	nm := neigh.Message{
		Header: neigh.Header{Family: unix.AF_INET, IfIndex: 2},
		Attributes: []neigh.Attribute{
			neigh.Probes(1),
		},
	}
	var buf bytes.Buffer
	buf.Write(frame(unix.RTM_NEWLINK, lm.Marshal()))
	buf.Write(frame(unix.RTM_NEWNEIGH, nm.Marshal()))
	return buf.Bytes()
}

func TestDecodeCSV(t *testing.T) {
	var out bytes.Buffer
	rtx.Must(decode(bytes.NewReader(testStream(t)), &out, "csv"), "Could not decode")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Got %d lines, want header plus 2 rows: %q", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[1], "link,") {
		t.Errorf("First row should be a link row: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "neigh,") {
		t.Errorf("Second row should be a neigh row: %q", lines[2])
	}
}

func TestDecodeJSONL(t *testing.T) {
	var out bytes.Buffer
	rtx.Must(decode(bytes.NewReader(testStream(t)), &out, "jsonl"), "Could not decode")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Got %d lines, want 2: %q", len(lines), out.String())
	}
	if !strings.Contains(lines[0], `"message":"link"`) {
		t.Errorf("First row should be a link row: %q", lines[0])
	}
}

func TestDecodeBadFormat(t *testing.T) {
	var out bytes.Buffer
	if err := decode(bytes.NewReader(testStream(t)), &out, "xml"); err == nil {
		t.Error("Unknown format should fail")
	}
}

func TestDecodeTruncatedFrame(t *testing.T) {
	stream := testStream(t)
	var out bytes.Buffer
	if err := decode(bytes.NewReader(stream[:len(stream)-4]), &out, "csv"); err == nil {
		t.Error("Truncated input should fail")
	}
}

func TestDecodeUnknownType(t *testing.T) {
	var out bytes.Buffer
	rtx.Must(decode(bytes.NewReader(frame(unix.RTM_NEWROUTE, make([]byte, 12))), &out, "csv"),
		"Could not decode")
	if !strings.Contains(out.String(), "other") {
		t.Errorf("Unmodeled message types should pass through as other: %q", out.String())
	}
}
