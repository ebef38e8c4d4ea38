// Main package in rtadump implements a command line tool for summarizing
// captured rtnetlink message streams as CSV or JSONL.  Input is a
// sequence of netlink frames, optionally zstd compressed.
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/gocarina/gocsv"
	"github.com/m-lab/go/flagx"
	"github.com/m-lab/go/rtx"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"

	"github.com/m-lab/rtnetlink/address"
	"github.com/m-lab/rtnetlink/link"
	"github.com/m-lab/rtnetlink/metrics"
	"github.com/m-lab/rtnetlink/neigh"
	"github.com/m-lab/rtnetlink/neightbl"
	"github.com/m-lab/rtnetlink/tc"
	"github.com/m-lab/rtnetlink/zstd"
)

func init() {
	// Always prepend the filename and line number.
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

var (
	format = flag.String("format", "csv", "Output format: csv or jsonl")
	input  = flag.String("input", "", "File of raw netlink frames to read; stdin when empty")

	// A variable to enable mocking for testing.
	logFatal = log.Fatal
)

// Row is one summarized message.
type Row struct {
	Message    string `csv:"message" json:"message"`
	Family     uint8  `csv:"family" json:"family"`
	IfIndex    int32  `csv:"ifindex" json:"ifindex"`
	Attributes int    `csv:"attributes" json:"attributes"`
}

// loadNext reads the next netlink frame from rdr.  The returned error may
// be io.EOF at a frame boundary.
func loadNext(rdr io.Reader) (*syscall.NetlinkMessage, error) {
	var header syscall.NlMsghdr
	err := binary.Read(rdr, nlenc.NativeEndian(), &header)
	if err != nil {
		return nil, err
	}
	if int(header.Len) < binary.Size(header) {
		return nil, fmt.Errorf("netlink frame length %d too short", header.Len)
	}
	data := make([]byte, header.Len-uint32(binary.Size(header)))
	err = binary.Read(rdr, nlenc.NativeEndian(), data)
	if err != nil {
		return nil, err
	}
	return &syscall.NetlinkMessage{Header: header, Data: data}, nil
}

// summarize decodes one frame body under its header's message type.
func summarize(msg *syscall.NetlinkMessage) (*Row, error) {
	switch msg.Header.Type {
	case unix.RTM_NEWLINK, unix.RTM_DELLINK, unix.RTM_GETLINK:
		m, err := link.ParseMessage(msg.Data)
		if err != nil {
			return nil, err
		}
		return &Row{"link", m.Header.Family, m.Header.Index, len(m.Attributes)}, nil
	case unix.RTM_NEWADDR, unix.RTM_DELADDR, unix.RTM_GETADDR:
		m, err := address.ParseMessage(msg.Data)
		if err != nil {
			return nil, err
		}
		return &Row{"address", m.Header.Family, int32(m.Header.Index), len(m.Attributes)}, nil
	case unix.RTM_NEWNEIGH, unix.RTM_DELNEIGH, unix.RTM_GETNEIGH:
		m, err := neigh.ParseMessage(msg.Data)
		if err != nil {
			return nil, err
		}
		return &Row{"neigh", m.Header.Family, m.Header.IfIndex, len(m.Attributes)}, nil
	case unix.RTM_NEWNEIGHTBL, unix.RTM_SETNEIGHTBL, unix.RTM_GETNEIGHTBL:
		m, err := neightbl.ParseMessage(msg.Data)
		if err != nil {
			return nil, err
		}
		return &Row{"neightbl", m.Header.Family, 0, len(m.Attributes)}, nil
	case unix.RTM_NEWQDISC, unix.RTM_DELQDISC, unix.RTM_GETQDISC,
		unix.RTM_NEWTFILTER, unix.RTM_DELTFILTER, unix.RTM_GETTFILTER:
		m, err := tc.ParseMessage(msg.Data)
		if err != nil {
			return nil, err
		}
		return &Row{"tc", m.Header.Family, m.Header.IfIndex, len(m.Attributes)}, nil
	default:
		return &Row{"other", 0, 0, 0}, nil
	}
}

func decode(rdr io.Reader, wtr io.Writer, format string) error {
	var rows []*Row
	for {
		msg, err := loadNext(rdr)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		row, err := summarize(msg)
		if err != nil {
			metrics.DecodeErrors.WithLabelValues(typeName(msg.Header.Type)).Inc()
			return err
		}
		metrics.DecodedMessages.WithLabelValues(row.Message).Inc()
		metrics.MessageSizeHistogram.WithLabelValues(row.Message).Observe(float64(msg.Header.Len))
		rows = append(rows, row)
	}

	switch format {
	case "csv":
		return gocsv.Marshal(rows, wtr)
	case "jsonl":
		enc := json.NewEncoder(wtr)
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func typeName(typ uint16) string {
	switch typ {
	case unix.RTM_NEWLINK, unix.RTM_DELLINK, unix.RTM_GETLINK:
		return "link"
	case unix.RTM_NEWADDR, unix.RTM_DELADDR, unix.RTM_GETADDR:
		return "address"
	case unix.RTM_NEWNEIGH, unix.RTM_DELNEIGH, unix.RTM_GETNEIGH:
		return "neigh"
	case unix.RTM_NEWNEIGHTBL, unix.RTM_SETNEIGHTBL, unix.RTM_GETNEIGHTBL:
		return "neightbl"
	case unix.RTM_NEWQDISC, unix.RTM_DELQDISC, unix.RTM_GETQDISC,
		unix.RTM_NEWTFILTER, unix.RTM_DELTFILTER, unix.RTM_GETTFILTER:
		return "tc"
	default:
		return "other"
	}
}

// openFile either opens a file, or opens and unzips a file that ends with .zst
func openFile(fn string) (io.ReadCloser, error) {
	if strings.HasSuffix(fn, ".zst") {
		return zstd.NewReader(fn)
	}
	return os.Open(fn)
}

func main() {
	flag.Parse()
	rtx.Must(flagx.ArgsFromEnv(flag.CommandLine), "Could not get args from env")

	var source io.ReadCloser = os.Stdin
	if *input != "" {
		var err error
		source, err = openFile(*input)
		rtx.Must(err, "Could not open file %q", *input)
	}
	defer source.Close()

	if err := decode(source, os.Stdout, *format); err != nil {
		logFatal(err)
	}
}
