package link

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// HeaderLen is the fixed size of struct ifinfomsg.
const HeaderLen = unix.SizeofIfInfomsg

// Header is the fixed prefix of a link message (struct ifinfomsg).  The
// attribute section follows immediately after it.
type Header struct {
	Family uint8
	Type   uint16
	Index  int32
	Flags  uint32
	Change uint32
}

// ParseHeader decodes the fixed header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if err := rtattr.CheckLen(b, HeaderLen); err != nil {
		return Header{}, err
	}
	return Header{
		Family: b[0],
		Type:   nlenc.Uint16(b[2:4]),
		Index:  int32(nlenc.Uint32(b[4:8])),
		Flags:  nlenc.Uint32(b[8:12]),
		Change: nlenc.Uint32(b[12:16]),
	}, nil
}

// BufferLen returns the header's fixed length.
func (h *Header) BufferLen() int { return HeaderLen }

// Emit writes the header into b, which must be at least HeaderLen bytes.
func (h *Header) Emit(b []byte) {
	b[0] = h.Family
	b[1] = 0
	nlenc.PutUint16(b[2:4], h.Type)
	nlenc.PutUint32(b[4:8], uint32(h.Index))
	nlenc.PutUint32(b[8:12], h.Flags)
	nlenc.PutUint32(b[12:16], h.Change)
}
