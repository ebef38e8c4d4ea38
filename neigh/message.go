package neigh

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// HeaderLen is the fixed size of struct ndmsg.
const HeaderLen = unix.SizeofNdMsg

// Header is the fixed prefix of a neighbour message (struct ndmsg).
type Header struct {
	Family  uint8
	IfIndex int32
	State   uint16
	Flags   uint8
	Type    uint8
}

// ParseHeader decodes the fixed header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if err := rtattr.CheckLen(b, HeaderLen); err != nil {
		return Header{}, err
	}
	return Header{
		Family:  b[0],
		IfIndex: int32(nlenc.Uint32(b[4:8])),
		State:   nlenc.Uint16(b[8:10]),
		Flags:   b[10],
		Type:    b[11],
	}, nil
}

// BufferLen returns the header's fixed length.
func (h *Header) BufferLen() int { return HeaderLen }

// Emit writes the header into b, which must be at least HeaderLen bytes.
func (h *Header) Emit(b []byte) {
	b[0] = h.Family
	b[1], b[2], b[3] = 0, 0, 0
	nlenc.PutUint32(b[4:8], uint32(h.IfIndex))
	nlenc.PutUint16(b[8:10], h.State)
	b[10] = h.Flags
	b[11] = h.Type
}

// Message is a complete neighbour message body.
type Message struct {
	Header     Header
	Attributes []Attribute
}

// ParseMessage decodes a neighbour message body.  The address family from
// the fixed header is the context for attribute parsing.
func ParseMessage(b []byte) (*Message, error) {
	header, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	attrs, err := ParseAttributes(b[HeaderLen:], header.Family)
	if err != nil {
		return nil, err
	}
	return &Message{Header: header, Attributes: attrs}, nil
}

// BufferLen returns the serialized size of the message.
func (m *Message) BufferLen() int {
	total := m.Header.BufferLen()
	for _, a := range m.Attributes {
		total += rtattr.Len(a)
	}
	return total
}

// Emit serializes the message into b, which must be at least BufferLen()
// bytes.
func (m *Message) Emit(b []byte) {
	m.Header.Emit(b)
	off := m.Header.BufferLen()
	for _, a := range m.Attributes {
		off += rtattr.Emit(b[off:], a)
	}
}

// Marshal allocates and serializes the message.
func (m *Message) Marshal() []byte {
	b := make([]byte, m.BufferLen())
	m.Emit(b)
	return b
}
