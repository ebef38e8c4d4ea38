package tc

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
)

// HeaderLen is the fixed size of struct tcmsg: the family byte, three
// bytes of padding, and four native-order 32-bit fields.
const HeaderLen = 20

// Header is the fixed prefix of a traffic control message (struct tcmsg).
type Header struct {
	Family  uint8
	IfIndex int32
	Handle  uint32
	Parent  uint32
	Info    uint32
}

// ParseHeader decodes the fixed header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if err := rtattr.CheckLen(b, HeaderLen); err != nil {
		return Header{}, err
	}
	return Header{
		Family:  b[0],
		IfIndex: int32(nlenc.Uint32(b[4:8])),
		Handle:  nlenc.Uint32(b[8:12]),
		Parent:  nlenc.Uint32(b[12:16]),
		Info:    nlenc.Uint32(b[16:20]),
	}, nil
}

// BufferLen returns the header's fixed length.
func (h *Header) BufferLen() int { return HeaderLen }

// Emit writes the header into b, which must be at least HeaderLen bytes.
func (h *Header) Emit(b []byte) {
	b[0] = h.Family
	b[1], b[2], b[3] = 0, 0, 0
	nlenc.PutUint32(b[4:8], uint32(h.IfIndex))
	nlenc.PutUint32(b[8:12], h.Handle)
	nlenc.PutUint32(b[12:16], h.Parent)
	nlenc.PutUint32(b[16:20], h.Info)
}

// Message is a complete traffic control message body.
type Message struct {
	Header     Header
	Attributes []Attribute
}

// ParseMessage decodes a traffic control message body.
func ParseMessage(b []byte) (*Message, error) {
	header, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	attrs, err := ParseAttributes(b[HeaderLen:])
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
