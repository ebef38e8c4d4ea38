package address

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// HeaderLen is the fixed size of struct ifaddrmsg.
const HeaderLen = unix.SizeofIfAddrmsg

// Header is the fixed prefix of an address message (struct ifaddrmsg).
type Header struct {
	Family    uint8
	PrefixLen uint8
	Flags     uint8
	Scope     uint8
	Index     uint32
}

// ParseHeader decodes the fixed header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if err := rtattr.CheckLen(b, HeaderLen); err != nil {
		return Header{}, err
	}
	return Header{
		Family:    b[0],
		PrefixLen: b[1],
		Flags:     b[2],
		Scope:     b[3],
		Index:     nlenc.Uint32(b[4:8]),
	}, nil
}

// BufferLen returns the header's fixed length.
func (h *Header) BufferLen() int { return HeaderLen }

// Emit writes the header into b, which must be at least HeaderLen bytes.
func (h *Header) Emit(b []byte) {
	b[0] = h.Family
	b[1] = h.PrefixLen
	b[2] = h.Flags
	b[3] = h.Scope
	nlenc.PutUint32(b[4:8], h.Index)
}

// Message is a complete address message body.
type Message struct {
	Header     Header
	Attributes []Attribute
}

// ParseMessage decodes an address message body.  The address family from
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
