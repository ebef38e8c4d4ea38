package link

import "github.com/m-lab/rtnetlink/rtattr"

// Message is a complete link message body: the fixed ifinfomsg header
// followed by an ordered attribute sequence.  Attribute order and duplicate
// kinds are preserved from the wire.
type Message struct {
	Header     Header
	Attributes []Attribute
}

// ParseMessage decodes a link message body (everything after the netlink
// message header).  The address family declared in the fixed header is the
// context for attribute parsing.
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

// BufferLen returns the serialized size of the message: the fixed header
// plus each attribute's padded length.
func (m *Message) BufferLen() int {
	total := m.Header.BufferLen()
	for _, a := range m.Attributes {
		total += rtattr.Len(a)
	}
	return total
}

// Emit serializes the message into b, which must be at least BufferLen()
// bytes: header first, then each attribute at its padded offset.
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
