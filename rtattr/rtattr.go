// Package rtattr implements the route-attribute (TLV) codec shared by all
// rtnetlink message families.  Each attribute on the wire is a 4-byte header
// (native-order length then kind) followed by a value and up to 3 bytes of
// padding that align the next attribute to a 4-byte boundary.
package rtattr

import (
	"errors"
	"fmt"

	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// Error types.
var (
	// ErrTruncated means a declared length ran past the end of the buffer.
	ErrTruncated = errors.New("buffer too short for attribute")
	// ErrInvalidLength means a declared or actual length is not valid for
	// the value being decoded.
	ErrInvalidLength = errors.New("invalid attribute length")
)

// HeaderLen is the length of the attribute header: a uint16 length followed
// by a uint16 kind, both in native byte order.
const HeaderLen = unix.SizeofRtAttr

// Align rounds n up to a multiple of unix.RTA_ALIGNTO.
func Align(n int) int {
	return (n + unix.RTA_ALIGNTO - 1) & ^(unix.RTA_ALIGNTO - 1)
}

// Attribute is implemented by every parsed attribute variant, known or
// opaque.  EmitValue writes exactly ValueLen() bytes and cannot fail: any
// value that was successfully constructed is serializable.  Padding between
// attributes is the caller's concern, not the attribute's.
type Attribute interface {
	Kind() uint16
	ValueLen() int
	EmitValue(b []byte)
}

// Raw is the lossless fallback for attribute kinds a family does not model.
// It stores the wire kind code and value bytes verbatim, so unknown
// attributes survive a parse/emit round trip unchanged.
type Raw struct {
	Type uint16
	Data []byte
}

// Kind returns the wire kind code.
func (r Raw) Kind() uint16 { return r.Type }

// ValueLen returns the unpadded value length.
func (r Raw) ValueLen() int { return len(r.Data) }

// EmitValue copies the stored value bytes.
func (r Raw) EmitValue(b []byte) { copy(b, r.Data) }

// ParseRaw copies a record's kind and value out of its backing buffer.
func ParseRaw(kind uint16, value []byte) Raw {
	data := make([]byte, len(value))
	copy(data, value)
	return Raw{Type: kind, Data: data}
}

// Len returns the padded space an attribute serializes into, header included.
func Len(a Attribute) int {
	return Align(HeaderLen + a.ValueLen())
}

// Emit serializes a into b, which must be at least Len(a) bytes, and returns
// the padded length consumed.  Padding bytes are zeroed.
func Emit(b []byte, a Attribute) int {
	vlen := a.ValueLen()
	nlenc.PutUint16(b[0:2], uint16(HeaderLen+vlen))
	nlenc.PutUint16(b[2:4], a.Kind())
	a.EmitValue(b[HeaderLen : HeaderLen+vlen])
	total := Align(HeaderLen + vlen)
	for i := HeaderLen + vlen; i < total; i++ {
		b[i] = 0
	}
	return total
}

// EmitNested serializes a sequence of attributes into b, back to back with
// padding, as the value of a container attribute.  b must be at least
// NestedLen(attrs) bytes.
func EmitNested(b []byte, attrs []Attribute) {
	off := 0
	for _, a := range attrs {
		off += Emit(b[off:], a)
	}
}

// NestedLen returns the total padded length of a nested attribute sequence.
func NestedLen(attrs []Attribute) int {
	total := 0
	for _, a := range attrs {
		total += Len(a)
	}
	return total
}

// CheckLen validates that a fixed-layout structure of length want fits in b.
func CheckLen(b []byte, want int) error {
	if len(b) < want {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, want, len(b))
	}
	return nil
}
