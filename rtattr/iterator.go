package rtattr

import (
	"fmt"

	"github.com/mdlayher/netlink/nlenc"
)

// Iterator walks the attribute records in a byte blob: the attribute section
// of a message, or the value of a container attribute.  It is lazy and holds
// no state outside itself, so a fresh Iterator over the same blob restarts
// the scan from the beginning.
//
// Usage follows the bufio.Scanner shape:
//
//	it := rtattr.NewIterator(value)
//	for it.Next() {
//		... it.Type(), it.Value() ...
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator struct {
	b   []byte
	off int
	typ uint16
	val []byte
	err error
}

// NewIterator returns an Iterator over b.
func NewIterator(b []byte) *Iterator {
	return &Iterator{b: b}
}

// Next advances to the next record, returning false at the end of the blob
// or on a malformed record.  After Next returns false the caller must check
// Err: an empty remainder is normal termination, a remainder shorter than
// one header or a record whose declared length runs past the blob is a
// decode failure for the whole sequence.
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}
	rest := len(it.b) - it.off
	if rest == 0 {
		return false
	}
	if rest < HeaderLen {
		it.err = fmt.Errorf("%w: %d trailing bytes at offset %d", ErrTruncated, rest, it.off)
		return false
	}
	l := int(nlenc.Uint16(it.b[it.off : it.off+2]))
	if l < HeaderLen {
		it.err = fmt.Errorf("%w: declared length %d at offset %d", ErrInvalidLength, l, it.off)
		return false
	}
	if l > rest {
		it.err = fmt.Errorf("%w: declared length %d exceeds %d remaining bytes at offset %d",
			ErrTruncated, l, rest, it.off)
		return false
	}
	it.typ = nlenc.Uint16(it.b[it.off+2 : it.off+4])
	it.val = it.b[it.off+HeaderLen : it.off+l]
	it.off += Align(l)
	if it.off > len(it.b) {
		// The final record's padding may be absent.
		it.off = len(it.b)
	}
	return true
}

// Type returns the kind code of the current record.
func (it *Iterator) Type() uint16 { return it.typ }

// Value returns the value bytes of the current record, unpadded, backed by
// the scanned blob.
func (it *Iterator) Value() []byte { return it.val }

// Err returns the first malformed-record error encountered, if any.
func (it *Iterator) Err() error { return it.err }
