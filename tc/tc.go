// Package tc implements the rtnetlink attribute codec for traffic control
// (RTM_*QDISC, RTM_*TCLASS, RTM_*TFILTER) messages.  The TCA_OPTIONS
// payload has no self-describing format; its layout is fixed by the
// sibling TCA_KIND string, so attribute parsing makes two passes over the
// stream.
package tc

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
)

// Attribute kinds from uapi/linux/rtnetlink.h (TCA_*), not mirrored by
// x/sys/unix.
const (
	tcaKind      = 1
	tcaOptions   = 2
	tcaChain     = 11
	tcaHwOffload = 12
)

// Attribute is one parsed TCA_* attribute of a traffic control message.
type Attribute interface {
	rtattr.Attribute
	tcAttribute()
}

// Kind is the qdisc or filter kind string (TCA_KIND), NUL-terminated on
// the wire.
type Kind string

func (Kind) Kind() uint16         { return tcaKind }
func (k Kind) ValueLen() int      { return len(k) + 1 }
func (k Kind) EmitValue(b []byte) { rtattr.PutString(b, string(k)) }
func (Kind) tcAttribute()         {}

// Chain is the filter chain index (TCA_CHAIN).
type Chain uint32

func (Chain) Kind() uint16         { return tcaChain }
func (Chain) ValueLen() int        { return 4 }
func (c Chain) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(c)) }
func (Chain) tcAttribute()         {}

// HwOffload reports whether the qdisc is offloaded to hardware
// (TCA_HW_OFFLOAD).
type HwOffload uint8

func (HwOffload) Kind() uint16         { return tcaHwOffload }
func (HwOffload) ValueLen() int        { return 1 }
func (h HwOffload) EmitValue(b []byte) { b[0] = uint8(h) }
func (HwOffload) tcAttribute()         {}

// Other is the lossless fallback for unmodeled TCA_* kinds, and for the
// whole TCA_OPTIONS value when the driver kind is unknown.
type Other rtattr.Raw

func (o Other) Kind() uint16       { return o.Type }
func (o Other) ValueLen() int      { return len(o.Data) }
func (o Other) EmitValue(b []byte) { copy(b, o.Data) }
func (Other) tcAttribute()         {}
func (Other) tcOption()            {}

// ParseAttributes decodes the attribute section of a traffic control
// message.  The first pass finds TCA_KIND; the second builds the
// attribute list, with TCA_OPTIONS parsed under that kind.
func ParseAttributes(b []byte) ([]Attribute, error) {
	var kind string
	it := rtattr.NewIterator(b)
	for it.Next() {
		if it.Type() == tcaKind {
			kind = rtattr.String(it.Value())
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	var attrs []Attribute
	it = rtattr.NewIterator(b)
	for it.Next() {
		a, err := parseAttribute(it.Type(), it.Value(), kind)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return attrs, nil
}

func parseAttribute(typ uint16, v []byte, kind string) (Attribute, error) {
	switch typ {
	case tcaKind:
		return Kind(rtattr.String(v)), nil
	case tcaOptions:
		return parseOptions(v, kind)
	case tcaChain:
		u, err := rtattr.Uint32(v)
		return Chain(u), err
	case tcaHwOffload:
		u, err := rtattr.Uint8(v)
		return HwOffload(u), err
	default:
		return Other(rtattr.ParseRaw(typ, v)), nil
	}
}
