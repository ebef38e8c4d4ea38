package link

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// Inet6 sub-attribute kinds, from uapi/linux/if_link.h.
const (
	iflaInet6Flags      = 1
	iflaInet6Icmp6Stats = 6
)

// AfSpecAttr is one per-family entry of the IFLA_AF_SPEC nest.  Each entry's
// kind code is an address family, and its value is a nested sequence in that
// family's namespace.
type AfSpecAttr interface {
	rtattr.Attribute
	afSpecAttribute()
}

// AfSpec is the IFLA_AF_SPEC container attribute.
type AfSpec []AfSpecAttr

func (AfSpec) Kind() uint16 { return unix.IFLA_AF_SPEC }

func (s AfSpec) ValueLen() int {
	total := 0
	for _, a := range s {
		total += rtattr.Len(a)
	}
	return total
}

func (s AfSpec) EmitValue(b []byte) {
	off := 0
	for _, a := range s {
		off += rtattr.Emit(b[off:], a)
	}
}

func (AfSpec) linkAttribute() {}

// AfSpecInet6 is the AF_INET6 entry of the AF_SPEC nest.
type AfSpecInet6 []Inet6Attr

func (AfSpecInet6) Kind() uint16 { return unix.AF_INET6 }

func (s AfSpecInet6) ValueLen() int {
	total := 0
	for _, a := range s {
		total += rtattr.Len(a)
	}
	return total
}

func (s AfSpecInet6) EmitValue(b []byte) {
	off := 0
	for _, a := range s {
		off += rtattr.Emit(b[off:], a)
	}
}

func (AfSpecInet6) afSpecAttribute() {}

// Inet6Attr is one attribute of the AF_INET6 nest.
type Inet6Attr interface {
	rtattr.Attribute
	inet6Attribute()
}

// Inet6Flags is the inet6 device flag word (IFLA_INET6_FLAGS).  Unnamed bits
// are retained.
type Inet6Flags uint32

func (Inet6Flags) Kind() uint16         { return iflaInet6Flags }
func (Inet6Flags) ValueLen() int        { return 4 }
func (f Inet6Flags) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(f)) }
func (Inet6Flags) inet6Attribute()      {}

// parseAfSpec decodes IFLA_AF_SPEC.  The interpretation of the nest depends
// on the message's address family: for AF_UNSPEC dumps the entries are keyed
// by address family; AF_BRIDGE uses a flat IFLA_BRIDGE_* namespace this
// package keeps opaque.
func parseAfSpec(v []byte, family uint8) (Attribute, error) {
	if family == unix.AF_BRIDGE {
		return Other(rtattr.ParseRaw(unix.IFLA_AF_SPEC, v)), nil
	}
	var spec AfSpec
	it := rtattr.NewIterator(v)
	for it.Next() {
		switch it.Type() {
		case unix.AF_INET6:
			inet6, err := parseInet6(it.Value())
			if err != nil {
				return nil, err
			}
			spec = append(spec, inet6)
		default:
			spec = append(spec, other(it.Type(), it.Value()))
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return spec, nil
}

func parseInet6(v []byte) (AfSpecInet6, error) {
	var attrs AfSpecInet6
	it := rtattr.NewIterator(v)
	for it.Next() {
		switch it.Type() {
		case iflaInet6Flags:
			u, err := rtattr.Uint32(it.Value())
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, Inet6Flags(u))
		case iflaInet6Icmp6Stats:
			stats, err := ParseIcmp6Stats(it.Value())
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, stats)
		default:
			attrs = append(attrs, other(it.Type(), it.Value()))
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return attrs, nil
}
