// Package address implements the rtnetlink attribute codec for interface
// address (RTM_*ADDR) messages.
package address

import (
	"fmt"
	"net"

	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// Attribute is one parsed IFA_* attribute of an address message.
type Attribute interface {
	rtattr.Attribute
	addressAttribute()
}

// Address is the interface address (IFA_ADDRESS).  For point-to-point
// links this is the peer; the local address is in IFA_LOCAL.  Its width is
// fixed by the message's address family.
type Address net.IP

func (Address) Kind() uint16         { return unix.IFA_ADDRESS }
func (a Address) ValueLen() int      { return len(a) }
func (a Address) EmitValue(b []byte) { copy(b, a) }
func (Address) addressAttribute()    {}

// Local is the local interface address (IFA_LOCAL).
type Local net.IP

func (Local) Kind() uint16         { return unix.IFA_LOCAL }
func (l Local) ValueLen() int      { return len(l) }
func (l Local) EmitValue(b []byte) { copy(b, l) }
func (Local) addressAttribute()    {}

// Broadcast is the broadcast address (IFA_BROADCAST).
type Broadcast net.IP

func (Broadcast) Kind() uint16         { return unix.IFA_BROADCAST }
func (a Broadcast) ValueLen() int      { return len(a) }
func (a Broadcast) EmitValue(b []byte) { copy(b, a) }
func (Broadcast) addressAttribute()    {}

// Anycast is the anycast address (IFA_ANYCAST).
type Anycast net.IP

func (Anycast) Kind() uint16         { return unix.IFA_ANYCAST }
func (a Anycast) ValueLen() int      { return len(a) }
func (a Anycast) EmitValue(b []byte) { copy(b, a) }
func (Anycast) addressAttribute()    {}

// Multicast is the multicast address (IFA_MULTICAST).
type Multicast net.IP

func (Multicast) Kind() uint16         { return unix.IFA_MULTICAST }
func (a Multicast) ValueLen() int      { return len(a) }
func (a Multicast) EmitValue(b []byte) { copy(b, a) }
func (Multicast) addressAttribute()    {}

// Label is the address label (IFA_LABEL), NUL-terminated on the wire.
type Label string

func (Label) Kind() uint16         { return unix.IFA_LABEL }
func (l Label) ValueLen() int      { return len(l) + 1 }
func (l Label) EmitValue(b []byte) { rtattr.PutString(b, string(l)) }
func (Label) addressAttribute()    {}

// Flags is the full 32-bit address flag word (IFA_FLAGS), superseding the
// 8-bit flags byte in the fixed header.
type Flags uint32

func (Flags) Kind() uint16         { return unix.IFA_FLAGS }
func (Flags) ValueLen() int        { return 4 }
func (f Flags) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(f)) }
func (Flags) addressAttribute()    {}

// RoutePriority is the metric of the prefix route tied to this address
// (IFA_RT_PRIORITY).
type RoutePriority uint32

func (RoutePriority) Kind() uint16         { return unix.IFA_RT_PRIORITY }
func (RoutePriority) ValueLen() int        { return 4 }
func (p RoutePriority) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(p)) }
func (RoutePriority) addressAttribute()    {}

// CacheInfoLen is the fixed size of struct ifa_cacheinfo.
const CacheInfoLen = 16

// CacheInfo is the address lifetime block (IFA_CACHEINFO): four
// native-order 32-bit fields at fixed offsets.
type CacheInfo struct {
	Preferred uint32
	Valid     uint32
	CStamp    uint32
	TStamp    uint32
}

// ParseCacheInfo decodes the fixed-layout lifetime block.
func ParseCacheInfo(b []byte) (CacheInfo, error) {
	if err := rtattr.CheckLen(b, CacheInfoLen); err != nil {
		return CacheInfo{}, err
	}
	return CacheInfo{
		Preferred: nlenc.Uint32(b[0:4]),
		Valid:     nlenc.Uint32(b[4:8]),
		CStamp:    nlenc.Uint32(b[8:12]),
		TStamp:    nlenc.Uint32(b[12:16]),
	}, nil
}

func (CacheInfo) Kind() uint16  { return unix.IFA_CACHEINFO }
func (CacheInfo) ValueLen() int { return CacheInfoLen }
func (c CacheInfo) EmitValue(b []byte) {
	nlenc.PutUint32(b[0:4], c.Preferred)
	nlenc.PutUint32(b[4:8], c.Valid)
	nlenc.PutUint32(b[8:12], c.CStamp)
	nlenc.PutUint32(b[12:16], c.TStamp)
}
func (CacheInfo) addressAttribute() {}

// Other is the lossless fallback for unmodeled IFA_* kinds.
type Other rtattr.Raw

func (o Other) Kind() uint16       { return o.Type }
func (o Other) ValueLen() int      { return len(o.Data) }
func (o Other) EmitValue(b []byte) { copy(b, o.Data) }
func (Other) addressAttribute()    {}

// ParseAttributes decodes the attribute section of an address message.
// The address family from the header fixes the address widths.
func ParseAttributes(b []byte, family uint8) ([]Attribute, error) {
	var attrs []Attribute
	it := rtattr.NewIterator(b)
	for it.Next() {
		a, err := parseAttribute(it.Type(), it.Value(), family)
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

func parseAttribute(typ uint16, v []byte, family uint8) (Attribute, error) {
	switch typ {
	case unix.IFA_ADDRESS:
		ip, err := parseIP(v, family)
		return Address(ip), err
	case unix.IFA_LOCAL:
		ip, err := parseIP(v, family)
		return Local(ip), err
	case unix.IFA_BROADCAST:
		ip, err := parseIP(v, family)
		return Broadcast(ip), err
	case unix.IFA_ANYCAST:
		ip, err := parseIP(v, family)
		return Anycast(ip), err
	case unix.IFA_MULTICAST:
		ip, err := parseIP(v, family)
		return Multicast(ip), err
	case unix.IFA_LABEL:
		return Label(rtattr.String(v)), nil
	case unix.IFA_FLAGS:
		u, err := rtattr.Uint32(v)
		return Flags(u), err
	case unix.IFA_RT_PRIORITY:
		u, err := rtattr.Uint32(v)
		return RoutePriority(u), err
	case unix.IFA_CACHEINFO:
		return ParseCacheInfo(v)
	default:
		return Other(rtattr.ParseRaw(typ, v)), nil
	}
}

// parseIP decodes an address whose width the family context fixes.  For
// families without a fixed width the payload length decides.
func parseIP(v []byte, family uint8) (net.IP, error) {
	switch family {
	case unix.AF_INET:
		return rtattr.IPv4(v)
	case unix.AF_INET6:
		return rtattr.IPv6(v)
	}
	switch len(v) {
	case net.IPv4len:
		return rtattr.IPv4(v)
	case net.IPv6len:
		return rtattr.IPv6(v)
	}
	return nil, fmt.Errorf("%w: %d bytes is not an IPv4 or IPv6 address",
		rtattr.ErrInvalidLength, len(v))
}
