// Package neigh implements the rtnetlink attribute codec for neighbour
// cache (RTM_*NEIGH) messages.
package neigh

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// Attribute is one parsed NDA_* attribute of a neighbour message.
type Attribute interface {
	rtattr.Attribute
	neighAttribute()
}

// Destination is the neighbour's protocol address (NDA_DST).  Its width is
// fixed by the message's address family: 4 bytes for AF_INET, 16 for
// AF_INET6.
type Destination net.IP

func (Destination) Kind() uint16         { return unix.NDA_DST }
func (d Destination) ValueLen() int      { return len(d) }
func (d Destination) EmitValue(b []byte) { copy(b, d) }
func (Destination) neighAttribute()      {}

// LLAddr is the neighbour's link-layer address (NDA_LLADDR).
type LLAddr net.HardwareAddr

func (LLAddr) Kind() uint16         { return unix.NDA_LLADDR }
func (a LLAddr) ValueLen() int      { return len(a) }
func (a LLAddr) EmitValue(b []byte) { copy(b, a) }
func (LLAddr) neighAttribute()      {}

// CacheInfoLen is the fixed size of struct nda_cacheinfo.
const CacheInfoLen = 16

// CacheInfo is the neighbour cache timing block (NDA_CACHEINFO): four
// native-order 32-bit fields at fixed offsets.
type CacheInfo struct {
	Confirmed uint32
	Used      uint32
	Updated   uint32
	RefCount  uint32
}

// ParseCacheInfo decodes the fixed-layout cache block.
func ParseCacheInfo(b []byte) (CacheInfo, error) {
	if err := rtattr.CheckLen(b, CacheInfoLen); err != nil {
		return CacheInfo{}, err
	}
	return CacheInfo{
		Confirmed: nlenc.Uint32(b[0:4]),
		Used:      nlenc.Uint32(b[4:8]),
		Updated:   nlenc.Uint32(b[8:12]),
		RefCount:  nlenc.Uint32(b[12:16]),
	}, nil
}

func (CacheInfo) Kind() uint16  { return unix.NDA_CACHEINFO }
func (CacheInfo) ValueLen() int { return CacheInfoLen }
func (c CacheInfo) EmitValue(b []byte) {
	nlenc.PutUint32(b[0:4], c.Confirmed)
	nlenc.PutUint32(b[4:8], c.Used)
	nlenc.PutUint32(b[8:12], c.Updated)
	nlenc.PutUint32(b[12:16], c.RefCount)
}
func (CacheInfo) neighAttribute() {}

// Probes is the number of probes sent (NDA_PROBES).
type Probes uint32

func (Probes) Kind() uint16         { return unix.NDA_PROBES }
func (Probes) ValueLen() int        { return 4 }
func (p Probes) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(p)) }
func (Probes) neighAttribute()      {}

// Vlan is the VLAN id of an FDB entry (NDA_VLAN).
type Vlan uint16

func (Vlan) Kind() uint16         { return unix.NDA_VLAN }
func (Vlan) ValueLen() int        { return 2 }
func (v Vlan) EmitValue(b []byte) { nlenc.PutUint16(b, uint16(v)) }
func (Vlan) neighAttribute()      {}

// Port is the destination UDP port of an FDB entry, network byte order on
// the wire (NDA_PORT).
type Port uint16

func (Port) Kind() uint16  { return unix.NDA_PORT }
func (Port) ValueLen() int { return 2 }
func (p Port) EmitValue(b []byte) {
	binary.BigEndian.PutUint16(b, uint16(p))
}
func (Port) neighAttribute() {}

// VNI is the VXLAN network identifier of an FDB entry (NDA_VNI).
type VNI uint32

func (VNI) Kind() uint16         { return unix.NDA_VNI }
func (VNI) ValueLen() int        { return 4 }
func (v VNI) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(v)) }
func (VNI) neighAttribute()      {}

// IfIndex is the egress interface of an FDB entry (NDA_IFINDEX).
type IfIndex uint32

func (IfIndex) Kind() uint16         { return unix.NDA_IFINDEX }
func (IfIndex) ValueLen() int        { return 4 }
func (i IfIndex) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(i)) }
func (IfIndex) neighAttribute()      {}

// Master is the controlling device index (NDA_MASTER).
type Master uint32

func (Master) Kind() uint16         { return unix.NDA_MASTER }
func (Master) ValueLen() int        { return 4 }
func (m Master) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(m)) }
func (Master) neighAttribute()      {}

// Other is the lossless fallback for unmodeled NDA_* kinds.
type Other rtattr.Raw

func (o Other) Kind() uint16       { return o.Type }
func (o Other) ValueLen() int      { return len(o.Data) }
func (o Other) EmitValue(b []byte) { copy(b, o.Data) }
func (Other) neighAttribute()      {}

// ParseAttributes decodes the attribute section of a neighbour message.
// The address family from the header fixes the destination address width.
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
	case unix.NDA_DST:
		ip, err := parseIP(v, family)
		return Destination(ip), err
	case unix.NDA_LLADDR:
		return LLAddr(append([]byte(nil), v...)), nil
	case unix.NDA_CACHEINFO:
		return ParseCacheInfo(v)
	case unix.NDA_PROBES:
		u, err := rtattr.Uint32(v)
		return Probes(u), err
	case unix.NDA_VLAN:
		u, err := rtattr.Uint16(v)
		return Vlan(u), err
	case unix.NDA_PORT:
		u, err := rtattr.Uint16BE(v)
		return Port(u), err
	case unix.NDA_VNI:
		u, err := rtattr.Uint32(v)
		return VNI(u), err
	case unix.NDA_IFINDEX:
		u, err := rtattr.Uint32(v)
		return IfIndex(u), err
	case unix.NDA_MASTER:
		u, err := rtattr.Uint32(v)
		return Master(u), err
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
