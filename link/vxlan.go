package link

import (
	"encoding/binary"
	"net"

	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// Newer vxlan attribute kinds not yet mirrored by x/sys/unix, from
// uapi/linux/if_link.h.
const (
	iflaVxlanVniFilter   = 30
	iflaVxlanLocalBypass = 31
)

// VxlanAttr is one attribute of a vxlan IFLA_INFO_DATA nest.
type VxlanAttr interface {
	rtattr.Attribute
	vxlanAttribute()
}

// VxlanID is the VXLAN network identifier (IFLA_VXLAN_ID).
type VxlanID uint32

func (VxlanID) Kind() uint16         { return unix.IFLA_VXLAN_ID }
func (VxlanID) ValueLen() int        { return 4 }
func (v VxlanID) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(v)) }
func (VxlanID) vxlanAttribute()      {}

// VxlanLink is the index of the underlying device (IFLA_VXLAN_LINK).
type VxlanLink uint32

func (VxlanLink) Kind() uint16         { return unix.IFLA_VXLAN_LINK }
func (VxlanLink) ValueLen() int        { return 4 }
func (v VxlanLink) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(v)) }
func (VxlanLink) vxlanAttribute()      {}

// VxlanLabel is the IPv6 flow label (IFLA_VXLAN_LABEL).
type VxlanLabel uint32

func (VxlanLabel) Kind() uint16         { return unix.IFLA_VXLAN_LABEL }
func (VxlanLabel) ValueLen() int        { return 4 }
func (v VxlanLabel) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(v)) }
func (VxlanLabel) vxlanAttribute()      {}

// VxlanAgeing is the FDB entry lifetime in seconds (IFLA_VXLAN_AGEING).
type VxlanAgeing uint32

func (VxlanAgeing) Kind() uint16         { return unix.IFLA_VXLAN_AGEING }
func (VxlanAgeing) ValueLen() int        { return 4 }
func (v VxlanAgeing) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(v)) }
func (VxlanAgeing) vxlanAttribute()      {}

// VxlanLimit is the maximum FDB size (IFLA_VXLAN_LIMIT).
type VxlanLimit uint32

func (VxlanLimit) Kind() uint16         { return unix.IFLA_VXLAN_LIMIT }
func (VxlanLimit) ValueLen() int        { return 4 }
func (v VxlanLimit) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(v)) }
func (VxlanLimit) vxlanAttribute()      {}

// VxlanGroup is the IPv4 multicast group or destination
// (IFLA_VXLAN_GROUP).
type VxlanGroup net.IP

func (VxlanGroup) Kind() uint16         { return unix.IFLA_VXLAN_GROUP }
func (VxlanGroup) ValueLen() int        { return net.IPv4len }
func (v VxlanGroup) EmitValue(b []byte) { copy(b, net.IP(v).To4()) }
func (VxlanGroup) vxlanAttribute()      {}

// VxlanGroup6 is the IPv6 multicast group or destination
// (IFLA_VXLAN_GROUP6).
type VxlanGroup6 net.IP

func (VxlanGroup6) Kind() uint16         { return unix.IFLA_VXLAN_GROUP6 }
func (VxlanGroup6) ValueLen() int        { return net.IPv6len }
func (v VxlanGroup6) EmitValue(b []byte) { copy(b, net.IP(v).To16()) }
func (VxlanGroup6) vxlanAttribute()      {}

// VxlanLocal is the IPv4 source address (IFLA_VXLAN_LOCAL).
type VxlanLocal net.IP

func (VxlanLocal) Kind() uint16         { return unix.IFLA_VXLAN_LOCAL }
func (VxlanLocal) ValueLen() int        { return net.IPv4len }
func (v VxlanLocal) EmitValue(b []byte) { copy(b, net.IP(v).To4()) }
func (VxlanLocal) vxlanAttribute()      {}

// VxlanLocal6 is the IPv6 source address (IFLA_VXLAN_LOCAL6).
type VxlanLocal6 net.IP

func (VxlanLocal6) Kind() uint16         { return unix.IFLA_VXLAN_LOCAL6 }
func (VxlanLocal6) ValueLen() int        { return net.IPv6len }
func (v VxlanLocal6) EmitValue(b []byte) { copy(b, net.IP(v).To16()) }
func (VxlanLocal6) vxlanAttribute()      {}

// VxlanTos is the outer ToS byte (IFLA_VXLAN_TOS).
type VxlanTos uint8

func (VxlanTos) Kind() uint16         { return unix.IFLA_VXLAN_TOS }
func (VxlanTos) ValueLen() int        { return 1 }
func (v VxlanTos) EmitValue(b []byte) { b[0] = uint8(v) }
func (VxlanTos) vxlanAttribute()      {}

// VxlanTTL is the outer TTL (IFLA_VXLAN_TTL).
type VxlanTTL uint8

func (VxlanTTL) Kind() uint16         { return unix.IFLA_VXLAN_TTL }
func (VxlanTTL) ValueLen() int        { return 1 }
func (v VxlanTTL) EmitValue(b []byte) { b[0] = uint8(v) }
func (VxlanTTL) vxlanAttribute()      {}

// VxlanDF is the outer don't-fragment policy (IFLA_VXLAN_DF).
type VxlanDF uint8

func (VxlanDF) Kind() uint16         { return unix.IFLA_VXLAN_DF }
func (VxlanDF) ValueLen() int        { return 1 }
func (v VxlanDF) EmitValue(b []byte) { b[0] = uint8(v) }
func (VxlanDF) vxlanAttribute()      {}

// VxlanPort is the destination UDP port, network byte order on the wire
// (IFLA_VXLAN_PORT).
type VxlanPort uint16

func (VxlanPort) Kind() uint16  { return unix.IFLA_VXLAN_PORT }
func (VxlanPort) ValueLen() int { return 2 }
func (v VxlanPort) EmitValue(b []byte) {
	binary.BigEndian.PutUint16(b, uint16(v))
}
func (VxlanPort) vxlanAttribute() {}

// VxlanPortRange is the source UDP port range, both bounds network byte
// order on the wire (IFLA_VXLAN_PORT_RANGE).
type VxlanPortRange struct {
	Low  uint16
	High uint16
}

func (VxlanPortRange) Kind() uint16  { return unix.IFLA_VXLAN_PORT_RANGE }
func (VxlanPortRange) ValueLen() int { return 4 }
func (v VxlanPortRange) EmitValue(b []byte) {
	binary.BigEndian.PutUint16(b[0:2], v.Low)
	binary.BigEndian.PutUint16(b[2:4], v.High)
}
func (VxlanPortRange) vxlanAttribute() {}

// One-byte boolean vxlan attributes.

type VxlanLearning bool

func (VxlanLearning) Kind() uint16         { return unix.IFLA_VXLAN_LEARNING }
func (VxlanLearning) ValueLen() int        { return 1 }
func (v VxlanLearning) EmitValue(b []byte) { rtattr.PutBool(b, bool(v)) }
func (VxlanLearning) vxlanAttribute()      {}

type VxlanProxy bool

func (VxlanProxy) Kind() uint16         { return unix.IFLA_VXLAN_PROXY }
func (VxlanProxy) ValueLen() int        { return 1 }
func (v VxlanProxy) EmitValue(b []byte) { rtattr.PutBool(b, bool(v)) }
func (VxlanProxy) vxlanAttribute()      {}

type VxlanRSC bool

func (VxlanRSC) Kind() uint16         { return unix.IFLA_VXLAN_RSC }
func (VxlanRSC) ValueLen() int        { return 1 }
func (v VxlanRSC) EmitValue(b []byte) { rtattr.PutBool(b, bool(v)) }
func (VxlanRSC) vxlanAttribute()      {}

type VxlanL2Miss bool

func (VxlanL2Miss) Kind() uint16         { return unix.IFLA_VXLAN_L2MISS }
func (VxlanL2Miss) ValueLen() int        { return 1 }
func (v VxlanL2Miss) EmitValue(b []byte) { rtattr.PutBool(b, bool(v)) }
func (VxlanL2Miss) vxlanAttribute()      {}

type VxlanL3Miss bool

func (VxlanL3Miss) Kind() uint16         { return unix.IFLA_VXLAN_L3MISS }
func (VxlanL3Miss) ValueLen() int        { return 1 }
func (v VxlanL3Miss) EmitValue(b []byte) { rtattr.PutBool(b, bool(v)) }
func (VxlanL3Miss) vxlanAttribute()      {}

type VxlanCollectMetadata bool

func (VxlanCollectMetadata) Kind() uint16 { return unix.IFLA_VXLAN_COLLECT_METADATA }
func (VxlanCollectMetadata) ValueLen() int { return 1 }
func (v VxlanCollectMetadata) EmitValue(b []byte) {
	rtattr.PutBool(b, bool(v))
}
func (VxlanCollectMetadata) vxlanAttribute() {}

type VxlanUDPCsum bool

func (VxlanUDPCsum) Kind() uint16         { return unix.IFLA_VXLAN_UDP_CSUM }
func (VxlanUDPCsum) ValueLen() int        { return 1 }
func (v VxlanUDPCsum) EmitValue(b []byte) { rtattr.PutBool(b, bool(v)) }
func (VxlanUDPCsum) vxlanAttribute()      {}

type VxlanUDPZeroCsumTX bool

func (VxlanUDPZeroCsumTX) Kind() uint16 { return unix.IFLA_VXLAN_UDP_ZERO_CSUM6_TX }
func (VxlanUDPZeroCsumTX) ValueLen() int { return 1 }
func (v VxlanUDPZeroCsumTX) EmitValue(b []byte) {
	rtattr.PutBool(b, bool(v))
}
func (VxlanUDPZeroCsumTX) vxlanAttribute() {}

type VxlanUDPZeroCsumRX bool

func (VxlanUDPZeroCsumRX) Kind() uint16 { return unix.IFLA_VXLAN_UDP_ZERO_CSUM6_RX }
func (VxlanUDPZeroCsumRX) ValueLen() int { return 1 }
func (v VxlanUDPZeroCsumRX) EmitValue(b []byte) {
	rtattr.PutBool(b, bool(v))
}
func (VxlanUDPZeroCsumRX) vxlanAttribute() {}

type VxlanRemCsumTX bool

func (VxlanRemCsumTX) Kind() uint16         { return unix.IFLA_VXLAN_REMCSUM_TX }
func (VxlanRemCsumTX) ValueLen() int        { return 1 }
func (v VxlanRemCsumTX) EmitValue(b []byte) { rtattr.PutBool(b, bool(v)) }
func (VxlanRemCsumTX) vxlanAttribute()      {}

type VxlanRemCsumRX bool

func (VxlanRemCsumRX) Kind() uint16         { return unix.IFLA_VXLAN_REMCSUM_RX }
func (VxlanRemCsumRX) ValueLen() int        { return 1 }
func (v VxlanRemCsumRX) EmitValue(b []byte) { rtattr.PutBool(b, bool(v)) }
func (VxlanRemCsumRX) vxlanAttribute()      {}

type VxlanTTLInherit bool

func (VxlanTTLInherit) Kind() uint16         { return unix.IFLA_VXLAN_TTL_INHERIT }
func (VxlanTTLInherit) ValueLen() int        { return 1 }
func (v VxlanTTLInherit) EmitValue(b []byte) { rtattr.PutBool(b, bool(v)) }
func (VxlanTTLInherit) vxlanAttribute()      {}

type VxlanVniFilter bool

func (VxlanVniFilter) Kind() uint16         { return iflaVxlanVniFilter }
func (VxlanVniFilter) ValueLen() int        { return 1 }
func (v VxlanVniFilter) EmitValue(b []byte) { rtattr.PutBool(b, bool(v)) }
func (VxlanVniFilter) vxlanAttribute()      {}

type VxlanLocalBypass bool

func (VxlanLocalBypass) Kind() uint16         { return iflaVxlanLocalBypass }
func (VxlanLocalBypass) ValueLen() int        { return 1 }
func (v VxlanLocalBypass) EmitValue(b []byte) { rtattr.PutBool(b, bool(v)) }
func (VxlanLocalBypass) vxlanAttribute()      {}

// Presence-only vxlan attributes: a zero-length value whose presence in the
// sequence means true.  Absence is the only way to express false.

type VxlanGBP struct{}

func (VxlanGBP) Kind() uint16       { return unix.IFLA_VXLAN_GBP }
func (VxlanGBP) ValueLen() int      { return 0 }
func (VxlanGBP) EmitValue(_ []byte) {}
func (VxlanGBP) vxlanAttribute()    {}

type VxlanGPE struct{}

func (VxlanGPE) Kind() uint16       { return unix.IFLA_VXLAN_GPE }
func (VxlanGPE) ValueLen() int      { return 0 }
func (VxlanGPE) EmitValue(_ []byte) {}
func (VxlanGPE) vxlanAttribute()    {}

type VxlanRemCsumNoPartial struct{}

func (VxlanRemCsumNoPartial) Kind() uint16       { return unix.IFLA_VXLAN_REMCSUM_NOPARTIAL }
func (VxlanRemCsumNoPartial) ValueLen() int      { return 0 }
func (VxlanRemCsumNoPartial) EmitValue(_ []byte) {}
func (VxlanRemCsumNoPartial) vxlanAttribute()    {}

func parseVxlan(b []byte) ([]VxlanAttr, error) {
	var attrs []VxlanAttr
	it := rtattr.NewIterator(b)
	for it.Next() {
		a, err := parseVxlanAttr(it.Type(), it.Value())
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

func parseVxlanAttr(typ uint16, v []byte) (VxlanAttr, error) {
	switch typ {
	case unix.IFLA_VXLAN_ID:
		u, err := rtattr.Uint32(v)
		return VxlanID(u), err
	case unix.IFLA_VXLAN_LINK:
		u, err := rtattr.Uint32(v)
		return VxlanLink(u), err
	case unix.IFLA_VXLAN_LABEL:
		u, err := rtattr.Uint32(v)
		return VxlanLabel(u), err
	case unix.IFLA_VXLAN_AGEING:
		u, err := rtattr.Uint32(v)
		return VxlanAgeing(u), err
	case unix.IFLA_VXLAN_LIMIT:
		u, err := rtattr.Uint32(v)
		return VxlanLimit(u), err
	case unix.IFLA_VXLAN_GROUP:
		ip, err := rtattr.IPv4(v)
		return VxlanGroup(ip), err
	case unix.IFLA_VXLAN_LOCAL:
		ip, err := rtattr.IPv4(v)
		return VxlanLocal(ip), err
	case unix.IFLA_VXLAN_GROUP6:
		ip, err := rtattr.IPv6(v)
		return VxlanGroup6(ip), err
	case unix.IFLA_VXLAN_LOCAL6:
		ip, err := rtattr.IPv6(v)
		return VxlanLocal6(ip), err
	case unix.IFLA_VXLAN_TOS:
		u, err := rtattr.Uint8(v)
		return VxlanTos(u), err
	case unix.IFLA_VXLAN_TTL:
		u, err := rtattr.Uint8(v)
		return VxlanTTL(u), err
	case unix.IFLA_VXLAN_DF:
		u, err := rtattr.Uint8(v)
		return VxlanDF(u), err
	case unix.IFLA_VXLAN_PORT:
		u, err := rtattr.Uint16BE(v)
		return VxlanPort(u), err
	case unix.IFLA_VXLAN_PORT_RANGE:
		if err := rtattr.CheckLen(v, 4); err != nil {
			return nil, err
		}
		return VxlanPortRange{
			Low:  binary.BigEndian.Uint16(v[0:2]),
			High: binary.BigEndian.Uint16(v[2:4]),
		}, nil
	case unix.IFLA_VXLAN_LEARNING:
		t, err := rtattr.Bool(v)
		return VxlanLearning(t), err
	case unix.IFLA_VXLAN_PROXY:
		t, err := rtattr.Bool(v)
		return VxlanProxy(t), err
	case unix.IFLA_VXLAN_RSC:
		t, err := rtattr.Bool(v)
		return VxlanRSC(t), err
	case unix.IFLA_VXLAN_L2MISS:
		t, err := rtattr.Bool(v)
		return VxlanL2Miss(t), err
	case unix.IFLA_VXLAN_L3MISS:
		t, err := rtattr.Bool(v)
		return VxlanL3Miss(t), err
	case unix.IFLA_VXLAN_COLLECT_METADATA:
		t, err := rtattr.Bool(v)
		return VxlanCollectMetadata(t), err
	case unix.IFLA_VXLAN_UDP_CSUM:
		t, err := rtattr.Bool(v)
		return VxlanUDPCsum(t), err
	case unix.IFLA_VXLAN_UDP_ZERO_CSUM6_TX:
		t, err := rtattr.Bool(v)
		return VxlanUDPZeroCsumTX(t), err
	case unix.IFLA_VXLAN_UDP_ZERO_CSUM6_RX:
		t, err := rtattr.Bool(v)
		return VxlanUDPZeroCsumRX(t), err
	case unix.IFLA_VXLAN_REMCSUM_TX:
		t, err := rtattr.Bool(v)
		return VxlanRemCsumTX(t), err
	case unix.IFLA_VXLAN_REMCSUM_RX:
		t, err := rtattr.Bool(v)
		return VxlanRemCsumRX(t), err
	case unix.IFLA_VXLAN_TTL_INHERIT:
		t, err := rtattr.Bool(v)
		return VxlanTTLInherit(t), err
	case iflaVxlanVniFilter:
		t, err := rtattr.Bool(v)
		return VxlanVniFilter(t), err
	case iflaVxlanLocalBypass:
		t, err := rtattr.Bool(v)
		return VxlanLocalBypass(t), err
	case unix.IFLA_VXLAN_GBP:
		return VxlanGBP{}, nil
	case unix.IFLA_VXLAN_GPE:
		return VxlanGPE{}, nil
	case unix.IFLA_VXLAN_REMCSUM_NOPARTIAL:
		return VxlanRemCsumNoPartial{}, nil
	default:
		return other(typ, v), nil
	}
}
