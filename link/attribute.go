// Package link implements the rtnetlink attribute codec for network
// interface (RTM_*LINK) messages, including the nested link-info namespaces
// for the vxlan, ipvlan and bond drivers.
package link

import (
	"net"

	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// Attribute is one parsed IFLA_* attribute of a link message.  The set of
// implementations in this package is closed; kinds outside it parse as Other.
type Attribute interface {
	rtattr.Attribute
	linkAttribute()
}

// Address is the interface hardware address (IFLA_ADDRESS).
type Address net.HardwareAddr

func (Address) Kind() uint16        { return unix.IFLA_ADDRESS }
func (a Address) ValueLen() int     { return len(a) }
func (a Address) EmitValue(b []byte) { copy(b, a) }
func (Address) linkAttribute()      {}

// Broadcast is the link-layer broadcast address (IFLA_BROADCAST).
type Broadcast net.HardwareAddr

func (Broadcast) Kind() uint16        { return unix.IFLA_BROADCAST }
func (a Broadcast) ValueLen() int     { return len(a) }
func (a Broadcast) EmitValue(b []byte) { copy(b, a) }
func (Broadcast) linkAttribute()      {}

// IfName is the interface name (IFLA_IFNAME), NUL-terminated on the wire.
type IfName string

func (IfName) Kind() uint16         { return unix.IFLA_IFNAME }
func (n IfName) ValueLen() int      { return len(n) + 1 }
func (n IfName) EmitValue(b []byte) { rtattr.PutString(b, string(n)) }
func (IfName) linkAttribute()       {}

// IfAlias is the administrative interface alias (IFLA_IFALIAS).
type IfAlias string

func (IfAlias) Kind() uint16         { return unix.IFLA_IFALIAS }
func (n IfAlias) ValueLen() int      { return len(n) + 1 }
func (n IfAlias) EmitValue(b []byte) { rtattr.PutString(b, string(n)) }
func (IfAlias) linkAttribute()       {}

// Qdisc is the name of the root queueing discipline (IFLA_QDISC).
type Qdisc string

func (Qdisc) Kind() uint16         { return unix.IFLA_QDISC }
func (n Qdisc) ValueLen() int      { return len(n) + 1 }
func (n Qdisc) EmitValue(b []byte) { rtattr.PutString(b, string(n)) }
func (Qdisc) linkAttribute()       {}

// MTU is the maximum transfer unit (IFLA_MTU).
type MTU uint32

func (MTU) Kind() uint16         { return unix.IFLA_MTU }
func (MTU) ValueLen() int        { return 4 }
func (m MTU) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(m)) }
func (MTU) linkAttribute()       {}

// LinkIndex is the index of the underlying device (IFLA_LINK).
type LinkIndex uint32

func (LinkIndex) Kind() uint16         { return unix.IFLA_LINK }
func (LinkIndex) ValueLen() int        { return 4 }
func (l LinkIndex) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(l)) }
func (LinkIndex) linkAttribute()       {}

// Master is the index of the controlling device (IFLA_MASTER).
type Master uint32

func (Master) Kind() uint16         { return unix.IFLA_MASTER }
func (Master) ValueLen() int        { return 4 }
func (m Master) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(m)) }
func (Master) linkAttribute()       {}

// TxQueueLen is the transmit queue length (IFLA_TXQLEN).
type TxQueueLen uint32

func (TxQueueLen) Kind() uint16         { return unix.IFLA_TXQLEN }
func (TxQueueLen) ValueLen() int        { return 4 }
func (t TxQueueLen) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(t)) }
func (TxQueueLen) linkAttribute()       {}

// Group is the device group (IFLA_GROUP).
type Group uint32

func (Group) Kind() uint16         { return unix.IFLA_GROUP }
func (Group) ValueLen() int        { return 4 }
func (g Group) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(g)) }
func (Group) linkAttribute()       {}

// Promiscuity is the promiscuous-mode reference count (IFLA_PROMISCUITY).
type Promiscuity uint32

func (Promiscuity) Kind() uint16         { return unix.IFLA_PROMISCUITY }
func (Promiscuity) ValueLen() int        { return 4 }
func (p Promiscuity) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(p)) }
func (Promiscuity) linkAttribute()       {}

// NumTxQueues is the transmit queue count (IFLA_NUM_TX_QUEUES).
type NumTxQueues uint32

func (NumTxQueues) Kind() uint16         { return unix.IFLA_NUM_TX_QUEUES }
func (NumTxQueues) ValueLen() int        { return 4 }
func (n NumTxQueues) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(n)) }
func (NumTxQueues) linkAttribute()       {}

// NumRxQueues is the receive queue count (IFLA_NUM_RX_QUEUES).
type NumRxQueues uint32

func (NumRxQueues) Kind() uint16         { return unix.IFLA_NUM_RX_QUEUES }
func (NumRxQueues) ValueLen() int        { return 4 }
func (n NumRxQueues) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(n)) }
func (NumRxQueues) linkAttribute()       {}

// Carrier reports the physical carrier state (IFLA_CARRIER).
type Carrier bool

func (Carrier) Kind() uint16         { return unix.IFLA_CARRIER }
func (Carrier) ValueLen() int        { return 1 }
func (c Carrier) EmitValue(b []byte) { rtattr.PutBool(b, bool(c)) }
func (Carrier) linkAttribute()       {}

// LinkMode is the RFC 2863 link mode byte (IFLA_LINKMODE).
type LinkMode uint8

func (LinkMode) Kind() uint16         { return unix.IFLA_LINKMODE }
func (LinkMode) ValueLen() int        { return 1 }
func (m LinkMode) EmitValue(b []byte) { b[0] = uint8(m) }
func (LinkMode) linkAttribute()       {}

// OperState is the RFC 2863 operational state (IFLA_OPERSTATE).  The type is
// integer backed, so state codes added by newer kernels survive a parse/emit
// round trip unchanged.
type OperState uint8

// Operational states from uapi/linux/if.h.
const (
	OperUnknown OperState = iota
	OperNotPresent
	OperDown
	OperLowerLayerDown
	OperTesting
	OperDormant
	OperUp
)

func (OperState) Kind() uint16         { return unix.IFLA_OPERSTATE }
func (OperState) ValueLen() int        { return 1 }
func (s OperState) EmitValue(b []byte) { b[0] = uint8(s) }
func (OperState) linkAttribute()       {}

func (s OperState) String() string {
	switch s {
	case OperUnknown:
		return "unknown"
	case OperNotPresent:
		return "not-present"
	case OperDown:
		return "down"
	case OperLowerLayerDown:
		return "lower-layer-down"
	case OperTesting:
		return "testing"
	case OperDormant:
		return "dormant"
	case OperUp:
		return "up"
	}
	return "other"
}

// Other is the lossless fallback for any kind code this package does not
// model.  It satisfies every attribute namespace in the package so parsers at
// each nesting level can fall through to it.
type Other rtattr.Raw

func (o Other) Kind() uint16         { return o.Type }
func (o Other) ValueLen() int        { return len(o.Data) }
func (o Other) EmitValue(b []byte)   { copy(b, o.Data) }
func (Other) linkAttribute()         {}
func (Other) infoAttribute()         {}
func (Other) vxlanAttribute()        {}
func (Other) ipVlanAttribute()       {}
func (Other) bondPortAttribute()     {}
func (Other) afSpecAttribute()       {}
func (Other) inet6Attribute()        {}

func other(typ uint16, v []byte) Other {
	return Other(rtattr.ParseRaw(typ, v))
}

// ParseAttributes decodes the attribute section of a link message.  The
// address family from the message header selects how nested AF_SPEC entries
// are interpreted and is threaded through recursive parses.
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
	case unix.IFLA_ADDRESS:
		return Address(append([]byte(nil), v...)), nil
	case unix.IFLA_BROADCAST:
		return Broadcast(append([]byte(nil), v...)), nil
	case unix.IFLA_IFNAME:
		return IfName(rtattr.String(v)), nil
	case unix.IFLA_IFALIAS:
		return IfAlias(rtattr.String(v)), nil
	case unix.IFLA_QDISC:
		return Qdisc(rtattr.String(v)), nil
	case unix.IFLA_MTU:
		u, err := rtattr.Uint32(v)
		return MTU(u), err
	case unix.IFLA_LINK:
		u, err := rtattr.Uint32(v)
		return LinkIndex(u), err
	case unix.IFLA_MASTER:
		u, err := rtattr.Uint32(v)
		return Master(u), err
	case unix.IFLA_TXQLEN:
		u, err := rtattr.Uint32(v)
		return TxQueueLen(u), err
	case unix.IFLA_GROUP:
		u, err := rtattr.Uint32(v)
		return Group(u), err
	case unix.IFLA_PROMISCUITY:
		u, err := rtattr.Uint32(v)
		return Promiscuity(u), err
	case unix.IFLA_NUM_TX_QUEUES:
		u, err := rtattr.Uint32(v)
		return NumTxQueues(u), err
	case unix.IFLA_NUM_RX_QUEUES:
		u, err := rtattr.Uint32(v)
		return NumRxQueues(u), err
	case unix.IFLA_CARRIER:
		c, err := rtattr.Bool(v)
		return Carrier(c), err
	case unix.IFLA_LINKMODE:
		u, err := rtattr.Uint8(v)
		return LinkMode(u), err
	case unix.IFLA_OPERSTATE:
		u, err := rtattr.Uint8(v)
		return OperState(u), err
	case unix.IFLA_STATS64:
		return parseStats64(v)
	case unix.IFLA_LINKINFO:
		return parseInfo(v)
	case unix.IFLA_AF_SPEC:
		return parseAfSpec(v, family)
	default:
		return other(typ, v), nil
	}
}
