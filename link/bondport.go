package link

import (
	"net"

	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// IFLA_BOND_SLAVE_PRIO, from uapi/linux/if_link.h; not yet in x/sys/unix.
const iflaBondPortPrio = 9

// BondPortAttr is one attribute of a bond IFLA_INFO_SLAVE_DATA nest.
type BondPortAttr interface {
	rtattr.Attribute
	bondPortAttribute()
}

// BondPortState is the port's active/backup state (IFLA_BOND_SLAVE_STATE).
type BondPortState uint8

const (
	BondPortActive BondPortState = iota
	BondPortBackup
)

func (BondPortState) Kind() uint16         { return unix.IFLA_BOND_SLAVE_STATE }
func (BondPortState) ValueLen() int        { return 1 }
func (s BondPortState) EmitValue(b []byte) { b[0] = uint8(s) }
func (BondPortState) bondPortAttribute()   {}

func (s BondPortState) String() string {
	switch s {
	case BondPortActive:
		return "active"
	case BondPortBackup:
		return "backup"
	}
	return "other"
}

// BondPortMiiStatus is the port's MII link-monitoring state
// (IFLA_BOND_SLAVE_MII_STATUS).
type BondPortMiiStatus uint8

const (
	MiiUp BondPortMiiStatus = iota
	MiiGoingDown
	MiiDown
	MiiGoingBack
)

func (BondPortMiiStatus) Kind() uint16         { return unix.IFLA_BOND_SLAVE_MII_STATUS }
func (BondPortMiiStatus) ValueLen() int        { return 1 }
func (s BondPortMiiStatus) EmitValue(b []byte) { b[0] = uint8(s) }
func (BondPortMiiStatus) bondPortAttribute()   {}

func (s BondPortMiiStatus) String() string {
	switch s {
	case MiiUp:
		return "up"
	case MiiGoingDown:
		return "going-down"
	case MiiDown:
		return "down"
	case MiiGoingBack:
		return "going-back"
	}
	return "other"
}

// BondPortLinkFailureCount counts link failures on the port
// (IFLA_BOND_SLAVE_LINK_FAILURE_COUNT).
type BondPortLinkFailureCount uint32

func (BondPortLinkFailureCount) Kind() uint16 {
	return unix.IFLA_BOND_SLAVE_LINK_FAILURE_COUNT
}
func (BondPortLinkFailureCount) ValueLen() int { return 4 }
func (c BondPortLinkFailureCount) EmitValue(b []byte) {
	nlenc.PutUint32(b, uint32(c))
}
func (BondPortLinkFailureCount) bondPortAttribute() {}

// BondPortPermHWAddr is the port's permanent hardware address
// (IFLA_BOND_SLAVE_PERM_HWADDR).
type BondPortPermHWAddr net.HardwareAddr

func (BondPortPermHWAddr) Kind() uint16          { return unix.IFLA_BOND_SLAVE_PERM_HWADDR }
func (a BondPortPermHWAddr) ValueLen() int       { return len(a) }
func (a BondPortPermHWAddr) EmitValue(b []byte)  { copy(b, a) }
func (BondPortPermHWAddr) bondPortAttribute()    {}

// BondPortQueueID is the port's queue id (IFLA_BOND_SLAVE_QUEUE_ID).
type BondPortQueueID uint16

func (BondPortQueueID) Kind() uint16         { return unix.IFLA_BOND_SLAVE_QUEUE_ID }
func (BondPortQueueID) ValueLen() int        { return 2 }
func (q BondPortQueueID) EmitValue(b []byte) { nlenc.PutUint16(b, uint16(q)) }
func (BondPortQueueID) bondPortAttribute()   {}

// BondPortPrio is the port's failover priority (IFLA_BOND_SLAVE_PRIO).
type BondPortPrio int32

func (BondPortPrio) Kind() uint16         { return iflaBondPortPrio }
func (BondPortPrio) ValueLen() int        { return 4 }
func (p BondPortPrio) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(p)) }
func (BondPortPrio) bondPortAttribute()   {}

func parseBondPort(b []byte) ([]BondPortAttr, error) {
	var attrs []BondPortAttr
	it := rtattr.NewIterator(b)
	for it.Next() {
		a, err := parseBondPortAttr(it.Type(), it.Value())
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

func parseBondPortAttr(typ uint16, v []byte) (BondPortAttr, error) {
	switch typ {
	case unix.IFLA_BOND_SLAVE_STATE:
		u, err := rtattr.Uint8(v)
		return BondPortState(u), err
	case unix.IFLA_BOND_SLAVE_MII_STATUS:
		u, err := rtattr.Uint8(v)
		return BondPortMiiStatus(u), err
	case unix.IFLA_BOND_SLAVE_LINK_FAILURE_COUNT:
		u, err := rtattr.Uint32(v)
		return BondPortLinkFailureCount(u), err
	case unix.IFLA_BOND_SLAVE_PERM_HWADDR:
		return BondPortPermHWAddr(append([]byte(nil), v...)), nil
	case unix.IFLA_BOND_SLAVE_QUEUE_ID:
		u, err := rtattr.Uint16(v)
		return BondPortQueueID(u), err
	case iflaBondPortPrio:
		u, err := rtattr.Int32(v)
		return BondPortPrio(u), err
	default:
		return other(typ, v), nil
	}
}
