package link

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// IPVlanAttr is one attribute of an ipvlan IFLA_INFO_DATA nest.
type IPVlanAttr interface {
	rtattr.Attribute
	ipVlanAttribute()
}

// IPVlanMode is the ipvlan operating mode (IFLA_IPVLAN_MODE).  Integer
// backed, so modes added by newer kernels round-trip unchanged.
type IPVlanMode uint16

// Modes from uapi/linux/if_link.h.
const (
	IPVlanModeL2 IPVlanMode = iota
	IPVlanModeL3
	IPVlanModeL3S
)

func (IPVlanMode) Kind() uint16         { return unix.IFLA_IPVLAN_MODE }
func (IPVlanMode) ValueLen() int        { return 2 }
func (m IPVlanMode) EmitValue(b []byte) { nlenc.PutUint16(b, uint16(m)) }
func (IPVlanMode) ipVlanAttribute()     {}

func (m IPVlanMode) String() string {
	switch m {
	case IPVlanModeL2:
		return "l2"
	case IPVlanModeL3:
		return "l3"
	case IPVlanModeL3S:
		return "l3s"
	}
	return "other"
}

// IPVlanFlags is the ipvlan flag word (IFLA_IPVLAN_FLAGS).  All bits are
// retained, named or not, so flags added by newer kernels are never dropped
// on a round trip.
type IPVlanFlags uint16

// Named flag bits from uapi/linux/if_link.h.
const (
	IPVlanPrivate IPVlanFlags = 0x01
	IPVlanVepa    IPVlanFlags = 0x02
)

func (IPVlanFlags) Kind() uint16         { return unix.IFLA_IPVLAN_FLAGS }
func (IPVlanFlags) ValueLen() int        { return 2 }
func (f IPVlanFlags) EmitValue(b []byte) { nlenc.PutUint16(b, uint16(f)) }
func (IPVlanFlags) ipVlanAttribute()     {}

// Private reports the IPVLAN_F_PRIVATE bit.
func (f IPVlanFlags) Private() bool { return f&IPVlanPrivate != 0 }

// Vepa reports the IPVLAN_F_VEPA bit.
func (f IPVlanFlags) Vepa() bool { return f&IPVlanVepa != 0 }

func parseIPVlan(b []byte) ([]IPVlanAttr, error) {
	var attrs []IPVlanAttr
	it := rtattr.NewIterator(b)
	for it.Next() {
		v := it.Value()
		switch it.Type() {
		case unix.IFLA_IPVLAN_MODE:
			u, err := rtattr.Uint16(v)
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, IPVlanMode(u))
		case unix.IFLA_IPVLAN_FLAGS:
			u, err := rtattr.Uint16(v)
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, IPVlanFlags(u))
		default:
			attrs = append(attrs, other(it.Type(), v))
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return attrs, nil
}
