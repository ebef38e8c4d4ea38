package link

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"golang.org/x/sys/unix"
)

// Driver kind strings with a modeled option namespace.  The kind string
// carried by IFLA_INFO_KIND (or IFLA_INFO_SLAVE_KIND) is the only way to
// resolve the numeric kinds inside the matching data container.
const (
	KindVxlan  = "vxlan"
	KindIPVlan = "ipvlan"
	KindBond   = "bond"
)

// InfoAttr is one attribute in the IFLA_LINKINFO nest.
type InfoAttr interface {
	rtattr.Attribute
	infoAttribute()
}

// Info is the IFLA_LINKINFO container attribute.
type Info []InfoAttr

func (Info) Kind() uint16 { return unix.IFLA_LINKINFO }

func (i Info) ValueLen() int {
	total := 0
	for _, a := range i {
		total += rtattr.Len(a)
	}
	return total
}

func (i Info) EmitValue(b []byte) {
	off := 0
	for _, a := range i {
		off += rtattr.Emit(b[off:], a)
	}
}

func (Info) linkAttribute() {}

// InfoKind is the driver name of the link (IFLA_INFO_KIND).
type InfoKind string

func (InfoKind) Kind() uint16         { return unix.IFLA_INFO_KIND }
func (k InfoKind) ValueLen() int      { return len(k) + 1 }
func (k InfoKind) EmitValue(b []byte) { rtattr.PutString(b, string(k)) }
func (InfoKind) infoAttribute()       {}

// InfoSlaveKind is the driver name of the controlling link
// (IFLA_INFO_SLAVE_KIND).
type InfoSlaveKind string

func (InfoSlaveKind) Kind() uint16         { return unix.IFLA_INFO_SLAVE_KIND }
func (k InfoSlaveKind) ValueLen() int      { return len(k) + 1 }
func (k InfoSlaveKind) EmitValue(b []byte) { rtattr.PutString(b, string(k)) }
func (InfoSlaveKind) infoAttribute()       {}

// InfoXstats carries driver statistics this package does not interpret
// (IFLA_INFO_XSTATS).
type InfoXstats []byte

func (InfoXstats) Kind() uint16         { return unix.IFLA_INFO_XSTATS }
func (x InfoXstats) ValueLen() int      { return len(x) }
func (x InfoXstats) EmitValue(b []byte) { copy(b, x) }
func (InfoXstats) infoAttribute()       {}

// VxlanData is IFLA_INFO_DATA when the driver kind is "vxlan".
type VxlanData []VxlanAttr

func (VxlanData) Kind() uint16 { return unix.IFLA_INFO_DATA }

func (d VxlanData) ValueLen() int {
	total := 0
	for _, a := range d {
		total += rtattr.Len(a)
	}
	return total
}

func (d VxlanData) EmitValue(b []byte) {
	off := 0
	for _, a := range d {
		off += rtattr.Emit(b[off:], a)
	}
}

func (VxlanData) infoAttribute() {}

// IPVlanData is IFLA_INFO_DATA when the driver kind is "ipvlan".
type IPVlanData []IPVlanAttr

func (IPVlanData) Kind() uint16 { return unix.IFLA_INFO_DATA }

func (d IPVlanData) ValueLen() int {
	total := 0
	for _, a := range d {
		total += rtattr.Len(a)
	}
	return total
}

func (d IPVlanData) EmitValue(b []byte) {
	off := 0
	for _, a := range d {
		off += rtattr.Emit(b[off:], a)
	}
}

func (IPVlanData) infoAttribute() {}

// InfoData is IFLA_INFO_DATA for a driver kind without a model here.  The
// protocol provides no generic way to sub-split an unknown driver's options,
// so the whole value is kept as an opaque blob.
type InfoData []byte

func (InfoData) Kind() uint16         { return unix.IFLA_INFO_DATA }
func (d InfoData) ValueLen() int      { return len(d) }
func (d InfoData) EmitValue(b []byte) { copy(b, d) }
func (InfoData) infoAttribute()       {}

// BondPortData is IFLA_INFO_SLAVE_DATA when the slave driver kind is "bond".
type BondPortData []BondPortAttr

func (BondPortData) Kind() uint16 { return unix.IFLA_INFO_SLAVE_DATA }

func (d BondPortData) ValueLen() int {
	total := 0
	for _, a := range d {
		total += rtattr.Len(a)
	}
	return total
}

func (d BondPortData) EmitValue(b []byte) {
	off := 0
	for _, a := range d {
		off += rtattr.Emit(b[off:], a)
	}
}

func (BondPortData) infoAttribute() {}

// InfoSlaveData is IFLA_INFO_SLAVE_DATA for an unmodeled slave driver kind.
type InfoSlaveData []byte

func (InfoSlaveData) Kind() uint16         { return unix.IFLA_INFO_SLAVE_DATA }
func (d InfoSlaveData) ValueLen() int      { return len(d) }
func (d InfoSlaveData) EmitValue(b []byte) { copy(b, d) }
func (InfoSlaveData) infoAttribute()       {}

// parseInfo decodes the IFLA_LINKINFO nest.  The kernel emits the kind
// strings before the data containers, but nothing in the format requires
// that, so the kinds are collected in a first pass and the data containers
// resolved in a second.  The collected kinds gate dispatch only; each
// record keeps its own value, so duplicate kind records are never merged.
func parseInfo(v []byte) (Info, error) {
	var kind, slaveKind string
	it := rtattr.NewIterator(v)
	for it.Next() {
		switch it.Type() {
		case unix.IFLA_INFO_KIND:
			kind = rtattr.String(it.Value())
		case unix.IFLA_INFO_SLAVE_KIND:
			slaveKind = rtattr.String(it.Value())
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	var info Info
	it = rtattr.NewIterator(v)
	for it.Next() {
		val := it.Value()
		switch it.Type() {
		case unix.IFLA_INFO_KIND:
			info = append(info, InfoKind(rtattr.String(val)))
		case unix.IFLA_INFO_SLAVE_KIND:
			info = append(info, InfoSlaveKind(rtattr.String(val)))
		case unix.IFLA_INFO_XSTATS:
			info = append(info, InfoXstats(append([]byte(nil), val...)))
		case unix.IFLA_INFO_DATA:
			data, err := parseInfoData(kind, val)
			if err != nil {
				return nil, err
			}
			info = append(info, data)
		case unix.IFLA_INFO_SLAVE_DATA:
			data, err := parseSlaveData(slaveKind, val)
			if err != nil {
				return nil, err
			}
			info = append(info, data)
		default:
			info = append(info, other(it.Type(), val))
		}
	}
	return info, it.Err()
}

func parseInfoData(kind string, v []byte) (InfoAttr, error) {
	switch kind {
	case KindVxlan:
		attrs, err := parseVxlan(v)
		return VxlanData(attrs), err
	case KindIPVlan:
		attrs, err := parseIPVlan(v)
		return IPVlanData(attrs), err
	default:
		return InfoData(append([]byte(nil), v...)), nil
	}
}

func parseSlaveData(kind string, v []byte) (InfoAttr, error) {
	switch kind {
	case KindBond:
		attrs, err := parseBondPort(v)
		return BondPortData(attrs), err
	default:
		return InfoSlaveData(append([]byte(nil), v...)), nil
	}
}
