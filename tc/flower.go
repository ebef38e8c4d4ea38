package tc

import (
	"encoding/binary"
	"net"

	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
)

// Flower option kinds from uapi/linux/pkt_cls.h.
const (
	tcaFlowerClassID        = 1
	tcaFlowerIndev          = 2
	tcaFlowerKeyEthDst      = 4
	tcaFlowerKeyEthDstMask  = 5
	tcaFlowerKeyEthSrc      = 6
	tcaFlowerKeyEthSrcMask  = 7
	tcaFlowerKeyEthType     = 8
	tcaFlowerKeyIPProto     = 9
	tcaFlowerKeyIPv4Src     = 10
	tcaFlowerKeyIPv4SrcMask = 11
	tcaFlowerKeyIPv4Dst     = 12
	tcaFlowerKeyIPv4DstMask = 13
	tcaFlowerKeyIPv6Src     = 14
	tcaFlowerKeyIPv6SrcMask = 15
	tcaFlowerKeyIPv6Dst     = 16
	tcaFlowerKeyIPv6DstMask = 17
	tcaFlowerKeyTCPSrc      = 18
	tcaFlowerKeyTCPDst      = 19
	tcaFlowerKeyUDPSrc      = 20
	tcaFlowerKeyUDPDst      = 21
	tcaFlowerFlags          = 22
)

// FlowerClassID is the class the filter assigns matching packets to
// (TCA_FLOWER_CLASSID).
type FlowerClassID uint32

func (FlowerClassID) Kind() uint16         { return tcaFlowerClassID }
func (FlowerClassID) ValueLen() int        { return 4 }
func (c FlowerClassID) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(c)) }
func (FlowerClassID) tcOption()            {}

// FlowerIndev is the ingress device name the key matches on
// (TCA_FLOWER_INDEV).
type FlowerIndev string

func (FlowerIndev) Kind() uint16         { return tcaFlowerIndev }
func (i FlowerIndev) ValueLen() int      { return len(i) + 1 }
func (i FlowerIndev) EmitValue(b []byte) { rtattr.PutString(b, string(i)) }
func (FlowerIndev) tcOption()            {}

// FlowerKeyEthDst is the destination MAC key (TCA_FLOWER_KEY_ETH_DST).
type FlowerKeyEthDst net.HardwareAddr

func (FlowerKeyEthDst) Kind() uint16         { return tcaFlowerKeyEthDst }
func (a FlowerKeyEthDst) ValueLen() int      { return len(a) }
func (a FlowerKeyEthDst) EmitValue(b []byte) { copy(b, a) }
func (FlowerKeyEthDst) tcOption()            {}

// FlowerKeyEthDstMask is the destination MAC mask
// (TCA_FLOWER_KEY_ETH_DST_MASK).
type FlowerKeyEthDstMask net.HardwareAddr

func (FlowerKeyEthDstMask) Kind() uint16         { return tcaFlowerKeyEthDstMask }
func (a FlowerKeyEthDstMask) ValueLen() int      { return len(a) }
func (a FlowerKeyEthDstMask) EmitValue(b []byte) { copy(b, a) }
func (FlowerKeyEthDstMask) tcOption()            {}

// FlowerKeyEthSrc is the source MAC key (TCA_FLOWER_KEY_ETH_SRC).
type FlowerKeyEthSrc net.HardwareAddr

func (FlowerKeyEthSrc) Kind() uint16         { return tcaFlowerKeyEthSrc }
func (a FlowerKeyEthSrc) ValueLen() int      { return len(a) }
func (a FlowerKeyEthSrc) EmitValue(b []byte) { copy(b, a) }
func (FlowerKeyEthSrc) tcOption()            {}

// FlowerKeyEthSrcMask is the source MAC mask (TCA_FLOWER_KEY_ETH_SRC_MASK).
type FlowerKeyEthSrcMask net.HardwareAddr

func (FlowerKeyEthSrcMask) Kind() uint16         { return tcaFlowerKeyEthSrcMask }
func (a FlowerKeyEthSrcMask) ValueLen() int      { return len(a) }
func (a FlowerKeyEthSrcMask) EmitValue(b []byte) { copy(b, a) }
func (FlowerKeyEthSrcMask) tcOption()            {}

// FlowerKeyEthType is the ethertype key, in network byte order on the
// wire (TCA_FLOWER_KEY_ETH_TYPE).
type FlowerKeyEthType uint16

func (FlowerKeyEthType) Kind() uint16         { return tcaFlowerKeyEthType }
func (FlowerKeyEthType) ValueLen() int        { return 2 }
func (t FlowerKeyEthType) EmitValue(b []byte) { binary.BigEndian.PutUint16(b, uint16(t)) }
func (FlowerKeyEthType) tcOption()            {}

// FlowerKeyIPProto is the IP protocol key (TCA_FLOWER_KEY_IP_PROTO).
type FlowerKeyIPProto uint8

func (FlowerKeyIPProto) Kind() uint16         { return tcaFlowerKeyIPProto }
func (FlowerKeyIPProto) ValueLen() int        { return 1 }
func (p FlowerKeyIPProto) EmitValue(b []byte) { b[0] = uint8(p) }
func (FlowerKeyIPProto) tcOption()            {}

// FlowerKeyIPv4Src is the IPv4 source key (TCA_FLOWER_KEY_IPV4_SRC).
type FlowerKeyIPv4Src net.IP

func (FlowerKeyIPv4Src) Kind() uint16         { return tcaFlowerKeyIPv4Src }
func (FlowerKeyIPv4Src) ValueLen() int        { return net.IPv4len }
func (a FlowerKeyIPv4Src) EmitValue(b []byte) { copy(b, net.IP(a).To4()) }
func (FlowerKeyIPv4Src) tcOption()            {}

// FlowerKeyIPv4SrcMask is the IPv4 source mask
// (TCA_FLOWER_KEY_IPV4_SRC_MASK).
type FlowerKeyIPv4SrcMask net.IP

func (FlowerKeyIPv4SrcMask) Kind() uint16         { return tcaFlowerKeyIPv4SrcMask }
func (FlowerKeyIPv4SrcMask) ValueLen() int        { return net.IPv4len }
func (a FlowerKeyIPv4SrcMask) EmitValue(b []byte) { copy(b, net.IP(a).To4()) }
func (FlowerKeyIPv4SrcMask) tcOption()            {}

// FlowerKeyIPv4Dst is the IPv4 destination key (TCA_FLOWER_KEY_IPV4_DST).
type FlowerKeyIPv4Dst net.IP

func (FlowerKeyIPv4Dst) Kind() uint16         { return tcaFlowerKeyIPv4Dst }
func (FlowerKeyIPv4Dst) ValueLen() int        { return net.IPv4len }
func (a FlowerKeyIPv4Dst) EmitValue(b []byte) { copy(b, net.IP(a).To4()) }
func (FlowerKeyIPv4Dst) tcOption()            {}

// FlowerKeyIPv4DstMask is the IPv4 destination mask
// (TCA_FLOWER_KEY_IPV4_DST_MASK).
type FlowerKeyIPv4DstMask net.IP

func (FlowerKeyIPv4DstMask) Kind() uint16         { return tcaFlowerKeyIPv4DstMask }
func (FlowerKeyIPv4DstMask) ValueLen() int        { return net.IPv4len }
func (a FlowerKeyIPv4DstMask) EmitValue(b []byte) { copy(b, net.IP(a).To4()) }
func (FlowerKeyIPv4DstMask) tcOption()            {}

// FlowerKeyIPv6Src is the IPv6 source key (TCA_FLOWER_KEY_IPV6_SRC).
type FlowerKeyIPv6Src net.IP

func (FlowerKeyIPv6Src) Kind() uint16         { return tcaFlowerKeyIPv6Src }
func (FlowerKeyIPv6Src) ValueLen() int        { return net.IPv6len }
func (a FlowerKeyIPv6Src) EmitValue(b []byte) { copy(b, net.IP(a).To16()) }
func (FlowerKeyIPv6Src) tcOption()            {}

// FlowerKeyIPv6SrcMask is the IPv6 source mask
// (TCA_FLOWER_KEY_IPV6_SRC_MASK).
type FlowerKeyIPv6SrcMask net.IP

func (FlowerKeyIPv6SrcMask) Kind() uint16         { return tcaFlowerKeyIPv6SrcMask }
func (FlowerKeyIPv6SrcMask) ValueLen() int        { return net.IPv6len }
func (a FlowerKeyIPv6SrcMask) EmitValue(b []byte) { copy(b, net.IP(a).To16()) }
func (FlowerKeyIPv6SrcMask) tcOption()            {}

// FlowerKeyIPv6Dst is the IPv6 destination key (TCA_FLOWER_KEY_IPV6_DST).
type FlowerKeyIPv6Dst net.IP

func (FlowerKeyIPv6Dst) Kind() uint16         { return tcaFlowerKeyIPv6Dst }
func (FlowerKeyIPv6Dst) ValueLen() int        { return net.IPv6len }
func (a FlowerKeyIPv6Dst) EmitValue(b []byte) { copy(b, net.IP(a).To16()) }
func (FlowerKeyIPv6Dst) tcOption()            {}

// FlowerKeyIPv6DstMask is the IPv6 destination mask
// (TCA_FLOWER_KEY_IPV6_DST_MASK).
type FlowerKeyIPv6DstMask net.IP

func (FlowerKeyIPv6DstMask) Kind() uint16         { return tcaFlowerKeyIPv6DstMask }
func (FlowerKeyIPv6DstMask) ValueLen() int        { return net.IPv6len }
func (a FlowerKeyIPv6DstMask) EmitValue(b []byte) { copy(b, net.IP(a).To16()) }
func (FlowerKeyIPv6DstMask) tcOption()            {}

// FlowerKeyTCPSrc is the TCP source port key, in network byte order on
// the wire (TCA_FLOWER_KEY_TCP_SRC).
type FlowerKeyTCPSrc uint16

func (FlowerKeyTCPSrc) Kind() uint16         { return tcaFlowerKeyTCPSrc }
func (FlowerKeyTCPSrc) ValueLen() int        { return 2 }
func (p FlowerKeyTCPSrc) EmitValue(b []byte) { binary.BigEndian.PutUint16(b, uint16(p)) }
func (FlowerKeyTCPSrc) tcOption()            {}

// FlowerKeyTCPDst is the TCP destination port key, in network byte order
// on the wire (TCA_FLOWER_KEY_TCP_DST).
type FlowerKeyTCPDst uint16

func (FlowerKeyTCPDst) Kind() uint16         { return tcaFlowerKeyTCPDst }
func (FlowerKeyTCPDst) ValueLen() int        { return 2 }
func (p FlowerKeyTCPDst) EmitValue(b []byte) { binary.BigEndian.PutUint16(b, uint16(p)) }
func (FlowerKeyTCPDst) tcOption()            {}

// FlowerKeyUDPSrc is the UDP source port key, in network byte order on
// the wire (TCA_FLOWER_KEY_UDP_SRC).
type FlowerKeyUDPSrc uint16

func (FlowerKeyUDPSrc) Kind() uint16         { return tcaFlowerKeyUDPSrc }
func (FlowerKeyUDPSrc) ValueLen() int        { return 2 }
func (p FlowerKeyUDPSrc) EmitValue(b []byte) { binary.BigEndian.PutUint16(b, uint16(p)) }
func (FlowerKeyUDPSrc) tcOption()            {}

// FlowerKeyUDPDst is the UDP destination port key, in network byte order
// on the wire (TCA_FLOWER_KEY_UDP_DST).
type FlowerKeyUDPDst uint16

func (FlowerKeyUDPDst) Kind() uint16         { return tcaFlowerKeyUDPDst }
func (FlowerKeyUDPDst) ValueLen() int        { return 2 }
func (p FlowerKeyUDPDst) EmitValue(b []byte) { binary.BigEndian.PutUint16(b, uint16(p)) }
func (FlowerKeyUDPDst) tcOption()            {}

// FlowerFlags is the filter flag word (TCA_FLOWER_FLAGS).
type FlowerFlags uint32

func (FlowerFlags) Kind() uint16         { return tcaFlowerFlags }
func (FlowerFlags) ValueLen() int        { return 4 }
func (f FlowerFlags) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(f)) }
func (FlowerFlags) tcOption()            {}

func parseFlowerOption(typ uint16, v []byte) (Option, error) {
	switch typ {
	case tcaFlowerClassID:
		u, err := rtattr.Uint32(v)
		return FlowerClassID(u), err
	case tcaFlowerIndev:
		return FlowerIndev(rtattr.String(v)), nil
	case tcaFlowerKeyEthDst:
		return FlowerKeyEthDst(append([]byte(nil), v...)), nil
	case tcaFlowerKeyEthDstMask:
		return FlowerKeyEthDstMask(append([]byte(nil), v...)), nil
	case tcaFlowerKeyEthSrc:
		return FlowerKeyEthSrc(append([]byte(nil), v...)), nil
	case tcaFlowerKeyEthSrcMask:
		return FlowerKeyEthSrcMask(append([]byte(nil), v...)), nil
	case tcaFlowerKeyEthType:
		u, err := rtattr.Uint16BE(v)
		return FlowerKeyEthType(u), err
	case tcaFlowerKeyIPProto:
		u, err := rtattr.Uint8(v)
		return FlowerKeyIPProto(u), err
	case tcaFlowerKeyIPv4Src:
		ip, err := rtattr.IPv4(v)
		return FlowerKeyIPv4Src(ip), err
	case tcaFlowerKeyIPv4SrcMask:
		ip, err := rtattr.IPv4(v)
		return FlowerKeyIPv4SrcMask(ip), err
	case tcaFlowerKeyIPv4Dst:
		ip, err := rtattr.IPv4(v)
		return FlowerKeyIPv4Dst(ip), err
	case tcaFlowerKeyIPv4DstMask:
		ip, err := rtattr.IPv4(v)
		return FlowerKeyIPv4DstMask(ip), err
	case tcaFlowerKeyIPv6Src:
		ip, err := rtattr.IPv6(v)
		return FlowerKeyIPv6Src(ip), err
	case tcaFlowerKeyIPv6SrcMask:
		ip, err := rtattr.IPv6(v)
		return FlowerKeyIPv6SrcMask(ip), err
	case tcaFlowerKeyIPv6Dst:
		ip, err := rtattr.IPv6(v)
		return FlowerKeyIPv6Dst(ip), err
	case tcaFlowerKeyIPv6DstMask:
		ip, err := rtattr.IPv6(v)
		return FlowerKeyIPv6DstMask(ip), err
	case tcaFlowerKeyTCPSrc:
		u, err := rtattr.Uint16BE(v)
		return FlowerKeyTCPSrc(u), err
	case tcaFlowerKeyTCPDst:
		u, err := rtattr.Uint16BE(v)
		return FlowerKeyTCPDst(u), err
	case tcaFlowerKeyUDPSrc:
		u, err := rtattr.Uint16BE(v)
		return FlowerKeyUDPSrc(u), err
	case tcaFlowerKeyUDPDst:
		u, err := rtattr.Uint16BE(v)
		return FlowerKeyUDPDst(u), err
	case tcaFlowerFlags:
		u, err := rtattr.Uint32(v)
		return FlowerFlags(u), err
	default:
		return Other(rtattr.ParseRaw(typ, v)), nil
	}
}
