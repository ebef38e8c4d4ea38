package link

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
)

// Icmp6StatsLen is the fixed size of struct icmp6_mib on the wire: seven
// native-order 64-bit counters at 8-byte strides.
const Icmp6StatsLen = 56

// Icmp6Stats is the ICMPv6 statistics block carried in the AF_INET6 nest
// (IFLA_INET6_ICMP6STATS).
type Icmp6Stats struct {
	Num           int64
	InMsgs        int64
	InErrors      int64
	OutMsgs       int64
	OutErrors     int64
	CsumErrors    int64
	RateLimitHost int64
}

// ParseIcmp6Stats decodes the fixed-layout statistics block.  The buffer is
// validated once; each field then reads at its fixed offset.
func ParseIcmp6Stats(b []byte) (Icmp6Stats, error) {
	if err := rtattr.CheckLen(b, Icmp6StatsLen); err != nil {
		return Icmp6Stats{}, err
	}
	return Icmp6Stats{
		Num:           int64(nlenc.Uint64(b[0:8])),
		InMsgs:        int64(nlenc.Uint64(b[8:16])),
		InErrors:      int64(nlenc.Uint64(b[16:24])),
		OutMsgs:       int64(nlenc.Uint64(b[24:32])),
		OutErrors:     int64(nlenc.Uint64(b[32:40])),
		CsumErrors:    int64(nlenc.Uint64(b[40:48])),
		RateLimitHost: int64(nlenc.Uint64(b[48:56])),
	}, nil
}

func (Icmp6Stats) Kind() uint16 { return iflaInet6Icmp6Stats }

func (Icmp6Stats) ValueLen() int { return Icmp6StatsLen }

func (s Icmp6Stats) EmitValue(b []byte) {
	nlenc.PutUint64(b[0:8], uint64(s.Num))
	nlenc.PutUint64(b[8:16], uint64(s.InMsgs))
	nlenc.PutUint64(b[16:24], uint64(s.InErrors))
	nlenc.PutUint64(b[24:32], uint64(s.OutMsgs))
	nlenc.PutUint64(b[32:40], uint64(s.OutErrors))
	nlenc.PutUint64(b[40:48], uint64(s.CsumErrors))
	nlenc.PutUint64(b[48:56], uint64(s.RateLimitHost))
}

func (Icmp6Stats) inet6Attribute() {}
