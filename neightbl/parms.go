package neightbl

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
)

// Parameter kinds from uapi/linux/rtnetlink.h (NDTPA_*).
const (
	ndtpaIfIndex           = 1
	ndtpaRefCount          = 2
	ndtpaReachableTime     = 3
	ndtpaBaseReachableTime = 4
	ndtpaRetransTime       = 5
	ndtpaGcStaleTime       = 6
	ndtpaDelayProbeTime    = 7
	ndtpaQueueLen          = 8
	ndtpaAppProbes         = 9
	ndtpaUcastProbes       = 10
	ndtpaMcastProbes       = 11
	ndtpaAnycastDelay      = 12
	ndtpaProxyDelay        = 13
	ndtpaProxyQlen         = 14
	ndtpaLocktime          = 15
	ndtpaQueueLenBytes     = 16
)

// ParmsAttr is one parsed NDTPA_* attribute inside NDTA_PARMS.
type ParmsAttr interface {
	rtattr.Attribute
	parmsAttribute()
}

// Parms is the nested per-device parameter block (NDTA_PARMS).
type Parms []ParmsAttr

func (Parms) Kind() uint16 { return ndtaParms }

func (p Parms) ValueLen() int {
	var n int
	for _, a := range p {
		n += rtattr.Len(a)
	}
	return n
}

func (p Parms) EmitValue(b []byte) {
	for _, a := range p {
		b = b[rtattr.Emit(b, a):]
	}
}

func (Parms) neighTblAttribute() {}

// IfIndex is the device the parameters apply to (NDTPA_IFINDEX).
type IfIndex uint32

func (IfIndex) Kind() uint16         { return ndtpaIfIndex }
func (IfIndex) ValueLen() int        { return 4 }
func (i IfIndex) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(i)) }
func (IfIndex) parmsAttribute()      {}

// RefCount is the parameter block reference count (NDTPA_REFCNT).
type RefCount uint32

func (RefCount) Kind() uint16         { return ndtpaRefCount }
func (RefCount) ValueLen() int        { return 4 }
func (r RefCount) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(r)) }
func (RefCount) parmsAttribute()      {}

// QueueLen is the packet queue length (NDTPA_QUEUE_LEN).
type QueueLen uint32

func (QueueLen) Kind() uint16         { return ndtpaQueueLen }
func (QueueLen) ValueLen() int        { return 4 }
func (q QueueLen) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(q)) }
func (QueueLen) parmsAttribute()      {}

// QueueLenBytes is the packet queue length in bytes (NDTPA_QUEUE_LENBYTES).
type QueueLenBytes uint32

func (QueueLenBytes) Kind() uint16         { return ndtpaQueueLenBytes }
func (QueueLenBytes) ValueLen() int        { return 4 }
func (q QueueLenBytes) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(q)) }
func (QueueLenBytes) parmsAttribute()      {}

// AppProbes is the app probe count (NDTPA_APP_PROBES).
type AppProbes uint32

func (AppProbes) Kind() uint16         { return ndtpaAppProbes }
func (AppProbes) ValueLen() int        { return 4 }
func (a AppProbes) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(a)) }
func (AppProbes) parmsAttribute()      {}

// UcastProbes is the unicast probe count (NDTPA_UCAST_PROBES).
type UcastProbes uint32

func (UcastProbes) Kind() uint16         { return ndtpaUcastProbes }
func (UcastProbes) ValueLen() int        { return 4 }
func (u UcastProbes) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(u)) }
func (UcastProbes) parmsAttribute()      {}

// McastProbes is the multicast probe count (NDTPA_MCAST_PROBES).
type McastProbes uint32

func (McastProbes) Kind() uint16         { return ndtpaMcastProbes }
func (McastProbes) ValueLen() int        { return 4 }
func (m McastProbes) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(m)) }
func (McastProbes) parmsAttribute()      {}

// ReachableTime is the current reachable time in milliseconds
// (NDTPA_REACHABLE_TIME).
type ReachableTime uint64

func (ReachableTime) Kind() uint16         { return ndtpaReachableTime }
func (ReachableTime) ValueLen() int        { return 8 }
func (r ReachableTime) EmitValue(b []byte) { nlenc.PutUint64(b, uint64(r)) }
func (ReachableTime) parmsAttribute()      {}

// BaseReachableTime is the base reachable time in milliseconds
// (NDTPA_BASE_REACHABLE_TIME).
type BaseReachableTime uint64

func (BaseReachableTime) Kind() uint16         { return ndtpaBaseReachableTime }
func (BaseReachableTime) ValueLen() int        { return 8 }
func (r BaseReachableTime) EmitValue(b []byte) { nlenc.PutUint64(b, uint64(r)) }
func (BaseReachableTime) parmsAttribute()      {}

// RetransTime is the retransmit interval in milliseconds
// (NDTPA_RETRANS_TIME).
type RetransTime uint64

func (RetransTime) Kind() uint16         { return ndtpaRetransTime }
func (RetransTime) ValueLen() int        { return 8 }
func (r RetransTime) EmitValue(b []byte) { nlenc.PutUint64(b, uint64(r)) }
func (RetransTime) parmsAttribute()      {}

// GcStaleTime is how long a stale entry survives garbage collection, in
// milliseconds (NDTPA_GC_STALETIME).
type GcStaleTime uint64

func (GcStaleTime) Kind() uint16         { return ndtpaGcStaleTime }
func (GcStaleTime) ValueLen() int        { return 8 }
func (g GcStaleTime) EmitValue(b []byte) { nlenc.PutUint64(b, uint64(g)) }
func (GcStaleTime) parmsAttribute()      {}

// DelayProbeTime is the delay before the first probe, in milliseconds
// (NDTPA_DELAY_PROBE_TIME).
type DelayProbeTime uint64

func (DelayProbeTime) Kind() uint16         { return ndtpaDelayProbeTime }
func (DelayProbeTime) ValueLen() int        { return 8 }
func (d DelayProbeTime) EmitValue(b []byte) { nlenc.PutUint64(b, uint64(d)) }
func (DelayProbeTime) parmsAttribute()      {}

// AnycastDelay is the anycast response delay in milliseconds
// (NDTPA_ANYCAST_DELAY).
type AnycastDelay uint64

func (AnycastDelay) Kind() uint16         { return ndtpaAnycastDelay }
func (AnycastDelay) ValueLen() int        { return 8 }
func (a AnycastDelay) EmitValue(b []byte) { nlenc.PutUint64(b, uint64(a)) }
func (AnycastDelay) parmsAttribute()      {}

// ProxyDelay is the proxy response delay in milliseconds
// (NDTPA_PROXY_DELAY).
type ProxyDelay uint64

func (ProxyDelay) Kind() uint16         { return ndtpaProxyDelay }
func (ProxyDelay) ValueLen() int        { return 8 }
func (p ProxyDelay) EmitValue(b []byte) { nlenc.PutUint64(b, uint64(p)) }
func (ProxyDelay) parmsAttribute()      {}

// ProxyQlen is the proxy queue length (NDTPA_PROXY_QLEN).
type ProxyQlen uint32

func (ProxyQlen) Kind() uint16         { return ndtpaProxyQlen }
func (ProxyQlen) ValueLen() int        { return 4 }
func (p ProxyQlen) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(p)) }
func (ProxyQlen) parmsAttribute()      {}

// Locktime is the minimum interval between hardware address updates, in
// milliseconds (NDTPA_LOCKTIME).
type Locktime uint64

func (Locktime) Kind() uint16         { return ndtpaLocktime }
func (Locktime) ValueLen() int        { return 8 }
func (l Locktime) EmitValue(b []byte) { nlenc.PutUint64(b, uint64(l)) }
func (Locktime) parmsAttribute()      {}

func parseParms(b []byte) (Parms, error) {
	var attrs Parms
	it := rtattr.NewIterator(b)
	for it.Next() {
		a, err := parseParmsAttr(it.Type(), it.Value())
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

func parseParmsAttr(typ uint16, v []byte) (ParmsAttr, error) {
	switch typ {
	case ndtpaIfIndex:
		u, err := rtattr.Uint32(v)
		return IfIndex(u), err
	case ndtpaRefCount:
		u, err := rtattr.Uint32(v)
		return RefCount(u), err
	case ndtpaQueueLen:
		u, err := rtattr.Uint32(v)
		return QueueLen(u), err
	case ndtpaQueueLenBytes:
		u, err := rtattr.Uint32(v)
		return QueueLenBytes(u), err
	case ndtpaAppProbes:
		u, err := rtattr.Uint32(v)
		return AppProbes(u), err
	case ndtpaUcastProbes:
		u, err := rtattr.Uint32(v)
		return UcastProbes(u), err
	case ndtpaMcastProbes:
		u, err := rtattr.Uint32(v)
		return McastProbes(u), err
	case ndtpaProxyQlen:
		u, err := rtattr.Uint32(v)
		return ProxyQlen(u), err
	case ndtpaReachableTime:
		u, err := rtattr.Uint64(v)
		return ReachableTime(u), err
	case ndtpaBaseReachableTime:
		u, err := rtattr.Uint64(v)
		return BaseReachableTime(u), err
	case ndtpaRetransTime:
		u, err := rtattr.Uint64(v)
		return RetransTime(u), err
	case ndtpaGcStaleTime:
		u, err := rtattr.Uint64(v)
		return GcStaleTime(u), err
	case ndtpaDelayProbeTime:
		u, err := rtattr.Uint64(v)
		return DelayProbeTime(u), err
	case ndtpaAnycastDelay:
		u, err := rtattr.Uint64(v)
		return AnycastDelay(u), err
	case ndtpaProxyDelay:
		u, err := rtattr.Uint64(v)
		return ProxyDelay(u), err
	case ndtpaLocktime:
		u, err := rtattr.Uint64(v)
		return Locktime(u), err
	default:
		return Other(rtattr.ParseRaw(typ, v)), nil
	}
}
