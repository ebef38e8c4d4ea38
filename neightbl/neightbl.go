// Package neightbl implements the rtnetlink attribute codec for neighbour
// table (RTM_*NEIGHTBL) messages, including the nested NDTPA_* parameter
// namespace.
package neightbl

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
)

// Attribute kinds from uapi/linux/rtnetlink.h (not mirrored by x/sys/unix).
const (
	ndtaName       = 1
	ndtaThresh1    = 2
	ndtaThresh2    = 3
	ndtaThresh3    = 4
	ndtaConfig     = 5
	ndtaParms      = 6
	ndtaStats      = 7
	ndtaGcInterval = 8
)

// Attribute is one parsed NDTA_* attribute of a neighbour table message.
type Attribute interface {
	rtattr.Attribute
	neighTblAttribute()
}

// Name is the table name (NDTA_NAME), NUL-terminated on the wire.
type Name string

func (Name) Kind() uint16         { return ndtaName }
func (n Name) ValueLen() int      { return len(n) + 1 }
func (n Name) EmitValue(b []byte) { rtattr.PutString(b, string(n)) }
func (Name) neighTblAttribute()   {}

// Thresh1 is the garbage-collection soft threshold (NDTA_THRESH1).
type Thresh1 uint32

func (Thresh1) Kind() uint16         { return ndtaThresh1 }
func (Thresh1) ValueLen() int        { return 4 }
func (t Thresh1) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(t)) }
func (Thresh1) neighTblAttribute()   {}

// Thresh2 is the garbage-collection mid threshold (NDTA_THRESH2).
type Thresh2 uint32

func (Thresh2) Kind() uint16         { return ndtaThresh2 }
func (Thresh2) ValueLen() int        { return 4 }
func (t Thresh2) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(t)) }
func (Thresh2) neighTblAttribute()   {}

// Thresh3 is the garbage-collection hard threshold (NDTA_THRESH3).
type Thresh3 uint32

func (Thresh3) Kind() uint16         { return ndtaThresh3 }
func (Thresh3) ValueLen() int        { return 4 }
func (t Thresh3) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(t)) }
func (Thresh3) neighTblAttribute()   {}

// GcInterval is the garbage-collection interval in milliseconds
// (NDTA_GC_INTERVAL).
type GcInterval uint64

func (GcInterval) Kind() uint16         { return ndtaGcInterval }
func (GcInterval) ValueLen() int        { return 8 }
func (g GcInterval) EmitValue(b []byte) { nlenc.PutUint64(b, uint64(g)) }
func (GcInterval) neighTblAttribute()   {}

// ConfigLen is the fixed size of struct ndt_config.
const ConfigLen = 32

// Config is the fixed-layout table configuration block (NDTA_CONFIG).
type Config struct {
	KeyLen      uint16
	EntrySize   uint16
	Entries     uint32
	LastFlush   uint32
	LastRand    uint32
	HashRnd     uint32
	HashMask    uint32
	HashChainGC uint32
	ProxyQlen   uint32
}

// ParseConfig decodes the fixed-layout configuration block.
func ParseConfig(b []byte) (Config, error) {
	if err := rtattr.CheckLen(b, ConfigLen); err != nil {
		return Config{}, err
	}
	return Config{
		KeyLen:      nlenc.Uint16(b[0:2]),
		EntrySize:   nlenc.Uint16(b[2:4]),
		Entries:     nlenc.Uint32(b[4:8]),
		LastFlush:   nlenc.Uint32(b[8:12]),
		LastRand:    nlenc.Uint32(b[12:16]),
		HashRnd:     nlenc.Uint32(b[16:20]),
		HashMask:    nlenc.Uint32(b[20:24]),
		HashChainGC: nlenc.Uint32(b[24:28]),
		ProxyQlen:   nlenc.Uint32(b[28:32]),
	}, nil
}

func (Config) Kind() uint16  { return ndtaConfig }
func (Config) ValueLen() int { return ConfigLen }
func (c Config) EmitValue(b []byte) {
	nlenc.PutUint16(b[0:2], c.KeyLen)
	nlenc.PutUint16(b[2:4], c.EntrySize)
	nlenc.PutUint32(b[4:8], c.Entries)
	nlenc.PutUint32(b[8:12], c.LastFlush)
	nlenc.PutUint32(b[12:16], c.LastRand)
	nlenc.PutUint32(b[16:20], c.HashRnd)
	nlenc.PutUint32(b[20:24], c.HashMask)
	nlenc.PutUint32(b[24:28], c.HashChainGC)
	nlenc.PutUint32(b[28:32], c.ProxyQlen)
}
func (Config) neighTblAttribute() {}

// StatsLen is the fixed prefix size of struct ndt_stats: ten native-order
// 64-bit counters.  Newer kernels append more; they are preserved in Tail.
const StatsLen = 10 * 8

// Stats is the table statistics block (NDTA_STATS).
type Stats struct {
	Allocs         uint64
	Destroys       uint64
	HashGrows      uint64
	ResFailed      uint64
	Lookups        uint64
	Hits           uint64
	RcvProbesMcast uint64
	RcvProbesUcast uint64
	PeriodicGcRuns uint64
	ForcedGcRuns   uint64

	Tail []byte
}

// ParseStats decodes the fixed-layout statistics block.
func ParseStats(b []byte) (Stats, error) {
	if err := rtattr.CheckLen(b, StatsLen); err != nil {
		return Stats{}, err
	}
	s := Stats{
		Allocs:         nlenc.Uint64(b[0:8]),
		Destroys:       nlenc.Uint64(b[8:16]),
		HashGrows:      nlenc.Uint64(b[16:24]),
		ResFailed:      nlenc.Uint64(b[24:32]),
		Lookups:        nlenc.Uint64(b[32:40]),
		Hits:           nlenc.Uint64(b[40:48]),
		RcvProbesMcast: nlenc.Uint64(b[48:56]),
		RcvProbesUcast: nlenc.Uint64(b[56:64]),
		PeriodicGcRuns: nlenc.Uint64(b[64:72]),
		ForcedGcRuns:   nlenc.Uint64(b[72:80]),
	}
	if len(b) > StatsLen {
		s.Tail = append([]byte(nil), b[StatsLen:]...)
	}
	return s, nil
}

func (Stats) Kind() uint16    { return ndtaStats }
func (s Stats) ValueLen() int { return StatsLen + len(s.Tail) }
func (s Stats) EmitValue(b []byte) {
	nlenc.PutUint64(b[0:8], s.Allocs)
	nlenc.PutUint64(b[8:16], s.Destroys)
	nlenc.PutUint64(b[16:24], s.HashGrows)
	nlenc.PutUint64(b[24:32], s.ResFailed)
	nlenc.PutUint64(b[32:40], s.Lookups)
	nlenc.PutUint64(b[40:48], s.Hits)
	nlenc.PutUint64(b[48:56], s.RcvProbesMcast)
	nlenc.PutUint64(b[56:64], s.RcvProbesUcast)
	nlenc.PutUint64(b[64:72], s.PeriodicGcRuns)
	nlenc.PutUint64(b[72:80], s.ForcedGcRuns)
	copy(b[StatsLen:], s.Tail)
}
func (Stats) neighTblAttribute() {}

// Other is the lossless fallback for unmodeled NDTA_* kinds.
type Other rtattr.Raw

func (o Other) Kind() uint16       { return o.Type }
func (o Other) ValueLen() int      { return len(o.Data) }
func (o Other) EmitValue(b []byte) { copy(b, o.Data) }
func (Other) neighTblAttribute()   {}
func (Other) parmsAttribute()      {}

// ParseAttributes decodes the attribute section of a neighbour table
// message.  The NDTA_* namespace needs no external context.
func ParseAttributes(b []byte) ([]Attribute, error) {
	var attrs []Attribute
	it := rtattr.NewIterator(b)
	for it.Next() {
		a, err := parseAttribute(it.Type(), it.Value())
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

func parseAttribute(typ uint16, v []byte) (Attribute, error) {
	switch typ {
	case ndtaName:
		return Name(rtattr.String(v)), nil
	case ndtaThresh1:
		u, err := rtattr.Uint32(v)
		return Thresh1(u), err
	case ndtaThresh2:
		u, err := rtattr.Uint32(v)
		return Thresh2(u), err
	case ndtaThresh3:
		u, err := rtattr.Uint32(v)
		return Thresh3(u), err
	case ndtaGcInterval:
		u, err := rtattr.Uint64(v)
		return GcInterval(u), err
	case ndtaConfig:
		return ParseConfig(v)
	case ndtaStats:
		return ParseStats(v)
	case ndtaParms:
		return parseParms(v)
	default:
		return Other(rtattr.ParseRaw(typ, v)), nil
	}
}
