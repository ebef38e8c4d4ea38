package tc

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
)

// Driver kind strings whose TCA_OPTIONS layout is modeled here.
const (
	KindFlower   = "flower"
	KindFqCodel  = "fq_codel"
	KindIngress  = "ingress"
	KindMatchall = "matchall"
	KindU32      = "u32"
)

// Option kinds from uapi/linux/pkt_sched.h and pkt_cls.h.  Each driver
// kind defines its own numbering, so equal numbers in different blocks
// are unrelated.
const (
	tcaFqCodelTarget        = 1
	tcaFqCodelLimit         = 2
	tcaFqCodelInterval      = 3
	tcaFqCodelEcn           = 4
	tcaFqCodelFlows         = 5
	tcaFqCodelQuantum       = 6
	tcaFqCodelCEThreshold   = 7
	tcaFqCodelDropBatchSize = 8
	tcaFqCodelMemoryLimit   = 9

	tcaMatchallClassID = 1
	tcaMatchallFlags   = 3

	tcaU32ClassID = 1
	tcaU32Hash    = 2
	tcaU32Link    = 3
	tcaU32Divisor = 4
	tcaU32Flags   = 11
)

// Option is one parsed record inside TCA_OPTIONS.
type Option interface {
	rtattr.Attribute
	tcOption()
}

// Options is the driver-specific option block (TCA_OPTIONS).
type Options []Option

func (Options) Kind() uint16 { return tcaOptions }

func (o Options) ValueLen() int {
	var n int
	for _, a := range o {
		n += rtattr.Len(a)
	}
	return n
}

func (o Options) EmitValue(b []byte) {
	for _, a := range o {
		b = b[rtattr.Emit(b, a):]
	}
}

func (Options) tcAttribute() {}

// FqCodelTarget is the acceptable minimum queue delay in microseconds
// (TCA_FQ_CODEL_TARGET).
type FqCodelTarget uint32

func (FqCodelTarget) Kind() uint16         { return tcaFqCodelTarget }
func (FqCodelTarget) ValueLen() int        { return 4 }
func (t FqCodelTarget) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(t)) }
func (FqCodelTarget) tcOption()            {}

// FqCodelLimit is the hard packet limit (TCA_FQ_CODEL_LIMIT).
type FqCodelLimit uint32

func (FqCodelLimit) Kind() uint16         { return tcaFqCodelLimit }
func (FqCodelLimit) ValueLen() int        { return 4 }
func (l FqCodelLimit) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(l)) }
func (FqCodelLimit) tcOption()            {}

// FqCodelInterval is the width of the moving time window in microseconds
// (TCA_FQ_CODEL_INTERVAL).
type FqCodelInterval uint32

func (FqCodelInterval) Kind() uint16         { return tcaFqCodelInterval }
func (FqCodelInterval) ValueLen() int        { return 4 }
func (i FqCodelInterval) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(i)) }
func (FqCodelInterval) tcOption()            {}

// FqCodelEcn enables ECN marking instead of dropping (TCA_FQ_CODEL_ECN).
type FqCodelEcn uint32

func (FqCodelEcn) Kind() uint16         { return tcaFqCodelEcn }
func (FqCodelEcn) ValueLen() int        { return 4 }
func (e FqCodelEcn) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(e)) }
func (FqCodelEcn) tcOption()            {}

// FqCodelFlows is the number of flow queues (TCA_FQ_CODEL_FLOWS).
type FqCodelFlows uint32

func (FqCodelFlows) Kind() uint16         { return tcaFqCodelFlows }
func (FqCodelFlows) ValueLen() int        { return 4 }
func (f FqCodelFlows) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(f)) }
func (FqCodelFlows) tcOption()            {}

// FqCodelQuantum is the per-round byte credit (TCA_FQ_CODEL_QUANTUM).
type FqCodelQuantum uint32

func (FqCodelQuantum) Kind() uint16         { return tcaFqCodelQuantum }
func (FqCodelQuantum) ValueLen() int        { return 4 }
func (q FqCodelQuantum) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(q)) }
func (FqCodelQuantum) tcOption()            {}

// FqCodelCEThreshold is the sojourn delay above which packets are CE
// marked, in microseconds (TCA_FQ_CODEL_CE_THRESHOLD).
type FqCodelCEThreshold uint32

func (FqCodelCEThreshold) Kind() uint16         { return tcaFqCodelCEThreshold }
func (FqCodelCEThreshold) ValueLen() int        { return 4 }
func (t FqCodelCEThreshold) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(t)) }
func (FqCodelCEThreshold) tcOption()            {}

// FqCodelDropBatchSize is the maximum packets dropped per overlimit event
// (TCA_FQ_CODEL_DROP_BATCH_SIZE).
type FqCodelDropBatchSize uint32

func (FqCodelDropBatchSize) Kind() uint16         { return tcaFqCodelDropBatchSize }
func (FqCodelDropBatchSize) ValueLen() int        { return 4 }
func (s FqCodelDropBatchSize) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(s)) }
func (FqCodelDropBatchSize) tcOption()            {}

// FqCodelMemoryLimit is the queue memory cap in bytes
// (TCA_FQ_CODEL_MEMORY_LIMIT).
type FqCodelMemoryLimit uint32

func (FqCodelMemoryLimit) Kind() uint16         { return tcaFqCodelMemoryLimit }
func (FqCodelMemoryLimit) ValueLen() int        { return 4 }
func (l FqCodelMemoryLimit) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(l)) }
func (FqCodelMemoryLimit) tcOption()            {}

// MatchallClassID is the class the filter assigns matching packets to
// (TCA_MATCHALL_CLASSID).
type MatchallClassID uint32

func (MatchallClassID) Kind() uint16         { return tcaMatchallClassID }
func (MatchallClassID) ValueLen() int        { return 4 }
func (c MatchallClassID) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(c)) }
func (MatchallClassID) tcOption()            {}

// MatchallFlags is the filter flag word (TCA_MATCHALL_FLAGS).
type MatchallFlags uint32

func (MatchallFlags) Kind() uint16         { return tcaMatchallFlags }
func (MatchallFlags) ValueLen() int        { return 4 }
func (f MatchallFlags) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(f)) }
func (MatchallFlags) tcOption()            {}

// U32ClassID is the class the filter assigns matching packets to
// (TCA_U32_CLASSID).
type U32ClassID uint32

func (U32ClassID) Kind() uint16         { return tcaU32ClassID }
func (U32ClassID) ValueLen() int        { return 4 }
func (c U32ClassID) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(c)) }
func (U32ClassID) tcOption()            {}

// U32Hash is the hash table handle (TCA_U32_HASH).
type U32Hash uint32

func (U32Hash) Kind() uint16         { return tcaU32Hash }
func (U32Hash) ValueLen() int        { return 4 }
func (h U32Hash) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(h)) }
func (U32Hash) tcOption()            {}

// U32Link is the handle of the next hash table (TCA_U32_LINK).
type U32Link uint32

func (U32Link) Kind() uint16         { return tcaU32Link }
func (U32Link) ValueLen() int        { return 4 }
func (l U32Link) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(l)) }
func (U32Link) tcOption()            {}

// U32Divisor is the hash table size (TCA_U32_DIVISOR).
type U32Divisor uint32

func (U32Divisor) Kind() uint16         { return tcaU32Divisor }
func (U32Divisor) ValueLen() int        { return 4 }
func (d U32Divisor) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(d)) }
func (U32Divisor) tcOption()            {}

// U32Flags is the filter flag word (TCA_U32_FLAGS).
type U32Flags uint32

func (U32Flags) Kind() uint16         { return tcaU32Flags }
func (U32Flags) ValueLen() int        { return 4 }
func (f U32Flags) EmitValue(b []byte) { nlenc.PutUint32(b, uint32(f)) }
func (U32Flags) tcOption()            {}

// parseOptions decodes a TCA_OPTIONS value under the given driver kind.
// Unknown kinds have no generic sub-structure, so the whole value comes
// back as one opaque record.
func parseOptions(b []byte, kind string) (Attribute, error) {
	var parse func(typ uint16, v []byte) (Option, error)
	switch kind {
	case KindFlower:
		parse = parseFlowerOption
	case KindFqCodel:
		parse = parseFqCodelOption
	case KindIngress:
		parse = parseIngressOption
	case KindMatchall:
		parse = parseMatchallOption
	case KindU32:
		parse = parseU32Option
	default:
		return Other(rtattr.ParseRaw(tcaOptions, b)), nil
	}

	var opts Options
	it := rtattr.NewIterator(b)
	for it.Next() {
		o, err := parse(it.Type(), it.Value())
		if err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return opts, nil
}

func parseFqCodelOption(typ uint16, v []byte) (Option, error) {
	switch typ {
	case tcaFqCodelTarget:
		u, err := rtattr.Uint32(v)
		return FqCodelTarget(u), err
	case tcaFqCodelLimit:
		u, err := rtattr.Uint32(v)
		return FqCodelLimit(u), err
	case tcaFqCodelInterval:
		u, err := rtattr.Uint32(v)
		return FqCodelInterval(u), err
	case tcaFqCodelEcn:
		u, err := rtattr.Uint32(v)
		return FqCodelEcn(u), err
	case tcaFqCodelFlows:
		u, err := rtattr.Uint32(v)
		return FqCodelFlows(u), err
	case tcaFqCodelQuantum:
		u, err := rtattr.Uint32(v)
		return FqCodelQuantum(u), err
	case tcaFqCodelCEThreshold:
		u, err := rtattr.Uint32(v)
		return FqCodelCEThreshold(u), err
	case tcaFqCodelDropBatchSize:
		u, err := rtattr.Uint32(v)
		return FqCodelDropBatchSize(u), err
	case tcaFqCodelMemoryLimit:
		u, err := rtattr.Uint32(v)
		return FqCodelMemoryLimit(u), err
	default:
		return Other(rtattr.ParseRaw(typ, v)), nil
	}
}

// The ingress qdisc defines no options of its own.
func parseIngressOption(typ uint16, v []byte) (Option, error) {
	return Other(rtattr.ParseRaw(typ, v)), nil
}

func parseMatchallOption(typ uint16, v []byte) (Option, error) {
	switch typ {
	case tcaMatchallClassID:
		u, err := rtattr.Uint32(v)
		return MatchallClassID(u), err
	case tcaMatchallFlags:
		u, err := rtattr.Uint32(v)
		return MatchallFlags(u), err
	default:
		return Other(rtattr.ParseRaw(typ, v)), nil
	}
}

func parseU32Option(typ uint16, v []byte) (Option, error) {
	switch typ {
	case tcaU32ClassID:
		u, err := rtattr.Uint32(v)
		return U32ClassID(u), err
	case tcaU32Hash:
		u, err := rtattr.Uint32(v)
		return U32Hash(u), err
	case tcaU32Link:
		u, err := rtattr.Uint32(v)
		return U32Link(u), err
	case tcaU32Divisor:
		u, err := rtattr.Uint32(v)
		return U32Divisor(u), err
	case tcaU32Flags:
		u, err := rtattr.Uint32(v)
		return U32Flags(u), err
	default:
		return Other(rtattr.ParseRaw(typ, v)), nil
	}
}
