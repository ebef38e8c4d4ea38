package link

import (
	"github.com/m-lab/rtnetlink/rtattr"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// Stats64Len is the fixed size of the 24-counter struct rtnl_link_stats64.
// Newer kernels append counters past this prefix; they are preserved in
// Stats64.Tail so the attribute re-emits at its original length.
const Stats64Len = 24 * 8

// Stats64 is the 64-bit interface statistics block (IFLA_STATS64).
type Stats64 struct {
	RxPackets  uint64
	TxPackets  uint64
	RxBytes    uint64
	TxBytes    uint64
	RxErrors   uint64
	TxErrors   uint64
	RxDropped  uint64
	TxDropped  uint64
	Multicast  uint64
	Collisions uint64

	RxLengthErrors uint64
	RxOverErrors   uint64
	RxCrcErrors    uint64
	RxFrameErrors  uint64
	RxFifoErrors   uint64
	RxMissedErrors uint64

	TxAbortedErrors   uint64
	TxCarrierErrors   uint64
	TxFifoErrors      uint64
	TxHeartbeatErrors uint64
	TxWindowErrors    uint64

	RxCompressed uint64
	TxCompressed uint64
	RxNohandler  uint64

	// Tail holds counters appended by kernels newer than this layout.
	Tail []byte
}

func parseStats64(b []byte) (Stats64, error) {
	if err := rtattr.CheckLen(b, Stats64Len); err != nil {
		return Stats64{}, err
	}
	var s Stats64
	fields := []*uint64{
		&s.RxPackets, &s.TxPackets, &s.RxBytes, &s.TxBytes,
		&s.RxErrors, &s.TxErrors, &s.RxDropped, &s.TxDropped,
		&s.Multicast, &s.Collisions,
		&s.RxLengthErrors, &s.RxOverErrors, &s.RxCrcErrors,
		&s.RxFrameErrors, &s.RxFifoErrors, &s.RxMissedErrors,
		&s.TxAbortedErrors, &s.TxCarrierErrors, &s.TxFifoErrors,
		&s.TxHeartbeatErrors, &s.TxWindowErrors,
		&s.RxCompressed, &s.TxCompressed, &s.RxNohandler,
	}
	for i, f := range fields {
		*f = nlenc.Uint64(b[i*8 : i*8+8])
	}
	if len(b) > Stats64Len {
		s.Tail = append([]byte(nil), b[Stats64Len:]...)
	}
	return s, nil
}

func (Stats64) Kind() uint16 { return unix.IFLA_STATS64 }

func (s Stats64) ValueLen() int { return Stats64Len + len(s.Tail) }

func (s Stats64) EmitValue(b []byte) {
	fields := []uint64{
		s.RxPackets, s.TxPackets, s.RxBytes, s.TxBytes,
		s.RxErrors, s.TxErrors, s.RxDropped, s.TxDropped,
		s.Multicast, s.Collisions,
		s.RxLengthErrors, s.RxOverErrors, s.RxCrcErrors,
		s.RxFrameErrors, s.RxFifoErrors, s.RxMissedErrors,
		s.TxAbortedErrors, s.TxCarrierErrors, s.TxFifoErrors,
		s.TxHeartbeatErrors, s.TxWindowErrors,
		s.RxCompressed, s.TxCompressed, s.RxNohandler,
	}
	for i, f := range fields {
		nlenc.PutUint64(b[i*8:i*8+8], f)
	}
	copy(b[Stats64Len:], s.Tail)
}

func (Stats64) linkAttribute() {}
