package rtattr

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/mdlayher/netlink/nlenc"
)

// Width-checked value extractors.  Netlink uses host byte order for integer
// values unless the field is explicitly defined as network order (ports).
// A value that is not exactly the width its encoding requires is a decode
// failure, never a truncation.

// Uint8 decodes a one-byte value.
func Uint8(v []byte) (uint8, error) {
	if len(v) != 1 {
		return 0, fmt.Errorf("%w: expected 1 byte, got %d", ErrInvalidLength, len(v))
	}
	return v[0], nil
}

// Uint16 decodes a native-order two-byte value.
func Uint16(v []byte) (uint16, error) {
	if len(v) != 2 {
		return 0, fmt.Errorf("%w: expected 2 bytes, got %d", ErrInvalidLength, len(v))
	}
	return nlenc.Uint16(v), nil
}

// Uint16BE decodes a big-endian two-byte value, used for port numbers.
func Uint16BE(v []byte) (uint16, error) {
	if len(v) != 2 {
		return 0, fmt.Errorf("%w: expected 2 bytes, got %d", ErrInvalidLength, len(v))
	}
	return binary.BigEndian.Uint16(v), nil
}

// Uint32 decodes a native-order four-byte value.
func Uint32(v []byte) (uint32, error) {
	if len(v) != 4 {
		return 0, fmt.Errorf("%w: expected 4 bytes, got %d", ErrInvalidLength, len(v))
	}
	return nlenc.Uint32(v), nil
}

// Int32 decodes a native-order signed four-byte value.
func Int32(v []byte) (int32, error) {
	if len(v) != 4 {
		return 0, fmt.Errorf("%w: expected 4 bytes, got %d", ErrInvalidLength, len(v))
	}
	return nlenc.Int32(v), nil
}

// Uint64 decodes a native-order eight-byte value.
func Uint64(v []byte) (uint64, error) {
	if len(v) != 8 {
		return 0, fmt.Errorf("%w: expected 8 bytes, got %d", ErrInvalidLength, len(v))
	}
	return nlenc.Uint64(v), nil
}

// Bool decodes a one-byte boolean: zero is false, any nonzero value is true.
func Bool(v []byte) (bool, error) {
	b, err := Uint8(v)
	return b != 0, err
}

// PutBool writes a boolean as a literal 0 or 1 byte.
func PutBool(b []byte, v bool) {
	if v {
		b[0] = 1
	} else {
		b[0] = 0
	}
}

// IPv4 decodes a four-byte IPv4 address.  The returned IP is an owned copy.
func IPv4(v []byte) (net.IP, error) {
	if len(v) != net.IPv4len {
		return nil, fmt.Errorf("%w: expected %d bytes of IPv4 address, got %d",
			ErrInvalidLength, net.IPv4len, len(v))
	}
	return net.IP(append([]byte(nil), v...)), nil
}

// IPv6 decodes a sixteen-byte IPv6 address.  The returned IP is an owned copy.
func IPv6(v []byte) (net.IP, error) {
	if len(v) != net.IPv6len {
		return nil, fmt.Errorf("%w: expected %d bytes of IPv6 address, got %d",
			ErrInvalidLength, net.IPv6len, len(v))
	}
	return net.IP(append([]byte(nil), v...)), nil
}

// String decodes a NUL-terminated string value.
func String(v []byte) string {
	return nlenc.String(v)
}

// PutString writes s followed by a terminating NUL.  The destination must be
// len(s)+1 bytes.
func PutString(b []byte, s string) {
	copy(b, s)
	b[len(s)] = 0
}
