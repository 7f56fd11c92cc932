package DS

import (
	"errors"

	"github.com/sqlvibe/exprcheck/internal/SF/util"
)

// Varint encoding/decoding following SQLite format
// Varints are 1-9 bytes for 64-bit values
// First 7 bits of each byte are data, MSB indicates if more bytes follow

var (
	ErrVarintTrunc = errors.New("varint truncated")
)

// PutVarint encodes an int64 as a varint and returns the number of bytes written
// Maximum 9 bytes (8 bytes with 7 bits + 1 byte with 8 bits)
func PutVarint(buf []byte, v int64) int {
	util.AssertNotNil(buf, "buf")
	requiredLen := VarintLen(v)
	util.Assert(len(buf) >= requiredLen, "buf too small for varint: %d bytes, need at least %d", len(buf), requiredLen)

	uv := uint64(v)

	// Handle single byte case (0-127)
	if uv < 0x80 {
		buf[0] = byte(uv)
		return 1
	}

	// Multi-byte encoding
	n := 0
	for n < 8 && uv >= 0x80 {
		buf[n] = byte(uv) | 0x80
		uv >>= 7
		n++
	}

	// Last byte doesn't have continuation bit
	buf[n] = byte(uv)
	return n + 1
}

// GetVarint decodes a varint from buf and returns (value, bytes_read)
func GetVarint(buf []byte) (int64, int) {
	if len(buf) == 0 {
		return 0, 0
	}

	// Fast path for single byte
	if buf[0] < 0x80 {
		return int64(buf[0]), 1
	}

	// Multi-byte decode
	var v uint64
	var shift uint
	n := 0

	for n < 8 && n < len(buf) {
		b := buf[n]
		v |= uint64(b&0x7F) << shift
		n++

		if b < 0x80 {
			return int64(v), n
		}
		shift += 7
	}

	// 9th byte uses all 8 bits
	if n < len(buf) {
		v |= uint64(buf[n]) << shift
		n++
	}

	return int64(v), n
}

// VarintLen returns the length of the varint encoding of v
func VarintLen(v int64) int {
	uv := uint64(v)

	if uv < 0x80 {
		return 1
	}
	if uv < 0x4000 { // 14 bits (2 bytes max)
		return 2
	}
	if uv < 0x200000 { // 21 bits (3 bytes max)
		return 3
	}
	if uv < 0x10000000 { // 28 bits (4 bytes max)
		return 4
	}
	if uv < 0x800000000 { // 35 bits (5 bytes max)
		return 5
	}
	if uv < 0x40000000000 { // 42 bits (6 bytes max)
		return 6
	}
	if uv < 0x2000000000000 { // 49 bits (7 bytes max)
		return 7
	}
	if uv < 0x100000000000000 { // 56 bits (8 bytes max)
		return 8
	}
	return 9 // 63 bits (9 bytes max)
}

// Serial type codes for the packed row format.
// Used in the row header to describe field types.
const (
	SerialTypeNull      = 0
	SerialTypeInt8      = 1
	SerialTypeInt16     = 2
	SerialTypeInt24     = 3
	SerialTypeInt32     = 4
	SerialTypeInt48     = 5
	SerialTypeInt64     = 6
	SerialTypeFloat64   = 7
	SerialTypeZero      = 8  // Integer constant 0
	SerialTypeOne       = 9  // Integer constant 1
	SerialTypeBoolFalse = 10 // Boolean false
	SerialTypeBoolTrue  = 11 // Boolean true
	// N >= 12 and even: BLOB with (N-12)/2 bytes
	// N >= 13 and odd: TEXT with (N-13)/2 bytes
)

// GetSerialType returns the serial type code for a value, or -1 when the
// value has no packed representation (tuples).
func GetSerialType(v Value) int {
	switch v.Type {
	case TypeNull:
		return SerialTypeNull
	case TypeInt:
		return getIntSerialType(v.Int)
	case TypeFloat:
		return SerialTypeFloat64
	case TypeBool:
		if v.Int != 0 {
			return SerialTypeBoolTrue
		}
		return SerialTypeBoolFalse
	case TypeText:
		return 13 + 2*len(v.Str)
	case TypeBlob:
		return 12 + 2*len(v.Bytes)
	default:
		return -1
	}
}

func getIntSerialType(v int64) int {
	if v == 0 {
		return SerialTypeZero
	}
	if v == 1 {
		return SerialTypeOne
	}

	if v >= -128 && v <= 127 {
		return SerialTypeInt8
	}
	if v >= -32768 && v <= 32767 {
		return SerialTypeInt16
	}
	if v >= -2147483648 && v <= 2147483647 {
		return SerialTypeInt32
	}
	if v >= -140737488355328 && v <= 140737488355327 {
		return SerialTypeInt48
	}
	return SerialTypeInt64
}

// SerialTypeLen returns the payload length for a serial type
func SerialTypeLen(serialType int) int {
	switch serialType {
	case SerialTypeNull, SerialTypeZero, SerialTypeOne, SerialTypeBoolFalse, SerialTypeBoolTrue:
		return 0
	case SerialTypeInt8:
		return 1
	case SerialTypeInt16:
		return 2
	case SerialTypeInt24:
		return 3
	case SerialTypeInt32:
		return 4
	case SerialTypeInt48:
		return 6
	case SerialTypeInt64:
		return 8
	case SerialTypeFloat64:
		return 8
	default:
		if serialType >= 12 {
			if serialType%2 == 0 {
				// BLOB
				return (serialType - 12) / 2
			}
			// TEXT
			return (serialType - 13) / 2
		}
		return 0
	}
}
