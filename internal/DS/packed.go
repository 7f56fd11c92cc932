package DS

import (
	"encoding/binary"
	"math"

	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
)

// PackedRow is a byte-buffer row representation: a varint header listing
// one serial type per field, followed by the field payloads. Fixed-width
// fields occupy their natural width; variable-length fields (text, blob)
// are located by offset and length computed from the header. The buffer is
// self-contained and not directly comparable to boxed rows — decode first.
type PackedRow struct {
	buf []byte
}

// IsEmbeddable reports whether the packed layout can represent values of
// type t, either inline (fixed width) or via offset/length encoding.
// Nested tuples have no packed representation.
func IsEmbeddable(t ValueType) bool {
	switch t {
	case TypeNull, TypeInt, TypeFloat, TypeText, TypeBlob, TypeBool:
		return true
	}
	return false
}

// EncodePackedRow encodes values into the packed row format. Fails with
// EC_INTERNAL when a value has no packed representation; callers are
// expected to gate on IsEmbeddable first.
func EncodePackedRow(values []Value) (PackedRow, error) {
	serialTypes := make([]int, len(values))
	typesLen := 0

	for i, v := range values {
		st := GetSerialType(v)
		if st < 0 {
			return PackedRow{}, SE.Errorf(SE.EC_INTERNAL, "value %s not embeddable in packed row", v.Type)
		}
		serialTypes[i] = st
		typesLen += VarintLen(int64(st))
	}

	// The header-size varint counts itself, and growing the size can grow
	// the varint; iterate until stable.
	headerSize := typesLen + 1
	for VarintLen(int64(headerSize)) != headerSize-typesLen {
		headerSize = typesLen + VarintLen(int64(headerSize))
	}

	dataSize := 0
	for _, st := range serialTypes {
		dataSize += SerialTypeLen(st)
	}

	buf := make([]byte, headerSize+dataSize)
	pos := PutVarint(buf, int64(headerSize))
	for _, st := range serialTypes {
		pos += PutVarint(buf[pos:], int64(st))
	}
	for i, v := range values {
		pos += encodeField(buf[pos:], v, serialTypes[i])
	}

	return PackedRow{buf: buf}, nil
}

func encodeField(buf []byte, v Value, serialType int) int {
	switch serialType {
	case SerialTypeNull, SerialTypeZero, SerialTypeOne, SerialTypeBoolFalse, SerialTypeBoolTrue:
		return 0

	case SerialTypeInt8:
		buf[0] = byte(v.Int)
		return 1

	case SerialTypeInt16:
		binary.BigEndian.PutUint16(buf, uint16(v.Int))
		return 2

	case SerialTypeInt32:
		binary.BigEndian.PutUint32(buf, uint32(v.Int))
		return 4

	case SerialTypeInt48:
		uv := uint64(v.Int)
		buf[0] = byte(uv >> 40)
		buf[1] = byte(uv >> 32)
		buf[2] = byte(uv >> 24)
		buf[3] = byte(uv >> 16)
		buf[4] = byte(uv >> 8)
		buf[5] = byte(uv)
		return 6

	case SerialTypeInt64:
		binary.BigEndian.PutUint64(buf, uint64(v.Int))
		return 8

	case SerialTypeFloat64:
		binary.BigEndian.PutUint64(buf, math.Float64bits(v.Float))
		return 8

	default:
		length := SerialTypeLen(serialType)
		if serialType%2 == 0 {
			copy(buf, v.Bytes)
		} else {
			copy(buf, v.Str)
		}
		return length
	}
}

// Bytes returns the raw packed buffer.
func (p PackedRow) Bytes() []byte { return p.buf }

// header parses the serial-type header and returns the serial types plus
// the offset of the first payload byte.
func (p PackedRow) header() ([]int, int, error) {
	if len(p.buf) == 0 {
		return nil, 0, SE.NewError(SE.EC_INTERNAL, "empty packed row buffer")
	}
	headerSize, n := GetVarint(p.buf)
	if n == 0 || int(headerSize) > len(p.buf) {
		return nil, 0, SE.NewError(SE.EC_INTERNAL, "corrupt packed row header")
	}
	var serialTypes []int
	pos := n
	for pos < int(headerSize) {
		st, read := GetVarint(p.buf[pos:])
		if read == 0 {
			return nil, 0, SE.Wrap(SE.EC_INTERNAL, ErrVarintTrunc, "packed row header")
		}
		serialTypes = append(serialTypes, int(st))
		pos += read
	}
	return serialTypes, pos, nil
}

// NumFields returns the number of fields in the packed row.
func (p PackedRow) NumFields() (int, error) {
	serialTypes, _, err := p.header()
	if err != nil {
		return 0, err
	}
	return len(serialTypes), nil
}

// FieldRegion returns the byte offset and length of field idx's payload
// within the shared buffer. Zero-width fields (NULL, 0, 1, booleans)
// report a zero length at their header-determined position.
func (p PackedRow) FieldRegion(idx int) (offset, length int, err error) {
	serialTypes, pos, err := p.header()
	if err != nil {
		return 0, 0, err
	}
	if idx < 0 || idx >= len(serialTypes) {
		return 0, 0, SE.Errorf(SE.EC_RANGE, "field %d out of range (%d fields)", idx, len(serialTypes))
	}
	for i := 0; i < idx; i++ {
		pos += SerialTypeLen(serialTypes[i])
	}
	return pos, SerialTypeLen(serialTypes[idx]), nil
}

// Decode reconstructs the immutable row the packed buffer represents.
// This is the mandatory bridge before comparing packed results to boxed
// rows: raw buffers are never compared to Values directly.
func (p PackedRow) Decode() (Row, error) {
	serialTypes, pos, err := p.header()
	if err != nil {
		return Row{}, err
	}
	values := make([]Value, len(serialTypes))
	for i, st := range serialTypes {
		if pos+SerialTypeLen(st) > len(p.buf) {
			return Row{}, SE.Errorf(SE.EC_INTERNAL, "packed row truncated at field %d", i)
		}
		values[i] = decodeField(p.buf[pos:], st)
		pos += SerialTypeLen(st)
	}
	return NewRow(values), nil
}

func decodeField(buf []byte, serialType int) Value {
	switch serialType {
	case SerialTypeNull:
		return NullValue()

	case SerialTypeZero:
		return IntValue(0)

	case SerialTypeOne:
		return IntValue(1)

	case SerialTypeBoolFalse:
		return BoolValue(false)

	case SerialTypeBoolTrue:
		return BoolValue(true)

	case SerialTypeInt8:
		return IntValue(int64(int8(buf[0])))

	case SerialTypeInt16:
		return IntValue(int64(int16(binary.BigEndian.Uint16(buf))))

	case SerialTypeInt32:
		return IntValue(int64(int32(binary.BigEndian.Uint32(buf))))

	case SerialTypeInt48:
		uv := uint64(buf[0])<<40 | uint64(buf[1])<<32 | uint64(buf[2])<<24 |
			uint64(buf[3])<<16 | uint64(buf[4])<<8 | uint64(buf[5])
		// Sign extend
		if uv&0x800000000000 != 0 {
			uv |= 0xFFFF000000000000
		}
		return IntValue(int64(uv))

	case SerialTypeInt64:
		return IntValue(int64(binary.BigEndian.Uint64(buf)))

	case SerialTypeFloat64:
		return FloatValue(math.Float64frombits(binary.BigEndian.Uint64(buf)))

	default:
		length := SerialTypeLen(serialType)
		if serialType >= 12 && serialType%2 == 0 {
			b := make([]byte, length)
			copy(b, buf[:length])
			return BlobValue(b)
		}
		if serialType >= 13 {
			return TextValue(string(buf[:length]))
		}
		return NullValue()
	}
}
