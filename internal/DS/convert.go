package DS

import (
	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
)

// Convert maps a host-level literal to its internal Value. The mapping is
// total over the supported literal kinds and deterministic: the same host
// value always yields the same Value. Unsupported kinds fail with
// EC_CONVERT.
func Convert(lit interface{}) (Value, error) {
	switch v := lit.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		// Already internal; pass through unchanged.
		return v, nil
	case bool:
		return BoolValue(v), nil
	case int:
		return IntValue(int64(v)), nil
	case int8:
		return IntValue(int64(v)), nil
	case int16:
		return IntValue(int64(v)), nil
	case int32:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case uint8:
		return IntValue(int64(v)), nil
	case uint16:
		return IntValue(int64(v)), nil
	case uint32:
		return IntValue(int64(v)), nil
	case float32:
		return FloatValue(float64(v)), nil
	case float64:
		return FloatValue(v), nil
	case string:
		return TextValue(v), nil
	case []byte:
		b := make([]byte, len(v))
		copy(b, v)
		return BlobValue(b), nil
	case []interface{}:
		elems := make([]Value, len(v))
		for i, e := range v {
			ev, err := Convert(e)
			if err != nil {
				return NullValue(), SE.Wrap(SE.EC_CONVERT, err, "tuple element %d", i)
			}
			elems[i] = ev
		}
		return TupleValue(elems), nil
	default:
		return NullValue(), SE.Errorf(SE.EC_CONVERT, "no internal representation for literal %v (%T)", lit, lit)
	}
}
