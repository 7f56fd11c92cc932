package exprcheck

import (
	"math"

	"github.com/sqlvibe/exprcheck/internal/DS"
)

// ValuesEqual decides whether a backend result matches the expected
// value. Equality is strict on the type tag and structural on the
// payload: blobs compare byte for byte, tuples element-wise, floats by
// bit pattern so NaN equals NaN. Memory identity never counts.
func ValuesEqual(actual, expected DS.Value) bool {
	if actual.Type != expected.Type {
		return false
	}
	switch actual.Type {
	case DS.TypeNull:
		return true
	case DS.TypeInt, DS.TypeBool:
		return actual.Int == expected.Int
	case DS.TypeFloat:
		return math.Float64bits(actual.Float) == math.Float64bits(expected.Float)
	case DS.TypeText:
		return actual.Str == expected.Str
	case DS.TypeBlob:
		if len(actual.Bytes) != len(expected.Bytes) {
			return false
		}
		for i := range actual.Bytes {
			if actual.Bytes[i] != expected.Bytes[i] {
				return false
			}
		}
		return true
	case DS.TypeTuple:
		if len(actual.Elems) != len(expected.Elems) {
			return false
		}
		for i := range actual.Elems {
			if !ValuesEqual(actual.Elems[i], expected.Elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// floatWithin reports whether a numeric value lies within
// expected ± tolerance. NaN matches only NaN.
func floatWithin(actual, expected, tolerance float64) bool {
	if math.IsNaN(expected) || math.IsNaN(actual) {
		return math.IsNaN(expected) && math.IsNaN(actual)
	}
	return math.Abs(actual-expected) <= tolerance
}
