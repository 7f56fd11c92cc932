package DS

import (
	"fmt"
	"math"
)

// ValueType enumerates the supported value types.
type ValueType int

const (
	TypeNull  ValueType = iota
	TypeInt             // int64
	TypeFloat           // float64
	TypeText            // string
	TypeBlob            // []byte
	TypeBool            // bool
	TypeTuple           // nested sequence of Values
)

var typeNames = []string{"NULL", "INT", "FLOAT", "TEXT", "BLOB", "BOOL", "TUPLE"}

func (t ValueType) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("TYPE(%d)", int(t))
}

// Value holds a single typed datum.
type Value struct {
	Type  ValueType
	Int   int64
	Float float64
	Str   string
	Bytes []byte
	Elems []Value // TypeTuple only
}

func NullValue() Value           { return Value{Type: TypeNull} }
func IntValue(v int64) Value     { return Value{Type: TypeInt, Int: v} }
func FloatValue(v float64) Value { return Value{Type: TypeFloat, Float: v} }
func TextValue(v string) Value   { return Value{Type: TypeText, Str: v} }
func BlobValue(v []byte) Value   { return Value{Type: TypeBlob, Bytes: v} }
func BoolValue(v bool) Value {
	b := int64(0)
	if v {
		b = 1
	}
	return Value{Type: TypeBool, Int: b}
}
func TupleValue(elems []Value) Value { return Value{Type: TypeTuple, Elems: elems} }

// IsNull returns true if the value is NULL.
func (v Value) IsNull() bool { return v.Type == TypeNull }

// Bool returns the boolean payload (valid for TypeBool).
func (v Value) Bool() bool { return v.Int != 0 }

// String returns a human-readable representation.
func (v Value) String() string {
	switch v.Type {
	case TypeNull:
		return "NULL"
	case TypeInt:
		return fmt.Sprintf("%d", v.Int)
	case TypeFloat:
		return fmt.Sprintf("%g", v.Float)
	case TypeText:
		return fmt.Sprintf("%q", v.Str)
	case TypeBool:
		if v.Int != 0 {
			return "true"
		}
		return "false"
	case TypeBlob:
		return fmt.Sprintf("x'%x'", v.Bytes)
	case TypeTuple:
		s := "("
		for i, e := range v.Elems {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ")"
	default:
		return "?"
	}
}

// Equal reports strict content equality: same type tag and same payload.
// Blobs compare byte-for-byte, tuples element-wise. Floats compare by
// bits so that NaN equals NaN and the comparison survives round-trips
// through the packed encoding.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case TypeNull:
		return true
	case TypeInt, TypeBool:
		return v.Int == other.Int
	case TypeFloat:
		return math.Float64bits(v.Float) == math.Float64bits(other.Float)
	case TypeText:
		return v.Str == other.Str
	case TypeBlob:
		if len(v.Bytes) != len(other.Bytes) {
			return false
		}
		for i := range v.Bytes {
			if v.Bytes[i] != other.Bytes[i] {
				return false
			}
		}
		return true
	case TypeTuple:
		if len(v.Elems) != len(other.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(other.Elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Copy returns a deep copy of v; blob bytes and tuple elements are
// duplicated so the copy shares no mutable state with the original.
func (v Value) Copy() Value {
	out := v
	if v.Bytes != nil {
		out.Bytes = make([]byte, len(v.Bytes))
		copy(out.Bytes, v.Bytes)
	}
	if v.Elems != nil {
		out.Elems = make([]Value, len(v.Elems))
		for i, e := range v.Elems {
			out.Elems[i] = e.Copy()
		}
	}
	return out
}

// Compare compares two Values for ordering. Returns -1, 0, or 1.
// NULL is treated as less than everything else. NaN sorts below every
// other numeric and equal to itself. When types differ the numeric types
// are coerced; otherwise type order is used.
func Compare(a, b Value) int {
	if a.Type == TypeNull && b.Type == TypeNull {
		return 0
	}
	if a.Type == TypeNull {
		return -1
	}
	if b.Type == TypeNull {
		return 1
	}

	// Numeric coercion: Int ↔ Float ↔ Bool
	af, aIsNum := toFloat(a)
	bf, bIsNum := toFloat(b)
	if aIsNum && bIsNum {
		aNaN, bNaN := math.IsNaN(af), math.IsNaN(bf)
		if aNaN || bNaN {
			if aNaN && bNaN {
				return 0
			}
			if aNaN {
				return -1
			}
			return 1
		}
		if af < bf {
			return -1
		}
		if af > bf {
			return 1
		}
		return 0
	}

	// Same non-numeric type
	if a.Type == b.Type {
		switch a.Type {
		case TypeText:
			return cmpString(a.Str, b.Str)
		case TypeBlob:
			return cmpBytes(a.Bytes, b.Bytes)
		case TypeTuple:
			return cmpTuple(a.Elems, b.Elems)
		}
	}

	// Fall back to type order
	return cmpInt(int64(a.Type), int64(b.Type))
}

func toFloat(v Value) (float64, bool) {
	switch v.Type {
	case TypeInt, TypeBool:
		return float64(v.Int), true
	case TypeFloat:
		return v.Float, true
	}
	return math.NaN(), false
}

func cmpInt(a, b int64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func cmpString(a, b string) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func cmpBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	if len(a) < len(b) {
		return -1
	}
	if len(a) > len(b) {
		return 1
	}
	return 0
}

func cmpTuple(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpInt(int64(len(a)), int64(len(b)))
}
