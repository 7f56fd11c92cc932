package DS

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Row holds an immutable sequence of Values. Bitmap tracks which columns
// are NULL (bit i set → col i is NULL). Accessors reconstruct values, so
// callers never observe shared mutable state.
type Row struct {
	Cols   []Value
	Bitmap uint64
}

// EmptyRow is the distinguished input row used when an expression needs no
// input. Diagnostics omit it.
var EmptyRow = Row{}

// NewRow creates a Row from a slice of Values. Columns whose Value is
// TypeNull have their bitmap bit set.
func NewRow(cols []Value) Row {
	r := Row{Cols: make([]Value, len(cols))}
	for i, v := range cols {
		r.Cols[i] = v
		if v.IsNull() {
			r.setNull(i)
		}
	}
	return r
}

func (r *Row) setNull(idx int) {
	if idx >= 0 && idx < 64 {
		r.Bitmap |= 1 << uint(idx)
	}
}

// IsNull returns true if column idx is NULL.
func (r Row) IsNull(idx int) bool {
	if idx < 0 || idx >= 64 {
		return false
	}
	return (r.Bitmap>>uint(idx))&1 == 1
}

// Get reconstructs the Value at column idx. Out-of-range access and NULL
// columns yield NullValue(). Blob and tuple payloads are copied.
func (r Row) Get(idx int) Value {
	if idx < 0 || idx >= len(r.Cols) {
		return NullValue()
	}
	if r.IsNull(idx) {
		return NullValue()
	}
	return r.Cols[idx].Copy()
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.Cols) }

// IsEmpty reports whether r is the empty row.
func (r Row) IsEmpty() bool { return len(r.Cols) == 0 }

// Clone returns a deep copy of the row. Blob bytes are duplicated, so a
// clone shares no backing storage with the original.
func (r Row) Clone() Row {
	out := Row{Cols: make([]Value, len(r.Cols)), Bitmap: r.Bitmap}
	for i, v := range r.Cols {
		out.Cols[i] = v.Copy()
	}
	return out
}

// Equal reports content equality of two rows.
func (r Row) Equal(other Row) bool {
	if len(r.Cols) != len(other.Cols) || r.Bitmap != other.Bitmap {
		return false
	}
	for i := range r.Cols {
		if !r.Cols[i].Equal(other.Cols[i]) {
			return false
		}
	}
	return true
}

// Hash64 returns a content hash of the row: equal rows hash equally
// regardless of how their payloads were allocated.
func (r Row) Hash64() uint64 {
	d := xxhash.New()
	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], uint64(len(r.Cols)))
	_, _ = d.Write(scratch[:])
	for i := range r.Cols {
		if r.IsNull(i) {
			hashValue(d, NullValue())
		} else {
			hashValue(d, r.Cols[i])
		}
	}
	return d.Sum64()
}

func hashValue(d *xxhash.Digest, v Value) {
	var scratch [8]byte
	_, _ = d.Write([]byte{byte(v.Type)})
	switch v.Type {
	case TypeInt, TypeBool:
		binary.BigEndian.PutUint64(scratch[:], uint64(v.Int))
		_, _ = d.Write(scratch[:])
	case TypeFloat:
		binary.BigEndian.PutUint64(scratch[:], math.Float64bits(v.Float))
		_, _ = d.Write(scratch[:])
	case TypeText:
		binary.BigEndian.PutUint64(scratch[:], uint64(len(v.Str)))
		_, _ = d.Write(scratch[:])
		_, _ = d.WriteString(v.Str)
	case TypeBlob:
		binary.BigEndian.PutUint64(scratch[:], uint64(len(v.Bytes)))
		_, _ = d.Write(scratch[:])
		_, _ = d.Write(v.Bytes)
	case TypeTuple:
		binary.BigEndian.PutUint64(scratch[:], uint64(len(v.Elems)))
		_, _ = d.Write(scratch[:])
		for _, e := range v.Elems {
			hashValue(d, e)
		}
	}
}

// String renders the row for diagnostics.
func (r Row) String() string {
	if r.IsEmpty() {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range r.Cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		if r.IsNull(i) {
			sb.WriteString("NULL")
		} else {
			sb.WriteString(r.Cols[i].String())
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// MutableRow is a fixed-layout row buffer: a generated program writes its
// outputs into the slots in place, and the caller reads them back.
type MutableRow struct {
	slots []Value
}

// NewMutableRow creates a mutable row with n slots, all NULL.
func NewMutableRow(n int) *MutableRow {
	return &MutableRow{slots: make([]Value, n)}
}

// Set overwrites slot idx in place.
func (m *MutableRow) Set(idx int, v Value) {
	if idx >= 0 && idx < len(m.slots) {
		m.slots[idx] = v
	}
}

// Get returns the Value in slot idx.
func (m *MutableRow) Get(idx int) Value {
	if idx < 0 || idx >= len(m.slots) {
		return NullValue()
	}
	return m.slots[idx]
}

// Len returns the number of slots.
func (m *MutableRow) Len() int { return len(m.slots) }

// Reset sets every slot back to NULL.
func (m *MutableRow) Reset() {
	for i := range m.slots {
		m.slots[i] = NullValue()
	}
}
