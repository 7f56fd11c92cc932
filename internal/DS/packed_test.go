package DS

import (
	"math"
	"testing"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []int64{0, 1, 127, 128, 16383, 16384, 1 << 30, 1 << 45, 1 << 62, -1}
	buf := make([]byte, 9)
	for _, v := range values {
		n := PutVarint(buf, v)
		if n != VarintLen(v) {
			t.Errorf("PutVarint(%d) wrote %d bytes, VarintLen says %d", v, n, VarintLen(v))
		}
		got, read := GetVarint(buf[:n])
		if got != v || read != n {
			t.Errorf("GetVarint(PutVarint(%d)) = (%d, %d), want (%d, %d)", v, got, read, v, n)
		}
	}
}

func TestGetSerialTypeWidths(t *testing.T) {
	tests := []struct {
		v    Value
		want int
	}{
		{NullValue(), SerialTypeNull},
		{IntValue(0), SerialTypeZero},
		{IntValue(1), SerialTypeOne},
		{IntValue(100), SerialTypeInt8},
		{IntValue(1000), SerialTypeInt16},
		{IntValue(1 << 20), SerialTypeInt32},
		{IntValue(1 << 40), SerialTypeInt48},
		{IntValue(1 << 60), SerialTypeInt64},
		{FloatValue(2.5), SerialTypeFloat64},
		{BoolValue(false), SerialTypeBoolFalse},
		{BoolValue(true), SerialTypeBoolTrue},
		{TextValue("ab"), 13 + 4},
		{BlobValue([]byte{1, 2, 3}), 12 + 6},
	}
	for _, tt := range tests {
		if got := GetSerialType(tt.v); got != tt.want {
			t.Errorf("GetSerialType(%s) = %d, want %d", tt.v, got, tt.want)
		}
	}
	if GetSerialType(TupleValue(nil)) != -1 {
		t.Error("tuples have no serial type")
	}
}

func TestPackedRowRoundTrip(t *testing.T) {
	vals := []Value{
		NullValue(),
		IntValue(0),
		IntValue(1),
		IntValue(-7),
		IntValue(1 << 33),
		FloatValue(-2.25),
		FloatValue(math.NaN()),
		BoolValue(true),
		BoolValue(false),
		TextValue("hello"),
		BlobValue([]byte{0x41, 0x42, 0x43}),
		TextValue(""),
		BlobValue([]byte{}),
	}
	p, err := EncodePackedRow(vals)
	if err != nil {
		t.Fatalf("EncodePackedRow: %v", err)
	}
	row, err := p.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := NewRow(vals)
	if !row.Equal(want) {
		t.Errorf("round-trip mismatch:\n got %s\nwant %s", row, want)
	}
}

func TestPackedRowRoundTripWideRow(t *testing.T) {
	// Enough fields to push the serial-type header past 127 bytes, where
	// the header-size varint itself needs a second byte.
	for _, n := range []int{126, 127, 128, 200} {
		vals := make([]Value, n)
		for i := range vals {
			switch i % 3 {
			case 0:
				vals[i] = IntValue(0)
			case 1:
				vals[i] = IntValue(int64(i) * 1000)
			default:
				vals[i] = TextValue("f")
			}
		}
		p, err := EncodePackedRow(vals)
		if err != nil {
			t.Fatalf("%d fields: EncodePackedRow: %v", n, err)
		}
		row, err := p.Decode()
		if err != nil {
			t.Fatalf("%d fields: Decode: %v", n, err)
		}
		if !row.Equal(NewRow(vals)) {
			t.Errorf("%d fields: round-trip mismatch", n)
		}
	}
}

func TestPackedRowRejectsTuple(t *testing.T) {
	_, err := EncodePackedRow([]Value{TupleValue([]Value{IntValue(1)})})
	if err == nil {
		t.Fatal("expected error encoding a tuple")
	}
}

func TestIsEmbeddable(t *testing.T) {
	embeddable := []ValueType{TypeNull, TypeInt, TypeFloat, TypeText, TypeBlob, TypeBool}
	for _, ty := range embeddable {
		if !IsEmbeddable(ty) {
			t.Errorf("%s should be embeddable", ty)
		}
	}
	if IsEmbeddable(TypeTuple) {
		t.Error("TUPLE should not be embeddable")
	}
}

func TestFieldRegion(t *testing.T) {
	vals := []Value{IntValue(300), TextValue("abc"), BlobValue([]byte{9, 9})}
	p, err := EncodePackedRow(vals)
	if err != nil {
		t.Fatal(err)
	}

	n, err := p.NumFields()
	if err != nil || n != 3 {
		t.Fatalf("NumFields = %d, %v", n, err)
	}

	// Field 1 is the text "abc": its region must contain exactly those bytes.
	off, length, err := p.FieldRegion(1)
	if err != nil {
		t.Fatal(err)
	}
	if length != 3 || string(p.Bytes()[off:off+length]) != "abc" {
		t.Errorf("FieldRegion(1) = (%d, %d), bytes %q", off, length, p.Bytes()[off:off+length])
	}

	// Field 2 is the blob: directly after the text payload.
	off2, length2, err := p.FieldRegion(2)
	if err != nil {
		t.Fatal(err)
	}
	if off2 != off+length || length2 != 2 {
		t.Errorf("FieldRegion(2) = (%d, %d), want (%d, 2)", off2, length2, off+length)
	}

	if _, _, err := p.FieldRegion(3); err == nil {
		t.Error("out-of-range field should error")
	}
}

func TestPackedRowDecodeEmptyBuffer(t *testing.T) {
	if _, err := (PackedRow{}).Decode(); err == nil {
		t.Error("decoding an empty buffer should error")
	}
}
