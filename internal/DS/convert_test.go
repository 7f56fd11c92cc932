package DS

import (
	"testing"

	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
)

func TestConvertSupportedKinds(t *testing.T) {
	tests := []struct {
		lit  interface{}
		want Value
	}{
		{nil, NullValue()},
		{true, BoolValue(true)},
		{false, BoolValue(false)},
		{42, IntValue(42)},
		{int8(-5), IntValue(-5)},
		{int16(300), IntValue(300)},
		{int32(-70000), IntValue(-70000)},
		{int64(1 << 40), IntValue(1 << 40)},
		{uint8(255), IntValue(255)},
		{float32(0.5), FloatValue(0.5)},
		{3.25, FloatValue(3.25)},
		{"abc", TextValue("abc")},
		{[]byte{0x41, 0x42}, BlobValue([]byte{0x41, 0x42})},
		{[]interface{}{int64(1), "x"}, TupleValue([]Value{IntValue(1), TextValue("x")})},
	}
	for _, tt := range tests {
		got, err := Convert(tt.lit)
		if err != nil {
			t.Fatalf("Convert(%v): unexpected error %v", tt.lit, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("Convert(%v) = %s, want %s", tt.lit, got, tt.want)
		}
	}
}

func TestConvertDeterministic(t *testing.T) {
	a, _ := Convert("same")
	b, _ := Convert("same")
	if !a.Equal(b) {
		t.Error("same host literal must convert to the same Value")
	}
}

func TestConvertUnsupported(t *testing.T) {
	_, err := Convert(struct{ X int }{1})
	if err == nil {
		t.Fatal("expected conversion error for struct literal")
	}
	if !SE.IsCode(err, SE.EC_CONVERT) {
		t.Errorf("expected EC_CONVERT, got %v", SE.ErrorCodeOf(err))
	}
}

func TestConvertBadTupleElement(t *testing.T) {
	_, err := Convert([]interface{}{int64(1), struct{}{}})
	if err == nil {
		t.Fatal("expected conversion error for bad tuple element")
	}
	if !SE.IsCode(err, SE.EC_CONVERT) {
		t.Errorf("expected EC_CONVERT, got %v", SE.ErrorCodeOf(err))
	}
}

func TestConvertCopiesBlob(t *testing.T) {
	src := []byte{1, 2, 3}
	v, _ := Convert(src)
	src[0] = 99
	if v.Bytes[0] != 1 {
		t.Error("Convert must copy blob bytes, not alias the caller's slice")
	}
}

func TestConvertPassThroughValue(t *testing.T) {
	v, err := Convert(IntValue(7))
	if err != nil {
		t.Fatal(err)
	}
	if !v.Equal(IntValue(7)) {
		t.Errorf("Value pass-through changed the value: %s", v)
	}
}
