package util

import (
	"fmt"
	"reflect"
)

// Assert panics with a formatted message if the condition is false.
// This is used to catch programming errors and prevent hangs or undefined behavior.
// Usage: util.Assert(len(buf) >= n, "buf too small: %d bytes", len(buf))
func Assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("Assertion failed: "+format, args...))
	}
}

// AssertNotNil panics if the value is nil (including typed nils like (*int)(nil))
func AssertNotNil(value interface{}, name string) {
	if value == nil {
		panic(fmt.Sprintf("Assertion failed: %s must not be nil", name))
	}
	// Check for typed nil using reflection
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr && v.IsNil() {
		panic(fmt.Sprintf("Assertion failed: %s must not be nil", name))
	}
}
