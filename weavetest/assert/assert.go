/*
Package assert holds the few assertion helpers the tests of this module
need. Values are printed with %+v so that errors show their stack trace.
*/
package assert

import (
	"reflect"
	"testing"
)

// Tester is the part of testing.TB used by the helpers.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test unless value is nil or a nil pointer, slice, map,
// channel, function or interface.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// Equal fails the test unless both values are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal \nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails the test unless got is want or want recognizes got through
// its Is method.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if is, ok := want.(interface{ Is(error) bool }); ok && is.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
