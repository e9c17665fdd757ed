package reactive

import (
	"math"
	"reflect"
)

// Identical reports whether a and b are the same value in the Object.is
// sense: comparable values compare with ==, NaN equals NaN, and slices, maps,
// funcs and channels compare by identity rather than contents.
func Identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok && math.IsNaN(av) && math.IsNaN(bv) {
			return true
		}
	case float32:
		if bv, ok := b.(float32); ok && av != av && bv != bv {
			return true
		}
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	if ta.Comparable() {
		return comparableEqual(a, b)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Slice:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	default:
		// Non-comparable structs and arrays hold slices/maps; treat every
		// write as a change.
		return false
	}
}

// comparableEqual compares with ==, treating a runtime panic (an interface
// field holding an uncomparable value) as "changed".
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
