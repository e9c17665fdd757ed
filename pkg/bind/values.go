package bind

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/spf13/cast"

	"github.com/ucom-dev/ucom/pkg/dom"
)

// stringify converts a bound value to text. nil becomes "".
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

// iterate returns the items a loop visits: 0..n-1 for an integer, the
// elements of a slice or array in order, nothing for anything else.
func iterate(v any) []any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rangeOf(cast.ToInt(v))
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil
		}
		return rangeOf(int(f))
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return nil
}

func rangeOf(n int) []any {
	if n <= 0 {
		return nil
	}
	out := make([]any, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// field returns item[key] for maps with string keys and exported struct
// fields, and item[i] for slices and arrays.
func field(item any, key string, index int, byIndex bool) any {
	rv := reflect.ValueOf(item)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if byIndex && index < rv.Len() {
			return rv.Index(index).Interface()
		}
	case reflect.Map:
		if !byIndex && rv.Type().Key().Kind() == reflect.String {
			if mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key())); mv.IsValid() {
				return mv.Interface()
			}
		}
	case reflect.Struct:
		if !byIndex {
			if fv := rv.FieldByName(key); fv.IsValid() && fv.CanInterface() {
				return fv.Interface()
			}
		}
	}
	return nil
}

// entries returns the string-keyed entries of a map in sorted key order.
func entries(v any) ([]string, map[string]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, m, true
}

// invoke calls a handler returned by an event expression with the event.
func invoke(fn any, ev *dom.Event) {
	switch f := fn.(type) {
	case func(*dom.Event):
		f(ev)
		return
	case func(...any) any:
		f(ev)
		return
	case func():
		f()
		return
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return
	}
	t := rv.Type()
	switch {
	case t.NumIn() == 0:
		rv.Call(nil)
	case t.IsVariadic() && t.NumIn() == 1 && reflect.TypeOf(ev).AssignableTo(t.In(0).Elem()):
		rv.Call([]reflect.Value{reflect.ValueOf(ev)})
	case t.NumIn() == 1 && reflect.TypeOf(ev).AssignableTo(t.In(0)):
		rv.Call([]reflect.Value{reflect.ValueOf(ev)})
	}
}
