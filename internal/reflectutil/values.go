package reflectutil

import (
	"reflect"
	"strconv"
)

// IsNull reports whether v carries no value: a nil interface, or a nil
// pointer, slice, map, channel or function stored in one.
//
// Example:
//
//	var p *int
//	IsNull(p) // true
//	IsNull(0) // false
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// TagFlag reports whether the struct tag key of f holds a true boolean, as
// in `scalar:"true"`. Values that do not parse count as false.
func TagFlag(f reflect.StructField, key string) bool {
	b, _ := strconv.ParseBool(f.Tag.Get(key))
	return b
}
