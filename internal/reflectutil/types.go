package reflectutil

import (
	"encoding"
	"encoding/json"
	"reflect"
	"time"
)

var (
	jsonUnmarshaler = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	timeType        = reflect.TypeOf(time.Time{})
)

// IndirectType strips pointers, slices and arrays until it reaches the
// element type a field selects.
//
// Example:
//
//	IndirectType(reflect.TypeOf([]*User{})) // returns User
func IndirectType(t reflect.Type) reflect.Type {
	for t != nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array:
			t = t.Elem()
		default:
			return t
		}
	}
	return nil
}

// IsSelectableStruct reports whether t is a struct whose fields are selected
// individually. Structs decoding themselves from JSON or text, and
// time.Time, are scalars.
func IsSelectableStruct(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Struct {
		return false
	}
	if t == timeType {
		return false
	}
	pt := reflect.PointerTo(t)
	return !pt.Implements(jsonUnmarshaler) && !pt.Implements(textUnmarshaler)
}
