package disposal

import (
	"fmt"
	"reflect"
)

// isNil reports if v is a nil interface or holds a nil reference.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map,
		reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// typeName names the type of v, looking through Closer adapters.
func typeName(v any) string {
	if d, ok := v.(disposableCloser); ok {
		v = d.Disposable
	}
	return fmt.Sprintf("%T", v)
}
