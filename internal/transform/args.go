package transform

import (
	"fmt"
	"reflect"
)

// Args holds the resolved inputs of a single function call.
type Args map[string]any

// Arg returns the named argument as T. Numeric values are converted between
// Go numeric types; anything else must already be assignable to T.
func Arg[T any](args Args, name string) (T, error) {
	var zero T
	raw, ok := args[name]
	if !ok {
		return zero, fmt.Errorf("argument %q not provided", name)
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}

	target := reflect.TypeOf((*T)(nil)).Elem()
	rv := reflect.ValueOf(raw)
	if raw != nil && isNumericKind(rv.Kind()) && isNumericKind(target.Kind()) {
		return rv.Convert(target).Interface().(T), nil
	}
	return zero, fmt.Errorf("argument %q is %T, want %s", name, raw, target)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
