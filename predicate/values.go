package predicate

import "reflect"

// hasValue reports whether a raw filter value is present.
// nil, empty strings and empty lists count as absent.
func hasValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case []string:
		return len(x) > 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return hasValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		return rv.Len() > 0
	}
	return true
}

// isList reports whether v holds a list of values.
// Byte slices and fixed arrays (uuid.UUID) are scalars.
func isList(v any) bool {
	switch v.(type) {
	case []any, []string:
		return true
	case nil, []byte:
		return false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8
}

// listValues flattens v into its elements. Scalars become a single
// element list.
func listValues(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	}
	if !isList(v) {
		return []any{v}
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// deref unwraps non-nil pointers.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}
