// Package caster extracts typed values from the interface{} results that
// stacks and generated proxies pass around.
package caster

// Cast returns val as a T, or the zero T when val holds something else.
func Cast[T any](val interface{}) T {
	var defaultVal T
	if v, ok := val.(T); ok {
		return v
	}

	return defaultVal
}

// As casts the value of a (value, error) pair, keeping the error. It fits
// directly around a stack call: caster.As[string](st.Call("x")).
func As[T any](val interface{}, err error) (T, error) {
	return Cast[T](val), err
}

// Index casts element i of a []interface{} result, or returns the zero T
// when vals is not a slice or is too short.
func Index[T any](vals interface{}, i int) T {
	s, ok := vals.([]interface{})
	if !ok || i < 0 || i >= len(s) {
		var defaultVal T
		return defaultVal
	}

	return Cast[T](s[i])
}
