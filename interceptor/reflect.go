package interceptor

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// typedFunc is an arbitrary Go function wrapped into a Handler.
type typedFunc struct {
	handler Handler
	arity   int
	name    string
}

// wrapFunc wraps fn, which must be a non-nil func returning nothing, a
// value, an error, or a value and an error. The wrapped handler ignores the
// context, drops surplus arguments, and fills missing ones with zero values.
func wrapFunc(fn interface{}) (*typedFunc, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, newError(InvalidTarget, "wrap", fmt.Errorf("%T is not a function", fn))
	}

	t := v.Type()
	switch t.NumOut() {
	case 0, 1:
	case 2:
		if t.Out(1) != errorType {
			return nil, newError(InvalidTarget, "wrap",
				fmt.Errorf("second result of %s must be error", t))
		}
	default:
		return nil, newError(InvalidTarget, "wrap",
			fmt.Errorf("%s returns more than two results", t))
	}

	h := func(_ interface{}, args []interface{}) (interface{}, error) {
		in, err := convertArgs(t, args)
		if err != nil {
			return nil, err
		}
		return unpackResults(t, v.Call(in))
	}

	return &typedFunc{
		handler: h,
		arity:   t.NumIn(),
		name:    funcName(v),
	}, nil
}

func convertArgs(t reflect.Type, args []interface{}) ([]reflect.Value, error) {
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}

	in := make([]reflect.Value, 0, max(fixed, len(args)))
	for i := 0; i < fixed; i++ {
		var arg interface{}
		if i < len(args) {
			arg = args[i]
		}
		v, err := convertArg(i, arg, t.In(i))
		if err != nil {
			return nil, err
		}
		in = append(in, v)
	}

	if t.IsVariadic() {
		elem := t.In(fixed).Elem()
		for i := fixed; i < len(args); i++ {
			v, err := convertArg(i, args[i], elem)
			if err != nil {
				return nil, err
			}
			in = append(in, v)
		}
	}

	return in, nil
}

func convertArg(i int, arg interface{}, typ reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(typ), nil
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(typ) {
		return reflect.Value{}, newError(InvalidArgument, "call",
			fmt.Errorf("argument %d: cannot use %s as %s", i, v.Type(), typ))
	}
	return v, nil
}

func unpackResults(t reflect.Type, out []reflect.Value) (interface{}, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if t.Out(0) == errorType {
			err, _ := out[0].Interface().(error)
			return nil, err
		}
		return out[0].Interface(), nil
	default:
		err, _ := out[1].Interface().(error)
		return out[0].Interface(), err
	}
}

// funcName returns the declared name of a function without its package
// path, or "" for closures.
func funcName(v reflect.Value) string {
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if strings.Contains(name, ".func") || strings.HasPrefix(name, "func") {
		return ""
	}
	return name
}
