package interceptor

import (
	"errors"
	"fmt"

	"github.com/panagiotisptr/shimstack/coroutine"
)

type options struct {
	name    string
	nameSet bool

	argPosition int
	argSet      bool

	arity    int
	aritySet bool

	lastArg       bool
	first         bool
	ancestorFirst bool
	coroutines    coroutine.Policy
}

// Option configures a registration.
type Option func(*options)

// Name labels the entry. Defaults to the function's declared name.
func Name(name string) Option {
	return func(o *options) {
		o.name = name
		o.nameSet = true
	}
}

// ArgPosition sets the index the continuation is written to.
func ArgPosition(pos int) Option {
	return func(o *options) {
		o.argPosition = pos
		o.argSet = true
	}
}

// Arity declares the parameter count of a Handler or Coroutine entry, whose
// signature does not reveal it. The continuation goes to the last position.
func Arity(n int) Option {
	return func(o *options) {
		o.arity = n
		o.aritySet = true
	}
}

// LastArg appends the continuation after all call arguments.
func LastArg(v bool) Option {
	return func(o *options) { o.lastArg = v }
}

// First inserts the entry at the head of the stack.
func First(v bool) Option {
	return func(o *options) { o.first = v }
}

// AncestorFirst decides, when a method inherited from a prototype is
// stacked, whether a stacked ancestor's entries run before the new stack's
// (true, the default) or the ancestor method is used as an opaque terminal.
func AncestorFirst(v bool) Option {
	return func(o *options) { o.ancestorFirst = v }
}

// Coroutines selects how coroutine entries and terminals are adapted.
func Coroutines(p coroutine.Policy) Option {
	return func(o *options) { o.coroutines = p }
}

// Shimmer registers entries on stacks using its default options.
type Shimmer struct {
	defaults []Option
}

// New returns a Shimmer with the given default options.
func New(opts ...Option) *Shimmer {
	return &Shimmer{defaults: opts}
}

// Use derives a Shimmer whose defaults are s's overridden by opts. s is not
// affected.
func (s *Shimmer) Use(opts ...Option) *Shimmer {
	defaults := make([]Option, 0, len(s.defaults)+len(opts))
	defaults = append(defaults, s.defaults...)
	defaults = append(defaults, opts...)
	return &Shimmer{defaults: defaults}
}

func (s *Shimmer) options(opts []Option) *options {
	o := &options{
		ancestorFirst: true,
		coroutines:    coroutine.UseDefault,
	}
	for _, opt := range s.defaults {
		opt(o)
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Func stacks target and, if fn is not nil, registers fn on it. target may
// be a *Stack (reused), a Handler, a Callable, a coroutine.Coroutine, or any
// Go function.
func (s *Shimmer) Func(target interface{}, fn interface{}, opts ...Option) (*Stack, error) {
	o := s.options(opts)

	st, ok := target.(*Stack)
	if ok && st == nil {
		return nil, newError(InvalidTarget, "func", errors.New("nil stack"))
	}
	if !ok {
		terminal, name, err := toCallable(target, o.coroutines)
		if err != nil {
			return nil, err
		}
		st = NewStack(terminal)
		st.name = name
	}

	if err := s.add(st, fn, o); err != nil {
		return nil, err
	}
	return st, nil
}

// Method stacks the method called name on obj and, if fn is not nil,
// registers fn on it. An own method is stacked in place; an inherited one
// gets a new own stack that inherits from obj's prototype.
func (s *Shimmer) Method(obj *Object, name string, fn interface{}, opts ...Option) (*Stack, error) {
	if obj == nil {
		return nil, newError(InvalidTarget, "method", errors.New("nil object"))
	}
	if name == "" {
		return nil, newError(InvalidMethodName, "method", errors.New("method name is empty"))
	}
	o := s.options(opts)

	var st *Stack
	if m, ok := obj.Own(name); ok {
		if existing, isStack := m.(*Stack); isStack {
			st = existing
		} else if m == nil {
			return nil, newError(InvalidTarget, "method", fmt.Errorf("method %q is nil", name))
		} else {
			st = NewStack(m)
			st.name = name
			obj.Set(name, st)
		}
	} else {
		if _, ok := obj.Method(name); !ok {
			return nil, newError(InvalidTarget, "method", fmt.Errorf("no method %q", name))
		}
		st = NewInheritingStack(obj.Proto(), name, o.ancestorFirst)
		obj.Set(name, st)
	}

	if err := s.add(st, fn, o); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Shimmer) add(st *Stack, fn interface{}, o *options) error {
	if fn == nil {
		return nil
	}
	e, err := newEntry(fn, st.name, o)
	if err != nil {
		return err
	}
	st.Add(e, o.first)
	return nil
}

// newEntry builds a ready to run entry. The continuation position is the
// explicit one, else the last declared parameter, else the end of the
// arguments when the arity is unknown.
func newEntry(fn interface{}, stackName string, o *options) (*Entry, error) {
	if o.argSet && o.argPosition < 0 {
		return nil, newError(InvalidOption, "add", fmt.Errorf("negative argument position %d", o.argPosition))
	}
	if o.aritySet && o.arity < 0 {
		return nil, newError(InvalidOption, "add", fmt.Errorf("negative arity %d", o.arity))
	}

	e := &Entry{InjectAtEnd: o.lastArg}
	arity := -1

	switch f := fn.(type) {
	case Interceptor:
		ie := f.Entry(stackName)
		e.Handler, e.Name = ie.Handler, ie.Name
		e.InjectAtEnd = true
	case func(string, Handler) Handler:
		ie := Interceptor(f).Entry(stackName)
		e.Handler, e.Name = ie.Handler, ie.Name
		e.InjectAtEnd = true
	default:
		h, name, declared, err := toHandler(fn, o.coroutines)
		if err != nil {
			return nil, err
		}
		e.Handler, e.Name, arity = h, name, declared
	}

	if o.aritySet {
		arity = o.arity
	}
	if o.nameSet {
		e.Name = o.name
	}

	switch {
	case e.InjectAtEnd:
	case o.argSet:
		e.ArgPosition = o.argPosition
	case arity > 0:
		e.ArgPosition = arity - 1
	default:
		e.InjectAtEnd = true
	}

	return e, nil
}

// toCallable converts a terminal.
func toCallable(target interface{}, p coroutine.Policy) (Callable, string, error) {
	if _, isHandler := target.(Handler); !isHandler {
		if c, ok := target.(Callable); ok {
			return c, "", nil
		}
	}
	h, name, _, err := toHandler(target, p)
	if err != nil {
		return nil, "", err
	}
	return h, name, nil
}

// toHandler converts fn to a Handler, adapting coroutines with p. The
// returned arity is -1 when the signature does not declare one.
func toHandler(fn interface{}, p coroutine.Policy) (Handler, string, int, error) {
	switch f := fn.(type) {
	case nil:
		return nil, "", 0, newError(InvalidTarget, "add", errors.New("nil function"))
	case Handler:
		if f == nil {
			break
		}
		return f, "", -1, nil
	case func(interface{}, []interface{}) (interface{}, error):
		if f == nil {
			break
		}
		return f, "", -1, nil
	case coroutine.Coroutine, func(interface{}, []interface{}, coroutine.Await) (interface{}, error):
		if h, ok := AdaptCoroutine(f, p).(Handler); ok && h != nil {
			return h, "", -1, nil
		}
	case Callable:
		return f.Invoke, "", -1, nil
	default:
		tf, err := wrapFunc(fn)
		if err != nil {
			return nil, "", 0, err
		}
		return tf.handler, tf.name, tf.arity, nil
	}
	return nil, "", 0, newError(InvalidTarget, "add", fmt.Errorf("nil %T", fn))
}

// AdaptCoroutine adapts a coroutine into a Handler according to p. Any
// other value is returned unchanged.
func AdaptCoroutine(fn interface{}, p coroutine.Policy) interface{} {
	var co coroutine.Coroutine
	switch f := fn.(type) {
	case coroutine.Coroutine:
		co = f
	case func(interface{}, []interface{}, coroutine.Await) (interface{}, error):
		co = f
	default:
		return fn
	}
	if co == nil {
		return fn
	}
	return Handler(coroutine.Adapt(co, p))
}

var std = New()

// Use derives a Shimmer from the package defaults.
func Use(opts ...Option) *Shimmer {
	return std.Use(opts...)
}

// Func stacks target with the package defaults. See Shimmer.Func.
func Func(target interface{}, fn interface{}, opts ...Option) (*Stack, error) {
	return std.Func(target, fn, opts...)
}

// Method stacks a method with the package defaults. See Shimmer.Method.
func Method(obj *Object, name string, fn interface{}, opts ...Option) (*Stack, error) {
	return std.Method(obj, name, fn, opts...)
}
