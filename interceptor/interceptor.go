package interceptor

// Handler is the calling convention shared by terminals and stack entries.
// this is the call context; a returned *future.Future is passed through
// untouched like any other value.
type Handler func(
	this interface{},
	args []interface{},
) (interface{}, error)

// Invoke implements Callable.
func (h Handler) Invoke(this interface{}, args []interface{}) (interface{}, error) {
	return h(this, args)
}

// Callable is anything a stack can run as its terminal or find as an
// ancestor method.
type Callable interface {
	Invoke(this interface{}, args []interface{}) (interface{}, error)
}

// Interceptor is the decorator form of an entry: it wraps next and returns
// the handler to run in its place.
type Interceptor func(
	method string,
	next Handler,
) Handler

// Entry adapts ic to a stack entry. The continuation is appended after the
// call arguments and handed to ic as next.
func (ic Interceptor) Entry(method string) *Entry {
	return &Entry{
		Name:        method,
		InjectAtEnd: true,
		Handler: func(this interface{}, args []interface{}) (interface{}, error) {
			last := len(args) - 1
			next := args[last].(*Next)
			return ic(method, next.Invoke)(this, args[:last])
		},
	}
}

type unbound struct{}

// Unbound is the receiver of calls made without one. Passing it to a
// continuation keeps the context carried from the outer call.
var Unbound interface{} = unbound{}

// IsUnbound reports whether this is the Unbound sentinel. It never compares
// values, so uncomparable receivers are safe.
func IsUnbound(this interface{}) bool {
	_, ok := this.(unbound)
	return ok
}

// chain is one resolved invocation plan: a flattened entry snapshot and
// the terminal it ends in. It is shared read-only by every Next of a call.
type chain struct {
	entries  []*Entry
	terminal Callable
}

func (c *chain) run(
	i int,
	this interface{},
	args []interface{},
) (interface{}, error) {
	if i == len(c.entries) {
		return c.terminal.Invoke(this, args)
	}

	e := c.entries[i]
	next := &Next{chain: c, index: i + 1, this: this}

	return e.Handler(this, e.inject(args, next))
}

// Next is the continuation injected into an entry's arguments. Calling it
// runs the remainder of the chain with the arguments it is given.
type Next struct {
	chain *chain
	index int
	this  interface{}
}

// Call continues the chain with args under the current context.
func (n *Next) Call(args ...interface{}) (interface{}, error) {
	return n.Invoke(Unbound, args)
}

// CallWith continues the chain with args, making this the context of
// every later entry and the terminal.
func (n *Next) CallWith(this interface{}, args ...interface{}) (interface{}, error) {
	return n.Invoke(this, args)
}

// Invoke implements Callable. An Unbound receiver keeps the context the
// continuation was created with.
func (n *Next) Invoke(this interface{}, args []interface{}) (interface{}, error) {
	if IsUnbound(this) {
		this = n.this
	}
	return n.chain.run(n.index, this, args)
}

// Context returns the context the continuation will pass on by default.
func (n *Next) Context() interface{} {
	return n.this
}
