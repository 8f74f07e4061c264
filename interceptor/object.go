package interceptor

import (
	"fmt"
	"sync"
)

// MethodSource is where an inheriting stack looks its ancestor method up.
type MethodSource interface {
	Method(name string) (Callable, bool)
}

// Object is a method table with an optional prototype. Lookups that miss
// on the object continue on its prototype chain.
type Object struct {
	mu      sync.RWMutex
	proto   *Object
	methods map[string]Callable
}

// NewObject creates an object inheriting from proto, which may be nil.
func NewObject(proto *Object) *Object {
	return &Object{
		proto:   proto,
		methods: make(map[string]Callable),
	}
}

// Proto returns the object's prototype.
func (o *Object) Proto() *Object {
	if o == nil {
		return nil
	}
	return o.proto
}

// Set defines an own method.
func (o *Object) Set(name string, m Callable) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.methods[name] = m
}

// Delete removes an own method, exposing any inherited one.
func (o *Object) Delete(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.methods, name)
}

// Own returns the object's own method, ignoring the prototype chain.
func (o *Object) Own(name string) (Callable, bool) {
	if o == nil {
		return nil, false
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	m, ok := o.methods[name]
	return m, ok
}

// Method implements MethodSource.
func (o *Object) Method(name string) (Callable, bool) {
	for cur := o; cur != nil; cur = cur.proto {
		if m, ok := cur.Own(name); ok {
			return m, true
		}
	}
	return nil, false
}

// Call invokes the named method with the object as the context.
func (o *Object) Call(name string, args ...interface{}) (interface{}, error) {
	return o.CallWith(o, name, args...)
}

// CallWith invokes the named method with this as the context.
func (o *Object) CallWith(this interface{}, name string, args ...interface{}) (interface{}, error) {
	m, ok := o.Method(name)
	if !ok {
		return nil, newError(UnresolvedMethod, "call", fmt.Errorf("no method %q", name))
	}
	return m.Invoke(this, args)
}
