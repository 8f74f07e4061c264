// Package future provides a settle-once value that composed stacks return
// when any step in the chain is asynchronous.
package future

import (
	"context"
	"sync"
)

type state int

const (
	pending state = iota
	fulfilled
	rejected
)

// Future holds the eventual outcome of an asynchronous step. The first call
// to resolve or reject wins; later settlements are ignored.
type Future struct {
	mu        sync.Mutex
	state     state
	value     interface{}
	err       error
	done      chan struct{}
	callbacks []func(interface{}, error)
}

// New returns a pending future together with its settle functions.
func New() (*Future, func(interface{}), func(error)) {
	f := &Future{done: make(chan struct{})}
	return f, f.resolve, f.reject
}

// Resolved returns a future already fulfilled with v.
func Resolved(v interface{}) *Future {
	f, resolve, _ := New()
	resolve(v)
	return f
}

// Rejected returns a future already rejected with err.
func Rejected(err error) *Future {
	f, _, reject := New()
	reject(err)
	return f
}

func (f *Future) resolve(v interface{}) {
	// a future resolved with another future adopts its outcome
	if inner, ok := v.(*Future); ok {
		if inner == f {
			return
		}
		inner.OnSettle(f.settle)
		return
	}
	f.settle(v, nil)
}

func (f *Future) reject(err error) {
	f.settle(nil, err)
}

func (f *Future) settle(v interface{}, err error) {
	f.mu.Lock()
	if f.state != pending {
		f.mu.Unlock()
		return
	}
	if err != nil {
		f.state = rejected
	} else {
		f.state = fulfilled
	}
	f.value, f.err = v, err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(v, err)
	}
}

// OnSettle registers cb to run once the future settles. If it already has,
// cb runs immediately on the calling goroutine.
func (f *Future) OnSettle(cb func(interface{}, error)) {
	f.mu.Lock()
	if f.state == pending {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	cb(v, err)
}

// Settled reports whether the future has been resolved or rejected.
func (f *Future) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state != pending
}

// Result returns the settled value and error. On a pending future it
// returns (nil, nil); use Await to block.
func (f *Future) Result() (interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Done returns a channel closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done. Cancelling ctx
// abandons the wait only; the future keeps its eventual outcome.
func (f *Future) Await(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Then returns a future settled with fn's outcome once f fulfills.
// A rejection skips fn and is passed through. If fn returns a future,
// the returned future follows it.
func (f *Future) Then(fn func(interface{}) (interface{}, error)) *Future {
	next, resolve, reject := New()
	f.OnSettle(func(v interface{}, err error) {
		if err != nil {
			reject(err)
			return
		}
		out, err := fn(v)
		if err != nil {
			reject(err)
			return
		}
		resolve(out)
	})
	return next
}

// Catch is the rejection counterpart of Then: fn runs only when f rejects
// and may recover by returning a value.
func (f *Future) Catch(fn func(error) (interface{}, error)) *Future {
	next, resolve, reject := New()
	f.OnSettle(func(v interface{}, err error) {
		if err == nil {
			resolve(v)
			return
		}
		out, err := fn(err)
		if err != nil {
			reject(err)
			return
		}
		resolve(out)
	})
	return next
}
