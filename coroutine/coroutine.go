// Package coroutine turns suspend/resume style handlers into ordinary
// handlers that return a future.
//
// A Coroutine suspends by calling its Await argument with a future; it is
// resumed with that future's settlement. Coroutines run on iter.Pull, so a
// Generator is stepped cooperatively on the caller's goroutine.
package coroutine

import (
	"errors"
	"fmt"
	"iter"

	"github.com/panagiotisptr/shimstack/future"
)

// Func is the calling convention coroutines are adapted into. It shares
// its underlying type with interceptor.Handler.
type Func func(this interface{}, args []interface{}) (interface{}, error)

// Await suspends the calling coroutine until f settles and returns the
// settled value, or the rejection as an error.
type Await func(f *future.Future) (interface{}, error)

// Coroutine is a suspend/resume style handler.
type Coroutine func(this interface{}, args []interface{}, await Await) (interface{}, error)

var errStopped = errors.New("coroutine: stopped")

// Generator is a started coroutine driven manually with Resume.
type Generator struct {
	next func() (*future.Future, bool)
	stop func()

	sent    interface{}
	sentErr error

	result interface{}
	err    error
	done   bool
}

// Start prepares co for stepping. The body does not run until the first
// Resume.
func Start(co Coroutine, this interface{}, args []interface{}) *Generator {
	g := &Generator{}
	seq := func(yield func(*future.Future) bool) {
		defer func() {
			if r := recover(); r != nil && r != errStopped {
				panic(r)
			}
		}()
		await := func(f *future.Future) (interface{}, error) {
			if f == nil {
				return nil, nil
			}
			if !yield(f) {
				panic(errStopped)
			}
			return g.sent, g.sentErr
		}
		g.result, g.err = co(this, args, await)
	}
	g.next, g.stop = iter.Pull(seq)
	return g
}

// Resume runs the coroutine until it awaits again or returns. v and err are
// delivered as the result of the pending Await; they are ignored on the
// first call. It returns the awaited future and true while suspended, and
// nil and false once finished. A panic inside the coroutine is re-raised
// here and finishes the generator.
func (g *Generator) Resume(v interface{}, err error) (*future.Future, bool) {
	if g.done {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			g.done = true
			panic(r)
		}
	}()
	g.sent, g.sentErr = v, err
	f, ok := g.next()
	if !ok {
		g.done = true
	}
	return f, ok
}

// Done reports whether the coroutine has finished.
func (g *Generator) Done() bool { return g.done }

// Result returns what the coroutine returned. Only meaningful once Done.
func (g *Generator) Result() (interface{}, error) {
	return g.result, g.err
}

// Stop abandons a suspended coroutine. Its pending Await never returns.
func (g *Generator) Stop() {
	g.stop()
	g.done = true
}

// resume is Resume with the coroutine's panics turned into errors.
func (g *Generator) resume(v interface{}, err error) (f *future.Future, ok bool, perr error) {
	defer func() {
		if r := recover(); r != nil {
			perr = panicError(r)
		}
	}()
	f, ok = g.Resume(v, err)
	return f, ok, nil
}

func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("coroutine: panic: %v", r)
}
