package coroutine

import "github.com/panagiotisptr/shimstack/future"

// Adapter converts a coroutine into a function returning a future.
type Adapter interface {
	Adapt(co Coroutine) Func
}

// AdapterFunc is a function adapter for Adapter.
type AdapterFunc func(co Coroutine) Func

// Adapt implements Adapter.
func (f AdapterFunc) Adapt(co Coroutine) Func {
	return f(co)
}

// Policy selects how a coroutine is adapted at registration.
type Policy struct {
	disabled bool
	adapter  Adapter
}

var (
	// UseDefault adapts with the built-in driver.
	UseDefault = Policy{}
	// Disabled leaves the coroutine undriven: calling the adapted function
	// returns an unstarted *Generator.
	Disabled = Policy{disabled: true}
)

// WithAdapter delegates adaptation to a.
func WithAdapter(a Adapter) Policy {
	return Policy{adapter: a}
}

// IsDisabled reports whether p opts out of adaptation.
func (p Policy) IsDisabled() bool { return p.disabled }

// Adapt applies p to co. It is called once per registration.
func Adapt(co Coroutine, p Policy) Func {
	switch {
	case p.disabled:
		return func(this interface{}, args []interface{}) (interface{}, error) {
			return Start(co, this, args), nil
		}
	case p.adapter != nil:
		return p.adapter.Adapt(co)
	default:
		return Default().Adapt(co)
	}
}

// Default returns the built-in adapter. Each call of the adapted function
// starts a fresh generator and returns a pending future that settles with
// the coroutine's return value or error.
func Default() Adapter {
	return AdapterFunc(func(co Coroutine) Func {
		return func(this interface{}, args []interface{}) (interface{}, error) {
			f, resolve, reject := future.New()
			drive(Start(co, this, args), nil, nil, resolve, reject)
			return f, nil
		}
	})
}

// drive steps g synchronously while awaited futures are already settled,
// and otherwise continues from the settle callback of the awaited future.
func drive(g *Generator, v interface{}, err error, resolve func(interface{}), reject func(error)) {
	for {
		pending, ok, perr := g.resume(v, err)
		if perr != nil {
			reject(perr)
			return
		}
		if !ok {
			result, rerr := g.Result()
			if rerr != nil {
				reject(rerr)
				return
			}
			resolve(result)
			return
		}
		if !pending.Settled() {
			pending.OnSettle(func(v interface{}, err error) {
				drive(g, v, err, resolve, reject)
			})
			return
		}
		v, err = pending.Result()
	}
}
