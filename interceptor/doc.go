// Package interceptor composes ordered stacks of interceptors around a
// function or an object method.
//
// A Stack runs its entries front to back. Each entry receives the call
// arguments with a *Next continuation written at its argument position and
// decides whether, and with which arguments, to continue:
//
//	st, _ := interceptor.Func(func() string { return "a" }, nil)
//	st.Add(&interceptor.Entry{
//		Handler: func(this interface{}, args []interface{}) (interface{}, error) {
//			v, err := args[0].(*interceptor.Next).Call()
//			if err != nil {
//				return nil, err
//			}
//			return "b" + v.(string), nil
//		},
//	}, false)
//	v, _ := st.Call() // "ba"
//
// The call context travels with the chain. Next.CallWith replaces it for
// every later entry and the terminal; Next.Call keeps it.
//
// Methods stacked on an Object whose method comes from its prototype get a
// stack that looks the prototype's method up on every call, so entries
// added to the prototype's stack later are still observed.
//
// Coroutine entries and terminals are adapted once, at registration, into
// handlers that return a *future.Future; see package coroutine.
package interceptor
