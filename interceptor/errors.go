package interceptor

import "fmt"

// Kind classifies an Error.
type Kind int

const (
	// InvalidTarget: the value to compose is not callable.
	InvalidTarget Kind = iota + 1
	// InvalidMethodName: the method name is empty.
	InvalidMethodName
	// InvalidOption: an option value cannot be honored.
	InvalidOption
	// InvalidArgument: a call argument does not fit a typed function.
	InvalidArgument
	// UnresolvedMethod: a method looked up at call time is missing.
	UnresolvedMethod
	// CyclicInheritance: an ancestor walk came back to a stack it visited.
	CyclicInheritance
)

func (k Kind) String() string {
	switch k {
	case InvalidTarget:
		return "invalid target"
	case InvalidMethodName:
		return "invalid method name"
	case InvalidOption:
		return "invalid option"
	case InvalidArgument:
		return "invalid argument"
	case UnresolvedMethod:
		return "unresolved method"
	case CyclicInheritance:
		return "cyclic inheritance"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by the registration front-end and by lookups that fail
// at call time. Errors produced by handlers are never wrapped.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Sentinels for errors.Is.
var (
	ErrInvalidTarget     = &Error{Kind: InvalidTarget}
	ErrInvalidMethodName = &Error{Kind: InvalidMethodName}
	ErrInvalidOption     = &Error{Kind: InvalidOption}
	ErrInvalidArgument   = &Error{Kind: InvalidArgument}
	ErrUnresolvedMethod  = &Error{Kind: UnresolvedMethod}
	ErrCyclicInheritance = &Error{Kind: CyclicInheritance}
)

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	msg := "shimstack: "
	if e.Op != "" {
		msg += e.Op + ": "
	}
	msg += e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
