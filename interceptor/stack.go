package interceptor

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Entry is one interceptor in a stack.
type Entry struct {
	Handler Handler
	// Name is a diagnostic label.
	Name string
	// ArgPosition is the index the continuation is written to. A negative
	// position behaves like InjectAtEnd.
	ArgPosition int
	// InjectAtEnd appends the continuation after all call arguments and
	// overrides ArgPosition.
	InjectAtEnd bool
}

// inject returns a copy of args with next written at the entry's position,
// padding with nil when the position lies beyond the arguments.
func (e *Entry) inject(args []interface{}, next *Next) []interface{} {
	pos := e.ArgPosition
	if e.InjectAtEnd || pos < 0 {
		pos = len(args)
	}

	n := len(args)
	if pos >= n {
		n = pos + 1
	}
	out := make([]interface{}, n)
	copy(out, args)
	out[pos] = next

	return out
}

// ancestor describes the inherited method a stack builds on. It is looked
// up again on every call.
type ancestor struct {
	source    MethodSource
	method    string
	runsFirst bool
}

// Stack is a composed callable: an ordered list of entries around either a
// terminal or an inherited ancestor method.
type Stack struct {
	id   uuid.UUID
	name string

	mu      sync.RWMutex
	entries []*Entry

	// exactly one of terminal and ancestor is set; neither changes after
	// construction
	terminal Callable
	ancestor *ancestor
}

// NewStack composes a fresh stack that ends in terminal.
func NewStack(terminal Callable) *Stack {
	return &Stack{
		id:       uuid.New(),
		terminal: terminal,
	}
}

// NewInheritingStack composes a stack over the method called name on
// source. The method is not looked up until the stack is invoked. When
// runsFirst is set and the method found is itself a *Stack, its entries run
// before this stack's; otherwise the method is treated as the terminal.
func NewInheritingStack(source MethodSource, name string, runsFirst bool) *Stack {
	return &Stack{
		id:   uuid.New(),
		name: name,
		ancestor: &ancestor{
			source:    source,
			method:    name,
			runsFirst: runsFirst,
		},
	}
}

// ID identifies the stack in logs.
func (s *Stack) ID() uuid.UUID { return s.id }

// Name returns the stack's label, usually the method it wraps.
func (s *Stack) Name() string { return s.name }

// Add appends e, or inserts it at the head when first is set.
func (s *Stack) Add(e *Entry, first bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if first {
		s.entries = append([]*Entry{e}, s.entries...)
		return
	}
	s.entries = append(s.entries, e)
}

// Entries returns a snapshot of the stack's own entries.
func (s *Stack) Entries() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of the stack's own entries.
func (s *Stack) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Terminal returns the stack's own terminal, or nil for inheriting stacks.
func (s *Stack) Terminal() Callable { return s.terminal }

// Ancestor returns the inherited method descriptor. ok is false for fresh
// stacks.
func (s *Stack) Ancestor() (source MethodSource, method string, runsFirst bool, ok bool) {
	if s.ancestor == nil {
		return nil, "", false, false
	}
	return s.ancestor.source, s.ancestor.method, s.ancestor.runsFirst, true
}

// Resolve flattens the stack and its ancestors into the entries that run,
// most ancestral first, and the terminal they end in.
func (s *Stack) Resolve() ([]*Entry, Callable, error) {
	var (
		segments [][]*Entry
		visited  []*Stack
		total    int
	)

	current := s
	for {
		if seen(visited, current) {
			return nil, nil, s.cycleError()
		}
		visited = append(visited, current)

		own := current.Entries()
		segments = append(segments, own)
		total += len(own)

		if current.terminal != nil {
			return flatten(segments, total), current.terminal, nil
		}

		a := current.ancestor
		m, ok := a.source.Method(a.method)
		if !ok || m == nil {
			return nil, nil, newError(UnresolvedMethod, "resolve",
				fmt.Errorf("ancestor has no method %q", a.method))
		}

		next, isStack := m.(*Stack)
		if !isStack {
			return flatten(segments, total), m, nil
		}
		if !a.runsFirst {
			// the terminal must not lead back to a visited stack
			if reachesAny(next, visited) {
				return nil, nil, s.cycleError()
			}
			return flatten(segments, total), m, nil
		}
		current = next
	}
}

func (s *Stack) cycleError() error {
	return newError(CyclicInheritance, "resolve",
		fmt.Errorf("stack %q inherits from itself", s.name))
}

func seen(visited []*Stack, st *Stack) bool {
	for _, v := range visited {
		if v == st {
			return true
		}
	}
	return false
}

// reachesAny follows st's ancestor links, transitive or not, and reports
// whether the walk comes back to a stack in visited or loops on its own.
// A missing ancestor ends the walk; it is reported when that stack runs.
func reachesAny(st *Stack, visited []*Stack) bool {
	walked := append([]*Stack(nil), visited...)
	for cur := st; ; {
		if seen(walked, cur) {
			return true
		}
		walked = append(walked, cur)

		if cur.ancestor == nil {
			return false
		}
		m, ok := cur.ancestor.source.Method(cur.ancestor.method)
		if !ok {
			return false
		}
		next, isStack := m.(*Stack)
		if !isStack {
			return false
		}
		cur = next
	}
}

// flatten concatenates segments collected descendant first into ancestor
// first order.
func flatten(segments [][]*Entry, total int) []*Entry {
	if len(segments) == 1 {
		return segments[0]
	}

	out := make([]*Entry, 0, total)
	for i := len(segments) - 1; i >= 0; i-- {
		out = append(out, segments[i]...)
	}
	return out
}

// Invoke implements Callable: it resolves the stack and runs the chain
// with this as the context.
func (s *Stack) Invoke(this interface{}, args []interface{}) (interface{}, error) {
	entries, terminal, err := s.Resolve()
	if err != nil {
		return nil, err
	}

	c := &chain{entries: entries, terminal: terminal}
	return c.run(0, this, args)
}

// Call invokes the stack without a receiver.
func (s *Stack) Call(args ...interface{}) (interface{}, error) {
	return s.Invoke(Unbound, args)
}

// CallWith invokes the stack with this as the context.
func (s *Stack) CallWith(this interface{}, args ...interface{}) (interface{}, error) {
	return s.Invoke(this, args)
}

// Handler returns the stack as a plain Handler.
func (s *Stack) Handler() Handler {
	return s.Invoke
}
