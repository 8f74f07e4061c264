package generate

import (
	"fmt"
	"strings"
)

// values returns the non-error results; hasErr reports a trailing error.
func (m *MethodData) values() (vals []string, hasErr bool) {
	if n := len(m.Rets); n > 0 && m.Rets[n-1] == "error" {
		return m.Rets[:n-1], true
	}
	return m.Rets, false
}

// Signature renders the proxy method's name, parameters and results.
func (m *MethodData) Signature() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = fmt.Sprintf("a%d %s", i, p)
	}

	sig := m.Name + "(" + strings.Join(params, ", ") + ")"
	switch len(m.Rets) {
	case 0:
		return sig
	case 1:
		return sig + " " + m.Rets[0]
	default:
		return sig + " (" + strings.Join(m.Rets, ", ") + ")"
	}
}

// callArgs renders the arguments passed on to the object method.
func (m *MethodData) callArgs() string {
	args := make([]string, len(m.Params))
	for i := range m.Params {
		args[i] = fmt.Sprintf("a%d", i)
	}
	return strings.Join(args, ", ")
}

// ImplCall renders the terminal handler body calling the implementation.
// Arguments are read back with caster.Index so entries may rewrite them.
func (m *MethodData) ImplCall() string {
	args := make([]string, len(m.Params))
	for i, p := range m.Params {
		args[i] = fmt.Sprintf("caster.Index[%s](args, %d)", p.Type(), i)
		if p.IsVariadic() {
			args[i] += "..."
		}
	}
	call := "p.impl." + m.Name + "(" + strings.Join(args, ", ") + ")"

	vals, hasErr := m.values()
	switch {
	case len(vals) == 0 && !hasErr:
		return call + "\nreturn nil, nil"
	case len(vals) == 0:
		return "return nil, " + call
	case len(vals) == 1 && !hasErr:
		return "return " + call + ", nil"
	case len(vals) == 1:
		return "return " + call
	}

	names := make([]string, len(vals))
	for i := range vals {
		names[i] = fmt.Sprintf("r%d", i)
	}
	if hasErr {
		return strings.Join(names, ", ") + ", err := " + call +
			"\nreturn []interface{}{" + strings.Join(names, ", ") + "}, err"
	}
	return strings.Join(names, ", ") + " := " + call +
		"\nreturn []interface{}{" + strings.Join(names, ", ") + "}, nil"
}

// ProxyBody renders the proxy method body dispatching through Object.
// Methods without an error result panic with the stack's error.
func (m *MethodData) ProxyBody() string {
	call := fmt.Sprintf("p.Object.CallWith(p, %q", m.Name)
	if len(m.Params) > 0 {
		call += ", " + m.callArgs()
	}
	call += ")"

	vals, hasErr := m.values()
	switch {
	case len(vals) == 0 && !hasErr:
		return "if _, err := " + call + "; err != nil {\npanic(err)\n}"
	case len(vals) == 0:
		return "_, err := " + call + "\nreturn err"
	case len(vals) == 1 && !hasErr:
		return "out, err := " + call + "\n" + panicOnErr +
			"\nreturn caster.Cast[" + vals[0] + "](out)"
	case len(vals) == 1:
		return "out, err := " + call + "\nreturn caster.Cast[" + vals[0] + "](out), err"
	}

	rets := make([]string, len(vals))
	for i, v := range vals {
		rets[i] = fmt.Sprintf("caster.Index[%s](out, %d)", v, i)
	}
	if hasErr {
		return "out, err := " + call + "\nreturn " + strings.Join(rets, ", ") + ", err"
	}
	return "out, err := " + call + "\n" + panicOnErr +
		"\nreturn " + strings.Join(rets, ", ")
}

const panicOnErr = "if err != nil {\npanic(err)\n}"
