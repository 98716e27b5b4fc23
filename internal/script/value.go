// Package script implements the sandboxed, scaffold-protected execution
// engine: a persistent namespace into which the model writes short code
// fragments that call the debugger façade, plus reentrant sub-queries back
// to the model.
//
// No third-party embeddable scripting or expression-evaluator library
// appears anywhere in the reference corpus (confirmed by searching for
// goja/yaegi/starlark/tengo/otto/lua — none are imported by any example
// repo). Scripts here are therefore parsed as the statement list of a
// synthetic Go function body using the standard library's go/parser and
// tree-walked with reflection against the namespace; see DESIGN.md for the
// full justification of this standard-library-only component.
package script

import (
	"fmt"
	"reflect"
)

// Kind discriminates the tagged sum a namespace entry holds: a callable, a
// handle into the live debugger, a plain primitive, or opaque user data.
type Kind int

const (
	KindPrimitive Kind = iota
	KindCallable
	KindDebuggerHandle
	KindUserData
)

// Callable is a builtin or injected function: it receives already-evaluated
// argument values and returns a result value plus an error.
type Callable func(args []reflect.Value) (reflect.Value, error)

// Value is one entry in the script namespace.
type Value struct {
	Kind Kind
	// Raw holds a Go value (for Primitive/UserData/DebuggerHandle) via
	// reflect.ValueOf, so the interpreter can call methods and access
	// fields uniformly regardless of where the object came from.
	Raw reflect.Value
	// Fn holds the callable when Kind == KindCallable.
	Fn Callable
}

// Of wraps a Go value as a namespace Value.
func Of(kind Kind, v any) Value {
	return Value{Kind: kind, Raw: reflect.ValueOf(v)}
}

// OfCallable wraps a builtin/injected function as a namespace Value.
func OfCallable(fn Callable) Value {
	return Value{Kind: KindCallable, Fn: fn}
}

// Describe renders a short human-readable description, used for tool-doc
// rendering and variable snapshots.
func (v Value) Describe() string {
	switch v.Kind {
	case KindCallable:
		return "callable"
	default:
		if !v.Raw.IsValid() {
			return "<invalid>"
		}
		return fmt.Sprintf("%v", v.Raw.Interface())
	}
}

// Repr renders v as a short, truncated (200-char) representation suitable
// for a variable snapshot.
func (v Value) Repr() string {
	s := v.Describe()
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
