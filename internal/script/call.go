package script

import (
	"fmt"
	"go/ast"
	"reflect"
)

func (ip *interp) evalCall(e *ast.CallExpr) (reflect.Value, error) {
	args := make([]reflect.Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := ip.eval(a)
		if err != nil {
			return reflect.Value{}, err
		}
		args = append(args, v)
	}

	// A bare identifier call: either a namespace callable (including
	// scaffold-injected tools and done/final_value/llm_query) or one of the
	// small set of Python-flavored builtins kept for source familiarity.
	if ident, ok := e.Fun.(*ast.Ident); ok {
		if v, found := ip.ns.Get(ident.Name); found && v.Kind == KindCallable {
			return v.Fn(args)
		}
		if fn, ok := builtins[ident.Name]; ok {
			return fn(args)
		}
		return reflect.Value{}, fmt.Errorf("%q is not defined", ident.Name)
	}

	// A method/selector call: obj.Method(args...).
	if sel, ok := e.Fun.(*ast.SelectorExpr); ok {
		recv, err := ip.eval(sel.X)
		if err != nil {
			return reflect.Value{}, err
		}
		m, err := selectField(recv, sel.Sel.Name)
		if err != nil {
			return reflect.Value{}, err
		}
		return callReflect(m, args)
	}

	return reflect.Value{}, fmt.Errorf("unsupported call expression")
}

func callReflect(fn reflect.Value, args []reflect.Value) (reflect.Value, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return reflect.Value{}, fmt.Errorf("value is not callable")
	}
	in := adaptArgs(fn, args)
	out := fn.Call(in)
	switch len(out) {
	case 0:
		return reflect.Value{}, nil
	case 1:
		if isErrorValue(out[0]) {
			return reflect.Value{}, out[0].Interface().(error)
		}
		return out[0], nil
	default:
		last := out[len(out)-1]
		if isErrorValue(last) {
			if !last.IsNil() {
				return reflect.Value{}, last.Interface().(error)
			}
			return out[0], nil
		}
		return out[0], nil
	}
}

func isErrorValue(v reflect.Value) bool {
	errType := reflect.TypeOf((*error)(nil)).Elem()
	return v.IsValid() && v.Type().Implements(errType)
}

// adaptArgs coerces evaluated argument values to the function's declared
// parameter types where the conversion is safe (e.g. untyped int literal
// constants flowing into a uint64 parameter), mirroring the latitude a
// dynamically-typed script would have.
func adaptArgs(fn reflect.Value, args []reflect.Value) []reflect.Value {
	t := fn.Type()
	variadic := t.IsVariadic()
	out := make([]reflect.Value, len(args))
	for i, a := range args {
		var want reflect.Type
		switch {
		case variadic && i >= t.NumIn()-1:
			want = t.In(t.NumIn() - 1).Elem()
		case i < t.NumIn():
			want = t.In(i)
		default:
			out[i] = a
			continue
		}
		out[i] = coerce(a, want)
	}
	return out
}

func coerce(v reflect.Value, want reflect.Type) reflect.Value {
	if !v.IsValid() {
		return reflect.Zero(want)
	}
	if v.Type() == want {
		return v
	}
	if v.Type().ConvertibleTo(want) {
		switch want.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64, reflect.String:
			return v.Convert(want)
		}
	}
	return v
}
