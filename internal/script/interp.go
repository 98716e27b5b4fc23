package script

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"
)

// interp evaluates the statement list of one fragment against a namespace.
// Fragments are parsed as the body of a synthetic Go function, which gives
// the model a real, familiar expression grammar (literals, selectors, calls,
// binary/unary operators, assignment, if) without inventing a bespoke one.
type interp struct {
	ns *Namespace
}

// parseFragment wraps code as a function body and parses it with go/parser,
// returning the statement list.
func parseFragment(code string) ([]ast.Stmt, error) {
	src := "package p\nfunc __morgul__() {\n" + code + "\n}\n"
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", src, 0)
	if err != nil {
		return nil, err
	}
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if ok && fn.Name.Name == "__morgul__" {
			return fn.Body.List, nil
		}
	}
	return nil, fmt.Errorf("no statements found")
}

// run executes stmts in order. It returns (sig, err): sig is non-nil if a
// doneSignal/finalValueSignal propagated out (the normal way execution
// ends); err is non-nil for anything else (a genuine runtime error) to be
// formatted into stderr by the caller.
func (ip *interp) run(stmts []ast.Stmt) (sig error, err error) {
	for _, stmt := range stmts {
		if e := ip.execStmt(stmt); e != nil {
			switch e.(type) {
			case *doneSignal, *finalValueSignal:
				return e, nil
			default:
				return nil, e
			}
		}
	}
	return nil, nil
}

func (ip *interp) execStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := ip.eval(s.X)
		return err

	case *ast.AssignStmt:
		if len(s.Lhs) != 1 || len(s.Rhs) != 1 {
			return fmt.Errorf("unsupported multi-assignment")
		}
		ident, ok := s.Lhs[0].(*ast.Ident)
		if !ok {
			return fmt.Errorf("unsupported assignment target")
		}
		val, err := ip.eval(s.Rhs[0])
		if err != nil {
			return err
		}
		ip.ns.Set(ident.Name, Of(KindPrimitive, safeInterface(val)))
		return nil

	case *ast.IfStmt:
		cond, err := ip.eval(s.Cond)
		if err != nil {
			return err
		}
		var body []ast.Stmt
		if asBool(cond) {
			body = s.Body.List
		} else if block, ok := s.Else.(*ast.BlockStmt); ok {
			body = block.List
		} else if s.Else != nil {
			return ip.execStmt(s.Else)
		}
		sig, err := ip.run(body)
		if sig != nil {
			return sig
		}
		return err

	case *ast.BlockStmt:
		sig, err := ip.run(s.List)
		if sig != nil {
			return sig
		}
		return err

	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
}

func safeInterface(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

func asBool(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	if v.Kind() == reflect.Bool {
		return v.Bool()
	}
	return !v.IsZero()
}

func (ip *interp) eval(expr ast.Expr) (reflect.Value, error) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return ip.eval(e.X)

	case *ast.BasicLit:
		return evalBasicLit(e)

	case *ast.Ident:
		return ip.evalIdent(e)

	case *ast.SelectorExpr:
		recv, err := ip.eval(e.X)
		if err != nil {
			return reflect.Value{}, err
		}
		return selectField(recv, e.Sel.Name)

	case *ast.CallExpr:
		return ip.evalCall(e)

	case *ast.BinaryExpr:
		return ip.evalBinary(e)

	case *ast.UnaryExpr:
		x, err := ip.eval(e.X)
		if err != nil {
			return reflect.Value{}, err
		}
		return evalUnary(e.Op, x)

	case *ast.IndexExpr:
		recv, err := ip.eval(e.X)
		if err != nil {
			return reflect.Value{}, err
		}
		idx, err := ip.eval(e.Index)
		if err != nil {
			return reflect.Value{}, err
		}
		return evalIndex(recv, idx)

	default:
		return reflect.Value{}, fmt.Errorf("unsupported expression %T", expr)
	}
}

func evalBasicLit(e *ast.BasicLit) (reflect.Value, error) {
	switch e.Kind {
	case token.INT:
		n, err := strconv.ParseInt(e.Value, 0, 64)
		if err != nil {
			u, uerr := strconv.ParseUint(e.Value, 0, 64)
			if uerr != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(u), nil
		}
		return reflect.ValueOf(n), nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(e.Value, 64)
		return reflect.ValueOf(f), err
	case token.STRING:
		s, err := strconv.Unquote(e.Value)
		return reflect.ValueOf(s), err
	case token.CHAR:
		r, _, _, err := strconv.UnquoteChar(e.Value[1:len(e.Value)-1], '\'')
		return reflect.ValueOf(r), err
	default:
		return reflect.Value{}, fmt.Errorf("unsupported literal kind %v", e.Kind)
	}
}

func (ip *interp) evalIdent(e *ast.Ident) (reflect.Value, error) {
	switch e.Name {
	case "true":
		return reflect.ValueOf(true), nil
	case "false":
		return reflect.ValueOf(false), nil
	case "nil":
		return reflect.Value{}, nil
	}
	v, ok := ip.ns.Get(e.Name)
	if !ok {
		return reflect.Value{}, fmt.Errorf("name %q is not defined", e.Name)
	}
	if v.Kind == KindCallable {
		return reflect.Value{}, fmt.Errorf("%q is a function; call it with ()", e.Name)
	}
	return v.Raw, nil
}

func selectField(recv reflect.Value, name string) (reflect.Value, error) {
	if !recv.IsValid() {
		return reflect.Value{}, fmt.Errorf("nil has no field %q", name)
	}
	if f, ok := lookupField(recv, name); ok {
		return f, nil
	}
	// Bridge objects expose Go-idiomatic PascalCase methods (ReadMemory,
	// SelectedThread); scripts address them Python-style (read_memory,
	// selected_thread). Retry once with the field converted to PascalCase
	// before giving up.
	if pascal := snakeToPascal(name); pascal != name {
		if f, ok := lookupField(recv, pascal); ok {
			return f, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("no field or method %q", name)
}

func lookupField(recv reflect.Value, name string) (reflect.Value, bool) {
	v := recv
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Struct {
		if f := v.FieldByName(name); f.IsValid() {
			return f, true
		}
	}
	// Method lookup happens against the original (possibly pointer) receiver.
	if m := recv.MethodByName(name); m.IsValid() {
		return m, true
	}
	return reflect.Value{}, false
}

// snakeToPascal converts "read_memory" to "ReadMemory". Names with no
// underscore are just capitalized ("pc" -> "Pc"; callers that need an
// all-caps acronym preserved should expose an exact-cased Go method too).
func snakeToPascal(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func evalIndex(recv, idx reflect.Value) (reflect.Value, error) {
	if !recv.IsValid() {
		return reflect.Value{}, fmt.Errorf("index into nil value")
	}
	switch recv.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		i := int(idx.Int())
		if i < 0 || i >= recv.Len() {
			return reflect.Value{}, fmt.Errorf("index %d out of range", i)
		}
		return recv.Index(i), nil
	case reflect.Map:
		return recv.MapIndex(idx), nil
	default:
		return reflect.Value{}, fmt.Errorf("cannot index %s", recv.Kind())
	}
}
