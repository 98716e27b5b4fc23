package script

import (
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
)

func (ip *interp) evalBinary(e *ast.BinaryExpr) (reflect.Value, error) {
	// Short-circuit boolean operators evaluate the right side lazily.
	if e.Op == token.LAND || e.Op == token.LOR {
		x, err := ip.eval(e.X)
		if err != nil {
			return reflect.Value{}, err
		}
		if e.Op == token.LAND && !asBool(x) {
			return reflect.ValueOf(false), nil
		}
		if e.Op == token.LOR && asBool(x) {
			return reflect.ValueOf(true), nil
		}
		y, err := ip.eval(e.Y)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(asBool(y)), nil
	}

	x, err := ip.eval(e.X)
	if err != nil {
		return reflect.Value{}, err
	}
	y, err := ip.eval(e.Y)
	if err != nil {
		return reflect.Value{}, err
	}
	return applyBinary(e.Op, x, y)
}

func applyBinary(op token.Token, x, y reflect.Value) (reflect.Value, error) {
	switch op {
	case token.EQL:
		return reflect.ValueOf(valuesEqual(x, y)), nil
	case token.NEQ:
		return reflect.ValueOf(!valuesEqual(x, y)), nil
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		return compareOrdered(op, x, y)
	case token.ADD:
		if x.IsValid() && x.Kind() == reflect.String {
			return reflect.ValueOf(asString(x) + asString(y)), nil
		}
		return numericBinary(op, x, y)
	case token.SUB, token.MUL, token.QUO, token.REM:
		return numericBinary(op, x, y)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported binary operator %s", op)
	}
}

func valuesEqual(x, y reflect.Value) bool {
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid()
	}
	if isInt(x) || isFloat(x) {
		return asFloat(x) == asFloat(y)
	}
	if x.Kind() == reflect.String {
		return asString(x) == asString(y)
	}
	if x.Kind() == reflect.Bool {
		return asBool(x) == asBool(y)
	}
	return reflect.DeepEqual(safeInterface(x), safeInterface(y))
}

func compareOrdered(op token.Token, x, y reflect.Value) (reflect.Value, error) {
	var less, equal bool
	if x.Kind() == reflect.String {
		a, b := asString(x), asString(y)
		less, equal = a < b, a == b
	} else {
		a, b := asFloat(x), asFloat(y)
		less, equal = a < b, a == b
	}
	switch op {
	case token.LSS:
		return reflect.ValueOf(less), nil
	case token.LEQ:
		return reflect.ValueOf(less || equal), nil
	case token.GTR:
		return reflect.ValueOf(!less && !equal), nil
	case token.GEQ:
		return reflect.ValueOf(!less), nil
	}
	return reflect.Value{}, fmt.Errorf("unreachable comparison operator %s", op)
}

func numericBinary(op token.Token, x, y reflect.Value) (reflect.Value, error) {
	if isFloat(x) || isFloat(y) {
		a, b := asFloat(x), asFloat(y)
		switch op {
		case token.ADD:
			return reflect.ValueOf(a + b), nil
		case token.SUB:
			return reflect.ValueOf(a - b), nil
		case token.MUL:
			return reflect.ValueOf(a * b), nil
		case token.QUO:
			return reflect.ValueOf(a / b), nil
		}
	}
	a, b := asInt(x), asInt(y)
	switch op {
	case token.ADD:
		return reflect.ValueOf(a + b), nil
	case token.SUB:
		return reflect.ValueOf(a - b), nil
	case token.MUL:
		return reflect.ValueOf(a * b), nil
	case token.QUO:
		if b == 0 {
			return reflect.Value{}, fmt.Errorf("division by zero")
		}
		return reflect.ValueOf(a / b), nil
	case token.REM:
		if b == 0 {
			return reflect.Value{}, fmt.Errorf("division by zero")
		}
		return reflect.ValueOf(a % b), nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported numeric operator %s", op)
}

func evalUnary(op token.Token, x reflect.Value) (reflect.Value, error) {
	switch op {
	case token.SUB:
		if isFloat(x) {
			return reflect.ValueOf(-asFloat(x)), nil
		}
		if isInt(x) {
			return reflect.ValueOf(-asInt(x)), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot negate %s", x.Kind())
	case token.NOT:
		return reflect.ValueOf(!asBool(x)), nil
	default:
		return reflect.Value{}, fmt.Errorf("unsupported unary operator %s", op)
	}
}

func isInt(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(v reflect.Value) bool {
	return v.IsValid() && (v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64)
}

func asInt(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	default:
		return v.Int()
	}
}

func asFloat(v reflect.Value) float64 {
	if isFloat(v) {
		return v.Float()
	}
	return float64(asInt(v))
}

func asString(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}
