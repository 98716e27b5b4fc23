package script

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// builtinWriter receives text written by print(); Execute rebinds it to the
// per-call stdout buffer before running a fragment.
var builtinWriter = struct {
	w *strings.Builder
}{}

func setBuiltinWriter(w *strings.Builder) { builtinWriter.w = w }

// builtins are the allow-listed Python-flavored free functions kept for
// source familiarity: numeric/string constructors and container helpers.
// These are available unconditionally — unlike scaffold entries they are
// not namespace values and cannot be shadowed by assignment, since the
// interpreter checks the namespace first for bare calls and only falls
// back to builtins when no namespace entry exists.
var builtins = map[string]func(args []reflect.Value) (reflect.Value, error){
	"print": func(args []reflect.Value) (reflect.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = asString(a)
		}
		line := strings.Join(parts, " ")
		if builtinWriter.w != nil {
			builtinWriter.w.WriteString(line)
			builtinWriter.w.WriteByte('\n')
		}
		return reflect.Value{}, nil
	},
	"len": func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 {
			return reflect.Value{}, fmt.Errorf("len() takes exactly one argument")
		}
		v := args[0]
		switch v.Kind() {
		case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
			return reflect.ValueOf(v.Len()), nil
		default:
			return reflect.Value{}, fmt.Errorf("object of type %s has no len()", v.Kind())
		}
	},
	"hex": func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 {
			return reflect.Value{}, fmt.Errorf("hex() takes exactly one argument")
		}
		n := asInt(args[0])
		if n < 0 {
			return reflect.ValueOf("-0x" + strconv.FormatInt(-n, 16)), nil
		}
		return reflect.ValueOf("0x" + strconv.FormatInt(n, 16)), nil
	},
	"int": func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 {
			return reflect.Value{}, fmt.Errorf("int() takes exactly one argument")
		}
		v := args[0]
		if v.Kind() == reflect.String {
			s := strings.TrimSpace(v.String())
			n, err := strconv.ParseInt(s, 0, 64)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("invalid literal for int(): %q", s)
			}
			return reflect.ValueOf(n), nil
		}
		return reflect.ValueOf(asInt(v)), nil
	},
	"str": func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 {
			return reflect.Value{}, fmt.Errorf("str() takes exactly one argument")
		}
		return reflect.ValueOf(asString(args[0])), nil
	},
	"float": func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 {
			return reflect.Value{}, fmt.Errorf("float() takes exactly one argument")
		}
		return reflect.ValueOf(asFloat(args[0])), nil
	},
	"bool": func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 {
			return reflect.Value{}, fmt.Errorf("bool() takes exactly one argument")
		}
		return reflect.ValueOf(asBool(args[0])), nil
	},
}
