package handlers

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"

	"github.com/ant4g0nist/morgul/internal/script"
)

// SeedStdlibUtilities registers the selected standard-library scaffold
// helpers: struct pack/unpack, binary-to-hex, JSON, regex, collections, and
// math, each as a flat free function in the same style as the memory
// utilities in executor.go. Bound unconditionally (no process/debugger
// dependency) since they operate on plain values, not live process memory.
func SeedStdlibUtilities(ns *script.Namespace) {
	ns.Seed("struct_pack_uint16", script.OfCallable(packUint(2)))
	ns.Seed("struct_pack_uint32", script.OfCallable(packUint(4)))
	ns.Seed("struct_pack_uint64", script.OfCallable(packUint(8)))
	ns.Seed("struct_unpack_uint16", script.OfCallable(unpackUint(2)))
	ns.Seed("struct_unpack_uint32", script.OfCallable(unpackUint(4)))
	ns.Seed("struct_unpack_uint64", script.OfCallable(unpackUint(8)))

	ns.Seed("to_hex", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		b, err := argBytes(args, "to_hex(bytes)")
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(hex.EncodeToString(b)), nil
	}))
	ns.Seed("from_hex", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 || args[0].Kind() != reflect.String {
			return reflect.Value{}, fmt.Errorf("from_hex(s) takes one string argument")
		}
		b, err := hex.DecodeString(args[0].String())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("from_hex: %w", err)
		}
		return reflect.ValueOf(b), nil
	}))

	ns.Seed("json_parse", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 || args[0].Kind() != reflect.String {
			return reflect.Value{}, fmt.Errorf("json_parse(s) takes one string argument")
		}
		var v any
		if err := json.Unmarshal([]byte(args[0].String()), &v); err != nil {
			return reflect.Value{}, fmt.Errorf("json_parse: %w", err)
		}
		return reflect.ValueOf(v), nil
	}))
	ns.Seed("json_stringify", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 {
			return reflect.Value{}, fmt.Errorf("json_stringify(v) takes one argument")
		}
		b, err := json.Marshal(args[0].Interface())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("json_stringify: %w", err)
		}
		return reflect.ValueOf(string(b)), nil
	}))

	ns.Seed("regex_match", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		pattern, s, err := twoStringArgs(args, "regex_match(pattern, s)")
		if err != nil {
			return reflect.Value{}, err
		}
		ok, err := regexp.MatchString(pattern, s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("regex_match: %w", err)
		}
		return reflect.ValueOf(ok), nil
	}))
	ns.Seed("regex_find_all", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		pattern, s, err := twoStringArgs(args, "regex_find_all(pattern, s)")
		if err != nil {
			return reflect.Value{}, err
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("regex_find_all: %w", err)
		}
		matches := re.FindAllString(s, -1)
		if matches == nil {
			matches = []string{}
		}
		return reflect.ValueOf(matches), nil
	}))

	ns.Seed("sorted", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 || args[0].Kind() != reflect.Slice {
			return reflect.Value{}, fmt.Errorf("sorted(list) takes one list argument")
		}
		return sortedSlice(args[0]), nil
	}))
	ns.Seed("unique", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 || args[0].Kind() != reflect.Slice {
			return reflect.Value{}, fmt.Errorf("unique(list) takes one list argument")
		}
		return uniqueSlice(args[0]), nil
	}))

	ns.Seed("abs", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 {
			return reflect.Value{}, fmt.Errorf("abs(x) takes one argument")
		}
		return reflect.ValueOf(math.Abs(toFloat64(args[0]))), nil
	}))
	ns.Seed("min", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 2 {
			return reflect.Value{}, fmt.Errorf("min(a, b) takes two arguments")
		}
		return reflect.ValueOf(math.Min(toFloat64(args[0]), toFloat64(args[1]))), nil
	}))
	ns.Seed("max", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 2 {
			return reflect.Value{}, fmt.Errorf("max(a, b) takes two arguments")
		}
		return reflect.ValueOf(math.Max(toFloat64(args[0]), toFloat64(args[1]))), nil
	}))
}

func packUint(width int) script.Callable {
	return func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 1 {
			return reflect.Value{}, fmt.Errorf("struct_pack_uint%d(v) takes one argument", width*8)
		}
		b := make([]byte, width)
		v := toUint64(args[0])
		switch width {
		case 2:
			binary.LittleEndian.PutUint16(b, uint16(v))
		case 4:
			binary.LittleEndian.PutUint32(b, uint32(v))
		case 8:
			binary.LittleEndian.PutUint64(b, v)
		}
		return reflect.ValueOf(b), nil
	}
}

func unpackUint(width int) script.Callable {
	return func(args []reflect.Value) (reflect.Value, error) {
		b, err := argBytes(args, fmt.Sprintf("struct_unpack_uint%d(bytes)", width*8))
		if err != nil {
			return reflect.Value{}, err
		}
		if len(b) < width {
			return reflect.Value{}, fmt.Errorf("struct_unpack_uint%d: need %d bytes, got %d", width*8, width, len(b))
		}
		switch width {
		case 2:
			return reflect.ValueOf(uint64(binary.LittleEndian.Uint16(b))), nil
		case 4:
			return reflect.ValueOf(uint64(binary.LittleEndian.Uint32(b))), nil
		default:
			return reflect.ValueOf(binary.LittleEndian.Uint64(b)), nil
		}
	}
}

// argBytes accepts either a []byte or a string argument, matching how
// memory-read results and string literals both flow through the namespace.
func argBytes(args []reflect.Value, usage string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s takes one argument", usage)
	}
	v := args[0]
	switch {
	case v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8:
		return v.Bytes(), nil
	case v.Kind() == reflect.String:
		return []byte(v.String()), nil
	default:
		return nil, fmt.Errorf("%s: expected bytes or string", usage)
	}
}

func twoStringArgs(args []reflect.Value, usage string) (string, string, error) {
	if len(args) != 2 || args[0].Kind() != reflect.String || args[1].Kind() != reflect.String {
		return "", "", fmt.Errorf("%s takes two string arguments", usage)
	}
	return args[0].String(), args[1].String(), nil
}

func toFloat64(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return 0
	}
}

func sortedSlice(v reflect.Value) reflect.Value {
	out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(out, v)
	sort.Slice(out.Interface(), func(i, j int) bool {
		return lessValue(out.Index(i), out.Index(j))
	})
	return out
}

func uniqueSlice(v reflect.Value) reflect.Value {
	out := reflect.MakeSlice(v.Type(), 0, v.Len())
	seen := make(map[string]bool, v.Len())
	for i := 0; i < v.Len(); i++ {
		el := v.Index(i)
		key := fmt.Sprint(el.Interface())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = reflect.Append(out, el)
	}
	return out
}

func lessValue(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.String:
		return a.String() < b.String()
	case reflect.Float32, reflect.Float64:
		return a.Float() < b.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() < b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return a.Uint() < b.Uint()
	default:
		return fmt.Sprint(a.Interface()) < fmt.Sprint(b.Interface())
	}
}
