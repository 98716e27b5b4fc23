// Package handlers implements the three primitives built on top of
// translate and script: ActHandler (translate + execute, with self-heal on
// failure), ObserveHandler, and ExtractHandler. Neither observe nor extract
// executes anything — only act does.
package handlers

import (
	"context"
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/ant4g0nist/morgul/internal/bridge"
	"github.com/ant4g0nist/morgul/internal/script"
)

// SeedEngine (re-)seeds e's scaffold with the bridge handles and
// memory-utility helpers available to act() code. Called before every
// act() execution so process/thread/frame reflect current debugger state;
// e itself is long-lived across calls so user-defined variables persist.
func SeedEngine(e *script.Engine, dbg *bridge.Debugger) {
	ns := e.Namespace()
	ns.Seed("debugger", script.Of(script.KindDebuggerHandle, dbg))
	ns.Seed("target", script.Of(script.KindDebuggerHandle, dbg.Target()))
	ns.Seed("process", script.Of(script.KindDebuggerHandle, dbg.Process()))

	var thread *bridge.Thread
	var frame *bridge.Frame
	if dbg.Process() != nil {
		thread = dbg.Process().SelectedThread()
	}
	if thread != nil {
		frame = thread.SelectedFrame()
	}
	ns.Seed("thread", script.Of(script.KindDebuggerHandle, thread))
	ns.Seed("frame", script.Of(script.KindDebuggerHandle, frame))

	SeedMemoryUtilities(ns, dbg)
	SeedStdlibUtilities(ns)
}

// SeedMemoryUtilities registers the read_string/read_pointer/read_uintN/
// search_memory free functions documented in the bridge API reference,
// each taking the process handle explicitly the way the prompt describes.
func SeedMemoryUtilities(ns *script.Namespace, dbg *bridge.Debugger) {
	ns.Seed("read_string", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		proc, addr, err := processAndAddr(args)
		if err != nil {
			return reflect.Value{}, err
		}
		data, err := proc.ReadMemory(context.Background(), addr, 256)
		if err != nil {
			return reflect.Value{}, err
		}
		for i, b := range data {
			if b == 0 {
				return reflect.ValueOf(string(data[:i])), nil
			}
		}
		return reflect.ValueOf(string(data)), nil
	}))

	ns.Seed("read_pointer", script.OfCallable(readIntFunc(dbg, 8, func(b []byte) uint64 { return binary.LittleEndian.Uint64(b) })))
	ns.Seed("read_uint8", script.OfCallable(readIntFunc(dbg, 1, func(b []byte) uint64 { return uint64(b[0]) })))
	ns.Seed("read_uint16", script.OfCallable(readIntFunc(dbg, 2, func(b []byte) uint64 { return uint64(binary.LittleEndian.Uint16(b)) })))
	ns.Seed("read_uint32", script.OfCallable(readIntFunc(dbg, 4, func(b []byte) uint64 { return uint64(binary.LittleEndian.Uint32(b)) })))
	ns.Seed("read_uint64", script.OfCallable(readIntFunc(dbg, 8, func(b []byte) uint64 { return binary.LittleEndian.Uint64(b) })))

	ns.Seed("search_memory", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		if len(args) != 4 {
			return reflect.Value{}, fmt.Errorf("search_memory(process, start, size, pattern) takes 4 arguments")
		}
		proc, ok := args[0].Interface().(*bridge.Process)
		if !ok {
			return reflect.Value{}, fmt.Errorf("search_memory: first argument must be process")
		}
		start := toUint64(args[1])
		size := int(toUint64(args[2]))
		pattern := []byte(fmt.Sprint(args[3].Interface()))

		data, err := proc.ReadMemory(context.Background(), start, size)
		if err != nil {
			return reflect.Value{}, err
		}
		var hits []uint64
		for i := 0; i+len(pattern) <= len(data); i++ {
			if string(data[i:i+len(pattern)]) == string(pattern) {
				hits = append(hits, start+uint64(i))
			}
		}
		return reflect.ValueOf(hits), nil
	}))
}

func readIntFunc(_ *bridge.Debugger, width int, decode func([]byte) uint64) script.Callable {
	return func(args []reflect.Value) (reflect.Value, error) {
		proc, addr, err := processAndAddr(args)
		if err != nil {
			return reflect.Value{}, err
		}
		data, err := proc.ReadMemory(context.Background(), addr, width)
		if err != nil {
			return reflect.Value{}, err
		}
		if len(data) < width {
			return reflect.Value{}, fmt.Errorf("short read: wanted %d bytes, got %d", width, len(data))
		}
		return reflect.ValueOf(decode(data)), nil
	}
}

func processAndAddr(args []reflect.Value) (*bridge.Process, uint64, error) {
	if len(args) != 2 {
		return nil, 0, fmt.Errorf("expected (process, addr) arguments")
	}
	proc, ok := args[0].Interface().(*bridge.Process)
	if !ok {
		return nil, 0, fmt.Errorf("first argument must be process")
	}
	return proc, toUint64(args[1]), nil
}

func toUint64(v reflect.Value) uint64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	default:
		return 0
	}
}
