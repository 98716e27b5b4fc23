package bridge

import (
	"context"
	"fmt"

	"github.com/ant4g0nist/morgul/pkg/models"
)

// Target exposes static information about the debuggee's image: its path,
// architecture triple, loaded modules, and symbol/breakpoint creation.
type Target struct {
	handle  TargetHandle
	backend Backend
	path    string
	triple  string
	modules []models.Module
}

// Path returns the on-disk path of the target executable.
func (t *Target) Path() string { return t.path }

// Triple returns the target's architecture/OS/ABI triple, e.g. "arm64-apple-macosx".
func (t *Target) Triple() string { return t.triple }

// Modules returns the currently loaded module list.
func (t *Target) Modules() []models.Module { return t.modules }

// SetModules is used by the backend driver to publish the current module list.
func (t *Target) SetModules(modules []models.Module) { t.modules = modules }

// SetTriple is used by the backend driver to publish the architecture triple.
func (t *Target) SetTriple(triple string) { t.triple = triple }

// FindFunctions resolves function symbols by exact name or substring.
func (t *Target) FindFunctions(ctx context.Context, name string, exact bool) ([]Symbol, error) {
	return findSymbols(ctx, t.backend, name, exact, symbolKindFunction)
}

// FindSymbols resolves any symbol by exact name or substring.
func (t *Target) FindSymbols(ctx context.Context, name string, exact bool) ([]Symbol, error) {
	return findSymbols(ctx, t.backend, name, exact, symbolKindAny)
}

// ResolveAddress maps an address to the nearest symbol and module offset.
func (t *Target) ResolveAddress(ctx context.Context, addr uint64) (Symbol, error) {
	sym, err := resolveAddress(ctx, t.backend, addr)
	if err != nil {
		return Symbol{}, fmt.Errorf("resolve address 0x%x: %w", addr, err)
	}
	return sym, nil
}

// BreakpointByName creates a breakpoint at every matching function symbol.
func (t *Target) BreakpointByName(ctx context.Context, name string) (*Breakpoint, error) {
	return createBreakpoint(ctx, t.backend, breakpointSpec{kind: bpKindName, name: name})
}

// BreakpointByAddress creates a breakpoint at a fixed address.
func (t *Target) BreakpointByAddress(ctx context.Context, addr uint64) (*Breakpoint, error) {
	return createBreakpoint(ctx, t.backend, breakpointSpec{kind: bpKindAddress, addr: addr})
}

// BreakpointByRegex creates a breakpoint at every function symbol matching pattern.
func (t *Target) BreakpointByRegex(ctx context.Context, pattern string) (*Breakpoint, error) {
	return createBreakpoint(ctx, t.backend, breakpointSpec{kind: bpKindRegex, name: pattern})
}

// Symbol is a resolved symbol: name, address, and owning module.
type Symbol struct {
	Name    string
	Address uint64
	Module  string
}

type symbolKind int

const (
	symbolKindAny symbolKind = iota
	symbolKindFunction
)

// findSymbols and resolveAddress are implemented against Backend through a
// narrower optional interface (SymbolBackend) so a minimal Backend doesn't
// have to implement symbol resolution to satisfy the façade's compile-time
// contract; drivers that support it implement SymbolBackend as well.
type SymbolBackend interface {
	FindSymbols(ctx context.Context, name string, exact bool, functionsOnly bool) ([]Symbol, error)
	ResolveAddress(ctx context.Context, addr uint64) (Symbol, error)
}

func findSymbols(ctx context.Context, backend Backend, name string, exact bool, kind symbolKind) ([]Symbol, error) {
	sb, ok := backend.(SymbolBackend)
	if !ok {
		return nil, fmt.Errorf("backend does not support symbol resolution")
	}
	return sb.FindSymbols(ctx, name, exact, kind == symbolKindFunction)
}

func resolveAddress(ctx context.Context, backend Backend, addr uint64) (Symbol, error) {
	sb, ok := backend.(SymbolBackend)
	if !ok {
		return Symbol{}, fmt.Errorf("backend does not support symbol resolution")
	}
	return sb.ResolveAddress(ctx, addr)
}
