package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type bpKind int

const (
	bpKindName bpKind = iota
	bpKindAddress
	bpKindRegex
)

type breakpointSpec struct {
	kind bpKind
	name string
	addr uint64
}

// BreakpointCallback is invoked when a breakpoint is hit. The callback
// registry dispatching these is the only process-wide mutable state in the
// façade; entries are removed on delete.
type BreakpointCallback func(bp *Breakpoint)

// Breakpoint is a façade handle over a backend breakpoint.
type Breakpoint struct {
	ID        string
	Enabled   bool
	HitCount  int
	Locations []uint64
	Condition string

	backend  Backend
	callback BreakpointCallback
}

// breakpointRegistry is the process-global, breakpoint-identity-keyed
// dispatch table backends use to invoke callbacks. It is the only global
// mutable state in the façade; every entry is removed when its breakpoint
// is deleted.
var breakpointRegistry = struct {
	mu    sync.Mutex
	byID  map[string]*Breakpoint
}{byID: make(map[string]*Breakpoint)}

func createBreakpoint(ctx context.Context, backend Backend, spec breakpointSpec) (*Breakpoint, error) {
	bb, ok := backend.(BreakpointBackend)
	if !ok {
		return nil, fmt.Errorf("backend does not support breakpoint creation")
	}
	locs, err := bb.CreateBreakpoint(ctx, spec.kind, spec.name, spec.addr)
	if err != nil {
		return nil, err
	}
	bp := &Breakpoint{
		ID:        uuid.NewString(),
		Enabled:   true,
		Locations: locs,
		backend:   backend,
	}
	breakpointRegistry.mu.Lock()
	breakpointRegistry.byID[bp.ID] = bp
	breakpointRegistry.mu.Unlock()
	return bp, nil
}

// BreakpointBackend is the optional Backend capability for breakpoint
// creation, following the same narrow-interface pattern as SymbolBackend.
type BreakpointBackend interface {
	CreateBreakpoint(ctx context.Context, kind bpKind, name string, addr uint64) ([]uint64, error)
	SetBreakpointEnabled(ctx context.Context, id string, enabled bool) error
	DeleteBreakpoint(ctx context.Context, id string) error
}

// SetCondition records a condition expression on the handle. The condition
// is not passed to the backend, and Dispatch does not check it.
func (b *Breakpoint) SetCondition(condition string) { b.Condition = condition }

// SetCallback registers the hit callback, dispatched via the process-wide registry.
func (b *Breakpoint) SetCallback(cb BreakpointCallback) { b.callback = cb }

// Dispatch is called by the backend driver when this breakpoint is hit.
func (b *Breakpoint) Dispatch() {
	b.HitCount++
	if b.callback != nil {
		b.callback(b)
	}
}

// Enable enables the breakpoint.
func (b *Breakpoint) Enable(ctx context.Context) error {
	b.Enabled = true
	return b.setEnabled(ctx, true)
}

// Disable disables the breakpoint without deleting it.
func (b *Breakpoint) Disable(ctx context.Context) error {
	b.Enabled = false
	return b.setEnabled(ctx, false)
}

func (b *Breakpoint) setEnabled(ctx context.Context, enabled bool) error {
	bb, ok := b.backend.(BreakpointBackend)
	if !ok {
		return nil
	}
	return bb.SetBreakpointEnabled(ctx, b.ID, enabled)
}

// Delete removes the breakpoint and its registry entry.
func (b *Breakpoint) Delete(ctx context.Context) error {
	breakpointRegistry.mu.Lock()
	delete(breakpointRegistry.byID, b.ID)
	breakpointRegistry.mu.Unlock()

	bb, ok := b.backend.(BreakpointBackend)
	if !ok {
		return nil
	}
	return bb.DeleteBreakpoint(ctx, b.ID)
}

// dispatchBreakpoint looks up a breakpoint by id and invokes its callback.
// Backend drivers call this from their event loop when a breakpoint fires.
func dispatchBreakpoint(id string) {
	breakpointRegistry.mu.Lock()
	bp := breakpointRegistry.byID[id]
	breakpointRegistry.mu.Unlock()
	if bp != nil {
		bp.Dispatch()
	}
}
