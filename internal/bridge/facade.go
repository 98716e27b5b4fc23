// Package bridge is the typed façade over the underlying debugger: target,
// process, thread, frame, and breakpoint objects, plus bound memory
// utilities. The debugger's own implementation (symbol resolution,
// breakpoint insertion, memory I/O against a live inferior) is out of
// scope; this package defines the contract the rest of morgul programs
// against and a Backend interface a concrete debugger driver plugs into.
package bridge

import (
	"context"
	"fmt"
)

// Backend is the pluggable contract a concrete debugger driver implements.
// morgul ships no Backend of its own — wiring one (LLDB via cgo, a ptrace
// driver, a remote gdbserver client) is out of scope, mirrored here by
// Backend being an interface with no in-tree concrete implementation
// besides the in-memory reference used by tests.
type Backend interface {
	CreateTarget(ctx context.Context, path string) (TargetHandle, error)
	AttachByPID(ctx context.Context, pid int) (TargetHandle, ProcessHandle, error)
	AttachByName(ctx context.Context, name string) (TargetHandle, ProcessHandle, error)
	Launch(ctx context.Context, path string, args, env []string) (TargetHandle, ProcessHandle, error)
	ExecuteRawCommand(ctx context.Context, command string) (string, error)
	Destroy() error
}

// TargetHandle and ProcessHandle are opaque backend-owned identifiers.
// Keeping them as plain values (rather than pointers into backend memory)
// avoids ownership cycles between process, target, thread, and frame: the
// Debugger façade holds these as weak, short-lived references refreshed
// after every script execution, not owning pointers.
type TargetHandle int
type ProcessHandle int

// Debugger is the top-level façade entry point: one per session.
type Debugger struct {
	backend Backend
	target  *Target
	process *Process
}

// NewDebugger wraps a Backend in the session-facing façade.
func NewDebugger(backend Backend) *Debugger {
	return &Debugger{backend: backend}
}

// CreateTarget loads an executable as a debug target without starting it.
func (d *Debugger) CreateTarget(ctx context.Context, path string) (*Target, error) {
	h, err := d.backend.CreateTarget(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("create target %q: %w", path, err)
	}
	d.target = &Target{handle: h, backend: d.backend, path: path}
	return d.target, nil
}

// AttachByPID attaches to a running process by pid.
func (d *Debugger) AttachByPID(ctx context.Context, pid int) (*Process, error) {
	th, ph, err := d.backend.AttachByPID(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("attach to pid %d: %w", pid, err)
	}
	d.target = &Target{handle: th, backend: d.backend}
	d.process = &Process{handle: ph, backend: d.backend, pid: pid}
	return d.process, nil
}

// AttachByName attaches to a running process by executable name.
func (d *Debugger) AttachByName(ctx context.Context, name string) (*Process, error) {
	th, ph, err := d.backend.AttachByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("attach to %q: %w", name, err)
	}
	d.target = &Target{handle: th, backend: d.backend}
	d.process = &Process{handle: ph, backend: d.backend}
	return d.process, nil
}

// Launch starts path under the debugger with args/env and returns its process.
func (d *Debugger) Launch(ctx context.Context, path string, args, env []string) (*Process, error) {
	th, ph, err := d.backend.Launch(ctx, path, args, env)
	if err != nil {
		return nil, fmt.Errorf("launch %q: %w", path, err)
	}
	d.target = &Target{handle: th, backend: d.backend, path: path}
	d.process = &Process{handle: ph, backend: d.backend}
	return d.process, nil
}

// ExecuteCommand runs a raw debugger command and returns its textual output.
// Used as the legacy-fallback execution path for command-shaped act results.
func (d *Debugger) ExecuteCommand(ctx context.Context, command string) (*CommandResult, error) {
	out, err := d.backend.ExecuteRawCommand(ctx, command)
	if err != nil {
		return &CommandResult{Succeeded: false, Error: err.Error()}, nil
	}
	return &CommandResult{Succeeded: true, Output: out}, nil
}

// CommandResult is the outcome of a raw debugger command.
type CommandResult struct {
	Succeeded bool
	Output    string
	Error     string
}

// Target returns the currently attached target, or nil.
func (d *Debugger) Target() *Target { return d.target }

// Process returns the currently attached process, or nil.
func (d *Debugger) Process() *Process { return d.process }

// End kills the process and destroys the debugger; afterwards Target and
// Process return nil. The Debugger keeps no destroyed state, so later calls
// (including a second End) still go to the backend.
func (d *Debugger) End(ctx context.Context) error {
	if d.process != nil {
		_ = d.process.Kill(ctx)
	}
	err := d.backend.Destroy()
	d.target = nil
	d.process = nil
	return err
}
