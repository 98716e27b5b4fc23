package bridge

import (
	"context"
	"fmt"
)

// ProcessState labels the lifecycle state of a debugged process.
type ProcessState string

const (
	ProcessStateInvalid ProcessState = "invalid"
	ProcessStateRunning ProcessState = "running"
	ProcessStateStopped ProcessState = "stopped"
	ProcessStateExited  ProcessState = "exited"
)

// Process exposes process-level control: threads, memory, and lifecycle.
type Process struct {
	handle  ProcessHandle
	backend Backend
	pid     int

	state          ProcessState
	exitStatus     int
	threads        []*Thread
	selectedThread *Thread
}

// PID returns the process id.
func (p *Process) PID() int { return p.pid }

// State returns the process's current lifecycle state.
func (p *Process) State() ProcessState { return p.state }

// SetState is used by the backend driver to publish state transitions.
func (p *Process) SetState(state ProcessState) { p.state = state }

// ExitStatus returns the exit code once State is ProcessStateExited.
func (p *Process) ExitStatus() int { return p.exitStatus }

// Threads returns the ordered thread list as of the last stop.
func (p *Process) Threads() []*Thread { return p.threads }

// SetThreads is used by the backend driver to publish the current thread list.
func (p *Process) SetThreads(threads []*Thread) { p.threads = threads }

// SelectedThread returns the currently selected thread, or nil if the
// process has no selected thread (e.g. running, or exited).
func (p *Process) SelectedThread() *Thread { return p.selectedThread }

// SelectThread changes the selected thread.
func (p *Process) SelectThread(t *Thread) { p.selectedThread = t }

// Continue resumes execution.
func (p *Process) Continue(ctx context.Context) error {
	return p.call(ctx, "continue")
}

// Stop halts a running process.
func (p *Process) Stop(ctx context.Context) error {
	return p.call(ctx, "stop")
}

// Kill terminates the process.
func (p *Process) Kill(ctx context.Context) error {
	return p.call(ctx, "kill")
}

// Detach detaches the debugger, leaving the process running.
func (p *Process) Detach(ctx context.Context) error {
	return p.call(ctx, "detach")
}

func (p *Process) call(ctx context.Context, op string) error {
	pb, ok := p.backend.(ProcessControlBackend)
	if !ok {
		return fmt.Errorf("backend does not support process control")
	}
	switch op {
	case "continue":
		return pb.Continue(ctx, p.handle)
	case "stop":
		return pb.Stop(ctx, p.handle)
	case "kill":
		return pb.KillProcess(ctx, p.handle)
	case "detach":
		return pb.Detach(ctx, p.handle)
	}
	return fmt.Errorf("unknown process op %q", op)
}

// ProcessControlBackend is the optional Backend capability for process
// lifecycle control and memory I/O.
type ProcessControlBackend interface {
	Continue(ctx context.Context, h ProcessHandle) error
	Stop(ctx context.Context, h ProcessHandle) error
	KillProcess(ctx context.Context, h ProcessHandle) error
	Detach(ctx context.Context, h ProcessHandle) error
	ReadMemory(ctx context.Context, h ProcessHandle, addr uint64, size int) ([]byte, error)
	WriteMemory(ctx context.Context, h ProcessHandle, addr uint64, data []byte) (int, error)
}

// ReadMemory reads size bytes starting at addr from the process's address space.
func (p *Process) ReadMemory(ctx context.Context, addr uint64, size int) ([]byte, error) {
	pb, ok := p.backend.(ProcessControlBackend)
	if !ok {
		return nil, fmt.Errorf("backend does not support memory I/O")
	}
	data, err := pb.ReadMemory(ctx, p.handle, addr, size)
	if err != nil {
		return nil, fmt.Errorf("read memory at 0x%x: %w", addr, err)
	}
	return data, nil
}

// WriteMemory writes data at addr and returns the byte count written.
func (p *Process) WriteMemory(ctx context.Context, addr uint64, data []byte) (int, error) {
	pb, ok := p.backend.(ProcessControlBackend)
	if !ok {
		return 0, fmt.Errorf("backend does not support memory I/O")
	}
	n, err := pb.WriteMemory(ctx, p.handle, addr, data)
	if err != nil {
		return n, fmt.Errorf("write memory at 0x%x: %w", addr, err)
	}
	return n, nil
}
