package bridge

import (
	"context"
	"fmt"

	"github.com/ant4g0nist/morgul/pkg/models"
)

// FakeBackend is an in-memory Backend used by tests and by callers that want
// to exercise morgul's primitives without a live debugger attached. It
// models a single flat byte-addressable memory space and one thread/frame.
//
// A real driver (LLDB via cgo, a ptrace-based driver, a remote gdbserver
// client) is out of scope here; FakeBackend exists only because the rest
// of this module needs *something* satisfying Backend to be testable.
type FakeBackend struct {
	mem      map[uint64]byte
	regions  []models.MemoryRegion
	commands map[string]string
	nextBP   int
}

// NewFakeBackend constructs an empty in-memory backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		mem:      make(map[uint64]byte),
		commands: make(map[string]string),
	}
}

// WriteBytes seeds memory at addr for test setup.
func (f *FakeBackend) WriteBytes(addr uint64, data []byte) {
	for i, b := range data {
		f.mem[addr+uint64(i)] = b
	}
}

// SetRegions sets the memory-region list returned by EnumerateMemoryRegions.
func (f *FakeBackend) SetRegions(regions []models.MemoryRegion) { f.regions = regions }

// SetCommandOutput registers the textual output ExecuteRawCommand returns for a given command.
func (f *FakeBackend) SetCommandOutput(command, output string) { f.commands[command] = output }

func (f *FakeBackend) CreateTarget(ctx context.Context, path string) (TargetHandle, error) {
	return TargetHandle(1), nil
}

func (f *FakeBackend) AttachByPID(ctx context.Context, pid int) (TargetHandle, ProcessHandle, error) {
	return TargetHandle(1), ProcessHandle(1), nil
}

func (f *FakeBackend) AttachByName(ctx context.Context, name string) (TargetHandle, ProcessHandle, error) {
	return TargetHandle(1), ProcessHandle(1), nil
}

func (f *FakeBackend) Launch(ctx context.Context, path string, args, env []string) (TargetHandle, ProcessHandle, error) {
	return TargetHandle(1), ProcessHandle(1), nil
}

func (f *FakeBackend) ExecuteRawCommand(ctx context.Context, command string) (string, error) {
	if out, ok := f.commands[command]; ok {
		return out, nil
	}
	return "", nil
}

func (f *FakeBackend) Destroy() error { return nil }

func (f *FakeBackend) Continue(ctx context.Context, h ProcessHandle) error { return nil }
func (f *FakeBackend) Stop(ctx context.Context, h ProcessHandle) error     { return nil }
func (f *FakeBackend) KillProcess(ctx context.Context, h ProcessHandle) error {
	return nil
}
func (f *FakeBackend) Detach(ctx context.Context, h ProcessHandle) error { return nil }

func (f *FakeBackend) ReadMemory(ctx context.Context, h ProcessHandle, addr uint64, size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative read size")
	}
	out := make([]byte, size)
	for i := 0; i < size; i++ {
		out[i] = f.mem[addr+uint64(i)]
	}
	return out, nil
}

func (f *FakeBackend) WriteMemory(ctx context.Context, h ProcessHandle, addr uint64, data []byte) (int, error) {
	f.WriteBytes(addr, data)
	return len(data), nil
}

func (f *FakeBackend) EnumerateMemoryRegions(ctx context.Context, h ProcessHandle) ([]models.MemoryRegion, error) {
	return f.regions, nil
}

func (f *FakeBackend) Step(ctx context.Context, threadID int, mode StepMode) error { return nil }
func (f *FakeBackend) RunToAddress(ctx context.Context, threadID int, addr uint64) error {
	return nil
}

func (f *FakeBackend) EvaluateExpression(ctx context.Context, frameID int, expr string) (string, error) {
	return "", nil
}

func (f *FakeBackend) Disassemble(ctx context.Context, frameID int, n int) (string, error) {
	return "", nil
}

var (
	_ Backend                = (*FakeBackend)(nil)
	_ ProcessControlBackend  = (*FakeBackend)(nil)
	_ MemoryRegionBackend    = (*FakeBackend)(nil)
	_ ThreadControlBackend   = (*FakeBackend)(nil)
	_ FrameControlBackend    = (*FakeBackend)(nil)
)
