package bridge

import (
	"context"
	"fmt"

	"github.com/ant4g0nist/morgul/pkg/models"
)

// Frame exposes one stack frame: registers, locals, and expression evaluation.
type Frame struct {
	Index      int
	PC         uint64
	SP         uint64
	FP         uint64
	Function   string
	Module     string
	SourceFile string
	SourceLine int

	backend   Backend
	frameID   int
	registers []models.Register
	arguments []models.Variable
	locals    []models.Variable
}

// Registers returns the flattened register set visible in this frame.
func (f *Frame) Registers() []models.Register { return f.registers }

// SetRegisters is used by the backend driver to publish this frame's registers.
func (f *Frame) SetRegisters(regs []models.Register) { f.registers = regs }

// Arguments returns the function's argument variables.
func (f *Frame) Arguments() []models.Variable { return f.arguments }

// SetArguments is used by the backend driver to publish argument variables.
func (f *Frame) SetArguments(vars []models.Variable) { f.arguments = vars }

// Locals returns the function's local variables.
func (f *Frame) Locals() []models.Variable { return f.locals }

// SetLocals is used by the backend driver to publish local variables.
func (f *Frame) SetLocals(vars []models.Variable) { f.locals = vars }

// EvaluateExpression evaluates expr in this frame's lexical scope. The
// returned text is treated as opaque: its exact shape on stripped binaries
// is debugger-specific.
func (f *Frame) EvaluateExpression(ctx context.Context, expr string) (string, error) {
	fb, ok := f.backend.(FrameControlBackend)
	if !ok {
		return "", fmt.Errorf("backend does not support expression evaluation")
	}
	return fb.EvaluateExpression(ctx, f.frameID, expr)
}

// Disassemble returns up to n instructions of disassembly starting at PC.
func (f *Frame) Disassemble(ctx context.Context, n int) (string, error) {
	fb, ok := f.backend.(FrameControlBackend)
	if !ok {
		return "", fmt.Errorf("backend does not support disassembly")
	}
	return fb.Disassemble(ctx, f.frameID, n)
}

// FrameControlBackend is the optional Backend capability for frame-scoped
// expression evaluation and disassembly.
type FrameControlBackend interface {
	EvaluateExpression(ctx context.Context, frameID int, expr string) (string, error)
	Disassemble(ctx context.Context, frameID int, n int) (string, error)
}
