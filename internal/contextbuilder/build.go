// Package contextbuilder captures a bounded snapshot of debugged-process
// state and renders it to the plaintext block the translate engine embeds
// in its prompts. Pruning brings an oversized snapshot within a configured
// token budget by progressively dropping the least essential detail.
package contextbuilder

import (
	"context"
	"fmt"
	"strings"

	"github.com/ant4g0nist/morgul/internal/bridge"
	"github.com/ant4g0nist/morgul/pkg/models"
)

// maxVariableDepth and maxVariableChildren bound recursive variable
// expansion: depth-first to 3 levels, 32 children per node.
const (
	maxVariableDepth    = 3
	maxVariableChildren = 32
)

// BuildOptions configures one snapshot capture.
type BuildOptions struct {
	IncludeMemoryRegions bool
	DisassemblyCount     int
}

// Build reads live debugger state into an immutable ProcessSnapshot. Frame
// defaults to the process's selected thread's selected frame when nil.
func Build(ctx context.Context, dbg *bridge.Debugger, frame *bridge.Frame, opts BuildOptions) (models.ProcessSnapshot, error) {
	if dbg == nil || dbg.Process() == nil {
		return models.ProcessSnapshot{}, fmt.Errorf("contextbuilder: build requires an attached process")
	}
	process := dbg.Process()

	snap := models.ProcessSnapshot{
		ProcessState: string(process.State()),
	}

	thread := process.SelectedThread()
	if thread != nil {
		snap.StopReason = thread.StopReason
		if frame == nil {
			frame = thread.SelectedFrame()
		}
	}

	if frame != nil {
		snap.PC = frame.PC
		snap.StackTrace = buildStackTrace(thread)
		snap.Variables = buildVariables(frame)
		snap.Registers = append([]models.Register(nil), frame.Registers()...)
		if opts.DisassemblyCount > 0 {
			if text, err := frame.Disassemble(ctx, opts.DisassemblyCount); err == nil {
				snap.Disassembly = text
			}
		}
	}

	if target := dbg.Target(); target != nil {
		snap.Modules = target.Modules()
		snap.TargetTriple = target.Triple()
	}

	if opts.IncludeMemoryRegions {
		if regions, err := bridge.EnumerateMemoryRegions(ctx, process); err == nil {
			snap.MemoryRegions = regions
		}
	}

	return snap, nil
}

func buildStackTrace(thread *bridge.Thread) []models.StackFrame {
	if thread == nil {
		return nil
	}
	frames := thread.Frames()
	out := make([]models.StackFrame, 0, len(frames))
	for _, f := range frames {
		out = append(out, models.StackFrame{
			Index:      f.Index,
			Function:   f.Function,
			Module:     f.Module,
			PC:         f.PC,
			SourceFile: f.SourceFile,
			SourceLine: f.SourceLine,
		})
	}
	return out
}

// buildVariables expands frame arguments and locals depth-first. Pointers
// with exactly one synthetic child are dereferenced one level to expose
// pointee fields; a failed dereference simply leaves Children empty rather
// than erroring the whole capture.
func buildVariables(frame *bridge.Frame) []models.Variable {
	vars := make([]models.Variable, 0, len(frame.Arguments())+len(frame.Locals()))
	vars = append(vars, frame.Arguments()...)
	vars = append(vars, frame.Locals()...)
	return expandVariables(vars, maxVariableDepth)
}

func expandVariables(vars []models.Variable, depthRemaining int) []models.Variable {
	if depthRemaining <= 0 {
		return vars
	}
	out := make([]models.Variable, len(vars))
	for i, v := range vars {
		children := v.Children
		// The bridge reports a pointer's single child as the raw pointee
		// wrapper, mirroring the debugger's own "one child = the pointee"
		// convention. Promote that wrapper's own children up one level so
		// the model sees pointee fields (ctx->field) instead of an opaque
		// one-element wrapper; a scalar pointee (no grandchildren) leaves
		// children empty, same as a failed dereference would.
		if isPointerType(v.Type) && len(children) == 1 {
			children = children[0].Children
		}
		if len(children) > maxVariableChildren {
			children = children[:maxVariableChildren]
		}
		v.Children = expandVariables(children, depthRemaining-1)
		out[i] = v
	}
	return out
}

func isPointerType(typeName string) bool {
	return strings.HasPrefix(strings.TrimSpace(typeName), "*")
}
