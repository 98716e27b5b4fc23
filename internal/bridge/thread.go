package bridge

import (
	"context"
	"fmt"
)

// StepMode selects the kind of single-step a Thread performs.
type StepMode string

const (
	StepOver        StepMode = "over"
	StepInto        StepMode = "into"
	StepOut         StepMode = "out"
	StepInstruction StepMode = "instruction"
)

// Thread exposes one thread of control within a Process.
type Thread struct {
	ID             int
	Name           string
	StopReason     string
	backend        Backend
	frames         []*Frame
	selectedFrame  *Frame
}

// Frames returns the ordered stack frames as of the last stop.
func (t *Thread) Frames() []*Frame { return t.frames }

// SetFrames is used by the backend driver to publish the current frame list.
func (t *Thread) SetFrames(frames []*Frame) { t.frames = frames }

// SelectedFrame returns the currently selected frame, or nil.
func (t *Thread) SelectedFrame() *Frame { return t.selectedFrame }

// SelectFrame changes the selected frame.
func (t *Thread) SelectFrame(f *Frame) { t.selectedFrame = f }

// Step performs a single-step of the given mode.
func (t *Thread) Step(ctx context.Context, mode StepMode) error {
	tb, ok := t.backend.(ThreadControlBackend)
	if !ok {
		return fmt.Errorf("backend does not support thread control")
	}
	return tb.Step(ctx, t.ID, mode)
}

// RunToAddress resumes execution until addr is reached (or the process stops
// for another reason).
func (t *Thread) RunToAddress(ctx context.Context, addr uint64) error {
	tb, ok := t.backend.(ThreadControlBackend)
	if !ok {
		return fmt.Errorf("backend does not support thread control")
	}
	return tb.RunToAddress(ctx, t.ID, addr)
}

// ThreadControlBackend is the optional Backend capability for single-stepping.
type ThreadControlBackend interface {
	Step(ctx context.Context, threadID int, mode StepMode) error
	RunToAddress(ctx context.Context, threadID int, addr uint64) error
}
