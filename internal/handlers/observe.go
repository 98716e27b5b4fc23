package handlers

import (
	"context"
	"fmt"

	"github.com/ant4g0nist/morgul/internal/bridge"
	"github.com/ant4g0nist/morgul/internal/contextbuilder"
	"github.com/ant4g0nist/morgul/internal/translate"
	"github.com/ant4g0nist/morgul/pkg/models"
)

// ObserveHandler surveys the current process state and suggests debugging
// actions. Unlike ActHandler, it never executes anything.
type ObserveHandler struct {
	translator *translate.Engine
}

// NewObserveHandler returns a handler backed by translator.
func NewObserveHandler(translator *translate.Engine) *ObserveHandler {
	return &ObserveHandler{translator: translator}
}

// Observe surveys dbg's current state and returns ranked suggested actions.
// instruction, if non-empty, focuses the suggestions on a particular area.
func (h *ObserveHandler) Observe(ctx context.Context, dbg *bridge.Debugger, instruction string) (models.ObserveResult, error) {
	var frame *bridge.Frame
	if dbg.Process() != nil && dbg.Process().SelectedThread() != nil {
		frame = dbg.Process().SelectedThread().SelectedFrame()
	}
	snapshot, err := contextbuilder.Build(ctx, dbg, frame, contextbuilder.BuildOptions{DisassemblyCount: 20})
	if err != nil {
		return models.ObserveResult{}, fmt.Errorf("observe: building context: %w", err)
	}
	snapshot = contextbuilder.Prune(snapshot, contextbuilder.DefaultTokenBudget)
	contextText := contextbuilder.FormatForPrompt(snapshot)

	return h.translator.TranslateObserve(ctx, contextText, instruction)
}
