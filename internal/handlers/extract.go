package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ant4g0nist/morgul/internal/bridge"
	"github.com/ant4g0nist/morgul/internal/contextbuilder"
	"github.com/ant4g0nist/morgul/internal/translate"
)

// ExtractHandler pulls structured data out of the current process state by
// sending context + instruction + a JSON Schema to the model and validating
// its response. Like observe, it never executes anything.
type ExtractHandler struct {
	translator *translate.Engine
}

// NewExtractHandler returns a handler backed by translator.
func NewExtractHandler(translator *translate.Engine) *ExtractHandler {
	return &ExtractHandler{translator: translator}
}

// Extract runs instruction against dbg's current state and returns JSON
// conforming to schema.
func (h *ExtractHandler) Extract(ctx context.Context, dbg *bridge.Debugger, instruction, schemaName string, schema json.RawMessage) (json.RawMessage, error) {
	var frame *bridge.Frame
	if dbg.Process() != nil && dbg.Process().SelectedThread() != nil {
		frame = dbg.Process().SelectedThread().SelectedFrame()
	}
	snapshot, err := contextbuilder.Build(ctx, dbg, frame, contextbuilder.BuildOptions{DisassemblyCount: 20})
	if err != nil {
		return nil, fmt.Errorf("extract: building context: %w", err)
	}
	snapshot = contextbuilder.Prune(snapshot, contextbuilder.DefaultTokenBudget)
	contextText := contextbuilder.FormatForPrompt(snapshot)

	return h.translator.TranslateExtract(ctx, instruction, contextText, schemaName, schema)
}
