package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ant4g0nist/morgul/pkg/models"
)

// Instrumented wraps a Provider so every Chat/ChatStructured call emits a
// start event (End false) and an end event (End true, carrying duration,
// usage, and any error) through a single callback.
type Instrumented struct {
	inner Provider
	onLLM models.LLMEventCallback
}

// Instrument wraps p so its calls are reported to onLLM. A nil onLLM makes
// this a no-op passthrough.
func Instrument(p Provider, onLLM models.LLMEventCallback) *Instrumented {
	return &Instrumented{inner: p, onLLM: onLLM}
}

func (i *Instrumented) Name() string         { return i.inner.Name() }
func (i *Instrumented) Models() []ModelInfo  { return i.inner.Models() }
func (i *Instrumented) SupportsTools() bool  { return i.inner.SupportsTools() }

func (i *Instrumented) emit(ev models.LLMEvent) {
	if i.onLLM != nil {
		i.onLLM(ev)
	}
}

func (i *Instrumented) Chat(ctx context.Context, req ChatRequest) (models.ChatResponse, error) {
	i.emit(models.LLMEvent{Method: models.LLMMethodChat})
	start := time.Now()
	resp, err := i.inner.Chat(ctx, req)
	ev := models.LLMEvent{Method: models.LLMMethodChat, End: true, Duration: time.Since(start), Usage: resp.Usage}
	if err != nil {
		ev.Error = err.Error()
	}
	i.emit(ev)
	return resp, err
}

func (i *Instrumented) ChatStructured(ctx context.Context, req ChatRequest, schemaName string, schema json.RawMessage) (json.RawMessage, error) {
	i.emit(models.LLMEvent{Method: models.LLMMethodChatStructured, SchemaName: schemaName})
	start := time.Now()
	result, err := i.inner.ChatStructured(ctx, req, schemaName, schema)
	ev := models.LLMEvent{Method: models.LLMMethodChatStructured, End: true, Duration: time.Since(start), SchemaName: schemaName}
	if err != nil {
		ev.Error = err.Error()
	}
	i.emit(ev)
	return result, err
}
