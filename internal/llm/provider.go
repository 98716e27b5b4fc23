// Package llm defines the uniform provider surface every model backend
// (Anthropic, OpenAI, Ollama) implements: a single blocking Chat call plus a
// schema-constrained ChatStructured call, instead of the streaming-channel
// shape a chat UI would want. The act/observe/extract/agent primitives only
// ever need a complete response to act on, never partial tokens.
package llm

import (
	"context"
	"encoding/json"

	"github.com/ant4g0nist/morgul/pkg/models"
)

// ChatRequest is one call to a provider: a system prompt, the running
// message history, and the tools (if any) the model may invoke.
type ChatRequest struct {
	Model     string
	System    string
	Messages  []models.ChatMessage
	Tools     []models.ToolDefinition
	MaxTokens int
}

// Provider is the uniform interface every model backend implements.
type Provider interface {
	// Name identifies the provider for logging and error classification.
	Name() string

	// Models lists the model identifiers this provider can serve.
	Models() []ModelInfo

	// SupportsTools reports whether this provider accepts ChatRequest.Tools.
	SupportsTools() bool

	// Chat sends req and returns the complete response. It never streams:
	// callers get the full message or an error, nothing in between.
	Chat(ctx context.Context, req ChatRequest) (models.ChatResponse, error)

	// ChatStructured is the schema-constrained counterpart of Chat. The
	// providers in internal/llm/providers return an error from it; schema-
	// constrained output is produced by internal/llm/structured on top of Chat.
	ChatStructured(ctx context.Context, req ChatRequest, schemaName string, schema json.RawMessage) (json.RawMessage, error)
}

// ModelInfo describes one model a provider can serve.
type ModelInfo struct {
	ID             string
	Name           string
	ContextWindow  int
	SupportsVision bool
}
