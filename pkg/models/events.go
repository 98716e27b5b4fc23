package models

import "time"

// ExecutionEventType discriminates the events emitted by script execution,
// the self-healing act pipeline, and the REPL agent's loop.
type ExecutionEventType string

const (
	EventCodeStart   ExecutionEventType = "code-start"
	EventCodeEnd     ExecutionEventType = "code-end"
	EventHealStart   ExecutionEventType = "heal-start"
	EventHealEnd     ExecutionEventType = "heal-end"
	EventReplStep    ExecutionEventType = "repl-step"
	EventLLMResponse ExecutionEventType = "llm-response"
	EventCacheHit    ExecutionEventType = "cache-hit"
	EventSubQuery    ExecutionEventType = "llm-sub-query"
)

// ExecutionEvent is emitted around script execution and agent iterations.
// Exactly one event type's associated fields are meaningful at a time; the
// rest are left zero.
type ExecutionEvent struct {
	Type     ExecutionEventType `json:"event_type"`
	Code     string             `json:"code,omitempty"`
	Stdout   string             `json:"stdout,omitempty"`
	Stderr   string             `json:"stderr,omitempty"`
	Success  bool               `json:"success,omitempty"`
	Duration time.Duration      `json:"duration,omitempty"`
	Metadata map[string]any     `json:"metadata,omitempty"`
}

// ExecutionEventCallback receives execution events as they occur. A nil
// callback means events are dropped, not buffered.
type ExecutionEventCallback func(ExecutionEvent)

// LLMMethod identifies which provider surface an LLMEvent instruments.
type LLMMethod string

const (
	LLMMethodChat           LLMMethod = "chat"
	LLMMethodChatStructured LLMMethod = "chat-structured"
)

// LLMEvent instruments one call into a model provider: a start event (End
// false) followed by an end event (End true) carrying duration and usage.
type LLMEvent struct {
	Method     LLMMethod     `json:"method"`
	End        bool          `json:"end"`
	Duration   time.Duration `json:"duration,omitempty"`
	Usage      *Usage        `json:"usage,omitempty"`
	SchemaName string        `json:"schema_name,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// LLMEventCallback receives LLM instrumentation events.
type LLMEventCallback func(LLMEvent)
