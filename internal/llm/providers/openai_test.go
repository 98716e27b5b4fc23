package providers

import (
	"encoding/json"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ant4g0nist/morgul/pkg/models"
)

func TestNewOpenAIProviderRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIProvider(""); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestConvertOpenAIMessagesMapsToolRole(t *testing.T) {
	msgs := []models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{
			{ID: "call_1", Name: "show_pc", Arguments: json.RawMessage(`{}`)},
		}},
		{Role: models.RoleTool, ToolCallID: "call_1", Content: "0x1000"},
	}
	out := convertOpenAIMessages(msgs, "be terse")
	if len(out) != 4 {
		t.Fatalf("expected system + 3 messages, got %d", len(out))
	}
	if out[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("expected first message to be system, got %s", out[0].Role)
	}
	if out[3].Role != openai.ChatMessageRoleTool || out[3].ToolCallID != "call_1" {
		t.Fatalf("expected tool message bound to call_1, got %+v", out[3])
	}
}

func TestConvertOpenAIToolsFallsBackOnBadSchema(t *testing.T) {
	tools := []models.ToolDefinition{{Name: "t", Description: "d", Schema: json.RawMessage(`not json`)}}
	out := convertOpenAITools(tools)
	if len(out) != 1 || out[0].Function.Parameters == nil {
		t.Fatalf("expected fallback empty-object schema, got %+v", out)
	}
}

func TestConvertOpenAIResponseExtractsToolCalls(t *testing.T) {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Content: "done",
				ToolCalls: []openai.ToolCall{
					{ID: "c1", Function: openai.FunctionCall{Name: "f", Arguments: `{"a":1}`}},
				},
			},
		}},
		Usage: openai.Usage{PromptTokens: 10, CompletionTokens: 5},
	}
	out := convertOpenAIResponse(resp)
	if out.Content != "done" || len(out.ToolCalls) != 1 || out.Usage.InputTokens != 10 {
		t.Fatalf("unexpected conversion: %+v", out)
	}
}
