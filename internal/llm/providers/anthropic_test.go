package providers

import (
	"encoding/json"
	"testing"

	"github.com/ant4g0nist/morgul/pkg/models"
)

func TestNewAnthropicProviderRequiresAPIKey(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Fatal("expected error for empty APIKey")
	}
}

func TestNewAnthropicProviderDefaultsModel(t *testing.T) {
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "sk-test"})
	if err != nil {
		t.Fatal(err)
	}
	if p.defaultModel != "claude-sonnet-4-20250514" {
		t.Fatalf("got default model %q", p.defaultModel)
	}
	if !p.SupportsTools() {
		t.Error("expected SupportsTools to be true")
	}
	if p.Name() != "anthropic" {
		t.Fatalf("got name %q", p.Name())
	}
}

func TestConvertMessagesSkipsSystemAndMapsToolRoles(t *testing.T) {
	msgs := []models.ChatMessage{
		{Role: models.RoleSystem, Content: "be concise"},
		{Role: models.RoleUser, Content: "what's the PC?"},
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{
			{ID: "call_1", Name: "show_pc", Arguments: json.RawMessage(`{}`)},
		}},
		{Role: models.RoleTool, ToolCallID: "call_1", Content: "0x100003f00"},
	}
	out, err := convertMessages(msgs)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("expected system message dropped, got %d messages", len(out))
	}
}

func TestConvertToolsRejectsInvalidSchema(t *testing.T) {
	tools := []models.ToolDefinition{
		{Name: "broken", Description: "d", Schema: json.RawMessage(`not json`)},
	}
	if _, err := convertTools(tools); err == nil {
		t.Fatal("expected error for invalid schema JSON")
	}
}

func TestConvertToolsSetsDescription(t *testing.T) {
	tools := []models.ToolDefinition{
		{Name: "show_pc", Description: "reads the program counter", Schema: json.RawMessage(`{"type":"object"}`)},
	}
	out, err := convertTools(tools)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].OfTool == nil {
		t.Fatalf("expected one tool param, got %+v", out)
	}
}
