package structured

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ant4g0nist/morgul/internal/llm"
	"github.com/ant4g0nist/morgul/pkg/models"
)

const personSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer"}
	},
	"required": ["name", "age"]
}`

type stubProvider struct {
	resp        models.ChatResponse
	supportsToo bool
}

func (s *stubProvider) Name() string        { return "stub" }
func (s *stubProvider) Models() []llm.ModelInfo { return nil }
func (s *stubProvider) SupportsTools() bool { return s.supportsToo }
func (s *stubProvider) Chat(ctx context.Context, req llm.ChatRequest) (models.ChatResponse, error) {
	return s.resp, nil
}
func (s *stubProvider) ChatStructured(ctx context.Context, req llm.ChatRequest, schemaName string, schema json.RawMessage) (json.RawMessage, error) {
	return nil, nil
}

func TestExtractViaSyntheticTool(t *testing.T) {
	provider := &stubProvider{
		supportsToo: true,
		resp: models.ChatResponse{
			ToolCalls: []models.ToolCall{
				{Name: "extract_person", Arguments: json.RawMessage(`{"name":"Ada","age":30}`)},
			},
		},
	}
	ex, err := New(provider, "person", json.RawMessage(personSchema))
	if err != nil {
		t.Fatal(err)
	}
	out, err := ex.Extract(context.Background(), llm.ChatRequest{})
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Name string
		Age  int
	}
	if err := json.Unmarshal(out, &decoded); err != nil || decoded.Name != "Ada" {
		t.Fatalf("got %s", out)
	}
}

func TestExtractFallsBackToParsingResponseText(t *testing.T) {
	provider := &stubProvider{
		supportsToo: false,
		resp:        models.ChatResponse{Content: "Here you go:\n```json\n{\"name\":\"Grace\",\"age\":40}\n```"},
	}
	ex, err := New(provider, "person", json.RawMessage(personSchema))
	if err != nil {
		t.Fatal(err)
	}
	out, err := ex.Extract(context.Background(), llm.ChatRequest{})
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct{ Name string }
	json.Unmarshal(out, &decoded)
	if decoded.Name != "Grace" {
		t.Fatalf("got %s", out)
	}
}

func TestExtractRejectsResultFailingValidation(t *testing.T) {
	provider := &stubProvider{
		supportsToo: true,
		resp: models.ChatResponse{
			ToolCalls: []models.ToolCall{
				{Name: "extract_person", Arguments: json.RawMessage(`{"name":"Ada"}`)},
			},
		},
	}
	ex, err := New(provider, "person", json.RawMessage(personSchema))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ex.Extract(context.Background(), llm.ChatRequest{}); err == nil {
		t.Fatal("expected validation error for missing required field 'age'")
	}
}

func TestNewRejectsInvalidSchema(t *testing.T) {
	if _, err := New(&stubProvider{}, "bad", json.RawMessage(`not json`)); err == nil {
		t.Fatal("expected compile error")
	}
}
