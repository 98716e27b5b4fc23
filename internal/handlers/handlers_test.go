package handlers

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ant4g0nist/morgul/internal/bridge"
	"github.com/ant4g0nist/morgul/internal/cache"
	"github.com/ant4g0nist/morgul/internal/llm"
	"github.com/ant4g0nist/morgul/internal/translate"
	"github.com/ant4g0nist/morgul/pkg/models"
)

type stubProvider struct {
	toolCalls []models.ToolCall
	content   string
}

func (s *stubProvider) Name() string            { return "stub" }
func (s *stubProvider) Models() []llm.ModelInfo { return nil }
func (s *stubProvider) SupportsTools() bool     { return true }
func (s *stubProvider) Chat(ctx context.Context, req llm.ChatRequest) (models.ChatResponse, error) {
	return models.ChatResponse{Content: s.content, ToolCalls: s.toolCalls}, nil
}
func (s *stubProvider) ChatStructured(ctx context.Context, req llm.ChatRequest, schemaName string, schema json.RawMessage) (json.RawMessage, error) {
	return nil, nil
}

func newTestDebugger(t *testing.T) *bridge.Debugger {
	t.Helper()
	backend := bridge.NewFakeBackend()
	backend.WriteBytes(0x1000, []byte("hello\x00"))
	dbg := bridge.NewDebugger(backend)
	if _, err := dbg.AttachByPID(context.Background(), 42); err != nil {
		t.Fatal(err)
	}
	return dbg
}

func toolCallProvider(name string, args string) *stubProvider {
	return &stubProvider{toolCalls: []models.ToolCall{{Name: name, Arguments: json.RawMessage(args)}}}
}

func TestActHandlerExecutesGeneratedCode(t *testing.T) {
	p := toolCallProvider("extract_act_response", `{"code":"print(1+1)","reasoning":"add"}`)
	tEngine := translate.New(p, nil, nil)
	h := NewActHandler(tEngine, nil, false, 3, nil, nil)

	dbg := newTestDebugger(t)
	result, err := h.Act(context.Background(), "add one and one", dbg)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || strings.TrimSpace(result.Output) != "2" {
		t.Fatalf("got %+v", result)
	}
}

func TestActHandlerNoCodeGenerated(t *testing.T) {
	p := toolCallProvider("extract_act_response", `{"reasoning":"nothing to do"}`)
	tEngine := translate.New(p, nil, nil)
	h := NewActHandler(tEngine, nil, false, 3, nil, nil)

	dbg := newTestDebugger(t)
	result, err := h.Act(context.Background(), "do nothing", dbg)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Fatal("expected failure when no code is generated")
	}
}

func TestActHandlerSelfHealsAfterFailure(t *testing.T) {
	calls := 0
	p := &multiCallProvider{
		responses: []string{
			`{"code":"undefined_name()","reasoning":"first try"}`,
			`{"code":"print(42)","reasoning":"fixed"}`,
		},
		onCall: func() { calls++ },
	}
	tEngine := translate.New(p, nil, nil)
	h := NewActHandler(tEngine, nil, true, 3, nil, nil)

	dbg := newTestDebugger(t)
	result, err := h.Act(context.Background(), "print something", dbg)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || !strings.Contains(result.Message, "healed") {
		t.Fatalf("got %+v", result)
	}
	if calls != 2 {
		t.Fatalf("expected 2 translate calls, got %d", calls)
	}
}

type multiCallProvider struct {
	responses []string
	onCall    func()
	index     int
}

func (m *multiCallProvider) Name() string            { return "stub" }
func (m *multiCallProvider) Models() []llm.ModelInfo { return nil }
func (m *multiCallProvider) SupportsTools() bool     { return true }
func (m *multiCallProvider) Chat(ctx context.Context, req llm.ChatRequest) (models.ChatResponse, error) {
	m.onCall()
	resp := m.responses[m.index]
	if m.index < len(m.responses)-1 {
		m.index++
	}
	return models.ChatResponse{ToolCalls: []models.ToolCall{{Name: "extract_act_response", Arguments: json.RawMessage(resp)}}}, nil
}
func (m *multiCallProvider) ChatStructured(ctx context.Context, req llm.ChatRequest, schemaName string, schema json.RawMessage) (json.RawMessage, error) {
	return nil, nil
}

func TestActHandlerCachesSuccessfulResultViaCoalesce(t *testing.T) {
	calls := 0
	p := &multiCallProvider{
		responses: []string{`{"code":"print(1+1)","reasoning":"add"}`},
		onCall:    func() { calls++ },
	}
	tEngine := translate.New(p, nil, nil)
	c := cache.New(t.TempDir(), nil)
	h := NewActHandler(tEngine, c, false, 3, nil, nil)

	dbg := newTestDebugger(t)
	first, err := h.Act(context.Background(), "add one and one", dbg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.Act(context.Background(), "add one and one", dbg)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 translate call, got %d", calls)
	}
	if !second.Success || second.Output != first.Output {
		t.Fatalf("expected cached result on second call, got %+v", second)
	}
}

func TestActHandlerDoesNotCacheFailedResult(t *testing.T) {
	p := toolCallProvider("extract_act_response", `{"reasoning":"nothing to do"}`)
	tEngine := translate.New(p, nil, nil)
	c := cache.New(t.TempDir(), nil)
	h := NewActHandler(tEngine, c, false, 3, nil, nil)

	dbg := newTestDebugger(t)
	result, err := h.Act(context.Background(), "do nothing", dbg)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Fatal("expected failure when no code is generated")
	}

	contextText, err := h.buildContext(context.Background(), dbg)
	if err != nil {
		t.Fatal(err)
	}
	key := cache.Key("do nothing", contextText, "act")
	var cached models.ActResult
	if c.Get(key, &cached) {
		t.Fatal("expected no-code-generated result not to be cached")
	}
}

func TestObserveHandlerNeverExecutes(t *testing.T) {
	p := toolCallProvider("extract_observe_result", `{"description":"stopped","actions":[{"command":"bt","description":"backtrace"}]}`)
	tEngine := translate.New(p, nil, nil)
	h := NewObserveHandler(tEngine)

	dbg := newTestDebugger(t)
	result, err := h.Observe(context.Background(), dbg, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Description != "stopped" || len(result.Actions) != 1 {
		t.Fatalf("got %+v", result)
	}
}

func TestExtractHandlerReturnsValidatedJSON(t *testing.T) {
	schema := json.RawMessage(`{"type":"object","properties":{"pid":{"type":"integer"}},"required":["pid"]}`)
	p := toolCallProvider("extract_pidinfo", `{"pid":42}`)
	tEngine := translate.New(p, nil, nil)
	h := NewExtractHandler(tEngine)

	dbg := newTestDebugger(t)
	out, err := h.Extract(context.Background(), dbg, "what is the pid?", "pidinfo", schema)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct{ Pid int }
	if err := json.Unmarshal(out, &decoded); err != nil || decoded.Pid != 42 {
		t.Fatalf("got %s", out)
	}
}
