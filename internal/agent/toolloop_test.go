package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ant4g0nist/morgul/internal/bridge"
	"github.com/ant4g0nist/morgul/internal/handlers"
	"github.com/ant4g0nist/morgul/internal/llm"
	"github.com/ant4g0nist/morgul/internal/translate"
	"github.com/ant4g0nist/morgul/pkg/models"
)

type scriptedProvider struct {
	responses []models.ChatResponse
	index     int
}

func (p *scriptedProvider) Name() string            { return "scripted" }
func (p *scriptedProvider) Models() []llm.ModelInfo { return nil }
func (p *scriptedProvider) SupportsTools() bool     { return true }
func (p *scriptedProvider) Chat(ctx context.Context, req llm.ChatRequest) (models.ChatResponse, error) {
	resp := p.responses[p.index]
	if p.index < len(p.responses)-1 {
		p.index++
	}
	return resp, nil
}
func (p *scriptedProvider) ChatStructured(ctx context.Context, req llm.ChatRequest, schemaName string, schema json.RawMessage) (json.RawMessage, error) {
	return nil, nil
}

func newTestDebugger(t *testing.T) *bridge.Debugger {
	t.Helper()
	backend := bridge.NewFakeBackend()
	dbg := bridge.NewDebugger(backend)
	if _, err := dbg.AttachByPID(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
	return dbg
}

func TestToolLoopAgentRunsUntilDone(t *testing.T) {
	provider := &scriptedProvider{responses: []models.ChatResponse{
		{ToolCalls: []models.ToolCall{{ID: "1", Name: "continue_execution", Arguments: json.RawMessage(`{}`)}}},
		{ToolCalls: []models.ToolCall{{ID: "2", Name: "done", Arguments: json.RawMessage(`{"result":"all clear"}`)}}},
	}}
	dbg := newTestDebugger(t)
	actHandler := handlers.NewActHandler(translate.New(provider, nil, nil), nil, false, 1, nil, nil)

	a := NewToolLoopAgent(provider, dbg, actHandler, StrategyDepthFirst, 10, 0, nil)
	steps, err := a.Run(context.Background(), "check the process is alive")
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(steps))
	}
	if steps[1].Observation != "all clear" {
		t.Fatalf("got observation %q", steps[1].Observation)
	}
}

func TestToolLoopAgentThinkStepWithNoToolCalls(t *testing.T) {
	provider := &scriptedProvider{responses: []models.ChatResponse{
		{Content: "let me think about this"},
		{ToolCalls: []models.ToolCall{{ID: "1", Name: "done", Arguments: json.RawMessage(`{"result":"done thinking"}`)}}},
	}}
	dbg := newTestDebugger(t)
	actHandler := handlers.NewActHandler(translate.New(provider, nil, nil), nil, false, 1, nil, nil)

	a := NewToolLoopAgent(provider, dbg, actHandler, StrategyBreadthFirst, 10, 0, nil)
	steps, err := a.Run(context.Background(), "investigate")
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 2 || steps[0].Action != "think" {
		t.Fatalf("got steps %+v", steps)
	}
}
