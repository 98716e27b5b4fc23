package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ant4g0nist/morgul/pkg/models"
)

type fakeProvider struct {
	resp    models.ChatResponse
	err     error
	structd json.RawMessage
}

func (f *fakeProvider) Name() string            { return "fake" }
func (f *fakeProvider) Models() []ModelInfo      { return nil }
func (f *fakeProvider) SupportsTools() bool      { return true }

func (f *fakeProvider) Chat(ctx context.Context, req ChatRequest) (models.ChatResponse, error) {
	return f.resp, f.err
}

func (f *fakeProvider) ChatStructured(ctx context.Context, req ChatRequest, schemaName string, schema json.RawMessage) (json.RawMessage, error) {
	return f.structd, f.err
}

func TestInstrumentedChatEmitsStartAndEnd(t *testing.T) {
	fp := &fakeProvider{resp: models.ChatResponse{Content: "hi", Usage: &models.Usage{InputTokens: 3}}}
	var events []models.LLMEvent
	p := Instrument(fp, func(ev models.LLMEvent) { events = append(events, ev) })

	resp, err := p.Chat(context.Background(), ChatRequest{Model: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "hi" {
		t.Fatalf("got %q", resp.Content)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].End {
		t.Fatal("first event should not be End")
	}
	if !events[1].End || events[1].Usage.InputTokens != 3 {
		t.Fatalf("unexpected end event: %+v", events[1])
	}
}

func TestInstrumentedChatRecordsError(t *testing.T) {
	fp := &fakeProvider{err: errors.New("boom")}
	var events []models.LLMEvent
	p := Instrument(fp, func(ev models.LLMEvent) { events = append(events, ev) })

	_, err := p.Chat(context.Background(), ChatRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if events[1].Error != "boom" {
		t.Fatalf("expected error recorded on end event, got %+v", events[1])
	}
}

func TestInstrumentNilCallbackIsNoop(t *testing.T) {
	fp := &fakeProvider{resp: models.ChatResponse{Content: "ok"}}
	p := Instrument(fp, nil)
	resp, err := p.Chat(context.Background(), ChatRequest{})
	if err != nil || resp.Content != "ok" {
		t.Fatalf("unexpected result: %+v, %v", resp, err)
	}
}
