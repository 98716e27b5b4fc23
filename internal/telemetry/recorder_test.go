package telemetry

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/ant4g0nist/morgul/pkg/models"
)

// NewMetrics registers every collector against the default Prometheus
// registry, so — unlike most types in this module — it must be constructed
// at most once per test binary (promauto panics on duplicate registration,
// same constraint the teacher's own metrics_test.go works around). Tests
// share one instance and distinguish their assertions by label value
// instead of by Metrics instance.
var testMetrics = NewMetrics()

func counterValue(t *testing.T, c interface {
	Write(*dto.Metric) error
}) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatal(err)
	}
	if m.Counter != nil {
		return m.Counter.GetValue()
	}
	return 0
}

func TestRecorderCountsLLMRequests(t *testing.T) {
	rec := NewRecorder(testMetrics, "anthropic-test", "claude-sonnet-4-5")
	cb := rec.LLMCallback()

	cb(models.LLMEvent{Method: models.LLMMethodChat})
	cb(models.LLMEvent{Method: models.LLMMethodChat, End: true, Duration: 50 * time.Millisecond, Usage: &models.Usage{InputTokens: 10, OutputTokens: 20}})

	got := counterValue(t, testMetrics.LLMRequestCounter.WithLabelValues("anthropic-test", "claude-sonnet-4-5", "chat", "success"))
	if got != 1 {
		t.Fatalf("got %v requests recorded, want 1", got)
	}
	tokens := counterValue(t, testMetrics.LLMTokensUsed.WithLabelValues("anthropic-test", "claude-sonnet-4-5", "input"))
	if tokens != 10 {
		t.Fatalf("got %v input tokens, want 10", tokens)
	}
}

func TestRecorderCountsLLMErrors(t *testing.T) {
	rec := NewRecorder(testMetrics, "openai-test", "gpt-4o")
	cb := rec.LLMCallback()

	cb(models.LLMEvent{Method: models.LLMMethodChat, End: true, Duration: time.Millisecond, Error: "rate limited"})

	got := counterValue(t, testMetrics.LLMRequestCounter.WithLabelValues("openai-test", "gpt-4o", "chat", "error"))
	if got != 1 {
		t.Fatalf("got %v error requests recorded, want 1", got)
	}
}

func TestRecorderCountsHealOutcomes(t *testing.T) {
	cb := NewRecorder(testMetrics, "heal-test", "n/a").ExecutionCallback()

	cb(models.ExecutionEvent{Type: models.EventHealEnd, Success: true})
	cb(models.ExecutionEvent{Type: models.EventHealEnd, Success: false})

	healed := counterValue(t, testMetrics.HealAttempts.WithLabelValues("healed"))
	exhausted := counterValue(t, testMetrics.HealAttempts.WithLabelValues("exhausted"))
	if healed != 1 || exhausted != 1 {
		t.Fatalf("got healed=%v exhausted=%v, want 1 and 1", healed, exhausted)
	}
}

func TestRecorderCountsCacheHitsByPurpose(t *testing.T) {
	cb := NewRecorder(testMetrics, "cache-test", "n/a").ExecutionCallback()

	cb(models.ExecutionEvent{Type: models.EventCacheHit, Metadata: map[string]any{"purpose": "extract"}})

	got := counterValue(t, testMetrics.CacheHits.WithLabelValues("extract"))
	if got != 1 {
		t.Fatalf("got %v cache hits for purpose extract, want 1", got)
	}
}

func TestNilRecorderCallbacksAreNil(t *testing.T) {
	var rec *Recorder
	if rec.LLMCallback() != nil || rec.ExecutionCallback() != nil {
		t.Fatal("expected nil callbacks from a nil recorder")
	}
}
