package telemetry

import (
	"github.com/ant4g0nist/morgul/pkg/models"
)

// Recorder adapts the execution/LLM event callbacks onto Metrics. One
// Recorder is bound to a single provider+model pair, mirroring how a
// session owns exactly one provider for its lifetime.
type Recorder struct {
	metrics  *Metrics
	provider string
	model    string
}

// NewRecorder returns a Recorder labeling every LLM metric with provider
// and model.
func NewRecorder(metrics *Metrics, provider, model string) *Recorder {
	return &Recorder{metrics: metrics, provider: provider, model: model}
}

// LLMCallback returns an models.LLMEventCallback wired to this recorder,
// suitable for llm.Instrument.
func (r *Recorder) LLMCallback() models.LLMEventCallback {
	if r == nil || r.metrics == nil {
		return nil
	}
	return r.onLLMEvent
}

func (r *Recorder) onLLMEvent(ev models.LLMEvent) {
	if !ev.End {
		return
	}
	status := "success"
	if ev.Error != "" {
		status = "error"
	}
	method := string(ev.Method)
	r.metrics.LLMRequestCounter.WithLabelValues(r.provider, r.model, method, status).Inc()
	r.metrics.LLMRequestDuration.WithLabelValues(r.provider, r.model, method).Observe(ev.Duration.Seconds())
	if ev.Usage != nil {
		if ev.Usage.InputTokens > 0 {
			r.metrics.LLMTokensUsed.WithLabelValues(r.provider, r.model, "input").Add(float64(ev.Usage.InputTokens))
		}
		if ev.Usage.OutputTokens > 0 {
			r.metrics.LLMTokensUsed.WithLabelValues(r.provider, r.model, "output").Add(float64(ev.Usage.OutputTokens))
		}
	}
}

// ExecutionCallback returns an models.ExecutionEventCallback wired to this
// recorder, suitable for script.Engine.OnExecutionEvent or any handler's
// onExec parameter.
func (r *Recorder) ExecutionCallback() models.ExecutionEventCallback {
	if r == nil || r.metrics == nil {
		return nil
	}
	return r.onExecutionEvent
}

func (r *Recorder) onExecutionEvent(ev models.ExecutionEvent) {
	switch ev.Type {
	case models.EventCodeEnd:
		status := "success"
		if !ev.Success {
			status = "error"
		}
		r.metrics.CodeExecutionCounter.WithLabelValues(status).Inc()
		r.metrics.CodeExecutionDuration.Observe(ev.Duration.Seconds())

	case models.EventHealEnd:
		status := "exhausted"
		if ev.Success {
			status = "healed"
		}
		r.metrics.HealAttempts.WithLabelValues(status).Inc()

	case models.EventCacheHit:
		purpose := "unknown"
		if ev.Metadata != nil {
			if p, ok := ev.Metadata["purpose"].(string); ok && p != "" {
				purpose = p
			}
		}
		r.metrics.CacheHits.WithLabelValues(purpose).Inc()

	case models.EventSubQuery:
		r.metrics.SubQueries.Inc()

	case models.EventReplStep:
		r.metrics.ReplSteps.Inc()
	}
}
