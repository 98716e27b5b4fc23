// Package telemetry turns the execution/LLM event stream into Prometheus
// metrics and bare OpenTelemetry trace spans, grounded on the teacher's
// observability.Metrics and agent.EventEmitter.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every counter/histogram/gauge this module exports. All are
// registered against the default Prometheus registry at construction, the
// same promauto convenience the teacher's observability.NewMetrics uses.
type Metrics struct {
	// LLMRequestDuration measures provider chat/chat-structured latency.
	// Labels: provider, model, method
	LLMRequestDuration *prometheus.HistogramVec

	// LLMRequestCounter counts provider calls by outcome.
	// Labels: provider, model, method, status (success|error)
	LLMRequestCounter *prometheus.CounterVec

	// LLMTokensUsed tracks token consumption.
	// Labels: provider, model, type (input|output)
	LLMTokensUsed *prometheus.CounterVec

	// CodeExecutionCounter counts script executions by outcome.
	// Labels: status (success|error)
	CodeExecutionCounter *prometheus.CounterVec

	// CodeExecutionDuration measures script execution latency in seconds.
	CodeExecutionDuration prometheus.Histogram

	// HealAttempts counts self-heal retry attempts by outcome.
	// Labels: status (healed|exhausted)
	HealAttempts *prometheus.CounterVec

	// CacheHits counts content-cache hits by purpose. The act handler reports
	// its hits with purpose "act"; observe and extract cache hits in the
	// translate engine emit no event and are not counted.
	CacheHits *prometheus.CounterVec

	// SubQueries counts llm_query/llm_query_batched calls issued from
	// inside REPL script execution.
	SubQueries prometheus.Counter

	// ReplSteps counts REPL agent loop iterations.
	ReplSteps prometheus.Counter
}

// NewMetrics creates and registers every metric. Call once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		LLMRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "morgul_llm_request_duration_seconds",
				Help:    "Duration of model provider requests in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider", "model", "method"},
		),
		LLMRequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morgul_llm_requests_total",
				Help: "Total model provider requests by provider, model, method, and status",
			},
			[]string{"provider", "model", "method", "status"},
		),
		LLMTokensUsed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morgul_llm_tokens_total",
				Help: "Total tokens used by provider, model, and type",
			},
			[]string{"provider", "model", "type"},
		),
		CodeExecutionCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morgul_code_executions_total",
				Help: "Total script-engine executions by outcome",
			},
			[]string{"status"},
		),
		CodeExecutionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "morgul_code_execution_duration_seconds",
				Help:    "Duration of script-engine executions in seconds",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
		),
		HealAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morgul_heal_attempts_total",
				Help: "Total self-heal retry attempts by outcome",
			},
			[]string{"status"},
		),
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morgul_cache_hits_total",
				Help: "Total content-cache hits by purpose",
			},
			[]string{"purpose"},
		),
		SubQueries: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "morgul_repl_sub_queries_total",
				Help: "Total llm_query/llm_query_batched calls issued from REPL script execution",
			},
		),
		ReplSteps: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "morgul_repl_steps_total",
				Help: "Total REPL agent loop iterations",
			},
		),
	}
}
