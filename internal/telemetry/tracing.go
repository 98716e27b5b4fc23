package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracer is process-global, the same "one named tracer per instrumented
// package" convention otel itself recommends; no exporter is configured
// here; a host process wires one (or none) via the global TracerProvider.
var tracer = otel.Tracer("github.com/ant4g0nist/morgul")

// StartProviderSpan opens a span around one model provider call.
func StartProviderSpan(ctx context.Context, provider, model, method string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "llm."+method,
		trace.WithAttributes(
			attribute.String("llm.provider", provider),
			attribute.String("llm.model", model),
		),
	)
}

// StartScriptSpan opens a span around one script-engine execution.
func StartScriptSpan(ctx context.Context) (context.Context, trace.Span) {
	return tracer.Start(ctx, "script.execute")
}

// StartReplIterationSpan opens a span around one REPL agent loop iteration.
func StartReplIterationSpan(ctx context.Context, step int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "agent.repl_step",
		trace.WithAttributes(attribute.Int("agent.step", step)),
	)
}

// EndSpan records err (if any) onto span and ends it. A small shared
// helper so every call site follows the same record-then-end shape.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
