package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// spanScratchKey keys the handler's span in the context scratch storage.
type spanScratchKey struct{}

// TracingHandler records observations as OpenTelemetry spans. Parent
// linkage follows the observation's explicit parent, so span nesting is
// correct even when child observations are started on other goroutines.
type TracingHandler struct {
	tracer trace.Tracer
}

// NewTracingHandler creates a tracing handler using the given tracer.
func NewTracingHandler(tracer trace.Tracer) *TracingHandler {
	return &TracingHandler{tracer: tracer}
}

// OnStart opens a span for the observation, parented under the span of
// the observation's explicit parent when one exists.
func (h *TracingHandler) OnStart(octx ObservationContext) {
	base := octx.Base()

	parentCtx := context.Background()
	if parent := base.Parent(); parent != nil {
		if span := spanFromObservationContext(parent.Context()); span != nil {
			parentCtx = trace.ContextWithSpan(parentCtx, span)
		}
	}

	name := base.ContextualName()
	if name == "" {
		name = base.Name()
	}

	_, span := h.tracer.Start(parentCtx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	base.PutScratch(spanScratchKey{}, span)
}

// OnError records the observation error on the span.
func (h *TracingHandler) OnError(octx ObservationContext) {
	span := spanFromObservationContext(octx)
	if span == nil {
		return
	}
	if err := octx.Base().Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// OnStop copies the final key-values onto the span and ends it.
func (h *TracingHandler) OnStop(octx ObservationContext) {
	span := spanFromObservationContext(octx)
	if span == nil {
		return
	}
	base := octx.Base()
	span.SetName(base.ContextualName())
	for _, kv := range base.KeyValues() {
		span.SetAttributes(attribute.String(kv.Key, kv.Value))
	}
	span.End()
}

// spanFromObservationContext returns the span recorded for the context,
// or nil if the tracing handler never saw it start.
func spanFromObservationContext(octx ObservationContext) trace.Span {
	span, _ := octx.Base().Scratch(spanScratchKey{}).(trace.Span)
	return span
}
