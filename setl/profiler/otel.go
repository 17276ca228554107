// Copyright © 2026 The SetlX authors

// Package profiler provides setl.Profiler implementations that report a
// procedure call's enter/exit boundary as a tracing span, grounded on the
// two annotators the teacher repository carries side by side for its own
// equivalent call-boundary hook.
package profiler

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sebschmitt/setlX/setl"
)

// ContextTracerKey looks up an overriding tracer name from a context value,
// falling back to defaultTracerName when absent.
const ContextTracerKey = "setlxOtelTracer"

const defaultTracerName = "setlx"

var _ setl.Profiler = (*OtelAnnotator)(nil)

// OtelAnnotator reports every procedure call as an OpenTelemetry span
// nested under whatever span is active in its context at the time Enter is
// called. Spans are pushed/popped on a stack rather than tracked as a
// single "current" field, since calls nest (a call's body can itself call
// another procedure before the outer one exits).
type OtelAnnotator struct {
	ctx    context.Context
	spans  []trace.Span
	ctxes  []context.Context
	tracer trace.Tracer
}

// NewOtelAnnotator returns an annotator that starts spans against ctx. The
// tracer is taken from otel's global tracer provider at construction time,
// named by ctx's ContextTracerKey value or defaultTracerName; when no
// provider has been configured, otel's no-op provider makes every span a
// no-op.
func NewOtelAnnotator(ctx context.Context) (*OtelAnnotator, error) {
	if ctx == nil {
		return nil, errors.New("profiler: otel annotator requires a non-nil context")
	}
	name := defaultTracerName
	if v, ok := ctx.Value(ContextTracerKey).(string); ok && v != "" {
		name = v
	}
	return &OtelAnnotator{ctx: ctx, tracer: otel.GetTracerProvider().Tracer(name)}, nil
}

// Enter starts a new span named name as a child of whatever span is
// currently active.
func (p *OtelAnnotator) Enter(name string) {
	ctx, span := p.tracer.Start(p.ctx, name)
	span.SetAttributes(attribute.String("setlx.procedure", name))
	p.ctxes = append(p.ctxes, p.ctx)
	p.spans = append(p.spans, span)
	p.ctx = ctx
}

// Exit ends the most recently started span and restores its parent context.
// It tolerates an Exit with no matching Enter (e.g. a profiler attached
// mid-call) by doing nothing.
func (p *OtelAnnotator) Exit(name string) {
	n := len(p.spans)
	if n == 0 {
		return
	}
	p.spans[n-1].End()
	p.spans = p.spans[:n-1]
	p.ctx = p.ctxes[n-1]
	p.ctxes = p.ctxes[:n-1]
}
