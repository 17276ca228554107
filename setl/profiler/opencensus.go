// Copyright © 2026 The SetlX authors

package profiler

import (
	"context"
	"errors"

	"go.opencensus.io/trace"

	"github.com/sebschmitt/setlX/setl"
)

var _ setl.Profiler = (*OpenCensusAnnotator)(nil)

// OpenCensusAnnotator is the OpenCensus counterpart to OtelAnnotator,
// reporting the same call-boundary events through go.opencensus.io/trace
// instead. The teacher carries both tracing ecosystems as separate,
// independently selectable profiler implementations behind the same
// call-boundary interface; this mirrors that choice for setl.Profiler.
type OpenCensusAnnotator struct {
	ctx   context.Context
	ctxes []context.Context
	spans []*trace.Span
}

// NewOpenCensusAnnotator returns an annotator that starts spans as children
// of ctx.
func NewOpenCensusAnnotator(ctx context.Context) (*OpenCensusAnnotator, error) {
	if ctx == nil {
		return nil, errors.New("profiler: opencensus annotator requires a non-nil context")
	}
	return &OpenCensusAnnotator{ctx: ctx}, nil
}

// Enter starts a new span named name nested under the currently active one.
func (p *OpenCensusAnnotator) Enter(name string) {
	ctx, span := trace.StartSpan(p.ctx, name)
	p.ctxes = append(p.ctxes, p.ctx)
	p.spans = append(p.spans, span)
	p.ctx = ctx
}

// Exit ends the most recently started span and restores its parent context.
func (p *OpenCensusAnnotator) Exit(name string) {
	n := len(p.spans)
	if n == 0 {
		return
	}
	p.spans[n-1].End()
	p.spans = p.spans[:n-1]
	p.ctx = p.ctxes[n-1]
	p.ctxes = p.ctxes[:n-1]
}
