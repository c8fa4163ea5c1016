package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Span marks a named unit of work inside a request trace. End emits a single
// completion record carrying the span's duration.
type Span struct {
	logger  *slog.Logger
	started time.Time
}

// StartSpan opens a span under the context's trace, minting a trace ID when
// the context has none. The returned context carries a logger enriched with
// the span metadata.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := FromContext(ctx)

	if trace := TraceIDFromContext(ctx); trace == "" {
		trace = uuid.NewString()
		ctx = WithTraceID(ctx, trace)
		logger = logger.With(slog.String("trace_id", trace))
	}

	id := uuid.NewString()
	logger = logger.With(slog.String("span_id", id), slog.String("span_name", name))
	if parent := SpanIDFromContext(ctx); parent != "" {
		logger = logger.With(slog.String("parent_span_id", parent))
	}

	ctx = WithLogger(WithSpanID(ctx, id), logger)
	return ctx, &Span{logger: logger, started: time.Now()}
}

// End closes the span. Safe to call on a nil receiver.
func (s *Span) End() {
	if s == nil {
		return
	}
	s.logger.Info("span completed", slog.Duration("duration", time.Since(s.started)))
}
