package observability

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Span times one operation. Spans nest through the context and are emitted
// as a single structured log attribute once finished.
type Span struct {
	TraceID   string
	SpanID    string
	ParentID  string
	Operation string
	Start     time.Time
	Duration  time.Duration
	Err       error

	tags []slog.Attr
}

type spanKey struct{}

// StartSpan opens a span under the span already carried by ctx, if any.
func StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	span := &Span{
		SpanID:    shortID(),
		Operation: operation,
		Start:     time.Now(),
	}
	if parent := GetSpan(ctx); parent != nil {
		span.TraceID = parent.TraceID
		span.ParentID = parent.SpanID
	} else {
		span.TraceID = shortID()
	}
	return context.WithValue(ctx, spanKey{}, span), span
}

func GetSpan(ctx context.Context) *Span {
	span, _ := ctx.Value(spanKey{}).(*Span)
	return span
}

func (s *Span) Finish() {
	s.Duration = time.Since(s.Start)
}

func (s *Span) SetTag(key, value string) {
	s.tags = append(s.tags, slog.String(key, value))
}

func (s *Span) SetError(err error) {
	s.Err = err
}

func (s *Span) Failed() bool {
	return s.Err != nil
}

func (s *Span) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 6+len(s.tags))
	attrs = append(attrs,
		slog.String("operation", s.Operation),
		slog.String("trace_id", s.TraceID),
		slog.String("span_id", s.SpanID),
		slog.Duration("duration", s.Duration),
	)
	if s.ParentID != "" {
		attrs = append(attrs, slog.String("parent_id", s.ParentID))
	}
	if s.Err != nil {
		attrs = append(attrs, slog.String("error", s.Err.Error()))
	}
	attrs = append(attrs, s.tags...)
	return slog.GroupValue(attrs...)
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
