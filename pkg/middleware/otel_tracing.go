package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyp3rd/smartcache"
	"github.com/hyp3rd/smartcache/internal/telemetry/attrs"
	"github.com/hyp3rd/smartcache/stats"
	"github.com/hyp3rd/smartcache/types"
)

// OTelTracingMiddleware wraps smartcache.Service methods with OpenTelemetry spans.
type OTelTracingMiddleware struct {
	next   smartcache.Service
	tracer trace.Tracer
	// static attributes applied to all spans
	commonAttrs []attribute.KeyValue
}

// OTelTracingOption allows configuring the tracing middleware.
type OTelTracingOption func(*OTelTracingMiddleware)

// WithCommonAttributes sets attributes applied to all spans.
func WithCommonAttributes(attributes ...attribute.KeyValue) OTelTracingOption {
	return func(m *OTelTracingMiddleware) { m.commonAttrs = append(m.commonAttrs, attributes...) }
}

// NewOTelTracingMiddleware creates a tracing middleware.
func NewOTelTracingMiddleware(next smartcache.Service, tracer trace.Tracer, opts ...OTelTracingOption) smartcache.Service {
	mw := &OTelTracingMiddleware{next: next, tracer: tracer}
	for _, o := range opts {
		o(mw)
	}

	return mw
}

// Get implements Service.Get with tracing.
func (mw OTelTracingMiddleware) Get(ctx context.Context, store, key string, def types.Document) (types.Document, error) {
	ctx, span := mw.startSpan(ctx, "smartcache.Get",
		attribute.String(attrs.AttrStore, store),
		attribute.Int(attrs.AttrKeyLength, len(key)))
	defer span.End()

	doc, err := mw.next.Get(ctx, store, key, def)
	if err != nil {
		span.RecordError(err)
	}

	span.SetAttributes(attribute.Bool(attrs.AttrHit, doc != nil))

	return doc, err
}

// Set implements Service.Set with tracing.
func (mw OTelTracingMiddleware) Set(ctx context.Context, store, key string, value types.Document) error {
	ctx, span := mw.startSpan(ctx, "smartcache.Set",
		attribute.String(attrs.AttrStore, store),
		attribute.Int(attrs.AttrKeyLength, len(key)))
	defer span.End()

	err := mw.next.Set(ctx, store, key, value)
	if err != nil {
		span.RecordError(err)
	}

	return err
}

// Update implements Service.Update with tracing.
func (mw OTelTracingMiddleware) Update(ctx context.Context, store, key string, value types.Document) error {
	ctx, span := mw.startSpan(ctx, "smartcache.Update",
		attribute.String(attrs.AttrStore, store),
		attribute.Int(attrs.AttrKeyLength, len(key)))
	defer span.End()

	err := mw.next.Update(ctx, store, key, value)
	if err != nil {
		span.RecordError(err)
	}

	return err
}

// Delete implements Service.Delete with tracing.
func (mw OTelTracingMiddleware) Delete(ctx context.Context, store, key string) error {
	ctx, span := mw.startSpan(ctx, "smartcache.Delete",
		attribute.String(attrs.AttrStore, store),
		attribute.Int(attrs.AttrKeyLength, len(key)))
	defer span.End()

	err := mw.next.Delete(ctx, store, key)
	if err != nil {
		span.RecordError(err)
	}

	return err
}

// Search implements Service.Search with tracing.
func (mw OTelTracingMiddleware) Search(ctx context.Context, store string, filter types.Filter) ([]types.Document, error) {
	ctx, span := mw.startSpan(ctx, "smartcache.Search",
		attribute.String(attrs.AttrStore, store),
		attribute.Int(attrs.AttrFilterSize, len(filter)))
	defer span.End()

	docs, err := mw.next.Search(ctx, store, filter)
	if err != nil {
		span.RecordError(err)
	}

	span.SetAttributes(attribute.Int(attrs.AttrDocsCount, len(docs)))

	return docs, err
}

// All implements Service.All with tracing.
func (mw OTelTracingMiddleware) All(ctx context.Context, store string) ([]types.Document, error) {
	ctx, span := mw.startSpan(ctx, "smartcache.All", attribute.String(attrs.AttrStore, store))
	defer span.End()

	docs, err := mw.next.All(ctx, store)
	if err != nil {
		span.RecordError(err)
	}

	span.SetAttributes(attribute.Int(attrs.AttrDocsCount, len(docs)))

	return docs, err
}

// GetStats returns stats.
func (mw OTelTracingMiddleware) GetStats() stats.Stats { return mw.next.GetStats() }

// startSpan starts a span with common and provided attributes.
func (mw OTelTracingMiddleware) startSpan(ctx context.Context, name string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := mw.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	if len(mw.commonAttrs) > 0 {
		span.SetAttributes(mw.commonAttrs...)
	}

	if len(attributes) > 0 {
		span.SetAttributes(attributes...)
	}

	return ctx, span
}
