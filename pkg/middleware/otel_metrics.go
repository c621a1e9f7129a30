package middleware

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hyp3rd/smartcache"
	"github.com/hyp3rd/smartcache/internal/telemetry/attrs"
	"github.com/hyp3rd/smartcache/stats"
	"github.com/hyp3rd/smartcache/types"
)

// OTelMetricsMiddleware emits OpenTelemetry metrics for service methods.
type OTelMetricsMiddleware struct {
	next  smartcache.Service
	meter metric.Meter

	// instruments
	calls     metric.Int64Counter
	durations metric.Float64Histogram
}

// NewOTelMetricsMiddleware constructs a metrics middleware using the provided meter.
func NewOTelMetricsMiddleware(next smartcache.Service, meter metric.Meter) (smartcache.Service, error) {
	calls, err := meter.Int64Counter("smartcache.calls")
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}

	durations, err := meter.Float64Histogram("smartcache.duration.ms")
	if err != nil {
		return nil, fmt.Errorf("create histogram: %w", err)
	}

	return &OTelMetricsMiddleware{next: next, meter: meter, calls: calls, durations: durations}, nil
}

// Get implements Service.Get with metrics.
func (mw *OTelMetricsMiddleware) Get(ctx context.Context, store, key string, def types.Document) (types.Document, error) {
	start := time.Now()
	doc, err := mw.next.Get(ctx, store, key, def)
	mw.rec(ctx, "Get", start,
		attribute.String(attrs.AttrStore, store),
		attribute.Int(attrs.AttrKeyLength, len(key)),
		attribute.Bool(attrs.AttrHit, doc != nil))

	return doc, err
}

// Set implements Service.Set with metrics.
func (mw *OTelMetricsMiddleware) Set(ctx context.Context, store, key string, value types.Document) error {
	start := time.Now()
	err := mw.next.Set(ctx, store, key, value)
	mw.rec(ctx, "Set", start,
		attribute.String(attrs.AttrStore, store),
		attribute.Int(attrs.AttrKeyLength, len(key)))

	return err
}

// Update implements Service.Update with metrics.
func (mw *OTelMetricsMiddleware) Update(ctx context.Context, store, key string, value types.Document) error {
	start := time.Now()
	err := mw.next.Update(ctx, store, key, value)
	mw.rec(ctx, "Update", start,
		attribute.String(attrs.AttrStore, store),
		attribute.Int(attrs.AttrKeyLength, len(key)))

	return err
}

// Delete implements Service.Delete with metrics.
func (mw *OTelMetricsMiddleware) Delete(ctx context.Context, store, key string) error {
	start := time.Now()
	err := mw.next.Delete(ctx, store, key)
	mw.rec(ctx, "Delete", start,
		attribute.String(attrs.AttrStore, store),
		attribute.Int(attrs.AttrKeyLength, len(key)))

	return err
}

// Search implements Service.Search with metrics.
func (mw *OTelMetricsMiddleware) Search(ctx context.Context, store string, filter types.Filter) ([]types.Document, error) {
	start := time.Now()
	docs, err := mw.next.Search(ctx, store, filter)
	mw.rec(ctx, "Search", start,
		attribute.String(attrs.AttrStore, store),
		attribute.Int(attrs.AttrFilterSize, len(filter)),
		attribute.Int(attrs.AttrDocsCount, len(docs)))

	return docs, err
}

// All implements Service.All with metrics.
func (mw *OTelMetricsMiddleware) All(ctx context.Context, store string) ([]types.Document, error) {
	start := time.Now()
	docs, err := mw.next.All(ctx, store)
	mw.rec(ctx, "All", start,
		attribute.String(attrs.AttrStore, store),
		attribute.Int(attrs.AttrDocsCount, len(docs)))

	return docs, err
}

// GetStats returns stats.
func (mw *OTelMetricsMiddleware) GetStats() stats.Stats { return mw.next.GetStats() }

// rec records call count and duration with attributes.
func (mw *OTelMetricsMiddleware) rec(ctx context.Context, method string, start time.Time, attributes ...attribute.KeyValue) {
	base := []attribute.KeyValue{attribute.String("method", method)}
	if len(attributes) > 0 {
		base = append(base, attributes...)
	}

	mw.calls.Add(ctx, 1, metric.WithAttributes(base...))
	mw.durations.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(base...))
}
