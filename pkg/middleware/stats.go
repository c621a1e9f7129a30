package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/smartcache"
	"github.com/hyp3rd/smartcache/stats"
	"github.com/hyp3rd/smartcache/types"
)

// StatsCollectorMiddleware is a middleware that collects per-method timings
// and call counts. It can and should re-use the same stats collector as the
// cache it wraps.
// Must implement the smartcache.Service interface.
type StatsCollectorMiddleware struct {
	next           smartcache.Service
	statsCollector stats.ICollector
}

// NewStatsCollectorMiddleware returns a new StatsCollectorMiddleware.
func NewStatsCollectorMiddleware(next smartcache.Service, statsCollector stats.ICollector) smartcache.Service {
	return &StatsCollectorMiddleware{next: next, statsCollector: statsCollector}
}

// Get records timing and count around the next service's Get.
func (mw StatsCollectorMiddleware) Get(ctx context.Context, store, key string, def types.Document) (types.Document, error) {
	start := time.Now()
	defer func() {
		mw.statsCollector.Timing("smartcache_get_duration", time.Since(start).Nanoseconds())
		mw.statsCollector.Incr("smartcache_get_count", 1)
	}()

	return mw.next.Get(ctx, store, key, def)
}

// Set records timing and count around the next service's Set.
func (mw StatsCollectorMiddleware) Set(ctx context.Context, store, key string, value types.Document) error {
	start := time.Now()
	defer func() {
		mw.statsCollector.Timing("smartcache_set_duration", time.Since(start).Nanoseconds())
		mw.statsCollector.Incr("smartcache_set_count", 1)
	}()

	return mw.next.Set(ctx, store, key, value)
}

// Update records timing and count around the next service's Update.
func (mw StatsCollectorMiddleware) Update(ctx context.Context, store, key string, value types.Document) error {
	start := time.Now()
	defer func() {
		mw.statsCollector.Timing("smartcache_update_duration", time.Since(start).Nanoseconds())
		mw.statsCollector.Incr("smartcache_update_count", 1)
	}()

	return mw.next.Update(ctx, store, key, value)
}

// Delete records timing and count around the next service's Delete.
func (mw StatsCollectorMiddleware) Delete(ctx context.Context, store, key string) error {
	start := time.Now()
	defer func() {
		mw.statsCollector.Timing("smartcache_delete_duration", time.Since(start).Nanoseconds())
		mw.statsCollector.Incr("smartcache_delete_count", 1)
	}()

	return mw.next.Delete(ctx, store, key)
}

// Search records timing and count around the next service's Search.
func (mw StatsCollectorMiddleware) Search(ctx context.Context, store string, filter types.Filter) ([]types.Document, error) {
	start := time.Now()
	defer func() {
		mw.statsCollector.Timing("smartcache_search_duration", time.Since(start).Nanoseconds())
		mw.statsCollector.Incr("smartcache_search_count", 1)
	}()

	return mw.next.Search(ctx, store, filter)
}

// All records timing and count around the next service's All.
func (mw StatsCollectorMiddleware) All(ctx context.Context, store string) ([]types.Document, error) {
	start := time.Now()
	defer func() {
		mw.statsCollector.Timing("smartcache_all_duration", time.Since(start).Nanoseconds())
		mw.statsCollector.Incr("smartcache_all_count", 1)
	}()

	return mw.next.All(ctx, store)
}

// GetStats returns the stats of the next service.
func (mw StatsCollectorMiddleware) GetStats() stats.Stats {
	return mw.next.GetStats()
}
