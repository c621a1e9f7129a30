// Package smartcache is a storage-agnostic caching facade. The caller plugs
// in the four key-value operations (get, set, update, delete); the facade
// wraps every operation in an ordered before/after hook pipeline and
// maintains secondary composite indexes so multi-field exact-match lookups
// never require query support from the storage itself.
//
// The facade guarantees consistency of its own in-process index structures
// relative to the operations it mediates. It does not persist anything, does
// not retry, and does not log; errors from hooks and from the storage
// adapter propagate to the caller verbatim.
package smartcache

import (
	"context"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/smartcache/internal/constants"
	"github.com/hyp3rd/smartcache/internal/sentinel"
	"github.com/hyp3rd/smartcache/pkg/adapter"
	"github.com/hyp3rd/smartcache/pkg/index"
	"github.com/hyp3rd/smartcache/pkg/pipeline"
	"github.com/hyp3rd/smartcache/stats"
	"github.com/hyp3rd/smartcache/types"
)

// Stat names reported to the collector.
const (
	statGetHit           = "smartcache_get_hit"
	statGetMiss          = "smartcache_get_miss"
	statSet              = "smartcache_set"
	statUpdate           = "smartcache_update"
	statDelete           = "smartcache_delete"
	statSearch           = "smartcache_search"
	statIndexInsert      = "smartcache_index_insert"
	statIndexReconcile   = "smartcache_index_reconcile"
	statReconcileSkipped = "smartcache_index_reconcile_skipped"
	statIndexRemove      = "smartcache_index_remove"
	statStalePruned      = "smartcache_index_stale_pruned"
)

// Cache is the facade wrapping the storage adapter with the hook pipeline
// and the index engine. It is safe for concurrent use; index tables carry
// their own locks and the shadow snapshot map carries one here.
type Cache struct {
	primaryKey     string
	funcs          *adapter.Funcs
	pipeline       *pipeline.Pipeline
	indexes        *index.Registry
	primaryIndex   *index.Table
	statsCollector stats.ICollector

	shadowCopies bool
	shadowMu     sync.RWMutex
	shadows      map[string]types.Document
}

// New creates a cache from the given configuration, registers the default
// primary-key index followed by the configured descriptors, and wires the
// built-in shadow-copy and index-maintenance hooks.
func New(config *Config) (*Cache, error) {
	if config == nil {
		config = NewConfig()
	}

	collector := config.StatsCollector
	if collector == nil {
		var err error

		collector, err = stats.NewCollector("default")
		if err != nil {
			return nil, err
		}
	}

	cacheInstance := &Cache{
		primaryKey:     config.PrimaryKey,
		funcs:          &adapter.Funcs{},
		pipeline:       pipeline.New(),
		indexes:        index.NewRegistry(config.PrimaryKey),
		statsCollector: collector,
		shadowCopies:   config.ShadowCopies,
		shadows:        make(map[string]types.Document),
	}

	if config.Adapter != nil {
		cacheInstance.funcs = adapter.FromAdapter(config.Adapter)
	}

	// The primary-key index backs All and is always present, like every
	// document's membership record.
	primaryIndex, err := cacheInstance.indexes.Register(index.Descriptor{
		Name: constants.IndexNamePrefix + "primary",
		Keys: []string{config.PrimaryKey},
	})
	if err != nil {
		return nil, err
	}

	cacheInstance.primaryIndex = primaryIndex

	for _, descriptor := range config.Indexes {
		_, err = cacheInstance.indexes.Register(descriptor)
		if err != nil {
			return nil, err
		}
	}

	// Built-in hooks run ahead of user hooks registered afterwards.
	cacheInstance.pipeline.After(types.ActionGet).Add(cacheInstance.shadowCopyHook)
	cacheInstance.pipeline.After(types.ActionSet).Add(cacheInstance.indexInsertHook)
	cacheInstance.pipeline.After(types.ActionUpdate).Add(cacheInstance.indexReconcileHook)
	cacheInstance.pipeline.After(types.ActionDelete).Add(cacheInstance.indexRemoveHook)

	return cacheInstance, nil
}

// NewInMemoryWithDefaults creates a cache backed by the in-memory adapter
// with default configuration and the given index descriptors.
func NewInMemoryWithDefaults(descriptors ...index.Descriptor) (*Cache, error) {
	return New(NewConfig(
		WithAdapter(adapter.NewInMemory()),
		WithIndexes(descriptors...),
	))
}

// RegisterGetMethod registers the function called on every get.
func (c *Cache) RegisterGetMethod(fn adapter.GetFunc) {
	c.funcs.GetFunc = fn
}

// RegisterSetMethod registers the function called on every set.
func (c *Cache) RegisterSetMethod(fn adapter.SetFunc) {
	c.funcs.SetFunc = fn
}

// RegisterUpdateMethod registers the function called on every update.
func (c *Cache) RegisterUpdateMethod(fn adapter.UpdateFunc) {
	c.funcs.UpdateFunc = fn
}

// RegisterDeleteMethod registers the function called on every delete.
func (c *Cache) RegisterDeleteMethod(fn adapter.DeleteFunc) {
	c.funcs.DeleteFunc = fn
}

// RegisterHook appends a hook to the chain for (action, phase). Hooks run in
// registration order, after the built-in maintenance hooks of the same chain.
func (c *Cache) RegisterHook(action types.Action, phase types.Phase, hook pipeline.Hook) error {
	return c.pipeline.Register(action, phase, hook)
}

// Pipeline exposes the hook pipeline for fluent registration:
// cache.Pipeline().Before(types.ActionSet).Add(hook).
func (c *Cache) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

// RegisterIndex registers an additional index descriptor. Documents already
// stored are not backfilled; reindex them manually if needed.
func (c *Cache) RegisterIndex(descriptor index.Descriptor) error {
	_, err := c.indexes.Register(descriptor)

	return err
}

// IndexStats returns a snapshot of every registered index table.
func (c *Cache) IndexStats() []index.Stats {
	tables := c.indexes.Tables()

	out := make([]index.Stats, 0, len(tables))
	for _, table := range tables {
		out = append(out, table.Snapshot())
	}

	return out
}

// GetStats returns the statistics collected so far.
func (c *Cache) GetStats() stats.Stats {
	return c.statsCollector.GetStats()
}

// StatsCollector returns the collector the cache reports to, so middlewares
// can share it.
func (c *Cache) StatsCollector() stats.ICollector {
	return c.statsCollector
}

// PrimaryKey returns the primary key field name.
func (c *Cache) PrimaryKey() string {
	return c.primaryKey
}

// Get retrieves the document stored under (store, key), falling back to def
// when the key is absent. The before chain may rewrite the key; the after
// chain receives the result and captures the shadow snapshot used by update
// reconciliation.
func (c *Cache) Get(ctx context.Context, store, key string, def types.Document) (types.Document, error) {
	if c.funcs.GetFunc == nil {
		return nil, ewrap.Wrap(sentinel.ErrMethodNotRegistered, types.ActionGet.String())
	}

	pctx := pipeline.NewContext(types.ActionGet, store, key)
	pctx.Default = def
	pctx.Cache = c

	err := c.pipeline.RunBefore(pctx)
	if err != nil {
		return nil, err
	}

	result, err := c.funcs.Get(ctx, pctx.Store, pctx.Key, pctx.Default)
	if err != nil {
		return nil, err
	}

	pctx.Result = result

	err = c.pipeline.RunAfter(pctx)
	if err != nil {
		return nil, err
	}

	if pctx.Result == nil {
		c.statsCollector.Incr(statGetMiss, 1)
	} else {
		c.statsCollector.Incr(statGetHit, 1)
	}

	return pctx.Result, nil
}

// Set stores the document under (store, key). The document must carry the
// primary key field matching the key. Before hooks may inject or transform
// fields; the after chain indexes the final value.
func (c *Cache) Set(ctx context.Context, store, key string, value types.Document) error {
	if c.funcs.SetFunc == nil {
		return ewrap.Wrap(sentinel.ErrMethodNotRegistered, types.ActionSet.String())
	}

	err := value.Validate(c.primaryKey, key)
	if err != nil {
		return err
	}

	pctx := pipeline.NewContext(types.ActionSet, store, key)
	pctx.Value = value
	pctx.Cache = c

	err = c.pipeline.RunBefore(pctx)
	if err != nil {
		return err
	}

	err = c.funcs.Set(ctx, pctx.Store, pctx.Key, pctx.Value)
	if err != nil {
		return err
	}

	c.statsCollector.Incr(statSet, 1)

	return c.pipeline.RunAfter(pctx)
}

// Update replaces the document stored under (store, key). When the document
// carries the primary key field it must match the key. The after chain diffs
// the value against the shadow snapshot and relocates index entries whose
// fields changed; without a snapshot, reconciliation is skipped.
func (c *Cache) Update(ctx context.Context, store, key string, value types.Document) error {
	if c.funcs.UpdateFunc == nil {
		return ewrap.Wrap(sentinel.ErrMethodNotRegistered, types.ActionUpdate.String())
	}

	if value == nil {
		return sentinel.ErrNilValue
	}

	if pk, ok := value.PrimaryKey(c.primaryKey); ok && pk != key {
		return sentinel.ErrPrimaryKeyMismatch
	}

	pctx := pipeline.NewContext(types.ActionUpdate, store, key)
	pctx.Value = value
	pctx.Cache = c

	err := c.pipeline.RunBefore(pctx)
	if err != nil {
		return err
	}

	err = c.funcs.Update(ctx, pctx.Store, pctx.Key, pctx.Value)
	if err != nil {
		return err
	}

	c.statsCollector.Incr(statUpdate, 1)

	return c.pipeline.RunAfter(pctx)
}

// Delete removes the document stored under (store, key) and drops its entry
// from every index table through the after chain.
func (c *Cache) Delete(ctx context.Context, store, key string) error {
	if c.funcs.DeleteFunc == nil {
		return ewrap.Wrap(sentinel.ErrMethodNotRegistered, types.ActionDelete.String())
	}

	pctx := pipeline.NewContext(types.ActionDelete, store, key)
	pctx.Cache = c

	err := c.pipeline.RunBefore(pctx)
	if err != nil {
		return err
	}

	err = c.funcs.Delete(ctx, pctx.Store, pctx.Key)
	if err != nil {
		return err
	}

	c.statsCollector.Incr(statDelete, 1)

	return c.pipeline.RunAfter(pctx)
}

// shadowKey namespaces a snapshot by store and primary key.
func shadowKey(store, pk string) string {
	return store + "\x00" + pk
}

// storeShadow keeps a snapshot of the document's current fields.
func (c *Cache) storeShadow(store, pk string, snapshot types.Document) {
	if !c.shadowCopies {
		return
	}

	c.shadowMu.Lock()
	defer c.shadowMu.Unlock()

	c.shadows[shadowKey(store, pk)] = snapshot
}

// takeShadow returns the snapshot for (store, pk) and discards it.
func (c *Cache) takeShadow(store, pk string) types.Document {
	c.shadowMu.Lock()
	defer c.shadowMu.Unlock()

	key := shadowKey(store, pk)

	snapshot, ok := c.shadows[key]
	if !ok {
		return nil
	}

	delete(c.shadows, key)

	return snapshot
}

// dropShadow discards the snapshot for (store, pk).
func (c *Cache) dropShadow(store, pk string) {
	c.shadowMu.Lock()
	defer c.shadowMu.Unlock()

	delete(c.shadows, shadowKey(store, pk))
}
