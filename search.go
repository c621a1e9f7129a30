package smartcache

import (
	"context"

	"github.com/hyp3rd/smartcache/internal/sentinel"
	"github.com/hyp3rd/smartcache/pkg/index"
	"github.com/hyp3rd/smartcache/types"
)

// Search finds the documents of a store matching the filter. The filter's
// plain values are exact-match conditions; values of type func(any) bool are
// predicates evaluated on the materialized documents. The registered index
// with the highest key overlap narrows the candidate set, then every
// candidate is fetched through the regular get path and checked against the
// full filter. Results come back ordered by primary key.
//
// A filter whose keys overlap no registered index fails with
// sentinel.ErrIndexNotFound rather than falling back to a full scan; the
// storage adapter is never asked to enumerate keys.
func (c *Cache) Search(ctx context.Context, store string, filter types.Filter) ([]types.Document, error) {
	if len(filter) == 0 {
		return nil, sentinel.ErrParamCannotBeEmpty
	}

	table, err := c.indexes.Select(store, filter)
	if err != nil {
		return nil, err
	}

	pks, err := table.Match(store, filter)
	if err != nil {
		return nil, err
	}

	docs, err := c.materialize(ctx, store, pks, filter)
	if err != nil {
		return nil, err
	}

	c.statsCollector.Incr(statSearch, 1)

	return docs, nil
}

// All returns every document of a store, ordered by primary key, walking the
// always-present primary-key index.
func (c *Cache) All(ctx context.Context, store string) ([]types.Document, error) {
	pks := c.primaryIndex.Lookup(store, nil)

	return c.materialize(ctx, store, pks, nil)
}

// materialize fetches each candidate primary key through the get pipeline and
// keeps the documents matching the filter. Keys the storage no longer holds
// are pruned from every index table on the way; the index is a cache of the
// storage's state and heals lazily.
func (c *Cache) materialize(ctx context.Context, store string, pks []string, filter types.Filter) ([]types.Document, error) {
	docs := make([]types.Document, 0, len(pks))

	for _, pk := range pks {
		doc, err := c.Get(ctx, store, pk, nil)
		if err != nil {
			return nil, err
		}

		if doc == nil {
			c.pruneStale(store, pk)

			continue
		}

		if filter != nil && !doc.Matches(filter) {
			continue
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// pruneStale drops a vanished primary key from every table covering the store.
func (c *Cache) pruneStale(store, pk string) {
	for _, table := range c.indexes.TablesFor(store) {
		table.Remove(store, pk)
	}

	c.dropShadow(store, pk)
	c.statsCollector.Incr(statStalePruned, 1)
}

// Indexes returns the registered tables covering the given store, in
// registration order. Useful for introspection and the management surface.
func (c *Cache) Indexes(store string) []*index.Table {
	return c.indexes.TablesFor(store)
}
