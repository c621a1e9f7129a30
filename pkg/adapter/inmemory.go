package adapter

import (
	"context"

	"github.com/hyp3rd/smartcache/pkg/cache"
	"github.com/hyp3rd/smartcache/types"
)

// storeKeySeparator joins the store name and document key into the map key.
// A NUL byte cannot appear in either part.
const storeKeySeparator = "\x00"

// InMemory is a storage adapter holding documents in a sharded concurrent
// map. Documents are cloned on write and on read, so the store never aliases
// a map the caller may still mutate.
type InMemory struct {
	items       cache.ConcurrentMap
	cloneOnRead bool
}

// NewInMemory creates a new in-memory adapter with the given options.
func NewInMemory(opts ...Option[InMemory]) *InMemory {
	adapterInstance := &InMemory{
		items:       cache.New(),
		cloneOnRead: true,
	}
	// Apply the adapter options
	ApplyOptions(adapterInstance, opts...)

	return adapterInstance
}

// mapKey namespaces the document key by its store.
func mapKey(store, key string) string {
	return store + storeKeySeparator + key
}

// Get retrieves the document under (store, key), or def when absent.
func (a *InMemory) Get(_ context.Context, store, key string, def types.Document) (types.Document, error) {
	doc, ok := a.items.Get(mapKey(store, key))
	if !ok {
		return def, nil
	}

	if a.cloneOnRead {
		return doc.Clone(), nil
	}

	return doc, nil
}

// Set stores a clone of the document under (store, key).
func (a *InMemory) Set(_ context.Context, store, key string, value types.Document) error {
	a.items.Set(mapKey(store, key), value.Clone())

	return nil
}

// Update replaces the document under (store, key). The shard lock makes the
// replacement atomic.
func (a *InMemory) Update(_ context.Context, store, key string, value types.Document) error {
	a.items.Set(mapKey(store, key), value.Clone())

	return nil
}

// Delete removes (store, key). Deleting an absent key is a no-op.
func (a *InMemory) Delete(_ context.Context, store, key string) error {
	a.items.Remove(mapKey(store, key))

	return nil
}

// Count returns the number of documents across all stores.
func (a *InMemory) Count() int {
	return a.items.Count()
}

// Clear removes every document from every store.
func (a *InMemory) Clear() {
	a.items.Clear()
}
