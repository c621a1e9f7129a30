// Package cache provides a sharded concurrent map used by the in-memory
// storage adapter. The map is divided into independent shards, each guarded
// by its own read-write mutex, so concurrent stores and loads contend only
// within a shard. Shards are picked by xxhash64 of the key.
//
// Keys are the adapter's namespaced document keys; values are documents.
package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/hyp3rd/smartcache/types"
)

const (
	// ShardCount is the number of shards used by the map.
	ShardCount = 32
	// ShardCount64 is the number of shards pre-casted to uint64 for the mask.
	ShardCount64 uint64 = uint64(ShardCount)
)

// ConcurrentMap is a "thread" safe map of type string:types.Document.
// To avoid lock bottlenecks this map is divided into several (ShardCount) map shards.
type ConcurrentMap struct {
	shards []*ConcurrentMapShard
}

// ConcurrentMapShard is a "thread" safe string to types.Document map shard.
type ConcurrentMapShard struct {
	sync.RWMutex

	items map[string]types.Document
}

// New creates a new concurrent map.
func New() ConcurrentMap {
	return ConcurrentMap{
		shards: create(),
	}
}

// create initializes and returns an array of ConcurrentMapShard pointers.
func create() []*ConcurrentMapShard {
	shards := make([]*ConcurrentMapShard, ShardCount)
	for i := range ShardCount {
		shards[i] = &ConcurrentMapShard{
			items: make(map[string]types.Document),
		}
	}

	return shards
}

// GetShard returns the shard holding the given key.
func (cm *ConcurrentMap) GetShard(key string) *ConcurrentMapShard {
	// ShardCount is a power of two; masking the hash picks the shard.
	shardIndex := xxhash.Sum64String(key) & (ShardCount64 - 1)

	return cm.shards[shardIndex]
}

// Set stores the document under the given key.
func (cm *ConcurrentMap) Set(key string, value types.Document) {
	shard := cm.GetShard(key)
	shard.Lock()
	defer shard.Unlock()

	shard.items[key] = value
}

// Get retrieves the document stored under the given key.
func (cm *ConcurrentMap) Get(key string) (types.Document, bool) {
	shard := cm.GetShard(key)
	shard.RLock()
	defer shard.RUnlock()

	value, ok := shard.items[key]

	return value, ok
}

// Has reports whether the key is present.
func (cm *ConcurrentMap) Has(key string) bool {
	shard := cm.GetShard(key)
	shard.RLock()
	defer shard.RUnlock()

	_, ok := shard.items[key]

	return ok
}

// Remove deletes the key from the map.
func (cm *ConcurrentMap) Remove(key string) {
	shard := cm.GetShard(key)
	shard.Lock()
	defer shard.Unlock()

	delete(shard.items, key)
}

// Pop deletes and returns the document stored under the key.
func (cm *ConcurrentMap) Pop(key string) (types.Document, bool) {
	shard := cm.GetShard(key)
	shard.Lock()
	defer shard.Unlock()

	value, ok := shard.items[key]
	if ok {
		delete(shard.items, key)
	}

	return value, ok
}

// Count returns the number of stored documents.
func (cm *ConcurrentMap) Count() int {
	count := 0

	for _, shard := range cm.shards {
		shard.RLock()
		count += len(shard.items)
		shard.RUnlock()
	}

	return count
}

// Keys returns every key currently in the map.
func (cm *ConcurrentMap) Keys() []string {
	keys := make([]string, 0, cm.Count())

	for _, shard := range cm.shards {
		shard.RLock()

		for key := range shard.items {
			keys = append(keys, key)
		}

		shard.RUnlock()
	}

	return keys
}

// Clear removes every entry from the map.
func (cm *ConcurrentMap) Clear() {
	for _, shard := range cm.shards {
		shard.Lock()
		shard.items = make(map[string]types.Document)
		shard.Unlock()
	}
}
