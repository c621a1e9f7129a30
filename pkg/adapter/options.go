package adapter

import (
	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/smartcache/internal/libs/serializer"
)

// AdapterConstrain defines the type constraint for the configurable adapters
// shipped with this package.
type AdapterConstrain interface {
	InMemory | Redis
}

// Option is a function type that can be used to configure an adapter.
type Option[T AdapterConstrain] func(*T)

// ApplyOptions applies the given options to the given adapter.
func ApplyOptions[T AdapterConstrain](adapterInstance *T, options ...Option[T]) {
	for _, option := range options {
		option(adapterInstance)
	}
}

// WithCloneOnRead toggles cloning of documents returned by the in-memory
// adapter. Disabling it hands out the stored map itself; callers then share
// mutable state with the store.
func WithCloneOnRead(clone bool) Option[InMemory] {
	return func(a *InMemory) {
		a.cloneOnRead = clone
	}
}

// WithRedisClient is an option that sets the redis client to use.
func WithRedisClient(client *redis.Client) Option[Redis] {
	return func(a *Redis) {
		a.rdb = client
	}
}

// WithKeyPrefix is an option that sets the namespace prefix for every key the
// Redis adapter writes.
func WithKeyPrefix(prefix string) Option[Redis] {
	return func(a *Redis) {
		a.keyPrefix = prefix
	}
}

// WithSerializer is an option that sets the serializer used to encode
// documents before storing them.
//   - The default serializer is `serializer.MsgpackSerializer`.
//   - The `serializer.DefaultJSONSerializer` stores documents as JSON.
//   - The interface `serializer.ISerializer` can be implemented to use a custom serializer.
func WithSerializer(s serializer.ISerializer) Option[Redis] {
	return func(a *Redis) {
		a.Serializer = s
	}
}
