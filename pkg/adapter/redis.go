package adapter

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/smartcache/internal/constants"
	"github.com/hyp3rd/smartcache/internal/libs/serializer"
	"github.com/hyp3rd/smartcache/internal/sentinel"
	"github.com/hyp3rd/smartcache/types"
)

// Redis is a storage adapter persisting documents in a Redis server.
// Documents are serialized with the configured serializer and stored under
// `prefix:store:key`.
type Redis struct {
	rdb        *redis.Client          // redis client to interact with the redis server
	keyPrefix  string                 // keyPrefix namespaces every key this adapter writes
	Serializer serializer.ISerializer // Serializer encodes documents before storage
}

// NewRedis creates a new redis adapter with the given options.
func NewRedis(opts ...Option[Redis]) (*Redis, error) {
	adapterInstance := &Redis{}
	// Apply the adapter options
	ApplyOptions(adapterInstance, opts...)

	// Check if the client is nil
	if adapterInstance.rdb == nil {
		return nil, sentinel.ErrNilClient
	}
	// Check if the `keyPrefix` is empty
	if adapterInstance.keyPrefix == "" {
		adapterInstance.keyPrefix = constants.RedisKeyPrefix
	}

	// Check if the serializer is nil
	if adapterInstance.Serializer == nil {
		var err error
		// Default the serializer to `msgpack`
		adapterInstance.Serializer, err = serializer.New("msgpack")
		if err != nil {
			return nil, err
		}
	}

	return adapterInstance, nil
}

// redisKey renders the namespaced key for (store, key).
func (a *Redis) redisKey(store, key string) string {
	return a.keyPrefix + ":" + store + ":" + key
}

// Get retrieves the document under (store, key), or def when absent.
func (a *Redis) Get(ctx context.Context, store, key string, def types.Document) (types.Document, error) {
	data, err := a.rdb.Get(ctx, a.redisKey(store, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return def, nil
		}

		return nil, ewrap.Wrap(err, "redis get")
	}

	var doc types.Document

	err = a.Serializer.Unmarshal(data, &doc)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Set makes the document retrievable under (store, key).
func (a *Redis) Set(ctx context.Context, store, key string, value types.Document) error {
	data, err := a.Serializer.Marshal(value)
	if err != nil {
		return err
	}

	err = a.rdb.Set(ctx, a.redisKey(store, key), data, 0).Err()
	if err != nil {
		return ewrap.Wrap(err, "redis set")
	}

	return nil
}

// Update replaces the document under (store, key). Redis SET is atomic.
func (a *Redis) Update(ctx context.Context, store, key string, value types.Document) error {
	return a.Set(ctx, store, key, value)
}

// Delete removes (store, key).
func (a *Redis) Delete(ctx context.Context, store, key string) error {
	err := a.rdb.Del(ctx, a.redisKey(store, key)).Err()
	if err != nil {
		return ewrap.Wrap(err, "redis del")
	}

	return nil
}
