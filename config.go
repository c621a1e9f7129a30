package smartcache

import (
	"github.com/hyp3rd/smartcache/internal/constants"
	"github.com/hyp3rd/smartcache/pkg/adapter"
	"github.com/hyp3rd/smartcache/pkg/index"
	"github.com/hyp3rd/smartcache/stats"
)

// Config wraps all the configuration options to set up a `Cache` and its
// storage adapter.
type Config struct {
	// PrimaryKey is the field every document must carry. Defaults to `_id`.
	PrimaryKey string
	// Adapter supplies the four storage operations. Leaving it nil and
	// registering methods individually is equivalent.
	Adapter adapter.Adapter
	// Indexes are the composite index descriptors to register at
	// construction, in order. A primary-key index is always registered
	// first.
	Indexes []index.Descriptor
	// StatsCollector receives operation and index-maintenance counters.
	StatsCollector stats.ICollector
	// ShadowCopies captures a snapshot of every document read or written so
	// a later update can diff its indexed fields. Disabling it makes every
	// update skip index reconciliation.
	ShadowCopies bool
}

// Option is a function type that can be used to configure the `Config` struct.
type Option func(*Config)

// NewConfig returns a new `Config` struct with default values:
//   - `PrimaryKey` set to `_id`
//   - `ShadowCopies` enabled
//   - the default histogram stats collector
//
// Each default can be overridden by passing options.
func NewConfig(options ...Option) *Config {
	config := &Config{
		PrimaryKey:   constants.DefaultPrimaryKey,
		ShadowCopies: true,
	}

	// Apply options
	for _, option := range options {
		option(config)
	}

	return config
}

// WithPrimaryKey is an option that sets the primary key field name.
// Every document entering the cache must carry this field with a string
// value, and every index descriptor must include it.
func WithPrimaryKey(primaryKey string) Option {
	return func(config *Config) {
		if primaryKey != "" {
			config.PrimaryKey = primaryKey
		}
	}
}

// WithAdapter is an option that sets the storage adapter backing the cache.
func WithAdapter(storageAdapter adapter.Adapter) Option {
	return func(config *Config) {
		config.Adapter = storageAdapter
	}
}

// WithIndexes is an option that appends index descriptors to register at
// construction time, before any document enters the cache.
func WithIndexes(descriptors ...index.Descriptor) Option {
	return func(config *Config) {
		config.Indexes = append(config.Indexes, descriptors...)
	}
}

// WithStatsCollector is an option that sets the stats collector.
// The stats collector is used to collect statistics about the cache.
func WithStatsCollector(collector stats.ICollector) Option {
	return func(config *Config) {
		config.StatsCollector = collector
	}
}

// WithShadowCopies toggles snapshot capture on reads and writes. Without
// snapshots an update cannot tell which indexed fields changed and skips
// reconciliation.
func WithShadowCopies(enabled bool) Option {
	return func(config *Config) {
		config.ShadowCopies = enabled
	}
}
