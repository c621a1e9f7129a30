// Package constants defines default configuration values for the smartcache
// system: the default primary key field, composite index encoding markers,
// and adapter identifiers.
package constants

const (
	// DefaultPrimaryKey is the field name every document must carry.
	// It identifies the document inside its store and is the value stored in
	// index buckets.
	DefaultPrimaryKey = "_id"

	// CompositeKeySeparator joins the encoded field values of a composite
	// index key. A non-breaking space never appears in JSON-encoded scalars,
	// which keeps the joined key unambiguous.
	CompositeKeySeparator = " "

	// IndexNamePrefix prefixes derived index names.
	IndexNamePrefix = "index:"

	// InMemoryAdapter is the in-memory adapter identifier.
	InMemoryAdapter = "in-memory"
	// RedisAdapter is the Redis adapter identifier.
	RedisAdapter = "redis"
)
