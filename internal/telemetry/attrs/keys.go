// Package attrs provides reusable OpenTelemetry attribute key constants
// to avoid duplication across middlewares.
package attrs

const (
	// AttrStore is the telemetry attribute key carrying the logical store
	// (namespace) an operation targets.
	AttrStore = "store"
	// AttrKeyLength is the telemetry attribute key for the length of a cache
	// key in bytes. Helps monitor key size distribution.
	AttrKeyLength = "key.len"
	// AttrHit is the telemetry attribute key reporting whether a get found a
	// document.
	AttrHit = "hit"
	// AttrFilterSize is the telemetry attribute key for the number of
	// conditions in a search filter.
	AttrFilterSize = "filter.size"
	// AttrDocsCount is the telemetry attribute key for the number of documents
	// returned by a search or an enumeration.
	AttrDocsCount = "docs.count"
)
