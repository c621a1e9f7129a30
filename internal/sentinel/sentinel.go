// Package sentinel provides standardized error definitions for the smartcache system.
// This package centralizes all error types used across the smartcache components,
// ensuring consistent error handling and messaging throughout the application.
//
// The errors defined here cover various scenarios including:
// - Invalid configuration (missing adapter methods, bad index declarations)
// - Document validation failures (missing or mismatched primary keys)
// - Index maintenance and search failures (missing fields, unique violations, no usable index)
// - Component initialization errors (nil clients, missing serializers)
//
// All errors are created using the ewrap package to provide enhanced error
// wrapping and context capabilities. Hook and adapter errors are never
// wrapped by the core; they propagate to the caller verbatim.
package sentinel

import (
	"github.com/hyp3rd/ewrap"
)

var (
	// ErrMethodNotRegistered is returned when a cache action is invoked before
	// the matching adapter method was registered.
	ErrMethodNotRegistered = ewrap.New("adapter method not registered")

	// ErrMissingPrimaryKey is returned when a document does not carry the
	// primary key field, or carries it with a non-string value.
	ErrMissingPrimaryKey = ewrap.New("missing primary key")

	// ErrPrimaryKeyMismatch is returned when a document's primary key field
	// does not match the key the document is stored under.
	ErrPrimaryKeyMismatch = ewrap.New("primary key mismatch")

	// ErrInvalidIndexKeys is returned when an index descriptor declares an
	// empty, duplicated, or primary-key-less composite key list.
	ErrInvalidIndexKeys = ewrap.New("invalid index keys")

	// ErrDuplicateIndex is returned when an index descriptor with the same
	// name is registered twice.
	ErrDuplicateIndex = ewrap.New("duplicate index")

	// ErrMissingIndexField is returned when a document lacks a field required
	// by a store-bound index descriptor.
	ErrMissingIndexField = ewrap.New("missing index field")

	// ErrIndexNotFound is returned when a search filter overlaps no
	// registered index descriptor. The core never falls back to a full scan.
	ErrIndexNotFound = ewrap.New("no index matches the search filter")

	// ErrUniqueViolation is returned when inserting a document would place a
	// second primary key into a unique index bucket.
	ErrUniqueViolation = ewrap.New("unique index violation")

	// ErrInvalidKey is returned when an invalid key is used to access a document.
	// An invalid key is a key that is either empty or consists only of whitespace characters.
	ErrInvalidKey = ewrap.New("invalid key")

	// ErrNilValue is returned when a nil document is passed to a write operation.
	ErrNilValue = ewrap.New("nil value")

	// ErrNilClient is returned when a nil client is passed to an adapter.
	ErrNilClient = ewrap.New("nil client")

	// ErrInvalidAction is returned when a hook is registered for an unknown
	// action or phase.
	ErrInvalidAction = ewrap.New("invalid action or phase")

	// ErrParamCannotBeEmpty is returned when a parameter cannot be empty.
	ErrParamCannotBeEmpty = ewrap.New("param cannot be empty")

	// ErrSerializerNotFound is returned when a serializer is not found.
	ErrSerializerNotFound = ewrap.New("serializer not found")

	// ErrStatsCollectorNotFound is returned when a stats collector is not found.
	ErrStatsCollectorNotFound = ewrap.New("stats collector not found")

	// ErrInvalidSize is returned when a document size cannot be computed.
	ErrInvalidSize = ewrap.New("invalid size")

	// ErrMgmtHTTPShutdownTimeout is returned when the management HTTP server fails to shutdown before context deadline.
	ErrMgmtHTTPShutdownTimeout = ewrap.New("management http shutdown timeout")
)
