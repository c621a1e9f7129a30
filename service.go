package smartcache

import (
	"context"

	"github.com/hyp3rd/smartcache/stats"
	"github.com/hyp3rd/smartcache/types"
)

// Service is the service interface for the smartcache facade.
// It enables middleware to be added to the service.
type Service interface {
	crud
	// Search finds documents matching the exact-match filter through the
	// best overlapping index
	Search(ctx context.Context, store string, filter types.Filter) ([]types.Document, error)
	// All returns every document of a store via the primary-key index
	All(ctx context.Context, store string) ([]types.Document, error)
	// GetStats returns the stats of the cache
	GetStats() stats.Stats
}

type crud interface {
	// Get retrieves a document from the store using the key, falling back to def when absent
	Get(ctx context.Context, store, key string, def types.Document) (types.Document, error)
	// Set stores a document under the key
	Set(ctx context.Context, store, key string, value types.Document) error
	// Update replaces the document stored under the key
	Update(ctx context.Context, store, key string, value types.Document) error
	// Delete removes the document stored under the key
	Delete(ctx context.Context, store, key string) error
}

// Middleware describes a service middleware.
type Middleware func(Service) Service

// ApplyMiddleware applies middlewares to a service.
func ApplyMiddleware(svc Service, mw ...Middleware) Service {
	// Apply each middleware in the chain
	for _, m := range mw {
		svc = m(svc)
	}
	// Return the decorated service
	return svc
}
