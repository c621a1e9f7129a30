// Package adapter defines the storage contract the cache facade mediates:
// four caller-supplied operations (get, set, update, delete) with fixed
// signatures. The facade never performs storage I/O itself; it wraps these
// operations in its hook pipeline and maintains its indexes around them.
//
// Two reference adapters ship with the package: an in-memory adapter backed
// by a sharded concurrent map, and a Redis adapter that serializes documents
// through the configured serializer. Adapter implementations must be safe
// for concurrent invocation; the facade adds no serialization around them.
package adapter

import (
	"context"

	"github.com/hyp3rd/smartcache/types"
)

// GetFunc returns the document stored under (store, key), or def when the
// key is absent. Absence is not an error.
type GetFunc func(ctx context.Context, store, key string, def types.Document) (types.Document, error)

// SetFunc makes value retrievable under (store, key).
type SetFunc func(ctx context.Context, store, key string, value types.Document) error

// UpdateFunc atomically replaces the value stored under (store, key).
type UpdateFunc func(ctx context.Context, store, key string, value types.Document) error

// DeleteFunc removes (store, key); subsequent gets return the default.
type DeleteFunc func(ctx context.Context, store, key string) error

// Adapter bundles the four storage operations.
type Adapter interface {
	Get(ctx context.Context, store, key string, def types.Document) (types.Document, error)
	Set(ctx context.Context, store, key string, value types.Document) error
	Update(ctx context.Context, store, key string, value types.Document) error
	Delete(ctx context.Context, store, key string) error
}

// Funcs implements Adapter from individually registered functions. Nil
// members mark operations not yet registered; the facade reports a
// configuration error when one is invoked.
type Funcs struct {
	GetFunc    GetFunc
	SetFunc    SetFunc
	UpdateFunc UpdateFunc
	DeleteFunc DeleteFunc
}

// Get calls the registered get function.
func (f *Funcs) Get(ctx context.Context, store, key string, def types.Document) (types.Document, error) {
	return f.GetFunc(ctx, store, key, def)
}

// Set calls the registered set function.
func (f *Funcs) Set(ctx context.Context, store, key string, value types.Document) error {
	return f.SetFunc(ctx, store, key, value)
}

// Update calls the registered update function.
func (f *Funcs) Update(ctx context.Context, store, key string, value types.Document) error {
	return f.UpdateFunc(ctx, store, key, value)
}

// Delete calls the registered delete function.
func (f *Funcs) Delete(ctx context.Context, store, key string) error {
	return f.DeleteFunc(ctx, store, key)
}

// FromAdapter spreads an Adapter into a Funcs bundle, so whole-adapter and
// per-method registration share one representation inside the facade.
func FromAdapter(a Adapter) *Funcs {
	if funcs, ok := a.(*Funcs); ok {
		return funcs
	}

	return &Funcs{
		GetFunc:    a.Get,
		SetFunc:    a.Set,
		UpdateFunc: a.Update,
		DeleteFunc: a.Delete,
	}
}
