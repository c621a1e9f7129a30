// Package middleware contains service middlewares for smartcache.
package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/smartcache"
	"github.com/hyp3rd/smartcache/stats"
	"github.com/hyp3rd/smartcache/types"
)

// Logger describes a logging interface allowing to implement different external, or custom logger.
// Tested with logrus, and Uber's Zap (high-performance), but should work with any other logger that matches the interface.
type Logger interface {
	Infof(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// LoggingMiddleware logs every service call with its duration and outcome.
// Must implement the smartcache.Service interface.
type LoggingMiddleware struct {
	next   smartcache.Service
	logger Logger
}

// NewLoggingMiddleware returns a new LoggingMiddleware.
func NewLoggingMiddleware(next smartcache.Service, logger Logger) smartcache.Service {
	return &LoggingMiddleware{next: next, logger: logger}
}

// Get logs the call and the time it takes to execute the next service.
func (mw LoggingMiddleware) Get(ctx context.Context, store, key string, def types.Document) (types.Document, error) {
	defer func(begin time.Time) {
		mw.logger.Infof("method Get took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Infof("Get method called with store: %s key: %s", store, key)

	doc, err := mw.next.Get(ctx, store, key, def)
	if err != nil {
		mw.logger.Errorf("Get failed for store: %s key: %s: %v", store, key, err)
	}

	return doc, err
}

// Set logs the call and the time it takes to execute the next service.
func (mw LoggingMiddleware) Set(ctx context.Context, store, key string, value types.Document) error {
	defer func(begin time.Time) {
		mw.logger.Infof("method Set took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Infof("Set method called with store: %s key: %s", store, key)

	err := mw.next.Set(ctx, store, key, value)
	if err != nil {
		mw.logger.Errorf("Set failed for store: %s key: %s: %v", store, key, err)
	}

	return err
}

// Update logs the call and the time it takes to execute the next service.
func (mw LoggingMiddleware) Update(ctx context.Context, store, key string, value types.Document) error {
	defer func(begin time.Time) {
		mw.logger.Infof("method Update took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Infof("Update method called with store: %s key: %s", store, key)

	err := mw.next.Update(ctx, store, key, value)
	if err != nil {
		mw.logger.Errorf("Update failed for store: %s key: %s: %v", store, key, err)
	}

	return err
}

// Delete logs the call and the time it takes to execute the next service.
func (mw LoggingMiddleware) Delete(ctx context.Context, store, key string) error {
	defer func(begin time.Time) {
		mw.logger.Infof("method Delete took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Infof("Delete method called with store: %s key: %s", store, key)

	err := mw.next.Delete(ctx, store, key)
	if err != nil {
		mw.logger.Errorf("Delete failed for store: %s key: %s: %v", store, key, err)
	}

	return err
}

// Search logs the call and the time it takes to execute the next service.
func (mw LoggingMiddleware) Search(ctx context.Context, store string, filter types.Filter) ([]types.Document, error) {
	defer func(begin time.Time) {
		mw.logger.Infof("method Search took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Infof("Search method called with store: %s conditions: %d", store, len(filter))

	docs, err := mw.next.Search(ctx, store, filter)
	if err != nil {
		mw.logger.Errorf("Search failed for store: %s: %v", store, err)
	}

	return docs, err
}

// All logs the call and the time it takes to execute the next service.
func (mw LoggingMiddleware) All(ctx context.Context, store string) ([]types.Document, error) {
	defer func(begin time.Time) {
		mw.logger.Infof("method All took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Infof("All method called with store: %s", store)

	docs, err := mw.next.All(ctx, store)
	if err != nil {
		mw.logger.Errorf("All failed for store: %s: %v", store, err)
	}

	return docs, err
}

// GetStats returns the stats of the next service.
func (mw LoggingMiddleware) GetStats() stats.Stats {
	return mw.next.GetStats()
}
