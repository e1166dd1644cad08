// Package cache holds the parse-result cache. Export files are immutable once
// written, so a content-keyed cache can replay a full parse without rereading
// or re-detecting anything.
package cache

import (
	"context"
	"errors"
	"time"
)

// Provider is the surface the insight service caches through. Implementations
// must be safe for concurrent use; the HTTP handlers share one instance.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
	Close() error
}

// ErrCacheMiss signals that a key was absent or expired. Callers treat it as
// "go parse", never as a failure.
var ErrCacheMiss = errors.New("cache miss")

// NoopProvider satisfies Provider without storing anything. It backs the
// cache.enabled=false configuration so the service never branches on nil.
type NoopProvider struct{}

// Get always misses.
func (NoopProvider) Get(context.Context, string) ([]byte, error) {
	return nil, ErrCacheMiss
}

// Set discards the value.
func (NoopProvider) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// SetNX reports success without storing, so lock-style callers proceed.
func (NoopProvider) SetNX(context.Context, string, []byte, time.Duration) (bool, error) {
	return true, nil
}

// Del has nothing to delete.
func (NoopProvider) Del(context.Context, string) error { return nil }

// Close has nothing to release.
func (NoopProvider) Close() error { return nil }
