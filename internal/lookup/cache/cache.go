// Package cache stores encoded lookup responses with a time-to-live.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned on a cache miss, including expired entries.
var ErrNotFound = errors.New("not found")

// Cache is the storage used by the caching lookup client.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
