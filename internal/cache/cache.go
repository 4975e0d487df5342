package cache

import (
	"context"
	"time"
)

// Store is a byte cache with per-entry TTL. Implementations fail safe:
// backend errors behave like a miss on reads and do not fail writes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
