package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis wraps redis.Client and fails safe: backend errors are logged and then
// treated as a miss or a completed write.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

var _ Store = (*Redis)(nil)

// NewRedis creates a new Redis backed store.
func NewRedis(addr, password string, db int, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Redis{client: redis.NewClient(opts), logger: logger}
}

// Ping reports whether the server is reachable.
func (c *Redis) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL. Failures are logged, not returned.
func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// Delete removes keys. Failures are logged at error level because a missed
// delete leaves stale entries visible to other processes.
func (c *Redis) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("redis delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Redis) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
