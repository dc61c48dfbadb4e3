// Package counter caches the cart/wishlist badge counts shown on every
// page. The cache is read-through: a miss loads the authoritative count
// from the database, and every mutation deletes the key instead of
// adjusting it in place.
package counter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"shopmart-be/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	KindCart     = "cart"
	KindWishlist = "wishlist"

	defaultTTL = 10 * time.Minute
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a Cache over rdb. A nil client is allowed; every lookup
// then falls through to the loader.
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb, ttl: defaultTTL}
}

func key(kind string, userID uint) string {
	return fmt.Sprintf("%s_count:%d", kind, userID)
}

// Get returns the cached count for (kind, userID), loading and caching
// it on a miss. Redis failures degrade to the loader, never to an error.
func (c *Cache) Get(ctx context.Context, kind string, userID uint, load func(context.Context) (int64, error)) (int64, error) {
	if c == nil || c.rdb == nil {
		return load(ctx)
	}

	k := key(kind, userID)
	if v, err := c.rdb.Get(ctx, k).Result(); err == nil {
		if n, convErr := strconv.ParseInt(v, 10, 64); convErr == nil {
			return n, nil
		}
	} else if err != redis.Nil {
		logger.FromCtx(ctx).Warn("counter cache read failed",
			zap.String("key", k), zap.Error(err))
	}

	n, err := load(ctx)
	if err != nil {
		return 0, err
	}

	if err := c.rdb.Set(ctx, k, n, c.ttl).Err(); err != nil {
		logger.FromCtx(ctx).Warn("counter cache write failed",
			zap.String("key", k), zap.Error(err))
	}

	return n, nil
}

// Invalidate drops the cached count so the next read refetches it.
func (c *Cache) Invalidate(ctx context.Context, kind string, userID uint) {
	if c == nil || c.rdb == nil {
		return
	}

	k := key(kind, userID)
	if err := c.rdb.Del(ctx, k).Err(); err != nil {
		logger.FromCtx(ctx).Warn("counter cache invalidation failed",
			zap.String("key", k), zap.Error(err))
	}
}

// InitRedis dials redis and verifies the connection. Callers treat a
// nil client as "cache disabled".
func InitRedis(addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
