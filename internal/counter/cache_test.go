package counter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_NilClientFallsThrough(t *testing.T) {
	ctx := context.Background()

	t.Run("NilCache", func(t *testing.T) {
		var c *Cache
		n, err := c.Get(ctx, KindCart, 1, func(context.Context) (int64, error) {
			return 7, nil
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(7), n)

		// must not panic
		c.Invalidate(ctx, KindCart, 1)
	})

	t.Run("NilClient", func(t *testing.T) {
		c := New(nil)
		calls := 0
		load := func(context.Context) (int64, error) {
			calls++
			return 3, nil
		}

		n, err := c.Get(ctx, KindWishlist, 9, load)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), n)

		// no caching without redis: every read hits the loader
		_, _ = c.Get(ctx, KindWishlist, 9, load)
		assert.Equal(t, 2, calls)

		c.Invalidate(ctx, KindWishlist, 9)
	})

	t.Run("LoaderError", func(t *testing.T) {
		c := New(nil)
		_, err := c.Get(ctx, KindCart, 1, func(context.Context) (int64, error) {
			return 0, errors.New("db down")
		})
		assert.Error(t, err)
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "cart_count:42", key(KindCart, 42))
	assert.Equal(t, "wishlist_count:7", key(KindWishlist, 7))
}
