package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and a RedisStore backed by it.
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, "storefront:"), mr
}

func TestRedisStore_SetGet(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:u1", []byte(`[{"productId":"p1"}]`)))

	data, err := store.Get(ctx, "cart:u1")
	require.NoError(t, err)
	assert.Equal(t, `[{"productId":"p1"}]`, string(data))
}

func TestRedisStore_GetMissing(t *testing.T) {
	store, _ := setupTestRedis(t)

	_, err := store.Get(context.Background(), "cart:nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:u1", []byte("x")))
	require.NoError(t, store.Delete(ctx, "cart:u1"))

	assert.False(t, mr.Exists("storefront:cart:u1"))
	_, err := store.Get(ctx, "cart:u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	store, mr := setupTestRedis(t)

	require.NoError(t, store.Set(context.Background(), "cart:u1", []byte("x")))
	assert.True(t, mr.Exists("storefront:cart:u1"))
}
