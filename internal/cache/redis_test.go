package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func setupTestCache(t *testing.T) (*miniredis.Miniredis, *Cache) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewCache(client, "dinehub:")
}

func TestCache_SetGetDelete(t *testing.T) {
	mr, c := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "restaurant:7", entry{ID: 7, Name: "Chez Awa"}, time.Minute))
	assert.True(t, mr.Exists("dinehub:restaurant:7"))

	var got entry
	require.NoError(t, c.Get(ctx, "restaurant:7", &got))
	assert.Equal(t, entry{ID: 7, Name: "Chez Awa"}, got)

	require.NoError(t, c.Delete(ctx, "restaurant:7"))
	assert.ErrorIs(t, c.Get(ctx, "restaurant:7", &got), ErrMiss)
}

func TestCache_Expiry(t *testing.T) {
	mr, c := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", entry{ID: 1}, time.Second))
	mr.FastForward(2 * time.Second)

	var got entry
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
}

func TestCache_Disabled(t *testing.T) {
	c := NewCache(nil, "x:")
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", entry{ID: 1}, time.Minute))
	var got entry
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
	assert.NoError(t, c.Delete(ctx, "k"))
}
