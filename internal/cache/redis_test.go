package cache

import (
	"context"
	"testing"
	"time"

	"djp.chapter42.de/printerbridge/internal/data"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisStateCache) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := NewRedis(data.CacheConfig{Address: mr.Addr(), TTL: 10 * time.Second})
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestRedisStateCacheRoundTrip(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	_, ok, err := c.Get(ctx, "switch.kitchen_printer_wake")
	require.NoError(t, err)
	assert.False(t, ok)

	state := data.EntityState{
		EntityID:    "switch.kitchen_printer_wake",
		State:       "on",
		Attributes:  map[string]interface{}{"friendly_name": "Kitchen printer"},
		LastChanged: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.Set(ctx, state))

	got, ok, err := c.Get(ctx, state.EntityID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, state, got)

	mr.FastForward(11 * time.Second)
	_, ok, err = c.Get(ctx, state.EntityID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStateCacheCorruptValue(t *testing.T) {
	mr, c := setupRedis(t)
	require.NoError(t, mr.Set(keyPrefix+"sensor.paper", "not-json"))

	_, ok, err := c.Get(context.Background(), "sensor.paper")
	assert.Error(t, err)
	assert.False(t, ok)
}
