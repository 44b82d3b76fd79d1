// Package cache keeps short-lived copies of Home Assistant entity states.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"djp.chapter42.de/printerbridge/internal/data"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "printerbridge:state:"

// StateCache stores entity states. Get reports ok=false on a miss.
type StateCache interface {
	Get(ctx context.Context, entityID string) (data.EntityState, bool, error)
	Set(ctx context.Context, state data.EntityState) error
}

// RedisStateCache wraps a Redis client
type RedisStateCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedis(cfg data.CacheConfig) *RedisStateCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &RedisStateCache{Client: rdb, TTL: cfg.TTL}
}

// Ping tests the Redis connection
func (c *RedisStateCache) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisStateCache) Get(ctx context.Context, entityID string) (data.EntityState, bool, error) {
	var state data.EntityState

	raw, err := c.Client.Get(ctx, keyPrefix+entityID).Bytes()
	if errors.Is(err, redis.Nil) {
		return state, false, nil
	}
	if err != nil {
		return state, false, fmt.Errorf("redis get %s: %w", entityID, err)
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, false, fmt.Errorf("decode cached state %s: %w", entityID, err)
	}
	return state, true, nil
}

func (c *RedisStateCache) Set(ctx context.Context, state data.EntityState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, keyPrefix+state.EntityID, raw, c.TTL).Err()
}

// Close closes the Redis connection
func (c *RedisStateCache) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
