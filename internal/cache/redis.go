package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

func NewRedis(ctx context.Context, cfg Config) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Redis{client: rdb, prefix: cfg.Prefix, defaultTTL: ttl}, nil
}

func (c *Redis) key(k string) string { return c.prefix + k }

func (c *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.client.Del(ctx, full...).Err()
}

func (c *Redis) Ping(ctx context.Context) error { return c.client.Ping(ctx).Err() }

func (c *Redis) Close() error { return c.client.Close() }

// Client expone el cliente para compartir la conexión con el rate limiter.
func (c *Redis) Client() *redis.Client { return c.client }
