package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory es el driver in-process. Sirve para una sola réplica.
type Memory struct{ c *gocache.Cache }

func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	return &Memory{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	b, _ := v.([]byte)
	return b, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (m *Memory) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}

// Raw expone el go-cache subyacente; lo reutiliza el rate limiter en memoria.
func (m *Memory) Raw() *gocache.Cache { return m.c }
