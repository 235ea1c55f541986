// Package rate implementa límites fixed-window por key (IP, email, ...).
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	rdb "github.com/redis/go-redis/v9"
)

type Result struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	Hits       int64
	RetryAfter time.Duration // solo si !Allowed
	ResetIn    time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

func result(hits, max int64, resetIn time.Duration) Result {
	res := Result{Allowed: hits <= max, Limit: max, Hits: hits, ResetIn: resetIn}
	if res.Remaining = max - hits; res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = resetIn
	}
	return res
}

func windowKey(prefix, key string, winStart time.Time) string {
	return fmt.Sprintf("%s%s:%d", prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())
}

// RedisLimiter es compartido entre réplicas: INCR sobre una key por ventana.
type RedisLimiter struct {
	client *rdb.Client
	prefix string
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{client: client, prefix: prefix, max: int64(max), window: window, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	winStart := l.now().UTC().Truncate(l.window)
	k := windowKey(l.prefix, key, winStart)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	resetIn := pttl.Val()
	// primer hit de la ventana: la key todavía no tiene expiración
	if incr.Val() == 1 || resetIn < 0 {
		if err := l.client.PExpire(ctx, k, l.window).Err(); err != nil {
			return Result{}, err
		}
		resetIn = l.window
	}
	return result(incr.Val(), l.max, resetIn), nil
}

// MemoryLimiter es por proceso; alcanza para una sola réplica o dev.
type MemoryLimiter struct {
	c      *gocache.Cache
	prefix string
	max    int64
	window time.Duration
	now    func() time.Time
}

// NewMemoryLimiter usa c si no es nil (p.ej. el go-cache del cache de stats).
func NewMemoryLimiter(c *gocache.Cache, max int, window time.Duration) *MemoryLimiter {
	if c == nil {
		c = gocache.New(window, time.Minute)
	}
	return &MemoryLimiter{c: c, prefix: "rl:", max: int64(max), window: window, now: time.Now}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now().UTC()
	winStart := now.Truncate(l.window)
	k := windowKey(l.prefix, key, winStart)

	// Add falla si la key ya existe; en ese caso solo incrementamos.
	_ = l.c.Add(k, int64(0), l.window)
	hits, err := l.c.IncrementInt64(k, 1)
	if err != nil {
		return Result{}, err
	}
	return result(hits, l.max, winStart.Add(l.window).Sub(now)), nil
}
