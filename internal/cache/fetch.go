package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/ums/internal/observability/logger"
)

// Loader lee un valor JSON del cache o lo calcula con load. Requests
// concurrentes por la misma key comparten una sola llamada a load.
// Si el cache falla, se sirve desde load igual: el cache nunca es la fuente.
//
// Cada key lleva una generación local que Invalidate incrementa. Un load que
// arrancó antes de invalidar no escribe su resultado, y los requests que
// llegan después no se suman a ese load.
type Loader struct {
	c  Client
	sf singleflight.Group

	mu  sync.Mutex
	gen map[string]uint64
}

func NewLoader(c Client) *Loader { return &Loader{c: c, gen: map[string]uint64{}} }

func (l *Loader) generation(key string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen[key]
}

// Invalidate incrementa la generación antes de borrar.
func (l *Loader) Invalidate(ctx context.Context, keys ...string) {
	l.mu.Lock()
	for _, k := range keys {
		l.gen[k]++
	}
	l.mu.Unlock()

	if err := l.c.Delete(ctx, keys...); err != nil {
		logger.From(ctx).Warn("cache invalidate failed", logger.Component("cache"), logger.Err(err))
	}
}

// Fetch es genérico sobre el tipo a decodificar.
func Fetch[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if b, err := l.c.Get(ctx, key); err == nil {
		var v T
		if json.Unmarshal(b, &v) == nil {
			return v, nil
		}
	} else if !errors.Is(err, ErrNotFound) {
		logger.From(ctx).Warn("cache get failed", logger.Component("cache"), logger.String("key", key), logger.Err(err))
	}

	gen := l.generation(key)
	v, err, _ := l.sf.Do(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if l.generation(key) != gen {
			return v, nil
		}
		if b, err := json.Marshal(v); err == nil {
			if err := l.c.Set(ctx, key, b, ttl); err != nil {
				logger.From(ctx).Warn("cache set failed", logger.Component("cache"), logger.String("key", key), logger.Err(err))
			}
			// Invalidate pudo correr entre el chequeo y el Set
			if l.generation(key) != gen {
				_ = l.c.Delete(ctx, key)
			}
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
