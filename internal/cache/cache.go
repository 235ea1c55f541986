// Package cache es un key/value con TTL para lecturas caras y repetidas
// (estadísticas del panel). Dos drivers: memory (go-cache, in-process) y redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("cache: key not found")

type Client interface {
	// Get retorna ErrNotFound si la key no existe o expiró.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set con ttl 0 usa el TTL por defecto del driver.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	Kind       string // memory | redis
	Addr       string
	Password   string
	DB         int
	Prefix     string
	DefaultTTL time.Duration
}

// New arma el driver pedido. Para redis verifica la conexión antes de retornar.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Kind {
	case "", "memory":
		return NewMemory(cfg.DefaultTTL), nil
	case "redis":
		return NewRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("cache: unknown kind %q", cfg.Kind)
	}
}
