// Package app cablea config -> store, cache, issuer, gate -> services ->
// controllers -> router. cmd/service y cmd/ums arrancan desde acá.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dropDatabas3/ums/internal/auth"
	"github.com/dropDatabas3/ums/internal/cache"
	"github.com/dropDatabas3/ums/internal/config"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/http/controllers"
	mw "github.com/dropDatabas3/ums/internal/http/middlewares"
	"github.com/dropDatabas3/ums/internal/http/router"
	"github.com/dropDatabas3/ums/internal/http/services"
	"github.com/dropDatabas3/ums/internal/jwt"
	"github.com/dropDatabas3/ums/internal/metrics"
	"github.com/dropDatabas3/ums/internal/observability/logger"
	"github.com/dropDatabas3/ums/internal/rate"
	"github.com/dropDatabas3/ums/internal/security/password"
	"github.com/dropDatabas3/ums/internal/store/memory"
	"github.com/dropDatabas3/ums/internal/store/pg"
)

// Version se pisa en build con -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

// Container agrupa lo que comparten el server HTTP y la CLI.
type Container struct {
	Config   *config.Config
	Store    repository.Store
	Cache    cache.Client
	Issuer   *jwt.Issuer
	Verifier *auth.Verifier
	Gate     *auth.Gate
	Policy   password.Policy
}

// NewContainer abre el store y el cache según cfg. El caller hace Close.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.Store = st

	cc, err := cache.New(ctx, cache.Config{
		Kind:       cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: cfg.StatsTTL(),
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("cache: %w", err)
	}
	c.Cache = cc

	c.Issuer, err = jwt.NewIssuer(cfg.JWT.Issuer, []byte(cfg.JWT.Secret), cfg.AccessTTL())
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("jwt: %w", err)
	}
	c.Gate = auth.NewGate(c.Issuer)
	c.Verifier = auth.NewVerifier(auth.VerifierDeps{
		Stores:       auth.StoresFrom(st),
		Issuer:       c.Issuer,
		QueryTimeout: cfg.QueryTimeout(),
	})

	bl, err := password.LoadBlacklist(cfg.Security.PasswordBlacklistPath)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("password blacklist: %w", err)
	}
	pp := cfg.Security.PasswordPolicy
	c.Policy = password.Policy{
		MinLength:     pp.MinLength,
		RequireUpper:  pp.RequireUpper,
		RequireLower:  pp.RequireLower,
		RequireDigit:  pp.RequireDigit,
		RequireSymbol: pp.RequireSymbol,
		Blacklist:     bl,
	}
	return c, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.L().Warn("using in-memory store; data is lost on restart", logger.Component("app"))
		return memory.New(), nil
	case "postgres":
		st, err := pg.New(ctx, cfg.Storage.DSN, pg.Options{MaxConns: cfg.Storage.MaxConns})
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Close libera cache y store. Idempotente sobre campos nil.
func (c *Container) Close() error {
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.Store != nil {
		c.Store.Close()
	}
	return errors.Join(errs...)
}

// App es el server HTTP cableado.
type App struct {
	*Container
	Metrics *metrics.Metrics
	Handler http.Handler
}

// New arma el handler completo sobre un Container ya abierto.
func New(c *Container) (*App, error) {
	cfg := c.Config
	m := metrics.New()
	if st, ok := c.Store.(*pg.Store); ok {
		if err := m.RegisterPool(st.Pool()); err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
	}

	svcs := services.New(services.Deps{
		Store:        c.Store,
		Cache:        c.Cache,
		StatsTTL:     cfg.StatsTTL(),
		QueryTimeout: cfg.QueryTimeout(),
		HashParams:   password.Default,
		Policy:       c.Policy,
		Version:      Version,
	})
	ctrls := controllers.New(svcs, c.Verifier, m)

	proxies, err := mw.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("server.trusted_proxies: %w", err)
	}

	h := router.New(router.Deps{
		Controllers:    ctrls,
		Gate:           c.Gate,
		Metrics:        m,
		LoginLimiter:   loginLimiter(c),
		TrustedProxies: proxies,
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
	})
	return &App{Container: c, Metrics: m, Handler: h}, nil
}

// loginLimiter comparte backend con el cache: redis entre réplicas, go-cache
// en un solo proceso. nil si rate.enabled=false.
func loginLimiter(c *Container) rate.Limiter {
	cfg := c.Config
	if !cfg.Rate.Enabled {
		return nil
	}
	limit, window := cfg.Rate.Login.Limit, cfg.LoginWindow()
	switch cc := c.Cache.(type) {
	case *cache.Redis:
		return rate.NewRedisLimiter(cc.Client(), cfg.Cache.Redis.Prefix+"rl:", limit, window)
	case *cache.Memory:
		return rate.NewMemoryLimiter(cc.Raw(), limit, window)
	default:
		return rate.NewMemoryLimiter(nil, limit, window)
	}
}
