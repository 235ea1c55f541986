package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dropDatabas3/ums/internal/app"
	"github.com/dropDatabas3/ums/internal/config"
	"github.com/dropDatabas3/ums/internal/observability/logger"
)

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// maskDSN oculta la password del DSN para el resumen de arranque.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}

func printConfigSummary(c *config.Config) {
	pp := c.Security.PasswordPolicy
	fmt.Printf(`CONFIG:
  app.env=%s log.level=%s
  server.addr=%s cors=%v trusted_proxies=%v
  storage.driver=%s dsn=%s max_conns=%d query_timeout=%s
  cache.kind=%s redis.addr=%s db=%d prefix=%s stats_ttl=%s
  jwt.issuer=%s access_ttl=%s insecure_secret=%t
  rate(enabled=%t, login.limit=%d, login.window=%s)
  pwd_policy(min=%d, upper=%t, lower=%t, digit=%t, symbol=%t) blacklist=%s
`,
		c.App.Env, c.Log.Level,
		c.Server.Addr, c.Server.CORSAllowedOrigins, c.Server.TrustedProxies,
		c.Storage.Driver, maskDSN(c.Storage.DSN), c.Storage.MaxConns, c.Storage.QueryTimeout,
		c.Cache.Kind, c.Cache.Redis.Addr, c.Cache.Redis.DB, c.Cache.Redis.Prefix, c.Cache.StatsTTL,
		c.JWT.Issuer, c.JWT.AccessTTL, c.UsesInsecureSecret(),
		c.Rate.Enabled, c.Rate.Login.Limit, c.Rate.Login.Window,
		pp.MinLength, pp.RequireUpper, pp.RequireLower, pp.RequireDigit, pp.RequireSymbol,
		c.Security.PasswordBlacklistPath,
	)
}

func main() {
	var (
		flagConfigPath = flag.String("config", "", "ruta a config.yaml (fallback: $CONFIG_PATH o configs/config.yaml)")
		flagEnvFile    = flag.String("env-file", ".env", "ruta a .env (si existe, se carga)")
		flagPrint      = flag.Bool("print-config", false, "imprime config efectiva y termina")
	)
	flag.Parse()

	if fileExists(*flagEnvFile) {
		if err := godotenv.Load(*flagEnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "dotenv: %v\n", err)
		}
	}

	cfgPath := *flagConfigPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *flagPrint {
		printConfigSummary(cfg)
		return
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "ums", Version: app.Version})
	defer func() { _ = logger.Sync() }()
	log := logger.Named("service")

	if err := run(cfg, log); err != nil {
		log.Error("service stopped with error", logger.Err(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UsesInsecureSecret() {
		log.Warn("JWT_SECRET not set; signing tokens with the development secret")
	}

	c, err := app.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("cleanup", logger.Err(err))
		}
	}()

	a, err := app.New(c)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      a.Handler,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("service up",
			logger.String("addr", cfg.Server.Addr),
			logger.String("env", cfg.App.Env),
			logger.String("storage", cfg.Storage.Driver),
			logger.String("cache", cfg.Cache.Kind),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	return srv.Shutdown(sctx)
}
