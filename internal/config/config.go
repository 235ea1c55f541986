package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// InsecureDefaultSecret es el secreto de desarrollo. Validate lo rechaza en prod.
const InsecureDefaultSecret = "your-secret-key"

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		// TrustedProxies: IPs o CIDRs cuyos X-Forwarded-For se aceptan.
		TrustedProxies  []string `yaml:"trusted_proxies"`
		ReadTimeout     string   `yaml:"read_timeout"`
		WriteTimeout    string   `yaml:"write_timeout"`
		ShutdownTimeout string   `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Storage struct {
		// postgres | memory
		Driver       string `yaml:"driver"`
		DSN          string `yaml:"dsn"`
		MaxConns     int32  `yaml:"max_conns"`
		QueryTimeout string `yaml:"query_timeout"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		StatsTTL string `yaml:"stats_ttl"`
	} `yaml:"cache"`

	JWT struct {
		Secret    string `yaml:"secret"`
		Issuer    string `yaml:"issuer"`
		AccessTTL string `yaml:"access_ttl"`
	} `yaml:"jwt"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	Security struct {
		PasswordPolicy struct {
			MinLength     int  `yaml:"min_length"`
			RequireUpper  bool `yaml:"require_upper"`
			RequireLower  bool `yaml:"require_lower"`
			RequireDigit  bool `yaml:"require_digit"`
			RequireSymbol bool `yaml:"require_symbol"`
		} `yaml:"password_policy"`
		PasswordBlacklistPath string `yaml:"password_blacklist_path"`
	} `yaml:"security"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load lee el YAML en path (opcional: "" o inexistente se ignora), completa
// defaults, aplica overrides de entorno y valida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: %s: %w", path, err)
			}
		}
	}

	c.applyDefaults()
	c.applyEnvOverrides()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "15s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Storage.MaxConns == 0 {
		c.Storage.MaxConns = 10
	}
	if c.Storage.QueryTimeout == "" {
		c.Storage.QueryTimeout = "5s"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "ums:"
	}
	if c.Cache.StatsTTL == "" {
		c.Cache.StatsTTL = "30s"
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = InsecureDefaultSecret
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "ums"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "1h"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Security.PasswordPolicy.MinLength == 0 {
		c.Security.PasswordPolicy.MinLength = 8
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) applyEnvOverrides() {
	// APP / LOG
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SERVER: PORT es el nombre histórico; SERVER_ADDR gana si están ambos.
	if v, ok := getEnvInt("PORT"); ok {
		c.Server.Addr = ":" + strconv.Itoa(v)
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvCSV("TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvStr("DATABASE_URL"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("STORAGE_MAX_CONNS"); ok {
		c.Storage.MaxConns = int32(v)
	}
	if v, ok := getEnvStr("QUERY_TIMEOUT"); ok {
		c.Storage.QueryTimeout = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("STATS_CACHE_TTL"); ok {
		c.Cache.StatsTTL = v
	}

	// JWT
	if v, ok := getEnvStr("JWT_SECRET"); ok {
		c.JWT.Secret = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("ACCESS_TOKEN_TTL"); ok {
		c.JWT.AccessTTL = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvStr("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}

	// SECURITY
	if v, ok := getEnvInt("SECURITY_PASSWORD_POLICY_MIN_LENGTH"); ok {
		c.Security.PasswordPolicy.MinLength = v
	}
	if v, ok := getEnvBool("SECURITY_PASSWORD_POLICY_REQUIRE_UPPER"); ok {
		c.Security.PasswordPolicy.RequireUpper = v
	}
	if v, ok := getEnvBool("SECURITY_PASSWORD_POLICY_REQUIRE_LOWER"); ok {
		c.Security.PasswordPolicy.RequireLower = v
	}
	if v, ok := getEnvBool("SECURITY_PASSWORD_POLICY_REQUIRE_DIGIT"); ok {
		c.Security.PasswordPolicy.RequireDigit = v
	}
	if v, ok := getEnvBool("SECURITY_PASSWORD_POLICY_REQUIRE_SYMBOL"); ok {
		c.Security.PasswordPolicy.RequireSymbol = v
	}
	if v, ok := getEnvStr("PASSWORD_BLACKLIST_PATH"); ok {
		c.Security.PasswordBlacklistPath = strings.TrimSpace(v)
	}
}

// Validate chequea duraciones, enums y los guard-rails de prod.
func (c *Config) Validate() error {
	for name, v := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"storage.query_timeout":   c.Storage.QueryTimeout,
		"cache.stats_ttl":         c.Cache.StatsTTL,
		"jwt.access_ttl":          c.JWT.AccessTTL,
		"rate.login.window":       c.Rate.Login.Window,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive", name)
		}
	}

	switch c.Storage.Driver {
	case "postgres":
		if c.Storage.DSN == "" {
			return errors.New("config: storage.dsn (DATABASE_URL) is required for postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return errors.New("config: cache.redis.addr is required for redis")
		}
	default:
		return fmt.Errorf("config: unknown cache.kind %q", c.Cache.Kind)
	}

	if c.Rate.Login.Limit <= 0 {
		return errors.New("config: rate.login.limit must be positive")
	}

	if c.IsProd() {
		if c.JWT.Secret == InsecureDefaultSecret || len(c.JWT.Secret) < 32 {
			return errors.New("config: jwt.secret must be set (>= 32 bytes) in prod")
		}
		if c.Storage.Driver == "memory" {
			return errors.New("config: memory storage is not allowed in prod")
		}
	}
	return nil
}

func (c *Config) IsProd() bool { return c.App.Env == "prod" }

// UsesInsecureSecret indica que se está firmando con el secreto de desarrollo.
func (c *Config) UsesInsecureSecret() bool { return c.JWT.Secret == InsecureDefaultSecret }

// Las duraciones ya pasaron por Validate; un error acá es imposible.
func mustDur(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func (c *Config) AccessTTL() time.Duration       { return mustDur(c.JWT.AccessTTL) }
func (c *Config) QueryTimeout() time.Duration    { return mustDur(c.Storage.QueryTimeout) }
func (c *Config) StatsTTL() time.Duration        { return mustDur(c.Cache.StatsTTL) }
func (c *Config) LoginWindow() time.Duration     { return mustDur(c.Rate.Login.Window) }
func (c *Config) ReadTimeout() time.Duration     { return mustDur(c.Server.ReadTimeout) }
func (c *Config) WriteTimeout() time.Duration    { return mustDur(c.Server.WriteTimeout) }
func (c *Config) ShutdownTimeout() time.Duration { return mustDur(c.Server.ShutdownTimeout) }

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvCSV(key string) ([]string, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}
