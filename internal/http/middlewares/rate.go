package middlewares

import (
	"net/http"
	"strconv"
	"time"

	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	"github.com/dropDatabas3/ums/internal/observability/logger"
	"github.com/dropDatabas3/ums/internal/rate"
)

// RateKeyFunc extrae la key de rate limiting del request.
type RateKeyFunc func(r *http.Request) string

// IPRateKey limita por IP de cliente dentro de un bucket (p.ej. "login").
// Con proxies nil la key es RemoteAddr y los headers de proxy se ignoran.
func IPRateKey(bucket string, proxies *TrustedProxies) RateKeyFunc {
	return func(r *http.Request) string {
		return bucket + ":" + proxies.ClientIP(r)
	}
}

type RateLimitConfig struct {
	Limiter rate.Limiter
	KeyFunc RateKeyFunc
}

// WithRateLimit aplica un fixed-window por key. Si el limiter falla el
// request pasa: un Redis caído no debe cortar el login.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPRateKey("global", nil)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := cfg.Limiter.Allow(r.Context(), cfg.KeyFunc(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter error",
					logger.Component("rate"),
					logger.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if res.ResetIn > 0 {
				h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetIn).Unix(), 10))
			}

			if !res.Allowed {
				secs := int(res.RetryAfter.Round(time.Second).Seconds())
				if secs < 1 {
					secs = 1
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				httperrors.WriteError(w, httperrors.ErrRateLimitExceeded)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
