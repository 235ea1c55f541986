package middlewares

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/ums/internal/auth"
	"github.com/dropDatabas3/ums/internal/observability/logger"
)

// statusRecorder captura el status code y bytes escritos de la respuesta.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.WriteHeader(http.StatusOK)
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// identity la deja RequireRole una vez verificado el token, para que el log
// de cierre del request la incluya.
type identity struct {
	ac auth.AuthContext
	ok bool
}

type identityKey struct{}

// WithLogging registra cada request con el logger singleton e inyecta un
// logger scoped (request_id, method, path) en el contexto.
//
// Ejemplo (dev):
//
//	INFO  request completed  {"request_id": "0b6f...", "method": "POST", "path": "/api/auth/login", "status": 200, "bytes": 312, "duration_ms": 41}
func WithLogging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLog := logger.L().With(
				logger.RequestID(GetRequestID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)

			id := &identity{}
			ctx := logger.WithLogger(r.Context(), reqLog)
			ctx = contextWithIdentity(ctx, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			fields := []zap.Field{
				logger.Status(rec.status),
				logger.Bytes(rec.bytes),
				logger.DurationMs(time.Since(start).Milliseconds()),
			}
			if id.ok {
				fields = append(fields, logger.Role(id.ac.Role.String()), logger.PrincipalID(id.ac.PrincipalID))
			}

			// Solo 5xx es error; los rechazos de auth son input esperado del cliente
			if rec.status >= 500 {
				reqLog.Error("request completed", fields...)
				return
			}
			reqLog.Info("request completed", fields...)
		})
	}
}
