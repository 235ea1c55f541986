package logger

import (
	"context"

	"go.uber.org/zap"
)

type requestLoggerKey struct{}

// WithLogger ata l al request. Lo llama WithLogging una vez por request.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, requestLoggerKey{}, l)
}

// WithFields suma campos al logger del request; lo que se loguee después
// con From(ctx) los lleva.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	return context.WithValue(ctx, requestLoggerKey{}, From(ctx).With(fields...))
}

// From retorna el logger del request, o el del proceso fuera de un request.
func From(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, _ := ctx.Value(requestLoggerKey{}).(*zap.Logger); l != nil {
			return l
		}
	}
	return L()
}
