// Package logger expone un *zap.Logger de proceso y un logger por request
// propagado en el context.
//
// Inicialización en main:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "ums"})
//	defer logger.Sync()
//
// En handlers y services:
//
//	log := logger.From(ctx)
//	log.Debug("login rejected", logger.Role(role.String()))
package logger

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	proc atomic.Pointer[zap.Logger]
	// level es compartido por todo logger armado con build: un Init tardío lo
	// cambia en caliente.
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	initMu sync.Mutex
)

// Init arma el logger del proceso. Si ya hay uno solo se ajusta el nivel.
func Init(cfg Config) {
	initMu.Lock()
	defer initMu.Unlock()
	level.SetLevel(parseLevel(cfg.Level))
	if proc.Load() == nil {
		proc.Store(build(cfg, level))
	}
}

// L retorna el logger del proceso; sin Init arma uno de consola.
func L() *zap.Logger {
	if l := proc.Load(); l != nil {
		return l
	}
	initMu.Lock()
	defer initMu.Unlock()
	if proc.Load() == nil {
		proc.Store(build(Config{Env: "dev"}, level))
	}
	return proc.Load()
}

func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Replace instala l como logger del proceso y retorna una func que deja
// el anterior. Lo usan los tests para observar logs.
func Replace(l *zap.Logger) (restore func()) {
	prev := proc.Swap(l)
	return func() { proc.Store(prev) }
}

// Sync flushea buffers pendientes.
func Sync() error {
	if l := proc.Load(); l != nil {
		return l.Sync()
	}
	return nil
}
