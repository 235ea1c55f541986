package logger

import (
	"go.uber.org/zap"
)

// =================================================================================
// HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// =================================================================================
// IDENTIDAD
// =================================================================================

// Role es el rol reclamado o verificado (admin, instructor, student).
func Role(v string) zap.Field { return zap.String("role", v) }

// PrincipalID es la PK del principal autenticado dentro de su tabla.
func PrincipalID(v int64) zap.Field { return zap.Int64("principal_id", v) }

// Email: solo en debug. No loguear emails a nivel info en prod.
func Email(v string) zap.Field { return zap.String("email", v) }

// =================================================================================
// SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }

// Layer: handler, service, store.
func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

func Count(v int) zap.Field               { return zap.Int("count", v) }
func String(key, v string) zap.Field      { return zap.String(key, v) }
func Int64(key string, v int64) zap.Field { return zap.Int64(key, v) }
func Any(key string, v any) zap.Field     { return zap.Any(key, v) }
