package logger

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors zapcore levels so conversion is a plain cast.
type Level int8

const (
	DebugLevel = Level(zapcore.DebugLevel)
	InfoLevel  = Level(zapcore.InfoLevel)
	WarnLevel  = Level(zapcore.WarnLevel)
	ErrorLevel = Level(zapcore.ErrorLevel)
)

func (l Level) String() string {
	return zapcore.Level(l).CapitalString()
}

// Attr is a typed structured field for LogAttrs.
type Attr = zapcore.Field

type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)

	// Ctx returns a logger that tags every entry with the request id of ctx.
	Ctx(ctx context.Context) Logger
	With(keysAndValues ...any) Logger

	GenerateRequestID() string
	WithRequestID(ctx context.Context, requestID string) context.Context

	LogAttrs(ctx context.Context, level Level, msg string, attrs ...Attr)
}

func String(key, value string) Attr {
	return zap.String(key, value)
}

func Int(key string, value int) Attr {
	return zap.Int(key, value)
}

func Int64(key string, value int64) Attr {
	return zap.Int64(key, value)
}

func Duration(key string, value time.Duration) Attr {
	return zap.Duration(key, value)
}

func Err(err error) Attr {
	return zap.NamedError("error", err)
}
