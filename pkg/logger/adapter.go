package logger

import (
	"context"
	"fmt"

	"phonebook/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = (*Adapter)(nil)

// Adapter implements Logger on top of zap. The sugared logger serves the
// key-value methods and the plain one serves LogAttrs.
type Adapter struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

func NewAdapter(cfg *config.Config, opts ...Option) (*Adapter, error) {
	zl, err := NewZapLogger(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("logger.NewAdapter: %w", err)
	}
	return wrap(zl.Zap()), nil
}

func NewNop() *Adapter {
	return wrap(zap.NewNop())
}

func wrap(l *zap.Logger) *Adapter {
	return &Adapter{base: l, sugar: l.Sugar()}
}

func (a *Adapter) Debugw(msg string, keysAndValues ...any) {
	a.sugar.Debugw(msg, keysAndValues...)
}

func (a *Adapter) Infow(msg string, keysAndValues ...any) {
	a.sugar.Infow(msg, keysAndValues...)
}

func (a *Adapter) Warnw(msg string, keysAndValues ...any) {
	a.sugar.Warnw(msg, keysAndValues...)
}

func (a *Adapter) Errorw(msg string, keysAndValues ...any) {
	a.sugar.Errorw(msg, keysAndValues...)
}

func (a *Adapter) Ctx(ctx context.Context) Logger {
	return wrap(tagRequest(a.base, ctx))
}

// With follows zap's sugared pairing rules: a dangling key is reported and
// dropped.
func (a *Adapter) With(keysAndValues ...any) Logger {
	return wrap(a.sugar.With(keysAndValues...).Desugar())
}

func (a *Adapter) LogAttrs(ctx context.Context, level Level, msg string, attrs ...Attr) {
	// Check keeps the caller frame pointing at our caller and skips field
	// encoding for disabled levels.
	if ce := tagRequest(a.base, ctx).Check(zapcore.Level(level), msg); ce != nil {
		ce.Write(attrs...)
	}
}

func (a *Adapter) GenerateRequestID() string {
	return newRequestID()
}

func (a *Adapter) WithRequestID(ctx context.Context, requestID string) context.Context {
	return withRequestID(ctx, requestID)
}
