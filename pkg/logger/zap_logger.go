package logger

import (
	"fmt"
	"os"

	"phonebook/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	_defaultMaxSize    = 100
	_defaultMaxBackups = 7
	_defaultMaxAge     = 30
)

// ZapLogger builds the zap core: JSON to stdout, plus a rotating file when a
// filename is configured.
type ZapLogger struct {
	logger *zap.Logger
	level  zapcore.Level

	filename   string
	maxSize    int
	maxBackups int
	maxAge     int
}

func NewZapLogger(cfg *config.Config, opts ...Option) (*ZapLogger, error) {
	const op = "logger.NewZapLogger"

	level, err := zapcore.ParseLevel(cfg.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("%s: parse level: %w", op, err)
	}

	zl := &ZapLogger{
		level:      level,
		filename:   cfg.Logger.Filename,
		maxSize:    orDefault(cfg.Logger.MaxSize, _defaultMaxSize),
		maxBackups: orDefault(cfg.Logger.MaxBackups, _defaultMaxBackups),
		maxAge:     orDefault(cfg.Logger.MaxAge, _defaultMaxAge),
	}
	for _, opt := range opts {
		opt(zl)
	}
	if err = zl.validate(); err != nil {
		return nil, fmt.Errorf("%s: validation: %w", op, err)
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zl.sink(),
		zap.NewAtomicLevelAt(zl.level),
	)

	zl.logger = zap.New(core,
		zap.Fields(
			zap.String("service", cfg.App.Name),
			zap.String("env", cfg.Env),
		),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	return zl, nil
}

func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

func (l *ZapLogger) sink() zapcore.WriteSyncer {
	stdout := zapcore.Lock(os.Stdout)
	if l.filename == "" {
		return stdout
	}

	return zapcore.NewMultiWriteSyncer(stdout, zapcore.AddSync(&lumberjack.Logger{
		Filename:   l.filename,
		MaxSize:    l.maxSize,
		MaxBackups: l.maxBackups,
		MaxAge:     l.maxAge,
		Compress:   true,
	}))
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "ts"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder
	return ec
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
