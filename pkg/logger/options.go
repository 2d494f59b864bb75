package logger

import (
	"errors"

	"go.uber.org/zap/zapcore"
)

type Option func(*ZapLogger)

func MaxSize(size int) Option {
	return func(l *ZapLogger) {
		l.maxSize = size
	}
}

func MaxBackups(backups int) Option {
	return func(l *ZapLogger) {
		l.maxBackups = backups
	}
}

func MaxAge(age int) Option {
	return func(l *ZapLogger) {
		l.maxAge = age
	}
}

func SetLevel(level zapcore.Level) Option {
	return func(l *ZapLogger) {
		l.level = level
	}
}

// Filename overrides the rotating log file. An empty name logs to stdout only.
func Filename(name string) Option {
	return func(l *ZapLogger) {
		l.filename = name
	}
}

func (l *ZapLogger) validate() error {
	if l.level < zapcore.DebugLevel || l.level > zapcore.ErrorLevel {
		return errors.New("invalid level: must be one of debug, info, warn, error")
	}

	if l.filename == "" {
		return nil
	}

	if l.maxSize <= 0 {
		return errors.New("invalid maxSize: must be > 0")
	}

	if l.maxBackups <= 0 {
		return errors.New("invalid maxBackups: must be > 0")
	}

	if l.maxAge <= 0 {
		return errors.New("invalid maxAge: must be > 0")
	}
	return nil
}
