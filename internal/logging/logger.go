package logging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey struct{}

var base = zap.NewNop()

// New builds the process logger. Production environments get JSON output,
// everything else gets the console encoder.
func New(level, environment string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// SetBase replaces the logger used when a context carries none.
func SetBase(l *zap.Logger) {
	if l != nil {
		base = l
	}
}

func Base() *zap.Logger { return base }

// WithContext stores a request-scoped zap logger.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// Logger writes operation-tagged entries for one request.
type Logger struct {
	z *zap.Logger
}

// FromContext returns the request logger, falling back to the base logger.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*zap.Logger); ok && l != nil {
			return &Logger{z: l}
		}
	}
	return &Logger{z: base}
}

func (l *Logger) Zap() *zap.Logger { return l.z }

func (l *Logger) LogError(operation string, err error) {
	l.z.Error(operation, zap.String("operation", operation), zap.Error(err))
}

func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	l.z.Error(fmt.Sprintf(format, args...), zap.String("operation", operation))
}

func (l *Logger) LogInfo(operation string, message string) {
	l.z.Info(message, zap.String("operation", operation))
}

func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	l.z.Info(fmt.Sprintf(format, args...), zap.String("operation", operation))
}

func (l *Logger) LogWarn(operation string, message string) {
	l.z.Warn(message, zap.String("operation", operation))
}

func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	l.z.Warn(fmt.Sprintf(format, args...), zap.String("operation", operation))
}
