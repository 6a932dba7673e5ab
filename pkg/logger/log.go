package logger

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const messageKey = "message"

// Interface is the logging contract every component receives by injection.
//
//go:generate mockgen -source log.go -destination=mock/log_mock.go -package=logger_mock
type Interface interface {
	Debug(message string, fields ...Field)
	DebugContext(ctx context.Context, message string, fields ...Field)
	Error(err error, fields ...Field)
	ErrorContext(ctx context.Context, err error, fields ...Field)
	GetZap() *zap.Logger
	Info(message string, fields ...Field)
	InfoContext(ctx context.Context, message string, fields ...Field)
	Sync() error
	Warn(message string, fields ...Field)
	WarnContext(ctx context.Context, message string, fields ...Field)
	WithFields(fields ...Field) *Logger
}

// Logger writes structured entries through zap.
type Logger struct {
	logger *zap.Logger
}

// Field holds key-value to be written to log.
type Field struct {
	Key   string
	Value any
}

// NewField returns Field with given key and value.
func NewField(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// NewLogger builds a production zap logger with the message key renamed to
// "message" and the given options applied in order.
func NewLogger(opts ...Option) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.MessageKey = messageKey

	var build []zap.Option
	for _, opt := range opts {
		opt(&cfg, &build)
	}

	zl, err := cfg.Build(build...)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &Logger{logger: zl}, nil
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{logger: zap.NewNop()}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

// GetZap returns the underlying zap.Logger.
func (l *Logger) GetZap() *zap.Logger {
	return l.logger
}

// WithFields returns a child logger that always writes fields.
func (l *Logger) WithFields(fields ...Field) *Logger {
	return &Logger{logger: l.logger.With(toZap(fields)...)}
}

func (l *Logger) Debug(message string, fields ...Field) {
	l.logger.Debug(message, toZap(fields)...)
}

func (l *Logger) DebugContext(ctx context.Context, message string, fields ...Field) {
	l.Debug(message, withContext(ctx, fields)...)
}

func (l *Logger) Info(message string, fields ...Field) {
	l.logger.Info(message, toZap(fields)...)
}

func (l *Logger) InfoContext(ctx context.Context, message string, fields ...Field) {
	l.Info(message, withContext(ctx, fields)...)
}

func (l *Logger) Warn(message string, fields ...Field) {
	l.logger.Warn(message, toZap(fields)...)
}

func (l *Logger) WarnContext(ctx context.Context, message string, fields ...Field) {
	l.Warn(message, withContext(ctx, fields)...)
}

// Error writes err at error level. When err carries a pkg/errors stack trace
// that trace replaces the one zap would capture at this call site.
func (l *Logger) Error(err error, fields ...Field) {
	if err == nil {
		return
	}
	ce := l.logger.Check(zapcore.ErrorLevel, err.Error())
	if ce == nil {
		return
	}

	var tracer errors.StackTracer
	if stderrors.As(err, &tracer) && tracer.StackTrace() != nil {
		ce.Stack = strings.TrimSpace(fmt.Sprintf("%+v", tracer.StackTrace()))
	}
	ce.Write(toZap(fields)...)
}

func (l *Logger) ErrorContext(ctx context.Context, err error, fields ...Field) {
	l.Error(err, withContext(ctx, fields)...)
}

func toZap(fields []Field) []zapcore.Field {
	zapFields := make([]zapcore.Field, 0, len(fields))
	for _, field := range fields {
		zapFields = append(zapFields, zap.Any(field.Key, field.Value))
	}
	return zapFields
}

// withContext appends the request id and operation carried by ctx.
func withContext(ctx context.Context, fields []Field) []Field {
	for k, v := range util.Fields(ctx) {
		fields = append(fields, NewField(k, v))
	}
	return fields
}
