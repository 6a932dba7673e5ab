package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity level of the log.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Encoding selects the zap encoder.
type Encoding string

const (
	// JSONEncoding is the production default.
	JSONEncoding Encoding = "json"
	// ConsoleEncoding writes human readable lines for the command line tools.
	ConsoleEncoding Encoding = "console"
)

// ParseLevel maps a configuration string to a Level, falling back to info.
func ParseLevel(s string) Level {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case DebugLevel, WarnLevel, ErrorLevel:
		return l
	default:
		return InfoLevel
	}
}

func (level Level) zapLevel() zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Option configures the zap build performed by NewLogger.
type Option func(cfg *zap.Config, build *[]zap.Option)

// WithLoggingLevel sets the minimum level written. Defaults to info.
func WithLoggingLevel(level Level) Option {
	return func(cfg *zap.Config, _ *[]zap.Option) {
		cfg.Level = zap.NewAtomicLevelAt(level.zapLevel())
	}
}

// WithOutputPaths replaces the sinks. "stdout" and "stderr" are recognised,
// anything else is treated as a file path.
func WithOutputPaths(paths []string) Option {
	return func(cfg *zap.Config, _ *[]zap.Option) {
		if len(paths) > 0 {
			cfg.OutputPaths = paths
		}
	}
}

// WithEncoding switches between json and console output.
func WithEncoding(encoding Encoding) Option {
	return func(cfg *zap.Config, _ *[]zap.Option) {
		cfg.Encoding = string(encoding)
		if encoding == ConsoleEncoding {
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	}
}

// WithTimeKey renames the time field.
func WithTimeKey(key string) Option {
	return func(cfg *zap.Config, _ *[]zap.Option) {
		cfg.EncoderConfig.TimeKey = key
	}
}

// WithLevelKey renames the severity field.
func WithLevelKey(key string) Option {
	return func(cfg *zap.Config, _ *[]zap.Option) {
		cfg.EncoderConfig.LevelKey = key
	}
}

// WithCallerTraceSkip skips extra frames when reporting the caller.
func WithCallerTraceSkip(skip int) Option {
	return func(_ *zap.Config, build *[]zap.Option) {
		if skip > 0 {
			*build = append(*build, zap.AddCallerSkip(skip))
		}
	}
}
