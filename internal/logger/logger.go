// Package logger wraps zap with the context-aware field extraction and
// global convenience functions the rest of this codebase is written against.
package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/oj-lab/judger/internal/contextkey"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *Logger

// Logger wraps a zap.Logger with context extraction.
type Logger struct {
	zap   *zap.Logger
	level zapcore.Level
}

// Config controls log level, format, and destination.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // file path or "stdout"
	ErrorPath  string // file path or "stderr"
	Service    string
}

// Init builds the global logger from cfg.
func Init(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	global = l
	return nil
}

// New builds a standalone logger (used by tests that don't want the global).
func New(cfg Config) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     rfc3339TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	writeSyncer, err := openSink(cfg.OutputPath)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	options := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Service != "" {
		options = append(options, zap.Fields(zap.String("service", cfg.Service)))
	}
	return &Logger{zap: zap.New(core, options...), level: level}, nil
}

func openSink(path string) (zapcore.WriteSyncer, error) {
	if path == "" || path == "stdout" {
		return zapcore.AddSync(os.Stdout), nil
	}
	if path == "stderr" {
		return zapcore.AddSync(os.Stderr), nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return zapcore.AddSync(f), nil
}

func rfc3339TimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(time.RFC3339))
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error { return l.zap.Sync() }

// WithContext returns a zap.Logger carrying fields extracted from ctx.
func (l *Logger) WithContext(ctx context.Context) *zap.Logger {
	return l.zap.With(fieldsFromContext(ctx)...)
}

func fieldsFromContext(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if v := ctx.Value(contextkey.TraceID); v != nil {
		fields = append(fields, zap.String("trace_id", fmt.Sprint(v)))
	}
	if v := ctx.Value(contextkey.SubmissionID); v != nil {
		fields = append(fields, zap.String("submission_id", fmt.Sprint(v)))
	}
	if v := ctx.Value(contextkey.TestID); v != nil {
		fields = append(fields, zap.String("test_id", fmt.Sprint(v)))
	}
	return fields
}

func ensureGlobal() *Logger {
	if global == nil {
		global, _ = New(Config{Level: "info", Format: "console"})
	}
	return global
}

// Debug, Info, Warn, Error log through the global logger, extracting
// trace/submission/test fields from ctx.
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	ensureGlobal().WithContext(ctx).Debug(msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	ensureGlobal().WithContext(ctx).Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	ensureGlobal().WithContext(ctx).Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	ensureGlobal().WithContext(ctx).Error(msg, fields...)
}

// Sync flushes the global logger, if initialized.
func Sync() error {
	if global == nil {
		return nil
	}
	return global.Sync()
}
