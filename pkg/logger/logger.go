// Package logger wraps slog behind a small structured logging interface.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// getCaller -> log -> exported method -> call site
const callerSkipFrames = 3

// Output formats accepted by WithFormat.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Logger is the logging surface used across the service.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Fatal(ctx context.Context, msg string, fields ...Field)

	Named(name string) Logger
}

// Field is a key-value pair attached to a log record.
type Field struct {
	Key   string
	Value any
}

// Field constructors.
func String(key, val string) Field                 { return Field{Key: key, Value: val} }
func Int(key string, val int) Field                { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field        { return Field{Key: key, Value: val} }
func Bool(key string, val bool) Field              { return Field{Key: key, Value: val} }
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }
func Any(key string, val any) Field                { return Field{Key: key, Value: val} }
func Error(err error) Field                        { return Field{Key: "error", Value: err} }

type slogLogger struct {
	l      *slog.Logger
	source bool
}

func (s *slogLogger) Named(name string) Logger {
	return &slogLogger{l: s.l.With(slog.String("logger", name)), source: s.source}
}

func (s *slogLogger) Info(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelInfo, msg, fields)
}

func (s *slogLogger) Error(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelError, msg, fields)
}

func (s *slogLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelDebug, msg, fields)
}

func (s *slogLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelWarn, msg, fields)
}

func (s *slogLogger) Fatal(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelError, msg, fields)
	os.Exit(1)
}

func (s *slogLogger) log(ctx context.Context, level slog.Level, msg string, fields []Field) {
	if !s.l.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, 0, len(fields)+1)
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	if s.source {
		attrs = append(attrs, slog.String("source", getCaller()))
	}
	s.l.LogAttrs(ctx, level, msg, attrs...)
}

type options struct {
	writer io.Writer
	format string
	level  string
	source bool
}

// Option configures Init.
type Option func(*options)

// WithWriter redirects output. Defaults to stdout.
func WithWriter(w io.Writer) Option { return func(o *options) { o.writer = w } }

// WithFormat selects FormatText or FormatJSON.
func WithFormat(format string) Option { return func(o *options) { o.format = format } }

// WithLevel sets the initial level, see SetLevelString.
func WithLevel(level string) Option { return func(o *options) { o.level = level } }

// WithSource toggles the caller location attribute.
func WithSource(enabled bool) Option { return func(o *options) { o.source = enabled } }

var (
	mu       sync.RWMutex
	global   Logger
	levelVar slog.LevelVar
)

// Init builds the global logger.
func Init(opts ...Option) error {
	o := options{writer: os.Stdout, format: FormatText, level: "info", source: true}
	for _, opt := range opts {
		opt(&o)
	}
	if err := SetLevelString(o.level); err != nil {
		return err
	}

	ho := &slog.HandlerOptions{Level: &levelVar}
	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(o.format)) {
	case "", FormatText:
		h = slog.NewTextHandler(o.writer, ho)
	case FormatJSON:
		h = slog.NewJSONHandler(o.writer, ho)
	default:
		return fmt.Errorf("unknown log format: %s", o.format)
	}

	mu.Lock()
	global = &slogLogger{l: slog.New(h), source: o.source}
	mu.Unlock()
	return nil
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() Logger {
	return &slogLogger{l: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

func getCaller() string {
	_, file, line, ok := runtime.Caller(callerSkipFrames)
	if !ok {
		return "unknown:0"
	}
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, file); err == nil {
			return fmt.Sprintf("%s:%d", rel, line)
		}
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// Get returns the global logger. Init must have been called.
func Get() Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		panic("logger not initialized, call logger.Init first")
	}
	return global
}

// Named returns a child of the global logger.
func Named(name string) Logger {
	return Get().Named(name)
}

// Sync is a no-op kept for symmetry with buffered backends.
func Sync() error { return nil }

// SetLevel changes the level of every logger built by Init.
func SetLevel(level slog.Level) { levelVar.Set(level) }

// SetLevelString parses debug, info, warn/warning or error.
func SetLevelString(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		SetLevel(slog.LevelDebug)
	case "", "info":
		SetLevel(slog.LevelInfo)
	case "warn", "warning":
		SetLevel(slog.LevelWarn)
	case "error":
		SetLevel(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}
