package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

type contextKey struct{}

var requestIDKey contextKey

var (
	levelVar = new(slog.LevelVar)
	loggerMu sync.RWMutex
	output   io.Writer = os.Stdout
	logger             = newLogger()
)

func init() {
	levelVar.Set(slog.LevelInfo)
}

func newLogger() *slog.Logger {
	return slog.New(newHandler(output))
}

func handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: levelVar,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339Nano))
				}
			case slog.LevelKey:
				attr.Key = "level"
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.MessageKey:
				attr.Key = "msg"
			}
			return attr
		},
	}
}

func newHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, handlerOptions())
}

func newJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, handlerOptions())
}

// SetLevel updates the minimum logging level accepted by the global logger.
// Supported levels are "debug", "info", "warn" and "error". Values are
// case-insensitive.
func SetLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		levelVar.Set(slog.LevelInfo)
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "warn", "warning":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}

// SetFormat switches the global logger between logfmt ("text") and "json"
// output.
func SetFormat(value string) error {
	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "text", "logfmt":
		h = newHandler(output)
	case "json":
		h = newJSONHandler(output)
	default:
		return fmt.Errorf("unknown log format: %s", value)
	}
	ReplaceLogger(slog.New(h))
	return nil
}

// Logger returns the underlying slog.Logger instance.
func Logger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// ReplaceLogger installs a custom slog.Logger.
func ReplaceLogger(l *slog.Logger) {
	if l == nil {
		panic("log: nil logger provided")
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// WithRequestID returns a context whose log lines carry the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(withContext(ctx), requestIDKey, id)
}

// RequestID extracts the request id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Info logs a message at the info level using the global logger.
func Info(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelInfo, msg, args)
}

// Debug logs a message at the debug level using the global logger.
func Debug(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelDebug, msg, args)
}

// Warn logs a message at the warn level using the global logger.
func Warn(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelWarn, msg, args)
}

// Error logs a message at the error level using the global logger.
func Error(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelError, msg, args)
}

func log(ctx context.Context, level slog.Level, msg string, args []any) {
	ctx = withContext(ctx)
	l := Logger()
	if !l.Enabled(ctx, level) {
		return
	}
	if id := RequestID(ctx); id != "" {
		args = append([]any{"requestID", id}, args...)
	}
	l.Log(ctx, level, msg, args...)
}

func withContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
