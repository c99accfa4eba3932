// jsonlog.go - Structured logging for csv-drop.
//
// Text output in development, JSON when CSVDROP_LOG_FORMAT=json or
// CSVDROP_ENV=production. Entries are emitted through log/slog handlers.
package server

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"
)

// LogLevel represents the severity of a log entry
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ParseLogLevel maps a config string to a level, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch LogLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LogLevelDebug:
		return LogLevelDebug
	case LogLevelWarn:
		return LogLevelWarn
	case LogLevelError:
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger writes leveled entries with a flat field map.
type Logger struct {
	handler slog.Handler
}

// DefaultLogger is the global logger instance
var DefaultLogger = NewLogger(os.Stdout, LogLevelInfo, false)

// NewLogger builds a logger writing to w.
func NewLogger(w io.Writer, minLevel LogLevel, enableJSON bool) *Logger {
	opts := &slog.HandlerOptions{
		Level:     minLevel.slogLevel(),
		AddSource: true,
	}
	var h slog.Handler
	if enableJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &Logger{handler: h}
}

// ConfigureLogging replaces DefaultLogger from the logging settings.
func ConfigureLogging(format, level, env string) {
	enableJSON := format == "json" || env == "production"
	DefaultLogger = NewLogger(os.Stdout, ParseLogLevel(level), enableJSON)
}

// StdLogger adapts the logger for APIs that take a *log.Logger, such as
// http.Server.ErrorLog. Every line is written at level.
func (l *Logger) StdLogger(level LogLevel) *log.Logger {
	return slog.NewLogLogger(l.handler, level.slogLevel())
}

// log writes a log entry. skip=3 attributes the entry to the caller of
// Info/Warn/etc.
func (l *Logger) log(level LogLevel, msg string, fields map[string]any, err error) {
	ctx := context.Background()
	lvl := level.slogLevel()
	if !l.handler.Enabled(ctx, lvl) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	rec := slog.NewRecord(time.Now(), lvl, msg, pcs[0])

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rec.AddAttrs(slog.Any(k, fields[k]))
	}
	if err != nil {
		rec.AddAttrs(slog.String("error", err.Error()))
	}

	_ = l.handler.Handle(ctx, rec)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]any) {
	l.log(LogLevelDebug, msg, fields, nil)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]any) {
	l.log(LogLevelInfo, msg, fields, nil)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]any) {
	l.log(LogLevelWarn, msg, fields, nil)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]any, err error) {
	l.log(LogLevelError, msg, fields, err)
}

// Global logging functions

func Debug(msg string, fields map[string]any) {
	DefaultLogger.log(LogLevelDebug, msg, fields, nil)
}

func Info(msg string, fields map[string]any) {
	DefaultLogger.log(LogLevelInfo, msg, fields, nil)
}

func Warn(msg string, fields map[string]any) {
	DefaultLogger.log(LogLevelWarn, msg, fields, nil)
}

func Error(msg string, fields map[string]any, err error) {
	DefaultLogger.log(LogLevelError, msg, fields, err)
}
