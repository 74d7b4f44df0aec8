package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// FormatPretty is accepted as a synonym for "console".
const FormatPretty = "pretty"

// Logger is a zerolog logger that takes field maps.
type Logger struct {
	zl zerolog.Logger
}

// Init replaces the global logger. Components fetched through Get afterwards
// inherit its level and format.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	global.Store(New(&cfg, AppName))
}

// AppName tags JSON log lines.
const AppName = "podscribe"

// New builds a logger for the stdout/stderr output named in cfg.
func New(cfg *Config, service string) *Logger {
	var w io.Writer = os.Stderr
	if strings.EqualFold(cfg.Output, "stdout") {
		w = os.Stdout
	}
	return NewWithWriter(cfg, service, w)
}

// NewWithWriter builds a logger writing to w. Unknown levels mean info.
func NewWithWriter(cfg *Config, service string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var zc zerolog.Context
	switch strings.ToLower(cfg.Format) {
	case "console", FormatPretty:
		zc = zerolog.New(console(w, cfg.NoColor)).With()
	default:
		zc = zerolog.New(w).With().Str("service", service)
	}
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{zl: zc.Logger().Level(level)}
}

// Nop discards everything.
func Nop() *Logger { return &Logger{zl: zerolog.Nop()} }

type ctxKey int

const (
	runIDKey ctxKey = iota
	requestIDKey
)

// ContextWithRunID tags ctx with a pipeline run id.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// ContextWithRequestID tags ctx with an HTTP request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithContext adds the run id, request id and trace id found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zc := l.zl.With()
	if id := RunIDFromContext(ctx); id != "" {
		zc = zc.Str(FieldRunID, id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		zc = zc.Str(FieldRequestID, id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		zc = zc.Str(FieldTraceID, sc.TraceID().String())
	}
	return &Logger{zl: zc.Logger()}
}

// WithComponent tags every line with the component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str(FieldComponent, name).Logger()}
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{zl: l.zl.With().Err(err).Logger()}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) { emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]interface{})  { emit(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]interface{})  { emit(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]interface{}) { emit(l.zl.Error(), msg, fields) }

var global atomic.Pointer[Logger]

// GetGlobalLogger returns the logger set by Init, or an info-level console
// logger on stderr before Init runs.
func GetGlobalLogger() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	cfg := Config{}
	cfg.ApplyDefaults()
	global.CompareAndSwap(nil, New(&cfg, AppName))
	return global.Load()
}

// Info logs through the global logger.
func Info(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Info(msg, fields...)
}

func emit(e *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, m := range fields {
		for k, v := range m {
			e = e.Interface(k, v)
		}
	}
	e.Msg(msg)
}

var levelTags = map[string]struct{ tag, color string }{
	"trace": {"[TRC]", "\033[90m"},
	"debug": {"[DBG]", "\033[36m"},
	"info":  {"[INF]", "\033[32m"},
	"warn":  {"[WRN]", "\033[33m"},
	"error": {"[ERR]", "\033[31m"},
	"fatal": {"[FTL]", "\033[35m"},
}

func console(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			lvl := fmt.Sprint(i)
			t, ok := levelTags[lvl]
			switch {
			case !ok:
				return "[" + strings.ToUpper(lvl) + "]"
			case noColor:
				return t.tag
			}
			return t.color + t.tag + "\033[0m"
		},
		FormatFieldName: func(i interface{}) string { return fmt.Sprint(i) + ":" },
	}
}
