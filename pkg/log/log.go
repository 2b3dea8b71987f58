// Package log provides structured logging for creditprep on top of zerolog.
//
// Components log through the small Logger interface with alternating
// key/value pairs, so estimators stay decoupled from the concrete backend:
//
//	logger := log.GetLoggerWithName("impute").With(log.ComponentKey, "Imputer")
//	logger.Info("Fit completed", log.SamplesKey, rows, log.DurationMsKey, ms)
//
// Programs configure the process-wide backend once with SetupLogger.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Well-known field keys.
const (
	ComponentKey  = "component"
	ModelNameKey  = "model_name"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	FeatureKey    = "feature"
	StrategyKey   = "strategy"
	ColumnKey     = "column"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	FlaggedKey    = "flagged"
	DurationMsKey = "duration_ms"
	FitIDKey      = "fit_id"
	PathKey       = "path"
	StepKey       = "step"
)

// Operation and phase values.
const (
	OperationFit       = "fit"
	OperationTransform = "transform"
	OperationLoad      = "load"
	OperationWrite     = "write"

	PhaseTraining  = "training"
	PhaseInference = "inference"
)

// Logger is the logging interface used by every component.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// LoggerProvider hands out named loggers sharing one backend.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
}

type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger returns a Logger writing JSON lines to w at the given level.
func NewZerologLogger(w io.Writer, level zerolog.Level) Logger {
	return &zerologLogger{zl: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

func (l *zerologLogger) Debug(msg string, fields ...interface{}) {
	l.event(l.zl.Debug(), fields).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields ...interface{}) {
	l.event(l.zl.Info(), fields).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields ...interface{}) {
	l.event(l.zl.Warn(), fields).Msg(msg)
}

// Error logs at error level. A leading error value in fields is attached with Err.
func (l *zerologLogger) Error(msg string, fields ...interface{}) {
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			fields = fields[1:]
		}
	}
	l.event(ev, fields).Msg(msg)
}

func (l *zerologLogger) With(fields ...interface{}) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		ctx = ctx.Interface(keyString(fields[i]), fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (l *zerologLogger) event(ev *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i < len(fields); i += 2 {
		key := keyString(fields[i])
		if i+1 >= len(fields) {
			ev = ev.Interface("extra", fields[i])
			break
		}
		switch v := fields[i+1].(type) {
		case string:
			ev = ev.Str(key, v)
		case int:
			ev = ev.Int(key, v)
		case int64:
			ev = ev.Int64(key, v)
		case float64:
			ev = ev.Float64(key, v)
		case bool:
			ev = ev.Bool(key, v)
		case []string:
			ev = ev.Strs(key, v)
		case time.Duration:
			ev = ev.Dur(key, v)
		case error:
			ev = ev.AnErr(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	return ev
}

func keyString(k interface{}) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (n nopLogger) With(...interface{}) Logger { return n }

type zerologProvider struct {
	base Logger
}

// NewZerologProvider returns a provider writing to stderr at level.
func NewZerologProvider(level zerolog.Level) LoggerProvider {
	return &zerologProvider{base: NewZerologLogger(os.Stderr, level)}
}

func (p *zerologProvider) GetLogger() Logger { return p.base }

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	return p.base.With("logger", name)
}

// ToLogLevel parses a level name, defaulting to info.
func ToLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

var (
	mu       sync.RWMutex
	global   = zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	provider LoggerProvider = &zerologProvider{base: &zerologLogger{zl: global}}
)

// SetupLogger configures the process-wide logger with a console writer.
func SetupLogger(level string) {
	SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, level)
}

// SetOutput configures the process-wide logger to write to w.
func SetOutput(w io.Writer, level string) {
	mu.Lock()
	defer mu.Unlock()
	global = zerolog.New(w).Level(ToLogLevel(level)).With().Timestamp().Logger()
	provider = &zerologProvider{base: &zerologLogger{zl: global}}
}

// GetLogger returns the process-wide zerolog logger.
func GetLogger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := global
	return &l
}

// GetLoggerWithName returns a named Logger from the process-wide provider.
func GetLoggerWithName(name string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	return provider.GetLoggerWithName(name)
}

// LogError logs err with its full chain at error level.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	GetLogger().Error().Err(err).Str("detail", fmt.Sprintf("%+v", err)).Msg(msg)
}
