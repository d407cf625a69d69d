// Package log provides structured logging backed by zerolog.
//
// Two styles are supported. Library code holds a Logger obtained from
// GetLoggerWithName and logs with key/value pairs:
//
//	logger := log.GetLoggerWithName("linear").With(log.ModelNameKey, "LinearRegression")
//	logger.Info("Training started", log.SamplesKey, 100)
//
// Application code can reach the underlying zerolog logger directly:
//
//	log.GetLogger().Warn().Str("column", "corruption").Msg("coerced")
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the key/value logging interface used inside the module.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// LoggerProvider hands out named loggers sharing one sink and level.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level zerolog.Level)
}

var (
	mu       sync.RWMutex
	provider LoggerProvider = NewZerologProvider(zerolog.InfoLevel)
)

// ToLogLevel parses a level name. Unknown names map to info; "disabled"
// and "off" silence all output.
func ToLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// SetupLogger replaces the global provider with a console logger on stderr
// at the given level.
func SetupLogger(level string) {
	SetupLoggerWithWriter(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// SetupLoggerWithWriter is SetupLogger with an explicit sink. Tests use it
// to capture output.
func SetupLoggerWithWriter(level string, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	provider = newZerologProvider(ToLogLevel(level), w)
}

// SetProvider installs p as the global provider.
func SetProvider(p LoggerProvider) {
	mu.Lock()
	defer mu.Unlock()
	provider = p
}

// GetProvider returns the global provider.
func GetProvider() LoggerProvider {
	mu.RLock()
	defer mu.RUnlock()
	return provider
}

// GetLogger returns the zerolog logger behind the global provider.
func GetLogger() *zerolog.Logger {
	if zp, ok := GetProvider().(*ZerologProvider); ok {
		l := zp.base
		return &l
	}
	l := zerolog.Nop()
	return &l
}

// GetLoggerWithName returns a named Logger from the global provider.
func GetLoggerWithName(name string) Logger {
	return GetProvider().GetLoggerWithName(name)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string, fields ...interface{}) {
	ev := GetLogger().Error().Err(err)
	if len(fields) > 0 {
		ev = ev.Fields(fields)
	}
	ev.Msg(msg)
}

// ZerologProvider is the LoggerProvider implementation.
type ZerologProvider struct {
	base zerolog.Logger
}

// NewZerologProvider creates a provider that writes console output to stderr.
func NewZerologProvider(level zerolog.Level) *ZerologProvider {
	return newZerologProvider(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func newZerologProvider(level zerolog.Level, w io.Writer) *ZerologProvider {
	return &ZerologProvider{
		base: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// GetLogger implements LoggerProvider.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{l: p.base}
}

// GetLoggerWithName implements LoggerProvider.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{l: p.base.With().Str(LoggerNameKey, name).Logger()}
}

// SetLevel implements LoggerProvider.
func (p *ZerologProvider) SetLevel(level zerolog.Level) {
	p.base = p.base.Level(level)
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, fields ...interface{}) {
	emit(z.l.Debug(), msg, fields)
}

func (z *zerologLogger) Info(msg string, fields ...interface{}) {
	emit(z.l.Info(), msg, fields)
}

func (z *zerologLogger) Warn(msg string, fields ...interface{}) {
	emit(z.l.Warn(), msg, fields)
}

func (z *zerologLogger) Error(msg string, fields ...interface{}) {
	emit(z.l.Error(), msg, fields)
}

func (z *zerologLogger) With(fields ...interface{}) Logger {
	if len(fields) == 0 {
		return z
	}
	return &zerologLogger{l: z.l.With().Fields(fields).Logger()}
}

func emit(ev *zerolog.Event, msg string, fields []interface{}) {
	if ev == nil {
		return
	}
	if len(fields) > 0 {
		ev = ev.Fields(fields)
	}
	ev.Msg(msg)
}
