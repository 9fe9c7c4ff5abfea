package logging

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
)

// LogLevel is the minimum severity a logger emits
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = map[LogLevel]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel reads a LOG_LEVEL value case-insensitively. "WARNING" is accepted for
// WarnLevel and anything unrecognized yields InfoLevel.
func ParseLevel(s string) LogLevel {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "WARNING" {
		return WarnLevel
	}
	for level, name := range levelNames {
		if name == s {
			return level
		}
	}
	return InfoLevel
}

// Field is one structured key/value attached to a log entry
type Field struct {
	Key   string
	Value interface{}
}

// Logger is the structured logger handed to every component
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	WithFields(fields ...Field) Logger
	// WithContext adds the request id and player uuid carried by ctx, if any
	WithContext(ctx context.Context) Logger
	Named(name string) Logger
}

// LogConfig configures NewZapLogger. A nil Output writes to stdout and an empty
// TimeFormat means RFC 3339.
type LogConfig struct {
	Level      LogLevel
	Output     io.Writer
	TimeFormat string
	Prefix     string
}

type loggerRef struct{ Logger }

var global atomic.Pointer[loggerRef]

// SetGlobalLogger replaces the process-wide logger
func SetGlobalLogger(logger Logger) {
	global.Store(&loggerRef{logger})
}

// GetGlobalLogger returns the process-wide logger, creating a default one on first use
func GetGlobalLogger() Logger {
	if ref := global.Load(); ref != nil {
		return ref.Logger
	}
	global.CompareAndSwap(nil, &loggerRef{NewDefaultLogger()})
	return global.Load().Logger
}

// Info logs through the global logger
func Info(msg string, fields ...Field) {
	GetGlobalLogger().Info(msg, fields...)
}

// Error logs through the global logger
func Error(msg string, err error, fields ...Field) {
	GetGlobalLogger().Error(msg, err, fields...)
}
