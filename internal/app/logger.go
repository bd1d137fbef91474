package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Logger interface for app layer
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// LogLevel orders log messages by severity
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the lower-case level name
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	default:
		return "error"
	}
}

// LogLevelFromString converts a string to LogLevel, defaulting to warn
func LogLevelFromString(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "error":
		return LogLevelError
	default:
		return LogLevelWarn
	}
}

// LevelLogger writes "LEVEL: message" lines at or above a minimum level
type LevelLogger struct {
	mu       sync.RWMutex
	minLevel LogLevel
	output   io.Writer
}

// NewLevelLogger creates a logger with the specified minimum level
func NewLevelLogger(minLevel LogLevel, output io.Writer) *LevelLogger {
	if output == nil {
		output = os.Stderr
	}
	return &LevelLogger{minLevel: minLevel, output: output}
}

// SetLevel changes the minimum log level
func (l *LevelLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// Level returns the current minimum log level
func (l *LevelLogger) Level() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.minLevel
}

func (l *LevelLogger) Debug(format string, args ...interface{}) {
	l.log(LogLevelDebug, "DEBUG", format, args...)
}

func (l *LevelLogger) Info(format string, args ...interface{}) {
	l.log(LogLevelInfo, "INFO", format, args...)
}

func (l *LevelLogger) Warn(format string, args ...interface{}) {
	l.log(LogLevelWarn, "WARN", format, args...)
}

func (l *LevelLogger) Error(format string, args ...interface{}) {
	l.log(LogLevelError, "ERROR", format, args...)
}

func (l *LevelLogger) log(level LogLevel, prefix string, format string, args ...interface{}) {
	l.mu.RLock()
	minLevel := l.minLevel
	output := l.output
	l.mu.RUnlock()

	if level < minLevel {
		return
	}
	fmt.Fprintf(output, "%s: %s\n", prefix, fmt.Sprintf(format, args...))
}

var (
	loggerMu     sync.RWMutex
	globalLogger Logger = NewLevelLogger(LogLevelWarn, os.Stderr)
)

// SetLogger sets the global logger for app layer
func SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	globalLogger = logger
}

// GetLogger returns the current logger
func GetLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}
