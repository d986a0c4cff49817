package restclient

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logger receives structured debug output from the client. Arguments after
// the message are alternating key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SimpleLogger is a minimal console logger for development use.
type SimpleLogger struct {
	logger *log.Logger
}

// NewSimpleLogger creates a console logger writing via the standard log
// package.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{logger: log.Default()}
}

func (l *SimpleLogger) log(level, msg string, keysAndValues ...interface{}) {
	if len(keysAndValues) == 0 {
		l.logger.Printf("[%s] %s", level, msg)
		return
	}
	l.logger.Printf("[%s] %s %s", level, msg, formatKeyValues(keysAndValues))
}

func (l *SimpleLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log("DEBUG", msg, keysAndValues...)
}

func (l *SimpleLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log("INFO", msg, keysAndValues...)
}

func (l *SimpleLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log("WARN", msg, keysAndValues...)
}

func (l *SimpleLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log("ERROR", msg, keysAndValues...)
}

func formatKeyValues(keysAndValues []interface{}) string {
	out := ""
	for i := 0; i < len(keysAndValues); i += 2 {
		if i > 0 {
			out += " "
		}
		if i+1 < len(keysAndValues) {
			out += fmt.Sprintf("%v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			out += fmt.Sprintf("%v", keysAndValues[i])
		}
	}
	return out
}

// ZapLogger adapts a zap.SugaredLogger to the Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: logger.Sugar()}
}

func (l *ZapLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *ZapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *ZapLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *ZapLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// DebugConfig controls which client events are logged when debugging is
// enabled.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogCache     bool
	LogGate      bool
	RequestIDGen func() string
}

// DefaultDebugConfig enables all event categories and generates UUID
// request IDs.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogCache:     true,
		LogGate:      true,
		RequestIDGen: DefaultRequestIDGenerator,
	}
}

// DefaultRequestIDGenerator returns a random UUID string.
func DefaultRequestIDGenerator() string {
	return uuid.NewString()
}
