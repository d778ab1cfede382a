// Package errors provides error types and logging utilities for commitollama.
package errors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents the logging level.
type LogLevel int

const (
	// LogLevelError logs only errors.
	LogLevelError LogLevel = iota
	// LogLevelWarn logs warnings and errors.
	LogLevelWarn
	// LogLevelInfo logs info, warnings, and errors.
	LogLevelInfo
	// LogLevelDebug logs everything, including inference traffic.
	LogLevelDebug
)

// DefaultLogLevel is used until configuration or --verbose says otherwise.
const DefaultLogLevel = LogLevelWarn

// String returns the string representation of LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "ERROR"
	case LogLevelWarn:
		return "WARN"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel maps a log.level config value to a LogLevel. Matching is
// case-insensitive and "warning" is accepted for warn.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LogLevelError, nil
	case "warn", "warning", "":
		return LogLevelWarn, nil
	case "info":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return DefaultLogLevel, fmt.Errorf("unknown log level %q (want error, warn, info or debug)", s)
}

var levelColors = map[LogLevel]*color.Color{
	LogLevelError: color.New(color.FgRed, color.Bold),
	LogLevelWarn:  color.New(color.FgYellow),
	LogLevelInfo:  color.New(color.FgCyan),
	LogLevelDebug: color.New(color.FgHiBlack),
}

// Logger writes leveled, secret-masked lines. Safe for concurrent use; the
// summarization goroutines share the default logger.
type Logger struct {
	mu     sync.Mutex
	output io.Writer
	level  LogLevel
}

var defaultLogger = NewLogger(os.Stderr, DefaultLogLevel)

// NewLogger creates a logger that writes messages at or above level.
func NewLogger(output io.Writer, level LogLevel) *Logger {
	return &Logger{output: output, level: level}
}

// SetLevel changes the threshold of the logger.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current threshold.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level LogLevel) bool {
	return level <= l.Level()
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	message := SanitizeErrorMessage(fmt.Sprintf(format, args...))
	tag := levelColors[level].Sprintf("%-5s", level.String())

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.output, "%s %s %s\n", time.Now().Format("15:04:05"), tag, message)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LogLevelError, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LogLevelWarn, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LogLevelInfo, format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LogLevelDebug, format, args...)
}

// LogInferenceRequest traces one chat call at debug level.
func (l *Logger) LogInferenceRequest(provider, endpoint, model string, promptChars int) {
	l.Debug("inference request: provider=%s endpoint=%s model=%s prompt_chars=%d",
		provider, endpoint, model, promptChars)
}

// LogInferenceResponse traces the reply to one chat call at debug level.
func (l *Logger) LogInferenceResponse(provider string, statusCode int, replyChars int, duration time.Duration) {
	l.Debug("inference response: provider=%s status=%d reply_chars=%d took=%s",
		provider, statusCode, replyChars, duration.Round(time.Millisecond))
}

// SetVerbose switches the default logger to debug, or back to the default level.
func SetVerbose(verbose bool) {
	if verbose {
		defaultLogger.SetLevel(LogLevelDebug)
	} else {
		defaultLogger.SetLevel(DefaultLogLevel)
	}
}

// IsVerbose reports whether the default logger writes debug lines.
func IsVerbose() bool {
	return defaultLogger.Enabled(LogLevelDebug)
}

// SetLevel changes the threshold of the default logger.
func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// SetOutput redirects the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.output = w
}

// Error logs an error message.
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }

// Warn logs a warning message.
func Warn(format string, args ...interface{}) { defaultLogger.Warn(format, args...) }

// Info logs an info message.
func Info(format string, args ...interface{}) { defaultLogger.Info(format, args...) }

// Debug logs a debug message.
func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }

// LogInferenceRequest traces one chat call on the default logger.
func LogInferenceRequest(provider, endpoint, model string, promptChars int) {
	defaultLogger.LogInferenceRequest(provider, endpoint, model, promptChars)
}

// LogInferenceResponse traces one chat reply on the default logger.
func LogInferenceResponse(provider string, statusCode int, replyChars int, duration time.Duration) {
	defaultLogger.LogInferenceResponse(provider, statusCode, replyChars, duration)
}

// MaskAPIKey masks an API key for safe logging, showing only the last 4 characters.
func MaskAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(apiKey)-4) + apiKey[len(apiKey)-4:]
}
