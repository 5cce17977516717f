// Package logger is the process-wide structured logger of wpm.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
)

// Fields carries structured attributes of one log record.
type Fields map[string]interface{}

// OutputFormat selects the slog handler.
type OutputFormat string

const (
	// FormatText writes key=value lines.
	FormatText OutputFormat = "text"
	// FormatJSON writes one JSON object per line.
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat maps a configuration value to an OutputFormat. Unknown
// values fall back to text.
func ParseOutputFormat(s string) OutputFormat {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}

var (
	mu      sync.Mutex
	logger  *slog.Logger
	level   = new(slog.LevelVar)
	format  = FormatText
	testOut io.Writer
)

// SetTestOutput redirects log records to w until UnsetTestOutput is called.
func SetTestOutput(w io.Writer) {
	mu.Lock()
	testOut = w
	mu.Unlock()
	SetOutputFormat(currentFormat())
}

// UnsetTestOutput restores stderr as the log destination.
func UnsetTestOutput() {
	mu.Lock()
	testOut = nil
	mu.Unlock()
	SetOutputFormat(currentFormat())
}

func currentFormat() OutputFormat {
	mu.Lock()
	defer mu.Unlock()
	return format
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger sets the level and the output format of the global logger.
func InitLogger(logLevel string, f OutputFormat) {
	level.Set(ParseLevel(logLevel))
	SetOutputFormat(f)
}

// SetOutputFormat replaces the handler while keeping the current level.
// Records go to stderr so that command output on stdout stays parseable.
func SetOutputFormat(f OutputFormat) {
	mu.Lock()
	defer mu.Unlock()

	var out io.Writer = os.Stderr
	if testOut != nil {
		out = testOut
	}
	opts := &slog.HandlerOptions{Level: level}

	format = f
	if f == FormatJSON {
		logger = slog.New(slog.NewJSONHandler(out, opts))
		return
	}
	logger = slog.New(slog.NewTextHandler(out, opts))
}

// GetLogger returns the global logger, creating an info level text logger
// on first use.
func GetLogger() *slog.Logger {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l != nil {
		return l
	}
	InitLogger("info", FormatText)
	return GetLogger()
}

// Enabled reports whether records at lvl are written.
func Enabled(lvl slog.Level) bool {
	return level.Level() <= lvl
}

func Debug(msg string, fields ...Fields) { GetLogger().Debug(msg, mergeFields(fields...)...) }

func Info(msg string, fields ...Fields) { GetLogger().Info(msg, mergeFields(fields...)...) }

func Warn(msg string, fields ...Fields) { GetLogger().Warn(msg, mergeFields(fields...)...) }

func Error(msg string, fields ...Fields) { GetLogger().Error(msg, mergeFields(fields...)...) }

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	GetLogger().Debug(fmt.Sprintf(format, args...))
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	GetLogger().Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	GetLogger().Warn(fmt.Sprintf(format, args...))
}

// Success logs an info record tagged status=success.
func Success(msg string, fields ...Fields) {
	attrs := append(mergeFields(fields...), "status", "success")
	GetLogger().Info(msg, attrs...)
}

// mergeFields flattens field maps into slog key-value pairs ordered by key.
// A key repeated in a later map overrides the earlier value.
func mergeFields(fields ...Fields) []interface{} {
	merged := make(Fields)
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		attrs = append(attrs, k, merged[k])
	}
	return attrs
}
