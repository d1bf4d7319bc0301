package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var levelColors = map[LogLevel]string{
	DEBUG: "\033[36m",       // Cyan
	INFO:  "\033[38;5;195m", // Pale Blue
	WARN:  "\033[33m",       // Yellow
	ERROR: "\033[31m",       // Red
	FATAL: "\033[35m",       // Magenta
}

const colorReset = "\033[0m"

// String returns the string representation of the log level
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// Color returns ANSI color codes for terminal output
func (l LogLevel) Color() string {
	if color, ok := levelColors[l]; ok {
		return color
	}
	return colorReset
}

// ParseLevel converts a string level to LogLevel, defaulting to INFO
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

// Config holds logger configuration options
type Config struct {
	Level       string // "debug", "info", "warn", "error", "fatal"
	Output      io.Writer
	Prefix      string
	EnableColor bool
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Output:      os.Stdout,
		EnableColor: true,
	}
}

// Logger is a leveled logger with an optional component prefix and
// key/value fields appended to every line.
type Logger struct {
	mu          *sync.RWMutex
	level       *LogLevel
	prefix      string
	fields      map[string]interface{}
	enableColor bool
	out         *log.Logger
	exit        func(int)
}

// New creates a new Logger instance
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	level := ParseLevel(config.Level)
	return &Logger{
		mu:          &sync.RWMutex{},
		level:       &level,
		prefix:      config.Prefix,
		enableColor: config.EnableColor,
		out:         log.New(config.Output, "", 0),
		exit:        os.Exit,
	}
}

// NewDefault creates a logger with default configuration
func NewDefault() *Logger {
	return New(DefaultConfig())
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.level = level
}

// SetOutput sets the output destination
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.SetOutput(w)
}

// IsLevelEnabled checks if the given level is enabled
func (l *Logger) IsLevelEnabled(level LogLevel) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= *l.level
}

// WithPrefix returns a child logger; nested prefixes are joined with ":"
func (l *Logger) WithPrefix(prefix string) *Logger {
	child := l.clone()
	if l.prefix != "" {
		child.prefix = l.prefix + ":" + prefix
	} else {
		child.prefix = prefix
	}
	return child
}

// WithField returns a child logger that appends key=value to every line
func (l *Logger) WithField(key string, value interface{}) *Logger {
	child := l.clone()
	child.fields[key] = value
	return child
}

// WithFields is WithField for several pairs at once
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	child := l.clone()
	for k, v := range fields {
		child.fields[k] = v
	}
	return child
}

func (l *Logger) clone() *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}

	// Children share the parent's lock, level and writer, so SetLevel and
	// SetOutput on any of them are seen by the whole tree.
	return &Logger{
		mu:          l.mu,
		level:       l.level,
		prefix:      l.prefix,
		fields:      fields,
		enableColor: l.enableColor,
		out:         l.out,
		exit:        l.exit,
	}
}

func (l *Logger) format(level LogLevel, message string) string {
	var b strings.Builder

	if l.enableColor {
		b.WriteString(level.Color())
	}
	fmt.Fprintf(&b, "%-5s %s ", level.String(), time.Now().Format("2006-01-02 15:04:05.000"))
	if l.prefix != "" {
		fmt.Fprintf(&b, "%-30s", "["+l.prefix+"] ")
	}
	b.WriteString(message)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
		}
	}

	if l.enableColor {
		b.WriteString(colorReset)
	}
	return b.String()
}

func (l *Logger) emit(level LogLevel, message string) {
	if !l.IsLevelEnabled(level) {
		return
	}

	l.mu.RLock()
	line := l.format(level, message)
	l.out.Print(line)
	l.mu.RUnlock()

	if level == FATAL {
		l.exit(1)
	}
}

// Debug logs a message at DEBUG level
func (l *Logger) Debug(args ...interface{}) { l.emit(DEBUG, fmt.Sprint(args...)) }

// Debugf logs a formatted message at DEBUG level
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.emit(DEBUG, fmt.Sprintf(format, args...))
}

// Info logs a message at INFO level
func (l *Logger) Info(args ...interface{}) { l.emit(INFO, fmt.Sprint(args...)) }

// Infof logs a formatted message at INFO level
func (l *Logger) Infof(format string, args ...interface{}) {
	l.emit(INFO, fmt.Sprintf(format, args...))
}

// Warn logs a message at WARN level
func (l *Logger) Warn(args ...interface{}) { l.emit(WARN, fmt.Sprint(args...)) }

// Warnf logs a formatted message at WARN level
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.emit(WARN, fmt.Sprintf(format, args...))
}

// Error logs a message at ERROR level
func (l *Logger) Error(args ...interface{}) { l.emit(ERROR, fmt.Sprint(args...)) }

// Errorf logs a formatted message at ERROR level
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.emit(ERROR, fmt.Sprintf(format, args...))
}

// Fatal logs a message at FATAL level and exits the program
func (l *Logger) Fatal(args ...interface{}) { l.emit(FATAL, fmt.Sprint(args...)) }

// Fatalf logs a formatted message at FATAL level and exits the program
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.emit(FATAL, fmt.Sprintf(format, args...))
}
