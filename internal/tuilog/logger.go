// Package tuilog provides file-based logging for the timegraph tools.
// A terminal UI owns stdout/stderr while it runs, so everything goes to a
// log file chosen with --log; with no file configured logging is disabled.
package tuilog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level orders log messages by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel parses a level name such as "debug" or "WARN". Empty selects
// debug, which logs everything.
func ParseLevel(s string) (Level, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return LevelDebug, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelDebug, fmt.Errorf("unknown log level %q", s)
}

// Logger is a leveled key/value logger writing one line per message.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	file    *os.File
	enabled bool
	level   Level
}

var (
	// Log is the global logger instance.
	Log     = &Logger{}
	logOnce sync.Once
)

// Init opens path for appending and enables the global logger. An empty
// path leaves logging disabled.
func Init(path string) error {
	if path == "" {
		Log.mu.Lock()
		Log.enabled = false
		Log.mu.Unlock()
		return nil
	}

	var initErr error
	logOnce.Do(func() {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			initErr = fmt.Errorf("open log file: %w", err)
			return
		}
		Log.mu.Lock()
		Log.file = f
		Log.out = f
		Log.enabled = true
		Log.mu.Unlock()
		Log.Info("Logger initialized", "path", path)
	})
	return initErr
}

// New returns a logger writing to w, mainly for tests.
func New(w io.Writer, level Level) *Logger {
	return &Logger{out: w, enabled: w != nil, level: level}
}

// SetLevel drops messages below level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = false
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Enabled returns whether logging is active.
func (l *Logger) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// Writer returns the underlying io.Writer for use with other loggers.
func (l *Logger) Writer() io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || l.out == nil {
		return io.Discard
	}
	return l.out
}

func (l *Logger) log(level Level, msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || l.out == nil || level < l.level {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("15:04:05.000"))
	fmt.Fprintf(&b, " [%s] %s", level, msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	if len(keyvals)%2 == 1 {
		fmt.Fprintf(&b, " %v=<missing>", keyvals[len(keyvals)-1])
	}
	b.WriteByte('\n')

	io.WriteString(l.out, b.String())
	if l.file != nil {
		l.file.Sync()
	}
}

// Debug logs a debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, keyvals ...any) { l.log(LevelDebug, msg, keyvals...) }

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, keyvals ...any) { l.log(LevelInfo, msg, keyvals...) }

// Warn logs a warning message with optional key-value pairs.
func (l *Logger) Warn(msg string, keyvals ...any) { l.log(LevelWarn, msg, keyvals...) }

// Error logs an error message with optional key-value pairs.
func (l *Logger) Error(msg string, keyvals ...any) { l.log(LevelError, msg, keyvals...) }

// Timed logs the duration of an operation. Usage:
//
//	defer tuilog.Log.Timed("load forest")()
func (l *Logger) Timed(operation string) func() {
	if !l.Enabled() {
		return func() {}
	}
	start := time.Now()
	l.Debug(operation, "status", "started")
	return func() {
		l.Debug(operation, "status", "completed", "duration", time.Since(start))
	}
}
