package logger

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogFilePath is the default log file, relative to the working directory (project root when run via go run ./cmd/portal).
const LogFilePath = "logs/portal.txt"

// Level is the severity of a log line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "INFO"
}

// Logger stores lines in memory and appends them to a file on disk. Every line is prefixed with
// [timestamp], the level and, when set, a component tag such as "[REALITY PORTAL]".
type Logger struct {
	mu    *sync.Mutex
	lines *[]string
	path  string
	tag   string
}

// New returns a Logger writing to LogFilePath and ensures the logs directory exists.
func New() *Logger {
	return NewFile(LogFilePath)
}

// NewFile returns a Logger writing to path. An empty path keeps lines in memory only.
func NewFile(path string) *Logger {
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	lines := make([]string, 0)
	return &Logger{mu: &sync.Mutex{}, lines: &lines, path: path}
}

// Discard returns a Logger that only keeps lines in memory. Used by tests.
func Discard() *Logger {
	return NewFile("")
}

// With returns a Logger sharing storage with l whose lines carry tag.
func (l *Logger) With(tag string) *Logger {
	return &Logger{mu: l.mu, lines: l.lines, path: l.path, tag: tag}
}

// Log appends an info line.
func (l *Logger) Log(line string) {
	l.write(LevelInfo, line)
}

// Info is an alias of Log.
func (l *Logger) Info(line string) {
	l.write(LevelInfo, line)
}

// Warn appends a warning line.
func (l *Logger) Warn(line string) {
	l.write(LevelWarn, line)
}

// Error appends an error line.
func (l *Logger) Error(line string) {
	l.write(LevelError, line)
}

func (l *Logger) write(level Level, line string) {
	if l == nil {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05")
	stamped := "[" + ts + "] " + level.String() + " "
	if l.tag != "" {
		stamped += "[" + l.tag + "] "
	}
	stamped += line

	l.mu.Lock()
	*l.lines = append(*l.lines, stamped)
	l.mu.Unlock()

	if l.path == "" {
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(*l.lines))
	copy(out, *l.lines)
	return out
}
