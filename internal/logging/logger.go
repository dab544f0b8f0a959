package logging

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kingrea/harpist/internal/config"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger appends timestamped lines to .harpist/logs/harpist.log so runs can
// be inspected after the terminal is gone.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	mirror  io.Writer
	verbose bool
	now     func() time.Time
}

// Option customizes a Logger.
type Option func(*Logger)

// WithMirror copies every line to w as well, typically os.Stderr.
func WithMirror(w io.Writer) Option {
	return func(l *Logger) {
		l.mirror = w
	}
}

// WithVerbose enables DEBUG entries.
func WithVerbose(v bool) Option {
	return func(l *Logger) {
		l.verbose = v
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates (or reuses) the log file for the current project directory.
func New(projectDir string, opts ...Option) (*Logger, error) {
	return Open(filepath.Join(projectDir, config.HarpistDir, "logs", "harpist.log"), opts...)
}

// Open appends to the log file at path.
func Open(path string, opts ...Option) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	l := &Logger{file: f, path: path, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the file backing this logger.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.file.Close()
	l.file = nil
	return err
}

// Printf writes a single INFO line.
func (l *Logger) Printf(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Debug writes a DEBUG line when the logger is verbose.
func (l *Logger) Debug(format string, args ...any) {
	if l == nil || !l.verbose {
		return
	}
	l.Append(LevelDebug, fmt.Sprintf(format, args...))
}

// Info appends an informational entry.
func (l *Logger) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logger) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logger) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}

// Append writes a single entry.
func (l *Logger) Append(level Level, message string) {
	if l == nil || l.file == nil {
		return
	}
	line := fmt.Sprintf("[%s] %-5s %s\n",
		l.now().Format(time.RFC3339),
		string(level),
		strings.TrimRight(strings.TrimSpace(message), "\n"),
	)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	_, _ = l.file.WriteString(line)
	if l.mirror != nil {
		_, _ = io.WriteString(l.mirror, line)
	}
}

// Tail returns up to maxLines of the most recent entries.
func (l *Logger) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}
