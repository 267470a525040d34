// Package logger provides the leveled logger used across the editor. Info
// output is plain text for the terminal; warnings and errors are prefixed;
// debug lines are shown only in verbose mode but always land in the file
// log when one is configured.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes leveled messages to the terminal and optionally to a file.
type Logger struct {
	Verbose bool

	mu      sync.Mutex
	writer  io.Writer
	file    *os.File
	quieted bool
}

// New creates a Logger writing to stdout.
func New(verbose bool) *Logger {
	return &Logger{Verbose: verbose, writer: os.Stdout}
}

// SetFileLog additionally appends every message, timestamped, to the file
// at path.
func (l *Logger) SetFileLog(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	l.file = f
	return nil
}

// Quiet suppresses terminal output while something else (the split progress
// bar) owns the line; file logging continues.
func (l *Logger) Quiet(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quieted = on
}

// Close closes the file log if open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Info logs informational messages without a level prefix.
func (l *Logger) Info(format string, args ...any) {
	l.emit("", l.writer, format, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(format string, args ...any) {
	l.emit("WARN", l.writer, format, args...)
}

// Error logs error messages to stderr.
func (l *Logger) Error(format string, args ...any) {
	l.emit("ERROR", os.Stderr, format, args...)
}

// Debug logs detail messages in verbose mode; with a file log configured
// they are recorded there even when not verbose.
func (l *Logger) Debug(format string, args ...any) {
	if !l.Verbose {
		l.mu.Lock()
		l.toFile("DEBUG", fmt.Sprintf(format, args...))
		l.mu.Unlock()
		return
	}
	l.emit("DEBUG", l.writer, format, args...)
}

func (l *Logger) emit(level string, w io.Writer, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	line := msg + "\n"
	if level != "" {
		line = "[" + level + "] " + line
	}

	if !l.quieted || level == "ERROR" {
		fmt.Fprint(w, line)
	}
	l.toFile(level, msg)
}

func (l *Logger) toFile(level, msg string) {
	if l.file == nil {
		return
	}
	if level == "" {
		level = "INFO"
	}
	fmt.Fprintf(l.file, "%s [%s] %s\n", time.Now().Format(time.RFC3339), level, msg)
}
