package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Options configures a Logger.
type Options struct {
	// Console receives every log line. Defaults to os.Stdout.
	Console io.Writer

	// FilePath, when non-empty, names a file that also receives every log
	// line. The file is truncated on open. An open failure is reported to
	// Errors and the logger continues console-only.
	FilePath string

	// Errors receives operational complaints from the logger itself.
	// Defaults to os.Stderr.
	Errors io.Writer

	// Enabled sets the initial toggle state.
	Enabled bool
}

// Logger is a leveled, toggleable diagnostic logger.
// Safe for concurrent use; Toggle is atomic.
type Logger struct {
	slog    *slog.Logger
	enabled atomic.Bool
	file    *os.File
}

// New creates a Logger from opts.
func New(opts Options) *Logger {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	errW := opts.Errors
	if errW == nil {
		errW = os.Stderr
	}

	out := console
	var file *os.File
	if opts.FilePath != "" {
		f, err := os.Create(opts.FilePath)
		if err != nil {
			// Non-fatal: keep logging to the console.
			fmt.Fprintf(errW, "Failed to open log file: %v\n", err)
		} else {
			file = f
			out = io.MultiWriter(console, f)
		}
	}

	l := &Logger{
		slog: slog.New(newLineHandler(out)),
		file: file,
	}
	l.enabled.Store(opts.Enabled)
	return l
}

// Nop returns a permanently disabled logger, for callers that require a
// Logger but want no output.
func Nop() *Logger {
	return &Logger{slog: slog.New(newLineHandler(io.Discard))}
}

// Info logs at INFO level. Extra args are slog key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	if l.enabled.Load() {
		l.slog.Info(msg, args...)
	}
}

// Warning logs at WARNING level.
func (l *Logger) Warning(msg string, args ...any) {
	if l.enabled.Load() {
		l.slog.Warn(msg, args...)
	}
}

// Error logs at ERROR level.
func (l *Logger) Error(msg string, args ...any) {
	if l.enabled.Load() {
		l.slog.Error(msg, args...)
	}
}

// Toggle flips the enabled state and returns the new state.
func (l *Logger) Toggle() bool {
	for {
		old := l.enabled.Load()
		if l.enabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Enabled returns the current toggle state.
func (l *Logger) Enabled() bool {
	return l.enabled.Load()
}

// Close flushes and closes the log file, if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
