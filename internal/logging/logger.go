package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogFileName is the name of the log file inside Options.Dir.
const LogFileName = "surfacemail.log"

// Options configures NewLogger.
type Options struct {
	// Dir is the directory the log file is written to. Empty means stderr.
	Dir string
	// Level is one of LevelDebug, LevelInfo, LevelWarn, LevelError
	// (case-insensitive). Unknown values mean LevelInfo.
	Level string
	// Rotation controls size-based rotation of the log file.
	Rotation RotationConfig
}

// Logger provides structured logging with persistent attributes.
// It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	out    *RotatingWriter
}

// NewLogger creates a Logger that writes JSON lines to Dir/surfacemail.log,
// or to stderr when Dir is empty.
func NewLogger(opts Options) (*Logger, error) {
	var writer io.Writer = os.Stderr
	var out *RotatingWriter

	if opts.Dir != "" {
		rw, err := NewRotatingWriter(filepath.Join(opts.Dir, LogFileName), opts.Rotation)
		if err != nil {
			return nil, err
		}
		writer = rw
		out = rw
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
	})

	return &Logger{logger: slog.New(handler), out: out}, nil
}

// NewWithWriter creates a Logger writing JSON lines to w. Close is a no-op.
func NewWithWriter(w io.Writer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{logger: slog.New(handler)}
}

// parseLevel converts a string log level to slog.Level.
// Defaults to INFO if the level string is not recognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithSurface returns a child Logger tagging every entry with surface_id.
func (l *Logger) WithSurface(id uint64) *Logger {
	return l.With("surface_id", id)
}

// WithComponent returns a child Logger tagging every entry with component.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

// With returns a child Logger with arbitrary key-value attributes.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{logger: l.logger.With(args...), out: l.out}
}

// Debug logs a message at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info logs a message at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn logs a message at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error logs a message at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelError, msg, args...)
}

// Close flushes and closes the log file. Loggers writing to stderr or to a
// caller-supplied writer have nothing to close. Child loggers share the
// parent's file; close only the root.
func (l *Logger) Close() error {
	if l.out == nil {
		return nil
	}
	if err := l.out.Close(); err != nil {
		return fmt.Errorf("close log: %w", err)
	}
	return nil
}

// NopLogger returns a Logger that discards all log output.
func NopLogger() *Logger {
	return NewWithWriter(io.Discard, LevelError)
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
