// file: internal/logger/logger.go
// version: 2.0.0
// guid: 1d2e3f4a-5b6c-7d8e-9f0a-1b2c3d4e5f6a

// Package logger provides the leveled logger shared by every component.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	default:
		return "error"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a level;
// anything else is InfoLevel.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger writes leveled, structured messages. Key/value pairs follow the
// message: log.Info("Linked file", "src", a, "dst", b).
type Logger struct {
	minLevel LogLevel
	zl       zerolog.Logger
	file     *os.File
}

// NewLogger creates a logger writing JSON lines to w.
func NewLogger(minLevel LogLevel, w io.Writer) *Logger {
	return &Logger{
		minLevel: minLevel,
		zl:       zerolog.New(w).Level(minLevel.zerolog()).With().Timestamp().Logger(),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{minLevel: ErrorLevel, zl: zerolog.Nop()}
}

// Options configures New.
type Options struct {
	Level   LogLevel
	Console io.Writer // human-readable output; nil disables it
	File    string    // JSON log file; empty disables it
}

// New builds a logger with a console writer and an optional JSON file sink.
// The file always records debug messages; the console honors Level.
func New(opts Options) (*Logger, error) {
	var writers []io.Writer
	if opts.Console != nil {
		console := zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.TimeOnly}
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: console},
			Level:  opts.Level.zerolog(),
		})
	}

	var file *os.File
	minLevel := opts.Level
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
		minLevel = DebugLevel
	}

	if len(writers) == 0 {
		return Nop(), nil
	}
	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(minLevel.zerolog()).
		With().Timestamp().Logger()
	return &Logger{minLevel: minLevel, zl: zl, file: file}, nil
}

// With returns a child logger that adds kv to every message.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{minLevel: l.minLevel, zl: l.zl.With().Fields(kv).Logger()}
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level LogLevel) bool { return level >= l.minLevel }

func (l *Logger) Debug(msg string, kv ...any) { l.log(l.zl.Debug(), msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.log(l.zl.Info(), msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.log(l.zl.Warn(), msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.log(l.zl.Error(), msg, kv) }

func (l *Logger) log(e *zerolog.Event, msg string, kv []any) {
	if e == nil {
		return
	}
	if len(kv) > 0 {
		e = e.Fields(kv)
	}
	e.Msg(msg)
}

// Close flushes and closes the file sink, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
