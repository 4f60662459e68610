// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.trai.ch/owlcache/internal/core/ports"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// LevelEnv selects the log level: debug, info, warn, or error.
	LevelEnv = "RUSTOWL_LOG"

	// FileEnv mirrors log output into a rotating file when set.
	FileEnv = "RUSTOWL_LOG_FILE"
)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	mu     sync.RWMutex
	logger *slog.Logger
	level  slog.Level
}

// New creates a new Logger writing human-readable output to stderr, as
// cargo subcommands must keep stdout clean for their own protocol. The
// level comes from RUSTOWL_LOG and output is additionally mirrored into
// a rotating file when RUSTOWL_LOG_FILE is set.
func New() ports.Logger {
	level := parseLevel(os.Getenv(LevelEnv))

	var out io.Writer = os.Stderr
	if file := os.Getenv(FileEnv); file != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
	}

	return &Logger{
		logger: slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})),
		level:  level,
	}
}

// parseLevel maps a RUSTOWL_LOG value to a slog level, defaulting to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetOutput updates the logger's output destination, keeping the level.
// This is thread-safe and updates the underlying slog handler.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l.level}))
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error message.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error("operation failed", "error", err)
}
