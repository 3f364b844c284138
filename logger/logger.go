package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger handles application logging. Messages go to a per-run file in the
// log directory and, when a console writer is set, to that writer as well.
type Logger struct {
	file    *os.File
	console io.Writer
	level   zap.AtomicLevel
	z       *zap.Logger
	mu      sync.Mutex
}

// NewLogger creates a new Logger instance. It discards everything until Init
// or SetConsole is called.
func NewLogger() *Logger {
	return &Logger{
		level: zap.NewAtomicLevelAt(zapcore.InfoLevel),
		z:     zap.NewNop(),
	}
}

// Init initializes the logging to a file in the specified directory
func (l *Logger) Init(logDir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		_ = l.z.Sync()
		l.file.Close()
		l.file = nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}

	dateStr := time.Now().Format("2006-01-02")
	pattern := filepath.Join(logDir, fmt.Sprintf("edachat_%s_*.log", dateStr))
	matches, _ := filepath.Glob(pattern)
	runCount := len(matches) + 1
	filename := filepath.Join(logDir, fmt.Sprintf("edachat_%s_%d.log", dateStr, runCount))

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.file = f
	l.rebuild()
	l.z.Info("App Started", zap.String("file", filename))
	return nil
}

// SetConsole mirrors log output to w using a human readable encoder.
// Passing nil turns console output off.
func (l *Logger) SetConsole(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
	l.rebuild()
}

// SetDebug toggles debug level output.
func (l *Logger) SetDebug(debug bool) {
	if debug {
		l.level.SetLevel(zapcore.DebugLevel)
		return
	}
	l.level.SetLevel(zapcore.InfoLevel)
}

// rebuild must be called with mu held.
func (l *Logger) rebuild() {
	var cores []zapcore.Core
	if l.file != nil {
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(l.file), l.level))
	}
	if l.console != nil {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(l.console), l.level))
	}
	if len(cores) == 0 {
		l.z = zap.NewNop()
		return
	}
	l.z = zap.New(zapcore.NewTee(cores...))
}

// Zap returns the structured logger. The returned value stays valid after
// Close but discards output.
func (l *Logger) Zap() *zap.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.z
}

// Func returns a plain message callback for services that log through a
// func(string).
func (l *Logger) Func() func(string) {
	return l.Log
}

// Log writes a message to the log file
func (l *Logger) Log(message string) {
	l.Zap().Info(message)
}

// Logf writes a formatted message to the log file
func (l *Logger) Logf(format string, args ...interface{}) {
	l.Zap().Info(fmt.Sprintf(format, args...))
}

// Close closes the log file
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.z.Info("Logging disabled or App stopped.")
		_ = l.z.Sync()
		l.file.Close()
		l.file = nil
		l.rebuild()
	}
}
