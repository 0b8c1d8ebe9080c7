package filelog

import (
	"sync"
	"time"

	"github.com/lixenwraith/filelog/storage"
)

// Process-scoped instance for package-level functions
var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// Init creates the process-scoped logger. Calling it again before Shutdown is an error.
func Init(cfg *Config, store storage.Storage) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLogger != nil {
		return fmtErrorf("default logger already initialized")
	}
	l, err := New(cfg, store)
	if err != nil {
		return err
	}
	defaultLogger = l
	return nil
}

// Default returns the process-scoped logger, nil before Init
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Shutdown drains and releases the process-scoped logger, Init may be called again afterwards
func Shutdown(timeout ...time.Duration) error {
	defaultMu.Lock()
	l := defaultLogger
	defaultLogger = nil
	defaultMu.Unlock()

	if l == nil {
		return nil
	}
	return l.Shutdown(timeout...)
}

// Flush waits for pending entries of the process-scoped logger
func Flush(timeout time.Duration) error {
	l := Default()
	if l == nil {
		return fmtErrorf("default logger not initialized")
	}
	return l.Flush(timeout)
}

// Debug logs a message at debug level
func Debug(args ...any) {
	if l := Default(); l != nil {
		l.log(LevelDebug, 0, args...)
	}
}

// Log logs a message at the general log level
func Log(args ...any) {
	if l := Default(); l != nil {
		l.log(LevelLog, 0, args...)
	}
}

// Info logs a message at info level
func Info(args ...any) {
	if l := Default(); l != nil {
		l.log(LevelInfo, 0, args...)
	}
}

// Warn logs a message at warning level
func Warn(args ...any) {
	if l := Default(); l != nil {
		l.log(LevelWarn, 0, args...)
	}
}

// Error logs a message at error level
func Error(args ...any) {
	if l := Default(); l != nil {
		l.log(LevelError, 0, args...)
	}
}
