package filelog

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/lixenwraith/filelog/formatter"
	"github.com/lixenwraith/filelog/sanitizer"
	"github.com/lixenwraith/filelog/storage"
)

// Logger appends leveled entries to size-rotated files in one directory.
// Level methods never block on storage and never report errors to callers,
// a single processor goroutine performs every write in submission order.
type Logger struct {
	cfg       *Config // immutable after New
	store     storage.Storage
	state     State
	queue     queue
	admitMu   sync.RWMutex         // held for writing only while Shutdown closes admission
	formatter *formatter.Formatter // processor-owned
	onError   func(error)
	now       func() time.Time

	directory string
	unlock    func() error

	signal   chan struct{} // capacity 1, coalesces wakeups
	requests chan request  // flush and clear, served between records
	done     chan struct{} // closed by Shutdown
	exited   chan struct{} // closed when the processor returns
}

// New creates a started logger. A nil cfg uses DefaultConfig, a nil store
// uses the local filesystem. Build cfg from DefaultConfig to set booleans or
// debug level explicitly, zero fields of a Config literal take their defaults. An invalid configuration is the only error:
// an unusable directory leaves the logger running with writes disabled.
func New(cfg *Config, store storage.Storage) (*Logger, error) {
	return newLogger(cfg, store, nil, nil)
}

func newLogger(cfg *Config, store storage.Storage, onError func(error), now func() time.Time) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.Clone()
	if cfg.fromDefaults {
		cfg.applyDefaults()
	} else {
		cfg.applyLiteralDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmtErrorf("invalid configuration: %w", err)
	}

	if store == nil {
		store = storage.NewOS()
	}
	if now == nil {
		now = time.Now
	}

	san := sanitizer.New().Policy(sanitizer.PolicyPreset(cfg.Sanitization))
	l := &Logger{
		cfg:       cfg,
		store:     store,
		formatter: formatter.New(san),
		onError:   onError,
		now:       now,
		signal:    make(chan struct{}, 1),
		requests:  make(chan request),
		done:      make(chan struct{}),
		exited:    make(chan struct{}),
	}
	l.state.LoggerStartTime.Store(now())
	l.setActivePath("")

	l.initialize()

	l.state.ProcessorExited.Store(false)
	go l.processLogs()

	return l, nil
}

// initialize prepares the directory, the lock and the active file path
func (l *Logger) initialize() {
	dir, err := l.resolveDirectory()
	if err != nil {
		l.state.WriteDisabled.Store(true)
		l.internalLog("failed to resolve log directory, writes disabled: %w", err)
		return
	}
	l.directory = dir

	exists, err := l.store.Exists(dir)
	if err == nil && !exists {
		err = l.store.CreateDirectory(dir)
	}
	if err != nil {
		l.state.WriteDisabled.Store(true)
		l.internalLog("failed to create log directory '%s', writes disabled: %w", dir, err)
		return
	}

	if locker, ok := l.store.(storage.Locker); ok && l.cfg.LockDirectory {
		unlock, err := locker.Lock(dir)
		if err != nil {
			l.internalLog("warning - log directory '%s' not locked: %w", dir, err)
		} else {
			l.unlock = unlock
		}
	}

	files, listed := l.logFileSet()
	l.setActivePath(l.resumeLogFilePath(files, listed))
	l.cleanupOnStartup(files, listed)
}

func (l *Logger) resolveDirectory() (string, error) {
	if l.cfg.Directory != "" {
		return filepath.Clean(l.cfg.Directory), nil
	}
	base, err := l.store.DataDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, defaultDirName), nil
}

// Shutdown drains pending entries, stops the processor and releases the
// directory lock. Entries logged afterwards are ignored. If no timeout is
// provided a default of 2 seconds is used.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	l.admitMu.Lock()
	first := l.state.ShutdownCalled.CompareAndSwap(false, true)
	l.admitMu.Unlock()
	if !first {
		return nil
	}

	effectiveTimeout := defaultWaitTime
	if len(timeout) > 0 && timeout[0] > 0 {
		effectiveTimeout = timeout[0]
	}

	close(l.done)

	var finalErr error
	timer := time.NewTimer(effectiveTimeout)
	defer timer.Stop()
	select {
	case <-l.exited:
	case <-timer.C:
		finalErr = fmtErrorf("logger processor did not exit within timeout (%v)", effectiveTimeout)
	}

	if l.unlock != nil {
		if err := l.unlock(); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("failed to release directory lock: %w", err))
		}
		l.unlock = nil
	}

	return finalErr
}

// Flush waits until every entry submitted before the call is written
func (l *Logger) Flush(timeout time.Duration) error {
	if l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger already shut down")
	}
	if timeout <= 0 {
		timeout = defaultWaitTime
	}

	req := request{kind: requestFlush, done: make(chan struct{})}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case l.requests <- req:
	case <-l.exited:
		return fmtErrorf("logger already shut down")
	case <-timer.C:
		return fmtErrorf("failed to send flush request to processor within %v", timeout)
	}

	select {
	case <-req.done:
		return nil
	case <-timer.C:
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// Debug logs a message at debug level
func (l *Logger) Debug(args ...any) {
	l.log(LevelDebug, 0, args...)
}

// Log logs a message at the general log level
func (l *Logger) Log(args ...any) {
	l.log(LevelLog, 0, args...)
}

// Info logs a message at info level
func (l *Logger) Info(args ...any) {
	l.log(LevelInfo, 0, args...)
}

// Warn logs a message at warning level
func (l *Logger) Warn(args ...any) {
	l.log(LevelWarn, 0, args...)
}

// Error logs a message at error level, with the call stack when configured
func (l *Logger) Error(args ...any) {
	l.log(LevelError, 0, args...)
}

// LogAt logs at an arbitrary level, skip drops extra wrapper frames from a captured stack
func (l *Logger) LogAt(level int64, skip int, args ...any) {
	l.log(level, skip, args...)
}

// Config returns a copy of the configuration in effect
func (l *Logger) Config() *Config {
	return l.cfg.Clone()
}

// Directory returns the resolved log directory, empty when it could not be resolved
func (l *Logger) Directory() string {
	return l.directory
}

// ActiveFile returns the path currently receiving entries
func (l *Logger) ActiveFile() string {
	return l.activePath()
}
