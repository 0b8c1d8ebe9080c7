package filelog

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/filelog/formatter"
)

// logRecord is an admitted event with every value already rendered
type logRecord struct {
	TimeStamp time.Time
	Level     int64
	Message   string
	Args      string // JSON array of the arguments after the first, empty if none
	Stack     string
}

// log handles the core logging logic, skip counts extra wrapper frames above the level method
func (l *Logger) log(level int64, skip int, args ...any) {
	if !l.cfg.Enabled || !Admit(level, l.cfg.MinLevel) {
		return
	}
	if l.state.ShutdownCalled.Load() || l.state.WriteDisabled.Load() {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			l.internalLog("failed to render log record: %v", r)
		}
	}()

	record := logRecord{
		TimeStamp: l.now(),
		Level:     level,
		Message:   formatter.RenderMessage(args),
	}
	if len(args) > 1 {
		record.Args = formatter.RenderArgs(args[1:])
	}
	if level == LevelError && l.cfg.IncludeStackTrace {
		record.Stack = captureStack(stackSkip+skip, int(l.cfg.StackDepth))
	}

	l.submit(record)
}

// submit enqueues without blocking and wakes the processor. The admission
// read lock keeps the shutdown check and the push atomic against Shutdown,
// so every admitted record precedes the final drain.
func (l *Logger) submit(record logRecord) {
	l.admitMu.RLock()
	defer l.admitMu.RUnlock()
	if l.state.ShutdownCalled.Load() {
		return
	}

	l.queue.push(record)
	select {
	case l.signal <- struct{}{}:
	default:
		// A wakeup is already pending, the processor drains until empty
	}
}

// internalLog reports a logger diagnostic, never through the logger itself
func (l *Logger) internalLog(format string, args ...any) {
	l.state.InternalErrors.Add(1)
	err := fmtErrorf(format, args...)

	if l.onError != nil {
		l.onError(err)
	}
	if l.cfg.InternalErrorsToStderr {
		fmt.Fprintln(os.Stderr, err)
	}
}
