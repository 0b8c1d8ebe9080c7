package filelog

import (
	"sync/atomic"
	"time"
)

// State encapsulates the runtime state of the logger
type State struct {
	WriteDisabled   atomic.Bool // Directory could not be resolved or created
	ShutdownCalled  atomic.Bool
	ProcessorExited atomic.Bool // Tracks if the processor goroutine is running or has exited

	ActivePath      atomic.Value // stores string, path of the file receiving appends
	LoggerStartTime atomic.Value // stores time.Time for uptime calculation

	TotalLogsProcessed atomic.Uint64 // Entries appended
	DroppedLogs        atomic.Uint64 // Admitted entries lost to a storage failure
	TotalRotations     atomic.Uint64 // Active file switches caused by size
	TotalDeletions     atomic.Uint64 // Files removed by retention or clear
	InternalErrors     atomic.Uint64 // Diagnostics emitted
}

// Stats is a point-in-time snapshot of logger counters
type Stats struct {
	Processed      uint64        `json:"processed"`
	Dropped        uint64        `json:"dropped"`
	Rotations      uint64        `json:"rotations"`
	Deletions      uint64        `json:"deletions"`
	InternalErrors uint64        `json:"internal_errors"`
	Pending        int           `json:"pending"`
	ActiveFile     string        `json:"active_file"`
	WriteDisabled  bool          `json:"write_disabled"`
	Uptime         time.Duration `json:"uptime"`
}

// Stats returns the current counters
func (l *Logger) Stats() Stats {
	var uptime time.Duration
	if start, ok := l.state.LoggerStartTime.Load().(time.Time); ok {
		uptime = l.now().Sub(start)
	}
	return Stats{
		Processed:      l.state.TotalLogsProcessed.Load(),
		Dropped:        l.state.DroppedLogs.Load(),
		Rotations:      l.state.TotalRotations.Load(),
		Deletions:      l.state.TotalDeletions.Load(),
		InternalErrors: l.state.InternalErrors.Load(),
		Pending:        l.queue.len(),
		ActiveFile:     l.activePath(),
		WriteDisabled:  l.state.WriteDisabled.Load(),
		Uptime:         uptime,
	}
}

// activePath returns the file currently receiving appends
func (l *Logger) activePath() string {
	if p, ok := l.state.ActivePath.Load().(string); ok {
		return p
	}
	return ""
}

// setActivePath replaces the active file, only the processor and startup call it
func (l *Logger) setActivePath(path string) {
	l.state.ActivePath.Store(path)
}
