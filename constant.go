package filelog

import (
	"time"
)

// Log level constants, a higher value is more severe
const (
	LevelDebug int64 = 0
	LevelLog   int64 = 1
	LevelInfo  int64 = 2
	LevelWarn  int64 = 3
	LevelError int64 = 4
)

// File naming
const (
	// Date segment of a log file name, always rendered in UTC
	dateLayout = "2006-01-02"
	// Subdirectory of the platform data directory used when no directory is configured
	defaultDirName = "logs"
	// Header written before each file in an export
	exportHeaderFormat = "\n=== %s ===\n"
)

// Stack capture
const (
	// captureStack -> log -> public level method
	stackSkip = 3
	// Upper bound for stack_depth
	maxStackDepth = 32
)

// Timers
const (
	// Default wait for Flush and Shutdown when none is given
	defaultWaitTime = 2 * time.Second
	// Size multiplier for KB, MB
	sizeMultiplier = 1024
)
