package filelog

import (
	"time"

	"github.com/lixenwraith/filelog/storage"
)

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg     *Config
	store   storage.Storage
	onError func(error)
	clock   func() time.Time
	err     error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	return newLogger(b.cfg, b.store, b.onError, b.clock)
}

// Config merges a prepared configuration, replacing every value set so far.
func (b *Builder) Config(cfg *Config) *Builder {
	if cfg != nil {
		b.cfg = cfg.Clone()
	}
	return b
}

// Overrides applies "key=value" strings to the configuration.
func (b *Builder) Overrides(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.cfg.ApplyOverrides(overrides...)
	return b
}

// Storage sets the storage backend, the local filesystem by default.
func (b *Builder) Storage(store storage.Storage) *Builder {
	b.store = store
	return b
}

// OnInternalError registers a callback for logger diagnostics. It may be
// called from any goroutine.
func (b *Builder) OnInternalError(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// MinLevel sets the minimum admitted level.
func (b *Builder) MinLevel(level int64) *Builder {
	b.cfg.MinLevel = level
	return b
}

// MinLevelString sets the minimum admitted level from a string.
func (b *Builder) MinLevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.MinLevel = levelVal
	return b
}

// Enabled turns logging on or off entirely.
func (b *Builder) Enabled(enabled bool) *Builder {
	b.cfg.Enabled = enabled
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Prefix sets the file name prefix.
func (b *Builder) Prefix(prefix string) *Builder {
	b.cfg.Prefix = prefix
	return b
}

// Extension sets the file extension.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// MaxFileSize sets the rotation threshold in bytes.
func (b *Builder) MaxFileSize(size int64) *Builder {
	b.cfg.MaxFileSize = size
	return b
}

// MaxFileSizeKB sets the rotation threshold in KiB. Convenience.
func (b *Builder) MaxFileSizeKB(size int64) *Builder {
	b.cfg.MaxFileSize = size * sizeMultiplier
	return b
}

// MaxFiles sets how many log files are retained.
func (b *Builder) MaxFiles(n int64) *Builder {
	b.cfg.MaxFiles = n
	return b
}

// IncludeStackTrace toggles stack capture for error entries.
func (b *Builder) IncludeStackTrace(enable bool) *Builder {
	b.cfg.IncludeStackTrace = enable
	return b
}

// StackDepth sets the number of frames kept in a captured stack.
func (b *Builder) StackDepth(depth int64) *Builder {
	b.cfg.StackDepth = depth
	return b
}

// Sanitization sets the message sanitization policy.
func (b *Builder) Sanitization(policy string) *Builder {
	b.cfg.Sanitization = policy
	return b
}

// LockDirectory toggles the advisory directory lock.
func (b *Builder) LockDirectory(enable bool) *Builder {
	b.cfg.LockDirectory = enable
	return b
}

// InternalErrorsToStderr toggles writing diagnostics to stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// clockFunc replaces the time source, used by tests.
func (b *Builder) clockFunc(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// Example usage:
// logger, err := filelog.NewBuilder().
//
//	Directory("/var/lib/app/logs").
//	MinLevelString("info").
//	MaxFileSizeKB(512).
//	MaxFiles(3).
//	Build()
//
// if err == nil {
//
//	 defer logger.Shutdown()
//	 logger.Info("Logger initialized successfully")
//
// }
