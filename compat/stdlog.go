package compat

import (
	"errors"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/lixenwraith/filelog"
)

// stdLogFrames is the depth of the standard logger's call chain above the caller
const stdLogFrames = 3

var (
	errAlreadyInstalled = errors.New("filelog/compat: standard logger redirect already installed")
	errNotInstalled     = errors.New("filelog/compat: standard logger redirect not installed")
)

// StdLogRedirect captures output of the standard library "log" package into
// a filelog.Logger. Install and Uninstall operate on a snapshot of the
// previous output, prefix and flags, so they restore exactly what was there.
type StdLogRedirect struct {
	logger *filelog.Logger
	level  int64
	tee    bool

	installMu sync.Mutex // serializes Install and Uninstall
	installed bool

	mu         sync.Mutex // guards the snapshot read by Write
	prevOut    io.Writer
	prevPrefix string
	prevFlags  int
}

// StdLogOption allows customizing redirect behavior
type StdLogOption func(*StdLogRedirect)

// WithStdLogLevel sets the level given to captured lines
func WithStdLogLevel(level int64) StdLogOption {
	return func(r *StdLogRedirect) {
		r.level = level
	}
}

// WithTee keeps writing captured lines to the previous output as well
func WithTee(enable bool) StdLogOption {
	return func(r *StdLogRedirect) {
		r.tee = enable
	}
}

// NewStdLogRedirect creates an uninstalled redirect
func NewStdLogRedirect(logger *filelog.Logger, opts ...StdLogOption) *StdLogRedirect {
	r := &StdLogRedirect{
		logger: logger,
		level:  filelog.LevelLog,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Install snapshots the standard logger and routes its output here.
// Timestamps come from filelog, so the standard flags are cleared.
func (r *StdLogRedirect) Install() error {
	r.installMu.Lock()
	defer r.installMu.Unlock()

	if r.installed {
		return errAlreadyInstalled
	}

	r.mu.Lock()
	r.prevOut = log.Writer()
	r.prevPrefix = log.Prefix()
	r.prevFlags = log.Flags()
	r.mu.Unlock()

	log.SetFlags(0)
	log.SetOutput(r)
	r.installed = true
	return nil
}

// Uninstall restores the snapshot taken by Install
func (r *StdLogRedirect) Uninstall() error {
	r.installMu.Lock()
	defer r.installMu.Unlock()

	if !r.installed {
		return errNotInstalled
	}

	r.mu.Lock()
	out, prefix, flags := r.prevOut, r.prevPrefix, r.prevFlags
	r.mu.Unlock()

	log.SetOutput(out)
	log.SetPrefix(prefix)
	log.SetFlags(flags)
	r.installed = false
	return nil
}

// Write receives one formatted line from the standard logger
func (r *StdLogRedirect) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	// Write <- (*log.Logger).output <- log.Printf and its siblings
	r.logger.LogAt(r.level, stdLogFrames, msg)

	if r.tee {
		r.mu.Lock()
		out := r.prevOut
		r.mu.Unlock()
		if out != nil {
			if _, err := out.Write(p); err != nil {
				return 0, err
			}
		}
	}
	return len(p), nil
}

// RedirectStdLog installs a redirect at level and returns the function that
// restores the standard logger's previous output, prefix and flags
func RedirectStdLog(logger *filelog.Logger, level int64) (restore func(), err error) {
	r := NewStdLogRedirect(logger, WithStdLogLevel(level))
	if err := r.Install(); err != nil {
		return nil, err
	}
	return func() { _ = r.Uninstall() }, nil
}
