// Package storage defines the path-based I/O boundary used by the filelog
// engine and provides the concrete backends that serve it.
//
// The engine talks to exactly one Storage chosen at construction time. A
// backend holds no logger state; every method is a stateless primitive.
package storage

import (
	"time"
)

// FileInfo describes one directory entry as reported by List
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// DeviceInfo carries host metadata a backend may expose
type DeviceInfo struct {
	Platform   string `json:"platform"`
	Model      string `json:"model"`
	Version    string `json:"version"`
	Identifier string `json:"identifier,omitempty"`
	CPUs       int    `json:"cpus,omitempty"`
}

// Storage is the set of primitives the engine consumes.
// Every method may fail and callers treat each failure as recoverable.
type Storage interface {
	// Exists reports whether a file or directory exists at path
	Exists(path string) (bool, error)
	// CreateDirectory creates path and any missing parents
	CreateDirectory(path string) error
	// Append appends data to the file at path, creating it if missing
	Append(path string, data []byte) error
	// ReadAll returns the entire content of the file at path
	ReadAll(path string) ([]byte, error)
	// Delete removes the file at path, a missing file is not an error
	Delete(path string) error
	// List returns the entries of directory dir
	List(dir string) ([]FileInfo, error)
	// Size returns the size of the file at path, 0 if it does not exist
	Size(path string) (int64, error)
	// DataDirectory returns the platform user-data directory
	DataDirectory() (string, error)
}

// DeviceInfoProvider is implemented by backends that can describe the host
type DeviceInfoProvider interface {
	DeviceInfo() (DeviceInfo, error)
}

// Locker is implemented by backends that can take an advisory lock on a
// log directory. The returned function releases the lock.
type Locker interface {
	Lock(dir string) (unlock func() error, err error)
}
