package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// LockFileName is the advisory lock file created inside a locked directory.
// The leading dot keeps it out of any prefix-matched log file set.
const LockFileName = ".filelog.lock"

// OS serves the primitives from the local filesystem
type OS struct {
	dirMode  os.FileMode
	fileMode os.FileMode
}

// NewOS creates a filesystem backend with 0755 directories and 0644 files
func NewOS() *OS {
	return &OS{dirMode: 0755, fileMode: 0644}
}

// Exists reports whether path exists
func (s *OS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "stat '%s'", path)
}

// CreateDirectory creates path and its parents
func (s *OS) CreateDirectory(path string) error {
	if err := os.MkdirAll(path, s.dirMode); err != nil {
		return errors.Wrapf(err, "create directory '%s'", path)
	}
	return nil
}

// Append opens path in append mode, writes data and closes the file
func (s *OS) Append(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, s.fileMode)
	if err != nil {
		return errors.Wrapf(err, "open '%s' for append", path)
	}
	n, err := f.Write(data)
	closeErr := f.Close()
	if err != nil {
		return errors.Wrapf(err, "append to '%s'", path)
	}
	if n < len(data) {
		return errors.Errorf("short write to '%s': %d of %d bytes", path, n, len(data))
	}
	if closeErr != nil {
		return errors.Wrapf(closeErr, "close '%s'", path)
	}
	return nil
}

// ReadAll reads the whole file
func (s *OS) ReadAll(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read '%s'", path)
	}
	return data, nil
}

// Delete removes the file, ignoring a missing one
func (s *OS) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete '%s'", path)
	}
	return nil
}

// List returns directory entries sorted by name
func (s *OS) List(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list '%s'", dir)
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		fi := FileInfo{
			Name:  entry.Name(),
			Path:  filepath.Join(dir, entry.Name()),
			IsDir: entry.IsDir(),
		}
		// Entry may vanish between ReadDir and Info
		if info, errInfo := entry.Info(); errInfo == nil {
			fi.Size = info.Size()
			fi.ModTime = info.ModTime()
		}
		infos = append(infos, fi)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Size returns the file size, 0 for a missing file
func (s *OS) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "stat '%s'", path)
	}
	return info.Size(), nil
}

// DataDirectory returns the per-user configuration/data directory
func (s *OS) DataDirectory() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve user data directory")
	}
	return dir, nil
}

// DeviceInfo describes the running host
func (s *OS) DeviceInfo() (DeviceInfo, error) {
	host, err := os.Hostname()
	if err != nil {
		return DeviceInfo{}, errors.Wrap(err, "resolve hostname")
	}
	return DeviceInfo{
		Platform:   runtime.GOOS,
		Model:      runtime.GOARCH,
		Version:    runtime.Version(),
		Identifier: host,
		CPUs:       runtime.NumCPU(),
	}, nil
}

// Lock takes a non-blocking exclusive advisory lock on dir
func (s *OS) Lock(dir string) (func() error, error) {
	fl := flock.New(filepath.Join(dir, LockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "lock directory '%s'", dir)
	}
	if !locked {
		return nil, errors.Errorf("directory '%s' is locked by another process", dir)
	}
	return fl.Unlock, nil
}
