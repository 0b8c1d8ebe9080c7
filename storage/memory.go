package storage

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Op names a storage primitive for fault injection and call accounting
type Op string

const (
	OpExists          Op = "exists"
	OpCreateDirectory Op = "create_directory"
	OpAppend          Op = "append"
	OpReadAll         Op = "read_all"
	OpDelete          Op = "delete"
	OpList            Op = "list"
	OpSize            Op = "size"
)

// FaultFunc decides whether a call on path fails
type FaultFunc func(path string) error

type memFile struct {
	data    []byte
	modTime time.Time
}

// Memory is an in-process backend. It counts calls per primitive and can
// fail any of them on demand, which makes it the backend of choice for
// exercising the engine's failure policy.
type Memory struct {
	mu      sync.Mutex
	files   map[string]*memFile
	dirs    map[string]bool
	faults  map[Op]FaultFunc
	calls   map[Op]int
	dataDir string
}

// NewMemory creates an empty in-memory backend rooted at "/data"
func NewMemory() *Memory {
	return &Memory{
		files:   make(map[string]*memFile),
		dirs:    map[string]bool{"/": true},
		faults:  make(map[Op]FaultFunc),
		calls:   make(map[Op]int),
		dataDir: "/data",
	}
}

// InjectFault installs fn for op, nil removes it
func (m *Memory) InjectFault(op Op, fn FaultFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fn == nil {
		delete(m.faults, op)
		return
	}
	m.faults[op] = fn
}

// Calls returns how many times op was invoked
func (m *Memory) Calls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// TotalCalls returns the number of primitive invocations of any kind
func (m *Memory) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// ResetCalls zeroes the call counters
func (m *Memory) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make(map[Op]int)
}

// WriteFile seeds a file, creating its directory, without call accounting
func (m *Memory) WriteFile(path string, data []byte, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.mkdirAll(filepath.Dir(path))
	m.files[path] = &memFile{data: append([]byte(nil), data...), modTime: modTime}
}

// Paths returns every file path held, sorted
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// enter records the call and evaluates an injected fault, mu must be held
func (m *Memory) enter(op Op, path string) error {
	m.calls[op]++
	if fn, ok := m.faults[op]; ok {
		if err := fn(path); err != nil {
			return errors.Wrapf(err, "%s '%s'", op, path)
		}
	}
	return nil
}

func (m *Memory) mkdirAll(dir string) {
	for {
		m.dirs[dir] = true
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// Exists reports whether a file or directory is held at path
func (m *Memory) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.enter(OpExists, path); err != nil {
		return false, err
	}
	_, isFile := m.files[path]
	return isFile || m.dirs[path], nil
}

// CreateDirectory registers path and its parents
func (m *Memory) CreateDirectory(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.enter(OpCreateDirectory, path); err != nil {
		return err
	}
	if _, isFile := m.files[path]; isFile {
		return errors.Errorf("create directory '%s': a file exists at that path", path)
	}
	m.mkdirAll(path)
	return nil
}

// Append appends to path, its directory must exist
func (m *Memory) Append(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.enter(OpAppend, path); err != nil {
		return err
	}
	if !m.dirs[filepath.Dir(path)] {
		return errors.Wrapf(os.ErrNotExist, "append '%s': directory missing", path)
	}
	f, ok := m.files[path]
	if !ok {
		f = &memFile{}
		m.files[path] = f
	}
	f.data = append(f.data, data...)
	f.modTime = time.Now()
	return nil
}

// ReadAll returns a copy of the file content
func (m *Memory) ReadAll(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.enter(OpReadAll, path); err != nil {
		return nil, err
	}
	f, ok := m.files[path]
	if !ok {
		return nil, errors.Wrapf(os.ErrNotExist, "read '%s'", path)
	}
	return append([]byte(nil), f.data...), nil
}

// Delete drops the file, a missing file is not an error
func (m *Memory) Delete(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.enter(OpDelete, path); err != nil {
		return err
	}
	delete(m.files, path)
	return nil
}

// List returns files and immediate subdirectories of dir sorted by name
func (m *Memory) List(dir string) ([]FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir = filepath.Clean(dir)
	if err := m.enter(OpList, dir); err != nil {
		return nil, err
	}
	if !m.dirs[dir] {
		return nil, errors.Wrapf(os.ErrNotExist, "list '%s'", dir)
	}

	var infos []FileInfo
	for p, f := range m.files {
		if filepath.Dir(p) != dir {
			continue
		}
		infos = append(infos, FileInfo{
			Name:    filepath.Base(p),
			Path:    p,
			Size:    int64(len(f.data)),
			ModTime: f.modTime,
		})
	}
	for d := range m.dirs {
		if d != dir && filepath.Dir(d) == dir {
			infos = append(infos, FileInfo{Name: filepath.Base(d), Path: d, IsDir: true})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Size returns the file length, 0 for a missing file
func (m *Memory) Size(path string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.enter(OpSize, path); err != nil {
		return 0, err
	}
	if f, ok := m.files[path]; ok {
		return int64(len(f.data)), nil
	}
	return 0, nil
}

// DataDirectory returns the configured virtual data root
func (m *Memory) DataDirectory() (string, error) {
	return m.dataDir, nil
}

// DeviceInfo describes the virtual device
func (m *Memory) DeviceInfo() (DeviceInfo, error) {
	return DeviceInfo{Platform: "memory", Model: "virtual", Version: "1"}, nil
}
