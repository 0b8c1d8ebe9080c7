package filelog

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/filelog/storage"
)

// GetLogs returns the content of the active file, empty when it does not
// exist or cannot be read
func (l *Logger) GetLogs() string {
	path := l.activePath()
	if path == "" {
		return ""
	}

	exists, err := l.store.Exists(path)
	if err != nil {
		l.internalLog("failed to check log file '%s': %w", path, err)
		return ""
	}
	if !exists {
		return ""
	}

	data, err := l.store.ReadAll(path)
	if err != nil {
		l.internalLog("failed to read log file '%s': %w", path, err)
		return ""
	}
	return string(data)
}

// GetLogFiles returns the names of all log files oldest first, empty when
// the directory is absent or cannot be listed
func (l *Logger) GetLogFiles() []string {
	files := l.existingLogFiles()
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return names
}

// ClearLogs deletes every log file once pending entries are written. The
// next entry starts a new file.
func (l *Logger) ClearLogs() {
	req := request{kind: requestClear, done: make(chan struct{})}
	select {
	case l.requests <- req:
		<-req.done
	case <-l.exited:
		// No processor left to race with
		l.clearLogFiles()
	}
}

// clearLogFiles runs on the processor, or inline once it has exited
func (l *Logger) clearLogFiles() {
	if l.directory == "" {
		return
	}
	files, listed := l.logFileSet()
	if listed {
		l.deleteLogFiles(files)
	}
	l.setActivePath(l.nextLogFilePath(nil))
}

// ExportLogs concatenates every log file oldest first, each preceded by a
// "=== name ===" header. Unreadable files contribute an empty block.
func (l *Logger) ExportLogs() string {
	var sb strings.Builder
	for _, f := range l.existingLogFiles() {
		data, err := l.store.ReadAll(f.Path)
		if err != nil {
			l.internalLog("failed to read log file '%s' for export: %w", f.Path, err)
			data = nil
		}
		fmt.Fprintf(&sb, exportHeaderFormat, f.Name)
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// existingLogFiles lists the matching set, a missing directory is not reported
func (l *Logger) existingLogFiles() []storage.FileInfo {
	if l.directory == "" {
		return nil
	}
	exists, err := l.store.Exists(l.directory)
	if err != nil || !exists {
		return nil
	}
	files, _ := l.logFileSet()
	return files
}

// DeviceInfo describes the host when the storage backend can provide it
func (l *Logger) DeviceInfo() (storage.DeviceInfo, error) {
	provider, ok := l.store.(storage.DeviceInfoProvider)
	if !ok {
		return storage.DeviceInfo{}, fmtErrorf("storage backend does not provide device info")
	}
	info, err := provider.DeviceInfo()
	if err != nil {
		return storage.DeviceInfo{}, fmtErrorf("failed to read device info: %w", err)
	}
	return info, nil
}
