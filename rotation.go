package filelog

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/filelog/storage"
)

// logFileName builds "<prefix>-YYYY-MM-DD[-n].<ext>", index 0 has no suffix
func logFileName(prefix, ext string, t time.Time, index int) string {
	name := prefix + "-" + t.UTC().Format(dateLayout)
	if index > 0 {
		name += "-" + strconv.Itoa(index)
	}
	return name + "." + ext
}

// parseLogFileName extracts the date and same-day index of a generated name
func parseLogFileName(name, prefix, ext string) (date time.Time, index int, ok bool) {
	rest, found := strings.CutPrefix(name, prefix+"-")
	if !found {
		return time.Time{}, 0, false
	}
	rest, found = strings.CutSuffix(rest, "."+ext)
	if !found || len(rest) < len(dateLayout) {
		return time.Time{}, 0, false
	}

	date, err := time.Parse(dateLayout, rest[:len(dateLayout)])
	if err != nil {
		return time.Time{}, 0, false
	}

	suffix := rest[len(dateLayout):]
	if suffix == "" {
		return date, 0, true
	}
	if suffix[0] != '-' {
		return time.Time{}, 0, false
	}
	index, err = strconv.Atoi(suffix[1:])
	if err != nil || index < 1 {
		return time.Time{}, 0, false
	}
	return date, index, true
}

// isLogFileName reports whether name belongs to this logger's matching set
func (l *Logger) isLogFileName(name string) bool {
	return strings.HasPrefix(name, l.cfg.Prefix+"-") && strings.HasSuffix(name, "."+l.cfg.Extension)
}

// sortLogFiles orders files oldest first by (date, index). Matching names
// that do not parse sort before all others, lexicographically.
func (l *Logger) sortLogFiles(files []storage.FileInfo) {
	sort.SliceStable(files, func(i, j int) bool {
		di, ii, oki := parseLogFileName(files[i].Name, l.cfg.Prefix, l.cfg.Extension)
		dj, ij, okj := parseLogFileName(files[j].Name, l.cfg.Prefix, l.cfg.Extension)
		switch {
		case oki != okj:
			return !oki
		case !oki:
			return files[i].Name < files[j].Name
		case !di.Equal(dj):
			return di.Before(dj)
		default:
			return ii < ij
		}
	})
}

// logFileSet lists the matching set oldest first, listed is false when the directory could not be listed
func (l *Logger) logFileSet() (files []storage.FileInfo, listed bool) {
	if l.directory == "" {
		return nil, false
	}
	entries, err := l.store.List(l.directory)
	if err != nil {
		l.internalLog("failed to list log directory '%s': %w", l.directory, err)
		return nil, false
	}
	for _, e := range entries {
		if !e.IsDir && l.isLogFileName(e.Name) {
			files = append(files, e)
		}
	}
	l.sortLogFiles(files)
	return files, true
}

// resumeLogFilePath picks the newest of today's files, or today's base name
func (l *Logger) resumeLogFilePath(files []storage.FileInfo, listed bool) string {
	today := l.now().UTC().Format(dateLayout)
	if listed {
		for i := len(files) - 1; i >= 0; i-- {
			date, index, ok := parseLogFileName(files[i].Name, l.cfg.Prefix, l.cfg.Extension)
			if ok && date.Format(dateLayout) == today {
				return filepath.Join(l.directory, logFileName(l.cfg.Prefix, l.cfg.Extension, date, index))
			}
		}
	}
	return filepath.Join(l.directory, logFileName(l.cfg.Prefix, l.cfg.Extension, l.now(), 0))
}

// nextLogFilePath returns a path for today that does not exist yet. Indexes
// of listed files are never reused within the day, so same-day order holds.
func (l *Logger) nextLogFilePath(files []storage.FileInfo) string {
	now := l.now()
	today := now.UTC().Format(dateLayout)

	next := 0
	for _, f := range files {
		date, index, ok := parseLogFileName(f.Name, l.cfg.Prefix, l.cfg.Extension)
		if ok && date.Format(dateLayout) == today && index >= next {
			next = index + 1
		}
	}

	for {
		path := filepath.Join(l.directory, logFileName(l.cfg.Prefix, l.cfg.Extension, now, next))
		exists, err := l.store.Exists(path)
		if err != nil {
			l.internalLog("failed to check log file '%s': %w", path, err)
			return path
		}
		if !exists {
			return path
		}
		next++
	}
}

// deleteLogFiles removes files, failures are reported and skipped
func (l *Logger) deleteLogFiles(files []storage.FileInfo) {
	for _, f := range files {
		path := f.Path
		if path == "" {
			path = filepath.Join(l.directory, f.Name)
		}
		if err := l.store.Delete(path); err != nil {
			l.internalLog("failed to delete log file '%s': %w", path, err)
			continue
		}
		l.state.TotalDeletions.Add(1)
	}
}

// rotateLogFile enforces max_files and switches to a fresh active file.
// The new file is created by the next append.
func (l *Logger) rotateLogFile() {
	files, listed := l.logFileSet()
	if listed {
		// Room for the file about to be created
		if surplus := len(files) - int(l.cfg.MaxFiles) + 1; surplus > 0 {
			l.deleteLogFiles(files[:surplus])
		}
	}

	l.setActivePath(l.nextLogFilePath(files))
	l.state.TotalRotations.Add(1)
}

// cleanupOnStartup trims a directory left over the limit by an earlier run
func (l *Logger) cleanupOnStartup(files []storage.FileInfo, listed bool) {
	if !listed {
		return
	}
	if surplus := len(files) - int(l.cfg.MaxFiles); surplus > 0 {
		l.deleteLogFiles(files[:surplus])
	}
}
