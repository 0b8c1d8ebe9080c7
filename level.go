package filelog

import (
	"strings"
)

var levelNames = map[int64]string{
	LevelDebug: "debug",
	LevelLog:   "log",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// Level converts a level name to its numeric constant
func Level(levelStr string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "log":
		return LevelLog, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, log, info, warn, error)", levelStr)
	}
}

// LevelToString returns the lowercase name of a level, "unknown" for others
func LevelToString(level int64) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return "unknown"
}

// Admit reports whether an event at level passes the min threshold
func Admit(level, min int64) bool {
	return level >= min
}
