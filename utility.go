package filelog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const errorPrefix = "filelog: "

// stackTracer is implemented by errors created with github.com/pkg/errors
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// captureStack returns up to depth frames of the calling goroutine, newest
// first. The first skip frames are dropped, captureStack itself included.
func captureStack(skip int, depth int) string {
	if depth <= 0 {
		return ""
	}
	st, ok := errors.New("").(stackTracer)
	if !ok {
		return ""
	}
	frames := st.StackTrace()
	if skip >= len(frames) {
		return "(unknown)"
	}
	frames = frames[skip:]
	if len(frames) > depth {
		frames = frames[:depth]
	}

	parts := make([]string, 0, len(frames))
	for _, f := range frames {
		parts = append(parts, fmt.Sprintf("%n (%s:%d)", f, f, f))
	}
	return strings.Join(parts, " <- ")
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, errorPrefix) {
		format = errorPrefix + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// parseSize reads a byte count with an optional B, KB, MB or GB suffix
func parseSize(value string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = sizeMultiplier * sizeMultiplier * sizeMultiplier
		s = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = sizeMultiplier * sizeMultiplier
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = sizeMultiplier
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return n * multiplier, nil
}
