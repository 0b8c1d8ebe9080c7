package filelog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"LOG", LevelLog, false},
		{" info ", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"fatal", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			level, err := Level(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, level)
		})
	}
}

func TestLevelToString(t *testing.T) {
	assert.Equal(t, "debug", LevelToString(LevelDebug))
	assert.Equal(t, "log", LevelToString(LevelLog))
	assert.Equal(t, "error", LevelToString(LevelError))
	assert.Equal(t, "unknown", LevelToString(42))
}

func TestAdmit(t *testing.T) {
	levels := []int64{LevelDebug, LevelLog, LevelInfo, LevelWarn, LevelError}
	for _, min := range levels {
		for _, ev := range levels {
			assert.Equal(t, ev >= min, Admit(ev, min), "event %d min %d", ev, min)
		}
	}
}

func TestParseKeyValue(t *testing.T) {
	key, value, err := parseKeyValue(" max_files = 3 ")
	require.NoError(t, err)
	assert.Equal(t, "max_files", key)
	assert.Equal(t, "3", value)

	key, value, err = parseKeyValue("directory=/a=b")
	require.NoError(t, err)
	assert.Equal(t, "directory", key)
	assert.Equal(t, "/a=b", value)

	_, _, err = parseKeyValue("novalue")
	assert.Error(t, err)

	_, _, err = parseKeyValue("=x")
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"100", 100, false},
		{"100B", 100, false},
		{"2kb", 2048, false},
		{"5MB", 5 * 1024 * 1024, false},
		{"1 GB", 1024 * 1024 * 1024, false},
		{"MB", 0, true},
		{"ten", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			size, err := parseSize(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, size)
		})
	}
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("broken %d", 1)
	assert.Equal(t, "filelog: broken 1", err.Error())

	err = fmtErrorf("filelog: already prefixed")
	assert.Equal(t, "filelog: already prefixed", err.Error())
}

func TestCombineErrors(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, a, combineErrors(a, nil))
	assert.Equal(t, b, combineErrors(nil, b))

	combined := combineErrors(a, b)
	assert.Equal(t, "a; b", combined.Error())
	assert.True(t, errors.Is(combined, b))
}

func TestCaptureStack(t *testing.T) {
	stack := captureStack(1, 3)
	assert.True(t, strings.HasPrefix(stack, "TestCaptureStack (utility_test.go:"), stack)
	assert.LessOrEqual(t, len(strings.Split(stack, " <- ")), 3)

	assert.Equal(t, "", captureStack(1, 0))
	assert.Equal(t, "(unknown)", captureStack(1000, 5))
}
