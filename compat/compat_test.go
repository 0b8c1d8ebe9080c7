package compat

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/filelog"
	"github.com/lixenwraith/filelog/storage"
)

// createTestCompatBuilder creates a standard setup for compatibility adapter tests
func createTestCompatBuilder(t *testing.T) (*Builder, *filelog.Logger) {
	t.Helper()
	appLogger, err := filelog.NewBuilder().
		Storage(storage.NewMemory()).
		MinLevel(filelog.LevelDebug).
		InternalErrorsToStderr(false).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = appLogger.Shutdown() })

	builder := NewBuilder().WithLogger(appLogger)
	return builder, appLogger
}

// readLogLines flushes the logger and returns the active file's lines
func readLogLines(t *testing.T, logger *filelog.Logger) []string {
	t.Helper()
	require.NoError(t, logger.Flush(time.Second))
	logs := strings.TrimSuffix(logger.GetLogs(), "\n")
	if logs == "" {
		return nil
	}
	return strings.Split(logs, "\n")
}

func TestCompatBuilder(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		builder, appLogger := createTestCompatBuilder(t)

		got, err := builder.GetLogger()
		require.NoError(t, err)
		assert.Same(t, appLogger, got)

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.Same(t, appLogger, gnetAdapter.logger)

		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)
		assert.Same(t, appLogger, fasthttpAdapter.logger)

		redirect, err := builder.BuildStdLogRedirect()
		require.NoError(t, err)
		assert.Same(t, appLogger, redirect.logger)
	})

	t.Run("with config", func(t *testing.T) {
		cfg := filelog.DefaultConfig()
		cfg.Prefix = "compat"
		cfg.InternalErrorsToStderr = false

		builder := NewBuilder().WithConfig(cfg).WithStorage(storage.NewMemory())
		first, err := builder.GetLogger()
		require.NoError(t, err)
		t.Cleanup(func() { _ = first.Shutdown() })

		second, err := builder.GetLogger()
		require.NoError(t, err)
		assert.Same(t, first, second, "created logger is cached")
		assert.Equal(t, "compat", first.Config().Prefix)
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewBuilder().WithLogger(nil).BuildGnet()
		assert.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := filelog.DefaultConfig()
		cfg.MaxFiles = -1
		_, err := NewBuilder().WithConfig(cfg).WithStorage(storage.NewMemory()).BuildFastHTTP()
		assert.Error(t, err)
	})
}

func TestGnetAdapter(t *testing.T) {
	builder, appLogger := createTestCompatBuilder(t)

	var fatalCalled bool
	var fatalMsg string
	adapter, err := builder.BuildGnet(WithFatalHandler(func(msg string) {
		fatalCalled = true
		fatalMsg = msg
	}))
	require.NoError(t, err)

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	lines := readLogLines(t, appLogger)
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0], "[DEBUG] [gnet] gnet debug id=1")
	assert.Contains(t, lines[1], "[INFO] [gnet] gnet info id=2")
	assert.Contains(t, lines[2], "[WARN] [gnet] gnet warn id=3")
	assert.Contains(t, lines[3], "[ERROR] [gnet] gnet error id=4 | Stack: TestGnetAdapter (compat_test.go:")
	assert.Contains(t, lines[4], "[ERROR] [gnet] fatal: gnet fatal id=5")

	assert.True(t, fatalCalled)
	assert.Equal(t, "fatal: gnet fatal id=5", fatalMsg)
}

func TestGnetAdapterSource(t *testing.T) {
	builder, appLogger := createTestCompatBuilder(t)

	adapter, err := builder.BuildGnet(WithGnetSource("edge"))
	require.NoError(t, err)
	adapter.Infof("accepted")

	untagged, err := builder.BuildGnet(WithGnetSource(""))
	require.NoError(t, err)
	untagged.Infof("plain")

	lines := readLogLines(t, appLogger)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[INFO] [edge] accepted")
	assert.True(t, strings.HasSuffix(lines[1], "[INFO] plain"))
}

func TestFastHTTPAdapter(t *testing.T) {
	builder, appLogger := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	testMessages := []string{
		"this is some informational message",
		"a debug message for the developers",
		"warning: something might be wrong",
		"an error occurred while processing",
	}
	for _, msg := range testMessages {
		adapter.Printf("%s", msg)
	}

	lines := readLogLines(t, appLogger)
	require.Len(t, lines, len(testMessages))

	expectedLevels := []string{"INFO", "DEBUG", "WARN", "ERROR"}
	for i, line := range lines {
		assert.Contains(t, line, "["+expectedLevels[i]+"] [fasthttp] "+testMessages[i], "line %d", i)
	}
	assert.Contains(t, lines[3], "| Stack: TestFastHTTPAdapter (compat_test.go:")
}

func TestFastHTTPAdapterOptions(t *testing.T) {
	builder, appLogger := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP(
		WithDefaultLevel(filelog.LevelWarn),
		WithLevelDetector(func(string) int64 { return LevelUndetected }),
		WithFastHTTPSource("http"),
	)
	require.NoError(t, err)
	adapter.Printf("request failed with %d", 500)

	lines := readLogLines(t, appLogger)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[WARN] [http] request failed with 500")
}

func TestDetectLogLevel(t *testing.T) {
	tests := []struct {
		msg  string
		want int64
	}{
		{"connection FAILED", filelog.LevelError},
		{"panic recovered", filelog.LevelError},
		{"deprecated header", filelog.LevelWarn},
		{"Warning: slow", filelog.LevelWarn},
		{"trace id=1", filelog.LevelDebug},
		{"served request", LevelUndetected},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLogLevel(tt.msg), tt.msg)
	}
}

func TestStdLogRedirect(t *testing.T) {
	builder, appLogger := createTestCompatBuilder(t)

	var previous bytes.Buffer
	log.SetOutput(&previous)
	log.SetPrefix("std: ")
	log.SetFlags(log.Lshortfile)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetPrefix("")
		log.SetFlags(log.LstdFlags)
	})

	redirect, err := builder.BuildStdLogRedirect(WithStdLogLevel(filelog.LevelWarn))
	require.NoError(t, err)

	require.NoError(t, redirect.Install())
	assert.ErrorIs(t, redirect.Install(), errAlreadyInstalled)
	assert.Equal(t, 0, log.Flags())

	log.Printf("captured %d", 1)
	log.Println("captured", 2)

	require.NoError(t, redirect.Uninstall())
	assert.ErrorIs(t, redirect.Uninstall(), errNotInstalled)

	assert.Same(t, &previous, log.Writer())
	assert.Equal(t, "std: ", log.Prefix())
	assert.Equal(t, log.Lshortfile, log.Flags())

	lines := readLogLines(t, appLogger)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[WARN] std: captured 1")
	assert.Contains(t, lines[1], "[WARN] std: captured 2")
	assert.Empty(t, previous.String(), "no tee by default")
}

func TestStdLogRedirectTee(t *testing.T) {
	builder, appLogger := createTestCompatBuilder(t)

	var previous bytes.Buffer
	log.SetOutput(&previous)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})

	redirect, err := builder.BuildStdLogRedirect(WithTee(true))
	require.NoError(t, err)
	require.NoError(t, redirect.Install())
	log.Print("both places")
	require.NoError(t, redirect.Uninstall())

	lines := readLogLines(t, appLogger)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[LOG] both places")
	assert.Equal(t, "both places\n", previous.String())
}

func TestRedirectStdLog(t *testing.T) {
	_, appLogger := createTestCompatBuilder(t)

	var previous bytes.Buffer
	log.SetOutput(&previous)
	log.SetFlags(log.LstdFlags)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	restore, err := RedirectStdLog(appLogger, filelog.LevelError)
	require.NoError(t, err)
	log.Println("from stdlib")
	restore()
	restore() // second call is harmless

	log.Print("after restore")

	lines := readLogLines(t, appLogger)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[ERROR] from stdlib | Stack: TestRedirectStdLog (compat_test.go:",
		"stack starts at the caller, not inside the log package")
	assert.Contains(t, previous.String(), "after restore")
	assert.Equal(t, log.LstdFlags, log.Flags())
}

func TestStdLogRedirectStackStartsAtCaller(t *testing.T) {
	_, appLogger := createTestCompatBuilder(t)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})

	redirect := NewStdLogRedirect(appLogger, WithStdLogLevel(filelog.LevelError))
	require.NoError(t, redirect.Install())
	log.Printf("printf %d", 1)
	log.Print("print")
	log.Println("println")
	require.NoError(t, redirect.Uninstall())

	lines := readLogLines(t, appLogger)
	require.Len(t, lines, 3)
	for _, line := range lines {
		_, stack, found := strings.Cut(line, " | Stack: ")
		require.True(t, found, line)
		assert.True(t, strings.HasPrefix(stack, "TestStdLogRedirectStackStartsAtCaller (compat_test.go:"), stack)
		assert.NotContains(t, stack, "(log.go:")
	}
}
