package filelog

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/filelog/storage"
)

func TestLogFileName(t *testing.T) {
	assert.Equal(t, "app-log-2026-03-07.log", logFileName("app-log", "log", testStart, 0))
	assert.Equal(t, "app-log-2026-03-07-3.log", logFileName("app-log", "log", testStart, 3))

	zone := time.FixedZone("minus5", -5*60*60)
	late := time.Date(2026, 3, 7, 22, 0, 0, 0, zone)
	assert.Equal(t, "t-2026-03-08.txt", logFileName("t", "txt", late, 0), "date is taken in UTC")
}

func TestParseLogFileName(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		wantDate  string
		wantIndex int
		wantOK    bool
	}{
		{name: "base", input: "app-log-2026-03-07.log", wantDate: "2026-03-07", wantOK: true},
		{name: "indexed", input: "app-log-2026-03-07-12.log", wantDate: "2026-03-07", wantIndex: 12, wantOK: true},
		{name: "other prefix", input: "other-2026-03-07.log", wantOK: false},
		{name: "other extension", input: "app-log-2026-03-07.txt", wantOK: false},
		{name: "bad date", input: "app-log-2026-13-07.log", wantOK: false},
		{name: "zero index", input: "app-log-2026-03-07-0.log", wantOK: false},
		{name: "garbage suffix", input: "app-log-2026-03-07x.log", wantOK: false},
		{name: "free text", input: "app-log-notes.log", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			date, index, ok := parseLogFileName(tc.input, "app-log", "log")
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.wantDate, date.Format(dateLayout))
				assert.Equal(t, tc.wantIndex, index)
			}
		})
	}
}

func TestRotationAtThreshold(t *testing.T) {
	env := createTestLogger(t, func(b *Builder) {
		b.Prefix("t").MaxFileSize(100).MaxFiles(2)
	})

	// Each entry is 42 bytes, the third one would take the file past 100
	env.logger.Log("entry-00")
	env.logger.Log("entry-01")
	flush(t, env.logger)
	assert.Zero(t, env.logger.Stats().Rotations)

	env.logger.Log("entry-02")
	flush(t, env.logger)

	assert.Equal(t, uint64(1), env.logger.Stats().Rotations)
	assert.Equal(t, []string{"t-2026-03-07.log", "t-2026-03-07-1.log"}, env.logger.GetLogFiles())

	first, err := env.store.ReadAll(testDir + "/t-2026-03-07.log")
	require.NoError(t, err)
	assert.Equal(t, line("log", "entry-00")+line("log", "entry-01"), string(first))
	assert.Equal(t, line("log", "entry-02"), env.logger.GetLogs())
}

func TestRotationRetentionBound(t *testing.T) {
	env := createTestLogger(t, func(b *Builder) {
		b.MaxFileSize(10).MaxFiles(3)
	})

	// Every entry exceeds the threshold, so each one lands in its own file
	for i := 0; i < 20; i++ {
		env.logger.Log(fmt.Sprintf("entry-%02d", i))
		flush(t, env.logger)
		assert.LessOrEqual(t, len(env.logger.GetLogFiles()), 3)
	}

	assert.Equal(t, []string{
		"app-log-2026-03-07-17.log",
		"app-log-2026-03-07-18.log",
		"app-log-2026-03-07-19.log",
	}, env.logger.GetLogFiles())

	stats := env.logger.Stats()
	assert.Equal(t, uint64(19), stats.Rotations)
	assert.Equal(t, uint64(17), stats.Deletions)
	assert.Equal(t, line("log", "entry-19"), env.logger.GetLogs())
}

func TestRotationDeletesOldestAcrossDays(t *testing.T) {
	store := storage.NewMemory()
	store.WriteFile(testDir+"/app-log-2026-03-05.log", []byte("old\n"), testStart)
	store.WriteFile(testDir+"/app-log-2026-03-06-1.log", []byte("newer\n"), testStart)
	store.WriteFile(testDir+"/app-log-2026-03-06.log", []byte("older\n"), testStart)
	store.WriteFile(testDir+"/notes.txt", []byte("keep me"), testStart)

	env := createTestLoggerWithStore(t, store, func(b *Builder) {
		b.MaxFileSize(50).MaxFiles(3)
	})
	assert.Equal(t, []string{
		"app-log-2026-03-05.log",
		"app-log-2026-03-06.log",
		"app-log-2026-03-06-1.log",
	}, env.logger.GetLogFiles(), "ordered by date then index")

	env.logger.Log("first")
	env.logger.Log("second")
	flush(t, env.logger)

	assert.Equal(t, []string{
		"app-log-2026-03-06-1.log",
		"app-log-2026-03-07.log",
		"app-log-2026-03-07-1.log",
	}, env.logger.GetLogFiles())

	exists, err := store.Exists(testDir + "/notes.txt")
	require.NoError(t, err)
	assert.True(t, exists, "files outside the matching set are never deleted")
}

func TestCleanupOnStartup(t *testing.T) {
	store := storage.NewMemory()
	for day := 1; day <= 7; day++ {
		store.WriteFile(fmt.Sprintf("%s/app-log-2026-03-%02d.log", testDir, day), []byte("x\n"), testStart)
	}
	store.WriteFile(testDir+"/app-log-notes.txt", []byte("keep"), testStart)

	env := createTestLoggerWithStore(t, store, func(b *Builder) {
		b.MaxFiles(5)
	})

	assert.Equal(t, []string{
		"app-log-2026-03-03.log",
		"app-log-2026-03-04.log",
		"app-log-2026-03-05.log",
		"app-log-2026-03-06.log",
		"app-log-2026-03-07.log",
	}, env.logger.GetLogFiles())
	assert.Equal(t, uint64(2), env.logger.Stats().Deletions)

	exists, err := store.Exists(testDir + "/app-log-notes.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStartupResumesNewestFileOfToday(t *testing.T) {
	store := storage.NewMemory()
	store.WriteFile(testDir+"/app-log-2026-03-07.log", []byte("a\n"), testStart)
	store.WriteFile(testDir+"/app-log-2026-03-07-2.log", []byte("b\n"), testStart)

	env := createTestLoggerWithStore(t, store)
	assert.Equal(t, testDir+"/app-log-2026-03-07-2.log", env.logger.ActiveFile())

	env.logger.Log("resumed")
	flush(t, env.logger)
	assert.Equal(t, "b\n"+line("log", "resumed"), env.logger.GetLogs())
}

func TestRotationCrossesDay(t *testing.T) {
	env := createTestLogger(t, func(b *Builder) {
		b.MaxFileSize(50)
	})

	env.logger.Log("today")
	flush(t, env.logger)

	env.clock.Set(testStart.Add(24 * time.Hour))
	env.logger.Log("tomorrow")
	flush(t, env.logger)

	assert.Equal(t, []string{"app-log-2026-03-07.log", "app-log-2026-03-08.log"}, env.logger.GetLogFiles())
}

func TestRotationSkippedForEmptyFile(t *testing.T) {
	env := createTestLogger(t, func(b *Builder) {
		b.MaxFileSize(10)
	})

	env.logger.Log("an entry far larger than the threshold")
	flush(t, env.logger)

	assert.Zero(t, env.logger.Stats().Rotations)
	assert.Equal(t, []string{"app-log-2026-03-07.log"}, env.logger.GetLogFiles())
}

func TestRotationDeleteFailureTolerated(t *testing.T) {
	env := createTestLogger(t, func(b *Builder) {
		b.MaxFileSize(10).MaxFiles(1)
	})
	env.store.InjectFault(storage.OpDelete, func(string) error { return errors.New("busy") })

	env.logger.Log("one")
	env.logger.Log("two")
	flush(t, env.logger)

	assert.Equal(t, uint64(1), env.logger.Stats().Rotations)
	assert.Zero(t, env.logger.Stats().Deletions)
	assert.Equal(t, line("log", "two"), env.logger.GetLogs(), "entry written despite failed deletion")
	assert.Len(t, env.logger.GetLogFiles(), 2)
	assert.Equal(t, 1, env.errs.count())
}

func TestRotationListFailureStillSwitches(t *testing.T) {
	env := createTestLogger(t, func(b *Builder) {
		b.MaxFileSize(10)
	})

	env.logger.Log("one")
	flush(t, env.logger)

	env.store.InjectFault(storage.OpList, func(string) error { return errors.New("io error") })
	env.logger.Log("two")
	flush(t, env.logger)
	env.store.InjectFault(storage.OpList, nil)

	assert.Equal(t, testDir+"/app-log-2026-03-07-1.log", env.logger.ActiveFile())
	assert.Equal(t, line("log", "two"), env.logger.GetLogs())
	assert.Zero(t, env.logger.Stats().Dropped)
}
