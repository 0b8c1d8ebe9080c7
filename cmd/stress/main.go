package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/filelog"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 2000
	numWorkers     = 50
)

const configFile = "stress_config.toml"

// Example TOML content for stress test
var tomlContent = `
# Example stress_config.toml
[filelog]
  directory = "./logs" # Log package will create this
  prefix = "stress"
  extension = "log"
  min_level = 0 # Debug
  max_file_size = 1048576 # Force frequent rotation (1MB)
  max_files = 5 # Retention keeps the newest five
  include_stack_trace = true
  stack_depth = 4
  internal_errors_to_stderr = true
`

var levels = []int64{
	filelog.LevelDebug,
	filelog.LevelLog,
	filelog.LevelInfo,
	filelog.LevelWarn,
	filelog.LevelError,
}

var logger *filelog.Logger

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(burstID int) {
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msg := generateRandomMessage(rand.Intn(maxMessageSize) + 10)
		logger.LogAt(level, 0, msg, map[string]any{
			"wkr": burstID % numWorkers,
			"bst": burstID,
			"seq": i,
		})
	}
}

// runWorkers spreads the bursts over numWorkers goroutines until done or stop
func runWorkers(stop <-chan struct{}) int64 {
	var next, completed atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				id := int(next.Add(1))
				if id > totalBursts {
					return
				}
				logBurst(id)
				if n := completed.Add(1); n%10 == 0 {
					fmt.Printf("\r%d/%d bursts", n, totalBursts)
				}
			}
		}()
	}
	wg.Wait()
	return completed.Load()
}

func main() {
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write config: %v\n", err)
		os.Exit(1)
	}
	_ = os.RemoveAll("./logs")

	cfg, err := filelog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err = filelog.New(cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("writing %d bursts of %d entries from %d workers to %s\n",
		totalBursts, logsPerBurst, numWorkers, logger.Directory())

	stop := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		close(stop)
	}()

	started := time.Now()
	done := runWorkers(stop)
	elapsed := time.Since(started)
	fmt.Printf("\n%d bursts submitted in %v (%.0f entries/s)\n",
		done, elapsed.Round(time.Millisecond), float64(done*logsPerBurst)/elapsed.Seconds())

	if err := logger.Flush(30 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "flush: %v\n", err)
	}

	stats := logger.Stats()
	files := logger.GetLogFiles()
	fmt.Printf("written=%d dropped=%d rotations=%d deletions=%d\n",
		stats.Processed, stats.Dropped, stats.Rotations, stats.Deletions)
	fmt.Printf("retained %d of max %d: %s\n", len(files), cfg.MaxFiles, strings.Join(files, " "))

	if err := logger.Shutdown(10 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}
