// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/filelog"
	"github.com/lixenwraith/filelog/compat"
)

func main() {
	// Create and configure logger
	cfg, err := filelog.NewConfigFromOverrides(
		"directory=/var/log/fasthttp",
		"min_level=debug",
		"max_file_size=2MB",
		"max_files=8",
	)
	if err != nil {
		panic(err)
	}
	logger, err := filelog.New(cfg, nil)
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(filelog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			logger.Log("request", string(ctx.Method()), string(ctx.Path()))
			ctx.SetContentType("text/plain")
			fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
		},
		Logger: fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		logger.Error("server stopped", err)
	}
}

func customLevelDetector(msg string) int64 {
	// Can inspect specific fasthttp message patterns
	if strings.Contains(msg, "connection cannot be served") {
		return filelog.LevelWarn
	}
	if strings.Contains(msg, "error when serving connection") {
		return filelog.LevelError
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
