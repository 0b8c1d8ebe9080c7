// FILE: example/gnet/main.go
package main

import (
	"time"

	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/filelog"
	"github.com/lixenwraith/filelog/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
	logger *filelog.Logger
}

func (es *echoServer) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	es.logger.Info("connection opened", c.RemoteAddr().String())
	return nil, gnet.None
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	es.logger.Debug("echo", map[string]any{"bytes": len(buf)})
	_, _ = c.Write(buf)
	return gnet.None
}

func main() {
	logger, err := filelog.NewBuilder().
		Directory("/var/log/gnet").
		MinLevelString("debug").
		MaxFileSizeKB(512).
		MaxFiles(10).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown(5 * time.Second)

	gnetAdapter := compat.NewGnetAdapter(logger)

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{logger: logger},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		logger.Error("gnet stopped", err)
	}
}
