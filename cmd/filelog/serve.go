package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/lixenwraith/filelog"
	"github.com/lixenwraith/filelog/compat"
	"github.com/lixenwraith/filelog/metrics"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve logs, exports and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withLogger(cmd, func(l *filelog.Logger) error {
				handler, err := newHandler(l, prometheus.NewRegistry())
				if err != nil {
					return err
				}

				server := &fasthttp.Server{
					Handler:      handler,
					Logger:       compat.NewFastHTTPAdapter(l),
					Name:         "filelog",
					ReadTimeout:  5 * time.Second,
					WriteTimeout: 30 * time.Second,
					IdleTimeout:  120 * time.Second,
				}

				errCh := make(chan error, 1)
				go func() {
					errCh <- server.ListenAndServe(addr)
				}()
				l.Info("serving", addr)
				fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)

				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				defer signal.Stop(sigCh)

				select {
				case err := <-errCh:
					return err
				case <-sigCh:
					return server.ShutdownWithContext(cmd.Context())
				}
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// newHandler routes the store facade and a Prometheus endpoint backed by reg
func newHandler(l *filelog.Logger, reg *prometheus.Registry) (fasthttp.RequestHandler, error) {
	if _, err := metrics.Register(reg, l, nil); err != nil {
		return nil, err
	}
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		method := string(ctx.Method())

		switch {
		case path == "/logs" && method == fasthttp.MethodGet:
			ctx.SetContentType("text/plain; charset=utf-8")
			ctx.SetBodyString(l.GetLogs())

		case path == "/files" && method == fasthttp.MethodGet:
			writeJSON(ctx, l.GetLogFiles())

		case path == "/export" && method == fasthttp.MethodGet:
			ctx.SetContentType("text/plain; charset=utf-8")
			ctx.SetBodyString(l.ExportLogs())

		case path == "/clear" && method == fasthttp.MethodPost:
			l.ClearLogs()
			ctx.SetStatusCode(fasthttp.StatusNoContent)

		case path == "/info" && method == fasthttp.MethodGet:
			writeJSON(ctx, collectInfo(l))

		case path == "/metrics":
			metricsHandler(ctx)

		case path == "/logs" || path == "/files" || path == "/export" || path == "/clear" || path == "/info":
			ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)

		default:
			ctx.Error("not found", fasthttp.StatusNotFound)
		}
	}, nil
}

func writeJSON(ctx *fasthttp.RequestCtx, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}
