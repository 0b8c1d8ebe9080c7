package compat

import (
	"fmt"

	"github.com/lixenwraith/filelog"
	"github.com/lixenwraith/filelog/storage"
)

// Builder provides a flexible way to create configured logger adapters for gnet, fasthttp and the standard library
// It can use an existing *filelog.Logger instance or create a new one from a *filelog.Config
type Builder struct {
	logger *filelog.Logger
	logCfg *filelog.Config
	store  storage.Storage
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters
// Recommended for applications that already have a central logger instance
// If this is set WithConfig and WithStorage are ignored
func (b *Builder) WithLogger(l *filelog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("filelog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance
// This is used only if an existing logger is NOT provided via WithLogger
// If neither WithLogger nor WithConfig is used, a default logger will be created
func (b *Builder) WithConfig(cfg *filelog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// WithStorage sets the backend of a logger created by the builder
func (b *Builder) WithStorage(store storage.Storage) *Builder {
	b.store = store
	return b
}

// getLogger resolves the logger to be used, creating one if necessary
func (b *Builder) getLogger() (*filelog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	l, err := filelog.New(b.logCfg, b.store)
	if err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
// It can be used for servers that require a standard gnet logger
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// BuildStdLogRedirect creates an uninstalled standard library redirect
func (b *Builder) BuildStdLogRedirect(opts ...StdLogOption) (*StdLogRedirect, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewStdLogRedirect(l, opts...), nil
}

// GetLogger returns the underlying *filelog.Logger instance
// If a logger has not been provided or created yet, it will be initialized
func (b *Builder) GetLogger() (*filelog.Logger, error) {
	return b.getLogger()
}

// --- Example Usage ---
//
//	// 1. Create the application's logger
//	appLogger, err := filelog.NewBuilder().
//		Directory("/var/lib/app/logs").
//		MinLevel(filelog.LevelDebug).
//		Build()
//	if err != nil {
//		panic(fmt.Sprintf("failed to configure logger: %v", err))
//	}
//	defer appLogger.Shutdown()
//
//	// 2. Create a builder and provide the existing logger
//	builder := compat.NewBuilder().WithLogger(appLogger)
//
//	// 3. Build the required adapters
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	stdRedirect, _ := builder.BuildStdLogRedirect()
//	_ = stdRedirect.Install()
//	defer stdRedirect.Uninstall()
//
//	// 4. Configure servers with the adapters
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	server := &fasthttp.Server{
//		Handler: handler,
//		Logger:  fasthttpLogger,
//	}
//	go server.ListenAndServe(":8080")
