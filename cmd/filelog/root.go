package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/filelog"
	"github.com/lixenwraith/filelog/storage"
)

// options holds the persistent flags shared by every subcommand
type options struct {
	configFile string
	directory  string
	prefix     string
	maxSize    string
	maxFiles   int64

	store storage.Storage // nil uses the local filesystem
}

// newRootCmd builds the command tree, store overrides the backend in tests
func newRootCmd(store storage.Storage) *cobra.Command {
	opts := &options{store: store}

	rootCmd := &cobra.Command{
		Use:           "filelog",
		Short:         "Inspect and maintain a rotating log directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "TOML file with a [filelog] table")
	flags.StringVar(&opts.directory, "dir", "", "log directory (default <data dir>/logs)")
	flags.StringVar(&opts.prefix, "prefix", "", "log file name prefix")
	flags.StringVar(&opts.maxSize, "max-size", "", "maximum file size, e.g. 512KB or 5MB")
	flags.Int64Var(&opts.maxFiles, "max-files", 0, "maximum number of retained files")

	rootCmd.AddCommand(
		newWriteCmd(opts),
		newShowCmd(opts),
		newFilesCmd(opts),
		newExportCmd(opts),
		newClearCmd(opts),
		newInfoCmd(opts),
		newServeCmd(opts),
	)
	return rootCmd
}

// config resolves the file configuration and applies explicitly set flags on top
func (o *options) config(cmd *cobra.Command) (*filelog.Config, error) {
	cfg := filelog.DefaultConfig()
	if o.configFile != "" {
		loaded, err := filelog.NewConfigFromFile(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	var overrides []string
	flags := cmd.Flags()
	if flags.Changed("dir") {
		overrides = append(overrides, "directory="+o.directory)
	}
	if flags.Changed("prefix") {
		overrides = append(overrides, "prefix="+o.prefix)
	}
	if flags.Changed("max-size") {
		overrides = append(overrides, "max_file_size="+o.maxSize)
	}
	if flags.Changed("max-files") {
		overrides = append(overrides, fmt.Sprintf("max_files=%d", o.maxFiles))
	}
	if err := cfg.ApplyOverrides(overrides...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// open creates a logger for one command, the caller shuts it down
func (o *options) open(cmd *cobra.Command) (*filelog.Logger, error) {
	cfg, err := o.config(cmd)
	if err != nil {
		return nil, err
	}
	return filelog.New(cfg, o.store)
}

// withLogger runs fn with a logger that is flushed and shut down afterwards
func (o *options) withLogger(cmd *cobra.Command, fn func(*filelog.Logger) error) error {
	logger, err := o.open(cmd)
	if err != nil {
		return err
	}
	runErr := fn(logger)
	if err := logger.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
