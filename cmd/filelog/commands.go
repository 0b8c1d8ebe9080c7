package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/filelog"
)

func newWriteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "write <level> <message...>",
		Short: "Append one entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := filelog.Level(args[0])
			if err != nil {
				return err
			}
			message := strings.Join(args[1:], " ")
			return opts.withLogger(cmd, func(l *filelog.Logger) error {
				l.LogAt(level, 0, message)
				return nil
			})
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withLogger(cmd, func(l *filelog.Logger) error {
				_, err := fmt.Fprint(cmd.OutOrStdout(), l.GetLogs())
				return err
			})
		},
	}
}

func newFilesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List log files oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withLogger(cmd, func(l *filelog.Logger) error {
				for _, name := range l.GetLogFiles() {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Concatenate every log file with name headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withLogger(cmd, func(l *filelog.Logger) error {
				export := l.ExportLogs()
				if output == "" {
					_, err := fmt.Fprint(cmd.OutOrStdout(), export)
					return err
				}
				if err := os.WriteFile(output, []byte(export), 0644); err != nil {
					return fmt.Errorf("failed to write export to '%s': %w", output, err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the export to a file instead of stdout")
	return cmd
}

func newClearCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withLogger(cmd, func(l *filelog.Logger) error {
				l.ClearLogs()
				return nil
			})
		},
	}
}

// info is the JSON document printed by the info command and served at /info
type info struct {
	Directory string          `json:"directory"`
	Files     []string        `json:"files"`
	Stats     filelog.Stats   `json:"stats"`
	Config    *filelog.Config `json:"config"`
	Device    any             `json:"device,omitempty"`
}

func collectInfo(l *filelog.Logger) info {
	in := info{
		Directory: l.Directory(),
		Files:     l.GetLogFiles(),
		Stats:     l.Stats(),
		Config:    l.Config(),
	}
	if device, err := l.DeviceInfo(); err == nil {
		in.Device = device
	}
	return in
}

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print directory, files, counters and device details as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withLogger(cmd, func(l *filelog.Logger) error {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(collectInfo(l))
			})
		},
	}
}
