package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/bootleg-splitter/internal/config"
	"github.com/handiism/bootleg-splitter/internal/logging"
	"github.com/handiism/bootleg-splitter/internal/pipeline"
	"github.com/handiism/bootleg-splitter/internal/session"
	"github.com/handiism/bootleg-splitter/internal/tui"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var logFileFlag string

	cmd := &cobra.Command{
		Use:           "bootleg-tui",
		Short:         "Interactive bootleg splitter",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(configFlag)
			if path == "" {
				path = config.DefaultPath()
			}
			settings, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := settings.Validate(); err != nil {
				return fmt.Errorf("invalid configuration %s: %w", path, err)
			}

			logger, closeLog, err := openLog(settings, logFileFlag)
			if err != nil {
				return err
			}
			defer closeLog()

			deps := pipeline.DefaultDeps(settings, logger)
			orch := pipeline.New(deps,
				pipeline.WithSettings(settings),
				pipeline.WithLogger(logger),
			)
			return tui.Run(session.New(orch, deps.Fetcher, settings), settings)
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&logFileFlag, "log-file", "", "Write logs to this file (the terminal belongs to the UI)")
	return cmd
}

// openLog returns a logger writing to path, or a discarding one when path
// is empty.
func openLog(settings *config.Settings, path string) (*slog.Logger, func(), error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return logging.NewNop(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := logging.New(logging.Options{
		Level:   settings.LogLevel,
		Format:  settings.LogFormat,
		Output:  f,
		NoColor: true,
	})
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}
