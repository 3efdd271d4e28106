package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/akolanti/DocIngest/internal/config"
	"github.com/akolanti/DocIngest/internal/ingest"
	"github.com/akolanti/DocIngest/pkg/logger_i"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	workers    int
	logLevel   string
	cfg        *config.Config
}

func newRootCommand(stdout io.Writer, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "ingest",
		Short:         "Convert local files into normalized documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") && opts.workers > 0 {
				cfg.Ingest.Workers = opts.workers
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			// stdout carries the JSON result, logs go to stderr
			logger_i.Init(logger_i.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Output: stderr})
			opts.cfg = cfg
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file")
	root.PersistentFlags().IntVar(&opts.workers, "workers", 0, "files processed concurrently")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(newDirCommand(opts), newFileCommand(opts))
	return root
}

func newDirCommand(opts *rootOptions) *cobra.Command {
	var typeFilter string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "dir <path>",
		Short: "Ingest every file directly inside a directory and print the run statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout <= 0 {
				timeout = opts.cfg.Ingest.DirectoryTimeout
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			stats, err := newIngestor(opts.cfg).IngestDirectory(ctx, args[0], typeFilter)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().StringVar(&typeFilter, "type", "", "format tag (tabular) or extension (.csv)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "stop starting new files after this duration")
	return cmd
}

func newFileCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "file <path>",
		Short: "Ingest a single file and print its documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newIngestor(opts.cfg).IngestFile(cmd.Context(), args[0])
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newIngestor(cfg *config.Config) *ingest.Ingestor {
	return ingest.NewIngestor(
		ingest.WithWorkers(cfg.Ingest.Workers),
		ingest.WithPageTimeout(cfg.Ingest.PageTimeout),
		ingest.WithLogger(logger_i.NewLogger("cli")),
	)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
