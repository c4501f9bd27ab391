// Package main provides harnesslog, which applies the load-test harness
// logging setup and writes a startup record. It fails, exit status 1, when
// the log file cannot be opened, the same way the harness itself would.
//
// Usage:
//
//	harnesslog [flags] [message]
//
// Flags:
//
//	--config string   YAML logging config (defaults apply when omitted)
//	--file string     Override the log file path
//	--logger string   Logger name for the record (default "harness")
//	--level string    Level of the record (default "INFO")
//	--console         Also write to stderr
//	--dump-config     Dump the effective config at DEBUG
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hubload/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	config     string
	file       string
	logger     string
	level      string
	console    bool
	dumpConfig bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "harnesslog [message]",
		Short: "Apply the harness logging setup and write a record",
		Long: `Apply the load-test harness logging setup and write one record.

The record goes through the same registry the harness uses, so it lands in
the rotating log file unless the logger's threshold drops it.

Examples:
  harnesslog                                  # "logging initialized" at INFO
  harnesslog --file /tmp/locust.log hello     # write to a scratch file
  harnesslog --logger httpclient.connectionpool --level INFO dropped`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.config, "config", "", "YAML logging config")
	cmd.Flags().StringVar(&opts.file, "file", "", "override the log file path")
	cmd.Flags().StringVar(&opts.logger, "logger", "harness", "logger name for the record")
	cmd.Flags().StringVar(&opts.level, "level", "INFO", "level of the record")
	cmd.Flags().BoolVar(&opts.console, "console", false, "also write to stderr")
	cmd.Flags().BoolVar(&opts.dumpConfig, "dump-config", false, "dump the effective config at DEBUG")

	return cmd
}

func run(opts options, args []string) error {
	cfg := logging.DefaultConfig()
	if opts.config != "" {
		loaded, err := logging.LoadConfig(opts.config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.file != "" {
		cfg.FilePath = opts.file
	}
	if opts.console {
		cfg.Console = true
	}

	level, err := logging.ParseLevel(opts.level)
	if err != nil {
		return err
	}

	svc := logging.NewService(cfg)
	if err := svc.Initialize(); err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	if opts.dumpConfig {
		svc.Logger("harness.config").Dump(cfg)
	}

	msg := strings.Join(args, " ")
	if msg == "" {
		msg = "logging initialized"
	}
	svc.Logger(opts.logger).Log(level).Str("file", svc.FilePath()).Msg(msg)
	return nil
}
