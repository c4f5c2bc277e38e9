// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/phaser/pkg/logging"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/serializer"
)

const (
	name           = "phaser"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output destination: file path, cm://namespace/name[/key], or stdout when empty",
	}
	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Output format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
	manifestFlag = &cli.StringFlag{
		Name:     "manifest",
		Aliases:  []string{"m"},
		Required: true,
		Usage: `Path/URI to the declaration index manifest.
	Supports: file paths, "-" for stdin, HTTP/HTTPS URLs, or ConfigMap URIs (cm://namespace/name[/key]).`,
	}
	distFlag = &cli.StringFlag{
		Name:    "dist",
		Aliases: []string{"d"},
		Value:   string(meta.DistServer),
		Usage:   "Distribution the pipeline runs in (supported values: client, server)",
	}
	kubeconfigFlag = &cli.StringFlag{
		Name:  "kubeconfig",
		Usage: "Path to kubeconfig for ConfigMap sources and destinations (default: automatic discovery)",
	}
)

// Execute runs the phaser command line. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Phased, metadata-driven deferred registration",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Description: `phaser reads a declaration index manifest and drives its registration
pipeline through the host lifecycle:

  scan  - list the declarations that survive namespace, resolution and
          distribution filtering
  run   - run every lifecycle phase against the in-memory host and report
          the registries, catalog, world features and config values
  serve - accept manifests over HTTP and answer with scan and run reports`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Usage:   "Log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			scanCmd(),
			runCmd(),
			serveCmd(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			commandLister(ctx, cmd)
			return nil
		},
	}
}

// commandLister prints the visible sub-commands of cmd.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil {
		return
	}
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintf(w, "%-8s %s\n", c.Name, c.Usage)
	}
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String(formatFlag.Name))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported values: %v", f, serializer.SupportedFormats())
	}
	return f, nil
}

// ioOptions routes standard streams through the root command so callers
// can capture them.
func ioOptions(cmd *cli.Command) []serializer.Option {
	opts := []serializer.Option{serializer.WithKubeconfig(cmd.String(kubeconfigFlag.Name))}
	root := cmd.Root()
	if root.Reader != nil {
		opts = append(opts, serializer.WithStdin(root.Reader))
	}
	if root.Writer != nil {
		opts = append(opts, serializer.WithStdout(root.Writer))
	}
	return opts
}

// write serializes v to the --output destination.
func write(ctx context.Context, cmd *cli.Command, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	ser, err := serializer.NewFileWriterOrStdout(format, cmd.String(outputFlag.Name), ioOptions(cmd)...)
	if err != nil {
		return err
	}
	defer func() {
		if err := serializer.Close(ser); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()
	return ser.Serialize(ctx, v)
}
