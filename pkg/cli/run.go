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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/phaser/pkg/config"
	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
	"github.com/NVIDIA/phaser/pkg/host/memory"
	"github.com/NVIDIA/phaser/pkg/manifest"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/pipeline"
	"github.com/NVIDIA/phaser/pkg/serializer"
	"github.com/NVIDIA/phaser/pkg/worldgen"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:                  "run",
		EnableShellCompletion: true,
		Usage:                 "Run the registration pipeline against the in-memory host",
		Description: `Build the pipeline for a declaration index and drive it through every
lifecycle phase on the in-memory host:

  primary-entity, secondary-entity, resource, interaction-surface,
  aggregate, client-setup (client only), common-setup

then fires world-data once per grouping given with --grouping.

The report lists the committed keys per registry, the catalog, the world
features applied to each grouping and the registered config values.

# Examples

Run a manifest from a ConfigMap with overrides from a file:
  phaser run -m cm://phaser/declarations --config overrides.yaml

Report world features for two groupings:
  phaser run -m declarations.yaml --grouping plains:overworld --grouping wastes:nether`,
		Flags: []cli.Flag{
			manifestFlag,
			distFlag,
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage: `Path/URI to config overrides keyed by namespace then field.
	Supports: file paths, "-" for stdin, HTTP/HTTPS URLs, or ConfigMap URIs (cm://namespace/name[/key]).`,
			},
			&cli.StringSliceFlag{
				Name:    "grouping",
				Aliases: []string{"g"},
				Usage:   "World grouping as name:category (categories: nether, overworld, the_end); may be repeated",
			},
			kubeconfigFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			dist, err := parseDist(cmd)
			if err != nil {
				return err
			}
			groupings, err := parseGroupings(cmd.StringSlice("grouping"))
			if err != nil {
				return err
			}
			overrides, err := loadOverrides(ctx, cmd)
			if err != nil {
				return err
			}
			m, model, err := loadModel(ctx, cmd)
			if err != nil {
				return err
			}

			report, err := runPipeline(ctx, runInput{
				manifest:  m,
				model:     model,
				dist:      dist,
				groupings: groupings,
				overrides: overrides,
			})
			if err != nil {
				return err
			}
			return write(ctx, cmd, report)
		},
	}
}

// runInput carries everything a lifecycle run needs.
type runInput struct {
	manifest  *manifest.Manifest
	model     *manifest.Model
	dist      meta.Dist
	groupings []*worldgen.Grouping
	overrides config.Overrides
}

// runPipeline builds a pipeline for in and drives it through every phase
// on a fresh in-memory host.
func runPipeline(ctx context.Context, in runInput) (*RunReport, error) {
	store := config.NewStore(in.overrides)
	p, err := pipeline.New(in.model.Index, in.model.Types,
		pipeline.WithOrigin(in.manifest.Package),
		pipeline.WithDist(in.dist),
		pipeline.WithFactory(memory.Factory{}),
		pipeline.WithConfig(store))
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer p.Close()

	h := memory.New(in.dist, in.groupings...)
	if err := h.Run(ctx, p); err != nil {
		if cnserrors.IsFatal(err) {
			return nil, fmt.Errorf("registration aborted: %w", err)
		}
		return nil, fmt.Errorf("lifecycle failed: %w", err)
	}

	slog.Info("run complete",
		"pipeline", p.ID(),
		"namespace", p.Namespace(),
		"commits", len(h.Commits()))

	return newRunReport(p, h, store.Snapshot()), nil
}

func loadOverrides(ctx context.Context, cmd *cli.Command) (config.Overrides, error) {
	source := cmd.String("config")
	if source == "" {
		return nil, nil
	}
	data, err := serializer.ReadSource(ctx, source, ioOptions(cmd)...)
	if err != nil {
		return nil, fmt.Errorf("failed to read config overrides %q: %w", source, err)
	}
	overrides, err := config.ParseOverrides(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config overrides %q: %w", source, err)
	}
	return overrides, nil
}

func parseGroupings(args []string) ([]*worldgen.Grouping, error) {
	out := make([]*worldgen.Grouping, 0, len(args))
	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		name, cat, ok := strings.Cut(arg, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid grouping %q: expected name:category", arg)
		}
		category := worldgen.Category(strings.TrimSpace(cat))
		switch category {
		case worldgen.CategoryNether, worldgen.CategoryOverworld, worldgen.CategoryEnd:
		default:
			return nil, fmt.Errorf("invalid grouping %q: unknown category %q", arg, category)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate grouping %q", name)
		}
		seen[name] = true
		out = append(out, worldgen.NewGrouping(name, category))
	}
	return out, nil
}
