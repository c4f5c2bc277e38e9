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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/phaser/pkg/manifest"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/serializer"
)

// loadModel reads, validates and builds the --manifest document.
func loadModel(ctx context.Context, cmd *cli.Command) (*manifest.Manifest, *manifest.Model, error) {
	source := cmd.String(manifestFlag.Name)
	data, err := serializer.ReadSource(ctx, source, ioOptions(cmd)...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read manifest %q: %w", source, err)
	}
	m, err := manifest.ParseBytes(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse manifest %q: %w", source, err)
	}
	model, err := m.Build(version)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid manifest %q: %w", source, err)
	}
	slog.Debug("manifest loaded",
		"source", source,
		"package", m.Package,
		"types", len(m.Types),
		"declarations", len(m.Declarations))
	return m, model, nil
}

func parseDist(cmd *cli.Command) (meta.Dist, error) {
	d, err := meta.ParseDist(cmd.String(distFlag.Name))
	if err != nil {
		return "", fmt.Errorf("invalid distribution: %w", err)
	}
	return d, nil
}
