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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/phaser/pkg/manifest"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/scanner"
)

func scanCmd() *cli.Command {
	return &cli.Command{
		Name:                  "scan",
		EnableShellCompletion: true,
		Usage:                 "List the declarations a pipeline would dispatch",
		Description: `Scan a declaration index and list the declarations that survive filtering:
  - the owner belongs to the manifest package
  - the owner type resolves
  - client-only owners are dropped outside the client distribution
  - explicit side constraints match the distribution

The privileged config and module-init declarations are listed first, as
they run before any other declaration is dispatched.`,
		Flags: []cli.Flag{
			manifestFlag,
			distFlag,
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
			m, model, err := loadModel(ctx, cmd)
			if err != nil {
				return err
			}

			return write(ctx, cmd, scanManifest(m, model, dist))
		},
	}
}

// scanManifest lists the declarations of model that survive filtering for
// dist, privileged markers first.
func scanManifest(m *manifest.Manifest, model *manifest.Model, dist meta.Dist) *ScanReport {
	origin := scanner.OriginFromPackage(m.Package)
	decls := scanner.Scan(model.Index, model.Types, origin, dist, meta.MarkerConfig, meta.MarkerModuleInit)
	decls = append(decls, scanner.Scan(model.Index, model.Types, origin, dist, dispatchedMarkers()...)...)
	return newScanReport(origin, dist, len(model.Index), decls)
}

// dispatchedMarkers returns the non-privileged markers.
func dispatchedMarkers() []meta.Marker {
	var out []meta.Marker
	for _, s := range meta.SupportedMarkers() {
		if m := meta.Marker(s); !m.IsPrivileged() {
			out = append(out, m)
		}
	}
	return out
}
