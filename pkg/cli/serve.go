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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/phaser/pkg/config"
	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
	"github.com/NVIDIA/phaser/pkg/manifest"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Serve scan and run over HTTP",
		Description: `Start an HTTP server that accepts declaration index manifests in the
request body (YAML or JSON) and answers with the scan or run report:

  POST /v1/scan?dist=client
  POST /v1/run?dist=server&grouping=plains:overworld

The dist query parameter defaults to --dist. Config overrides loaded with
--config apply to every run. /health, /ready and /metrics are served for
probes and Prometheus scraping.

# Examples

  phaser serve --port 8080 --config cm://phaser/overrides
  curl -X POST --data-binary @declarations.yaml localhost:8080/v1/run`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "address",
				Usage: "Listen address (default: all interfaces)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   8080,
				Sources: cli.EnvVars("PORT"),
				Usage:   "Listen port",
			},
			distFlag,
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage: `Path/URI to config overrides applied to every run.
	Supports: file paths, HTTP/HTTPS URLs, or ConfigMap URIs (cm://namespace/name[/key]).`,
			},
			kubeconfigFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dist, err := parseDist(cmd)
			if err != nil {
				return err
			}
			overrides, err := loadOverrides(ctx, cmd)
			if err != nil {
				return err
			}

			a := &api{dist: dist, overrides: overrides}
			s := server.New(
				server.WithName(name),
				server.WithVersion(version),
				server.WithAddress(cmd.String("address")),
				server.WithPort(int(cmd.Int("port"))),
				server.WithHandler(a.handlers()),
			)
			return s.Start(ctx)
		},
	}
}

// api serves the scan and run reports for manifests posted by clients.
type api struct {
	dist      meta.Dist
	overrides config.Overrides
}

func (a *api) handlers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/scan": a.handleScan,
		"/v1/run":  a.handleRun,
	}
}

func (a *api) handleScan(w http.ResponseWriter, r *http.Request) {
	m, model, dist, ok := a.decode(w, r)
	if !ok {
		return
	}
	server.RespondJSON(w, http.StatusOK, scanManifest(m, model, dist))
}

func (a *api) handleRun(w http.ResponseWriter, r *http.Request) {
	m, model, dist, ok := a.decode(w, r)
	if !ok {
		return
	}
	groupings, err := parseGroupings(r.URL.Query()["grouping"])
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
			"invalid grouping", false, map[string]any{"error": err.Error()})
		return
	}

	report, err := runPipeline(r.Context(), runInput{
		manifest:  m,
		model:     model,
		dist:      dist,
		groupings: groupings,
		overrides: a.overrides,
	})
	if err != nil {
		slog.Warn("run failed", "package", m.Package, "dist", dist, "error", err)
		server.WriteErrorFromErr(w, r, err, "run failed", map[string]any{"dist": string(dist)})
		return
	}
	server.RespondJSON(w, http.StatusOK, report)
}

// decode reads the posted manifest and builds its model. It writes the
// error response itself and reports false on failure.
func (a *api) decode(w http.ResponseWriter, r *http.Request) (*manifest.Manifest, *manifest.Model, meta.Dist, bool) {
	if r.Method != http.MethodPost {
		server.WriteError(w, r, http.StatusMethodNotAllowed, cnserrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"allowed": http.MethodPost})
		return nil, nil, "", false
	}

	dist := a.dist
	if q := r.URL.Query().Get("dist"); q != "" {
		d, err := meta.ParseDist(q)
		if err != nil {
			server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
				"invalid distribution", false, map[string]any{"dist": q})
			return nil, nil, "", false
		}
		dist = d
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			server.WriteError(w, r, http.StatusRequestEntityTooLarge, cnserrors.ErrCodeInvalidRequest,
				"manifest too large", false, map[string]any{"limit": tooLarge.Limit})
			return nil, nil, "", false
		}
		server.WriteErrorFromErr(w, r, err, "failed to read manifest", nil)
		return nil, nil, "", false
	}

	m, err := manifest.ParseBytes(data)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid manifest", nil)
		return nil, nil, "", false
	}
	model, err := m.Build(version)
	if err != nil {
		server.WriteErrorFromErr(w, r, fmt.Errorf("invalid manifest: %w", err), "invalid manifest", nil)
		return nil, nil, "", false
	}
	return m, model, dist, true
}
