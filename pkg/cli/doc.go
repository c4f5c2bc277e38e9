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

// Package cli implements the phaser command-line interface.
//
// # Commands
//
// scan - List the declarations a pipeline would dispatch:
//
//	phaser scan --manifest declarations.yaml [--dist client] [--format json]
//
// Reads a declaration index, applies the namespace, resolution and
// distribution filters and prints the surviving declarations, privileged
// ones first.
//
// run - Run the registration pipeline against the in-memory host:
//
//	phaser run --manifest declarations.yaml --config overrides.yaml \
//	    --grouping plains:overworld --output cm://phaser/last-run
//
// Drives every lifecycle phase and reports the committed keys per registry,
// the catalog, world features per grouping and registered config values.
// A fatal registration error aborts the run with a non-zero exit code.
//
// serve - Serve scan and run over HTTP:
//
//	phaser serve --port 8080 --config cm://phaser/overrides
//
// POST a manifest to /v1/scan or /v1/run; dist and grouping are query
// parameters. Registration failures are answered with 422 and the error
// code of the failing declaration.
//
// # Global Flags
//
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Command Flags
//
//	--manifest, -m  Declaration index: file, "-", http(s) URL or cm://namespace/name[/key]
//	--dist, -d      Distribution: client or server (default: server)
//	--output, -o    Output destination: file, cm://namespace/name[/key] (default: stdout)
//	--format, -t    Output format: yaml, json, table (default: yaml)
//	--kubeconfig    Kubeconfig for ConfigMap sources and destinations
//
// # Environment Variables
//
//	LOG_LEVEL   Set logging verbosity (debug, info, warn, error)
//	PORT        Listen port for serve
//	KUBECONFIG  Kubeconfig used when --kubeconfig is not set
//
// # Exit Codes
//
//	0  Success
//	1  Invalid arguments, unreadable manifest or aborted registration
package cli
