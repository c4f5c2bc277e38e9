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

// Package defaults provides centralized configuration constants for phaser.
//
// This package defines registry naming conventions, nested work limits,
// the timeouts used when manifests or configuration overrides are fetched
// from HTTP endpoints or Kubernetes ConfigMaps, and the limits of the
// serve command's HTTP server.
//
// # Usage
//
//	import "github.com/NVIDIA/phaser/pkg/defaults"
//
//	name := base + defaults.FlowingSuffix
//	ctx, cancel := context.WithTimeout(ctx, defaults.ConfigMapReadTimeout)
//	defer cancel()
package defaults
