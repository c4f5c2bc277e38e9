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

// Package header provides the Kubernetes-style header shared by every phaser
// document: declaration manifests and the scan and run reports the CLI
// writes.
//
// A header carries a Kind, an APIVersion and a string metadata map:
//
//	kind: DeclarationIndex
//	apiVersion: phaser.nvidia.com/v1alpha1
//	metadata:
//	  minVersion: v0.2.0
//
// Reports are initialized with a timestamp and the binary version:
//
//	var h header.Header
//	h.Init(header.KindRunReport, header.APIVersion, version)
package header
