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

// Package worldgen gates world-generation contributions per grouping.
//
// A world datum exposes its generation parameters through Source. Describe
// turns a Source into a Descriptor, whose Criteria select the groupings a
// contribution applies to: nether data only reach nether groupings, all other
// data reach non-nether groupings, and an optional allow-list restricts
// groupings by name.
//
// A Gate collects contributions during setup and applies them when the host
// reports each grouping:
//
//	gate := worldgen.NewGate()
//	gate.Add(worldgen.Contribution{Criteria: d.Criteria(), Stage: worldgen.StageUndergroundOres, Feature: f})
//	applied := gate.Apply(grouping)
package worldgen
