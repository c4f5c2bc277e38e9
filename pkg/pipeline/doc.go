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

// Package pipeline wires discovery, dispatch and the phase queues into a
// deferred registration pipeline.
//
// New scans the metadata index for the origin package, runs the privileged
// config and module-init passes synchronously, then dispatches every other
// declaration to its handler. Handlers validate what they can and enqueue
// actions on the queues of the phases owning their target registries. The
// host then drives the pipeline through Activate, once per phase in host
// order, and OnGrouping for every grouping reported during world data
// loading.
//
// # Phases
//
//	primary-entity       primary entities, resource blocks
//	secondary-entity     companions, secondary entities, resource containers
//	resource             resource variants (still, flowing)
//	interaction-surface  surface types
//	aggregate            aggregate types built from their contributors
//	client-setup         presentation attributes (client distribution only)
//	common-setup         world features
//	world-data           gated feature contributions, applied by OnGrouping
//
// # Forward References
//
// Primary entities naming an aggregate owner are recorded in a
// cross-reference index when committed and consumed when the aggregate type
// commits. Entries never consumed are logged and dropped after the aggregate
// phase. Entities that must name each other before either exists read
// write-once slots filled later in the pipeline.
//
// # Failures
//
// Every failure is logged with its code, severity, owner type and member.
// Non-fatal failures abandon the single declaration. Fatal failures abort
// the remaining actions of the current phase and are returned from Activate.
package pipeline
