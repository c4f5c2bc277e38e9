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

// Package host defines the contract between the registration pipeline and
// the host framework that owns the registries.
//
// The host fires lifecycle events in a fixed order and passes a Handle
// scoped to the event. A Handle is only valid while its event is being
// processed. Setup events pass a SetupHandle, whose EnqueueWork schedules
// nested units the host runs later with no ordering guarantee. The client
// setup event passes a ClientHandle that also assigns presentation
// attributes.
//
// Host-domain wrapper objects (companions, resource blocks and containers,
// surface and aggregate types, world features) are built by a Factory.
package host
