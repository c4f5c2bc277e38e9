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

// Package meta describes the declarations an embedding application exposes to
// the registration pipeline.
//
// Instead of scanning compiled code, the application publishes a static
// table of owner types. A Type lists the capabilities it is assignable to,
// its environment constraints and its members: fields, methods and
// constructors with the qualifiers and designations the pipeline validates.
// Member values are reached through closures, and the receiving end of a
// committed result is an Assigner (usually a slot.Slot) rather than a
// mutable static field.
//
// # Markers
//
// A Marker selects the handler owning a declaration. Two markers are
// privileged and processed before all others:
//
//   - MarkerConfig: configuration fields handed to the configuration manager
//   - MarkerModuleInit: zero-argument static procedures run once at startup
//
// The general markers are MarkerPrimaryEntity, MarkerSecondaryEntity,
// MarkerResource, MarkerInteractionSurface, MarkerAggregate,
// MarkerLegacyAggregate and MarkerWorldDatum.
//
// # Designations
//
// Designations are secondary markers on members of an owner type, e.g. the
// field holding a supplier, the fields receiving a committed instance, or
// the method selecting a presentation attribute.
package meta
