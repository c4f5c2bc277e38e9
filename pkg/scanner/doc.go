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

// Package scanner discovers declarations in a static metadata index.
//
// An Index is an ordered table of entries (owner type name, member name,
// marker, parameters), typically generated at build time or decoded from a
// manifest. Scan filters the table for the markers a caller handles and
// applies, in this order:
//
//   - namespace filter: the owner type name must lie in the origin package
//     or one of its subpackages
//   - owner resolution: owners that fail to load are skipped with a debug log
//   - environment filter: client-only owners are dropped unless running the
//     client distribution, explicit side constraints must match
//
// Results keep index order.
//
// Usage:
//
//	origin := scanner.OriginFromPackage("github.com/acme/example")
//	decls := scanner.Scan(index, loader, origin, meta.DistServer, meta.MarkerPrimaryEntity)
package scanner
