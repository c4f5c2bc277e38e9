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

// Package manifest decodes declaration index documents.
//
// A manifest is the YAML form of a registration table: the header, the
// package the index was generated for, the type descriptors referenced by
// the declarations and the declarations themselves.
//
//	kind: DeclarationIndex
//	apiVersion: phaser.nvidia.com/v1alpha1
//	metadata:
//	  minVersion: v0.1.0
//	package: example
//	types:
//	  - name: example.Blocks
//	    capabilities: [primary-entity]
//	    constructors: [default]
//	    fields:
//	      - name: FURNACE
//	        holds: primary-entity
//	        value: {displayName: Furnace}
//	declarations:
//	  - owner: example.Blocks
//	    member: FURNACE
//	    marker: primary-entity
//	    params: {companion: true}
//
// Build turns a decoded manifest into a [scanner.Table] and a
// [scanner.Types] loader. Field values become [Object]s, receiving fields
// become write-once slots, config fields become knobs and producer fields
// become [host.Producer]s.
package manifest
