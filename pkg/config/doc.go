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

// Package config is the configuration collaborator of the pipeline.
//
// Config declarations are handed to a Manager during the privileged pass,
// before any other declaration is dispatched. Store is the default Manager:
// it records the current value of every registered field per namespace and
// applies overrides decoded from a YAML document of the form:
//
//	example:
//	  maxHeat: 1200
//	  enableOres: false
//
// Overridable fields use a Knob as their receiver:
//
//	var maxHeat = config.NewKnob(1000)
//	field := config.Field("maxHeat", maxHeat)
package config
