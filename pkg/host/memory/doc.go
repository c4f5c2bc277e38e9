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

// Package memory is an in-process host for the registration pipeline.
//
// It owns one append-only Registry per registry phase, fires the lifecycle
// events in the fixed host order and runs nested work submitted through
// setup handles after each setup drain, at most defaults.NestedWorkLimit
// units at a time. Registries are sealed once their event has been
// processed. It backs the CLI run command and the pipeline tests.
//
// Usage:
//
//	h := memory.New(meta.DistClient, worldgen.NewGrouping("plains", worldgen.CategoryOverworld))
//	p, err := pipeline.New(index, types, pipeline.WithFactory(memory.Factory{}))
//	if err != nil {
//	    return err
//	}
//	if err := h.Run(ctx, p); err != nil {
//	    return err
//	}
package memory
