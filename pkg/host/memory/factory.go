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

package memory

import (
	"github.com/NVIDIA/phaser/pkg/host"
	"github.com/NVIDIA/phaser/pkg/worldgen"
)

// Companion is the secondary entity paired with a primary entity.
type Companion struct {
	Of         any
	Properties host.Properties
}

// ResourceBlock places a resource in the world.
type ResourceBlock struct {
	Still any
}

// ResourceContainer carries a resource.
type ResourceContainer struct {
	Still      func() any
	Properties host.Properties
}

// SurfaceType is a committed interaction surface type.
type SurfaceType struct {
	Supplier any
}

// AggregateType is a committed aggregate type.
type AggregateType struct {
	Supplier     any
	Contributors []any
}

// Feature is a committed world feature.
type Feature struct {
	Descriptor worldgen.Descriptor
}

// Factory builds the in-memory wrapper objects.
type Factory struct{}

var _ host.Factory = Factory{}

// Companion implements host.Factory.
func (Factory) Companion(primary any, props host.Properties) (any, error) {
	return &Companion{Of: primary, Properties: props}, nil
}

// ResourceBlock implements host.Factory.
func (Factory) ResourceBlock(still any) (any, error) {
	return &ResourceBlock{Still: still}, nil
}

// ResourceContainer implements host.Factory.
func (Factory) ResourceContainer(still func() any, props host.Properties) (any, error) {
	return &ResourceContainer{Still: still, Properties: props}, nil
}

// SurfaceType implements host.Factory.
func (Factory) SurfaceType(supplier any) (any, error) {
	return &SurfaceType{Supplier: supplier}, nil
}

// AggregateType implements host.Factory.
func (Factory) AggregateType(supplier any, contributors []any) (any, error) {
	cp := make([]any, len(contributors))
	copy(cp, contributors)
	return &AggregateType{Supplier: supplier, Contributors: cp}, nil
}

// WorldFeature implements host.Factory.
func (Factory) WorldFeature(d worldgen.Descriptor) (any, error) {
	return &Feature{Descriptor: d}, nil
}
