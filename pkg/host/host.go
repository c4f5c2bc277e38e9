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

package host

import (
	"github.com/NVIDIA/phaser/pkg/key"
	"github.com/NVIDIA/phaser/pkg/slot"
	"github.com/NVIDIA/phaser/pkg/worldgen"
)

// Handle commits values into the registry of the current event.
type Handle interface {
	Register(k key.Key, v any) error
}

// SetupHandle is passed to setup events.
type SetupHandle interface {
	Handle
	// EnqueueWork schedules a nested unit of work. Units may run in any
	// order and concurrently with each other.
	EnqueueWork(fn func())
}

// ClientHandle is passed to the client setup event.
type ClientHandle interface {
	SetupHandle
	AssignPresentation(target, attr any) error
}

// Properties configure a secondary entity at construction.
type Properties struct {
	// Listed requests a catalog listing.
	Listed bool
	// Group is the catalog the entity is listed in.
	Group string
}

// ResourceProperties are shared by both variants of a resource. The
// suppliers read cells filled later in the pipeline and return nil until
// then.
type ResourceProperties struct {
	Still     func() any
	Flowing   func() any
	Block     func() any
	Container func() any

	StillTexture   key.Key
	FlowingTexture key.Key
	Color          uint32
}

// SourceMarker is implemented by resource variants that can be flagged as
// the source variant.
type SourceMarker interface {
	MarkSource()
}

// Producer is the value of a field-based aggregate declaration. The
// committed aggregate type is written into Type.
type Producer struct {
	// Holds names the owner type whose instances contribute to the aggregate.
	Holds string
	// Supplier builds aggregate instances.
	Supplier any

	Type *slot.Slot[any]
}

// NewProducer returns a producer with an empty type cell.
func NewProducer(holds string, supplier any) *Producer {
	return &Producer{
		Holds:    holds,
		Supplier: supplier,
		Type:     slot.New[any]("aggregate type of " + holds),
	}
}

// Factory builds host-domain wrapper objects.
type Factory interface {
	Companion(primary any, props Properties) (any, error)
	ResourceBlock(still any) (any, error)
	ResourceContainer(still func() any, props Properties) (any, error)
	SurfaceType(supplier any) (any, error)
	AggregateType(supplier any, contributors []any) (any, error)
	WorldFeature(d worldgen.Descriptor) (any, error)
}
