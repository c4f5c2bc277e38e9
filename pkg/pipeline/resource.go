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

package pipeline

import (
	"fmt"

	"github.com/NVIDIA/phaser/pkg/defaults"
	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
	"github.com/NVIDIA/phaser/pkg/host"
	"github.com/NVIDIA/phaser/pkg/key"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/phase"
	"github.com/NVIDIA/phaser/pkg/scanner"
	"github.com/NVIDIA/phaser/pkg/slot"
)

// resourceCells hold the entities of one resource, filled as they commit.
type resourceCells struct {
	still     *slot.Slot[any]
	flowing   *slot.Slot[any]
	block     *slot.Slot[any]
	container *slot.Slot[any]
}

func newResourceCells(k key.Key) *resourceCells {
	return &resourceCells{
		still:     slot.New[any](k.String()),
		flowing:   slot.New[any](k.WithSuffix(defaults.FlowingSuffix).String()),
		block:     slot.New[any](k.String() + " block"),
		container: slot.New[any](k.WithSuffix(defaults.ContainerSuffix).String()),
	}
}

// handleResource builds both variants of a resource and its block wrapper in
// the primary phase, registers the variants in the resource phase and, when a
// companion is requested, its container in the secondary phase.
func (p *Pipeline) handleResource(ns string, d scanner.Declaration) {
	if d.Owner.Ignored {
		return
	}
	t := targetOf(d)
	p.router.Enqueue(phase.PrimaryEntity, func() error {
		return p.buildResource(ns, t)
	})
}

func (p *Pipeline) buildResource(ns string, t target) error {
	k, err := p.resolveKey(t, ns)
	if err != nil {
		return err
	}
	if err := p.capable(t, meta.CapResource); err != nil {
		return err
	}
	ctor, ok := t.owner.Constructor(meta.SigProperties)
	if !ok {
		return t.errorf(cnserrors.ErrCodeConstructionFailure, "%s has no properties constructor", t.owner.SimpleName())
	}

	cells := newResourceCells(k)
	props := &host.ResourceProperties{
		Still:          cells.still.Supplier(),
		Flowing:        cells.flowing.Supplier(),
		Block:          cells.block.Supplier(),
		StillTexture:   key.Key{Namespace: k.Namespace, Name: fmt.Sprintf(defaults.StillTextureFormat, k.Name)},
		FlowingTexture: key.Key{Namespace: k.Namespace, Name: fmt.Sprintf(defaults.FlowingTextureFormat, k.Name)},
		Color:          t.params.Color,
	}
	if t.params.Companion {
		props.Container = cells.container.Supplier()
	}

	still, err := construct(t, ctor, props)
	if err != nil {
		return err
	}
	flowing, err := construct(t, ctor, props)
	if err != nil {
		return err
	}
	if sm, ok := still.(host.SourceMarker); ok {
		sm.MarkSource()
	}
	if err := cells.still.Set(still); err != nil {
		return t.wrap(cnserrors.ErrCodeInternal, err, "resource %s built twice", k)
	}
	if err := cells.flowing.Set(flowing); err != nil {
		return t.wrap(cnserrors.ErrCodeInternal, err, "resource %s built twice", k)
	}

	p.receive(t, meta.DesignateInstance, meta.CapResource, still)

	block, err := build(t, "resource block", func() (any, error) {
		return p.factory.ResourceBlock(still)
	})
	if err != nil {
		return err
	}
	if err := cells.block.Set(block); err != nil {
		return t.wrap(cnserrors.ErrCodeInternal, err, "resource block %s built twice", k)
	}
	if err := p.commit(t, phase.PrimaryEntity, k, block); err != nil {
		return err
	}

	p.router.Enqueue(phase.Resource, func() error {
		if err := p.commit(t, phase.Resource, k, still); err != nil {
			return err
		}
		return p.commit(t, phase.Resource, k.WithSuffix(defaults.FlowingSuffix), flowing)
	})

	if t.params.Companion {
		p.router.Enqueue(phase.SecondaryEntity, func() error {
			return p.commitContainer(t, k, cells)
		})
	}
	return nil
}

func (p *Pipeline) commitContainer(t target, k key.Key, cells *resourceCells) error {
	props := host.Properties{Listed: true, Group: p.catalog.Name()}
	container, err := build(t, "resource container", func() (any, error) {
		return p.factory.ResourceContainer(cells.still.Supplier(), props)
	})
	if err != nil {
		return err
	}
	if err := cells.container.Set(container); err != nil {
		return t.wrap(cnserrors.ErrCodeInternal, err, "resource container %s built twice", k)
	}

	ck := k.WithSuffix(defaults.ContainerSuffix)
	if err := p.commit(t, phase.SecondaryEntity, ck, container); err != nil {
		return err
	}
	p.catalog.Add(ck, container)
	return nil
}
