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
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/phase"
	"github.com/NVIDIA/phaser/pkg/scanner"
)

// handleSurface builds an interaction surface type from the single supplier
// field of the owner. The key and capability are checked at dispatch time.
func (p *Pipeline) handleSurface(ns string, d scanner.Declaration) {
	if d.Owner.Ignored {
		return
	}
	t := targetOf(d)

	k, err := p.resolveKey(t, ns)
	if err != nil {
		p.report(err)
		return
	}
	if err := p.capable(t, meta.CapInteractionSurface); err != nil {
		p.report(err)
		return
	}

	p.router.Enqueue(phase.InteractionSurface, func() error {
		supplier, err := p.source(t, meta.DesignateSupplier, meta.CapSurfaceSupplier)
		if err != nil {
			return err
		}
		typ, err := build(t, "surface type", func() (any, error) {
			return p.factory.SurfaceType(supplier)
		})
		if err != nil {
			return err
		}
		p.receive(t, meta.DesignateType, meta.CapSurfaceType, typ)
		return p.commit(t, phase.InteractionSurface, k, typ)
	})
}
