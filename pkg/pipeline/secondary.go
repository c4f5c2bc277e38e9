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
	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
	"github.com/NVIDIA/phaser/pkg/host"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/phase"
	"github.com/NVIDIA/phaser/pkg/scanner"
)

// handleSecondary constructs a standalone secondary entity from a
// type-level declaration.
func (p *Pipeline) handleSecondary(ns string, d scanner.Declaration) {
	if d.Owner.Ignored {
		return
	}
	t := targetOf(d)
	p.router.Enqueue(phase.SecondaryEntity, func() error {
		return p.commitSecondary(ns, t)
	})
}

func (p *Pipeline) commitSecondary(ns string, t target) error {
	k, err := p.resolveKey(t, ns)
	if err != nil {
		return err
	}
	if err := p.capable(t, meta.CapSecondaryEntity); err != nil {
		return err
	}
	ctor, ok := t.owner.Constructor(meta.SigProperties)
	if !ok {
		return t.errorf(cnserrors.ErrCodeConstructionFailure, "%s has no properties constructor", t.owner.SimpleName())
	}

	props := host.Properties{Listed: t.params.Catalogued, Group: p.catalog.Name()}
	inst, err := construct(t, ctor, props)
	if err != nil {
		return err
	}

	p.receive(t, meta.DesignateInstance, meta.CapSecondaryEntity, inst)

	if err := p.commit(t, phase.SecondaryEntity, k, inst); err != nil {
		return err
	}
	if t.params.Catalogued {
		p.catalog.Add(k, inst)
	}
	if t.owner.CatalogIcon {
		p.catalog.SetIcon(inst)
	}
	return nil
}
