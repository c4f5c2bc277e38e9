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
	"github.com/NVIDIA/phaser/pkg/key"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/phase"
	"github.com/NVIDIA/phaser/pkg/scanner"
)

// handlePrimary commits the instance held by a static field of the owner to
// the primary registry.
func (p *Pipeline) handlePrimary(ns string, d scanner.Declaration) {
	if d.Owner.Ignored {
		return
	}
	t := targetOf(d)
	p.router.Enqueue(phase.PrimaryEntity, func() error {
		return p.commitPrimary(ns, t)
	})
}

func (p *Pipeline) commitPrimary(ns string, t target) error {
	f, err := p.staticField(t)
	if err != nil {
		return err
	}
	if f.Has(meta.DesignateIgnore) {
		return nil
	}

	inst, err := p.read(t, f)
	if err != nil {
		return err
	}
	if inst == nil {
		return t.warnf(cnserrors.ErrCodeMissingMember, "field %s holds no instance", t.member)
	}

	k, err := p.resolveKey(t, ns)
	if err != nil {
		return err
	}
	if err := p.capable(t, meta.CapPrimaryEntity); err != nil {
		return err
	}
	if _, ok := t.owner.Constructor(meta.SigDefault); !ok {
		return t.errorf(cnserrors.ErrCodeConstructionFailure, "%s has no default constructor", t.owner.SimpleName())
	}

	if err := p.commit(t, phase.PrimaryEntity, k, inst); err != nil {
		return err
	}
	p.recordCommitted(t, k)

	if owner := t.params.Aggregate; owner != "" {
		p.contributors.Add(owner, inst)
	}

	if p.dist.IsClient() {
		p.router.Enqueue(phase.ClientSetup, func() error {
			return p.assignPresentation(t, inst)
		})
	}

	if t.params.Companion {
		p.router.Enqueue(phase.SecondaryEntity, func() error {
			return p.commitCompanion(t, k, inst)
		})
	}
	return nil
}

// commitCompanion registers the secondary entity paired with a primary entity.
func (p *Pipeline) commitCompanion(t target, k key.Key, inst any) error {
	props := host.Properties{Listed: t.params.Catalogued, Group: p.catalog.Name()}
	companion, err := build(t, "companion", func() (any, error) {
		return p.factory.Companion(inst, props)
	})
	if err != nil {
		return err
	}
	if err := p.commit(t, phase.SecondaryEntity, k, companion); err != nil {
		return err
	}
	if t.params.Catalogued {
		p.catalog.Add(k, companion)
	}
	if t.owner.CatalogIcon {
		p.catalog.SetIcon(companion)
	}
	return nil
}

// assignPresentation selects the presentation attribute of a committed
// primary entity and submits its assignment as nested client work.
func (p *Pipeline) assignPresentation(t target, inst any) error {
	methods := t.owner.MethodsWith(meta.DesignatePresentation)
	if len(methods) == 0 {
		return nil
	}

	selected := false
	for _, m := range methods {
		mt := t.at(m.Name)
		if m.Has(meta.DesignateIgnore) {
			continue
		}
		if m.Static {
			p.report(mt.errorf(cnserrors.ErrCodeNotStatic, "presentation method %s must not be static", m.Name))
			continue
		}
		if m.Returns != meta.CapPresentation {
			p.report(mt.errorf(cnserrors.ErrCodeWrongType, "presentation method %s does not return a presentation", m.Name))
			continue
		}
		if m.Params != 0 {
			p.report(mt.errorf(cnserrors.ErrCodeWrongType, "presentation method %s must take no arguments", m.Name))
			continue
		}
		if selected {
			p.report(mt.errorf(cnserrors.ErrCodeDuplicateDesignation, "duplicate presentation method %s ignored", m.Name))
			continue
		}

		attr, err := invoke(mt, m, inst)
		if err != nil {
			p.report(err)
			continue
		}
		selected = true

		h, err := p.handle(mt, phase.ClientSetup)
		if err != nil {
			return err
		}
		ch, ok := h.(host.ClientHandle)
		if !ok {
			return mt.errorf(cnserrors.ErrCodeInternal, "client setup handle cannot assign presentations")
		}
		ch.EnqueueWork(func() {
			if err := ch.AssignPresentation(inst, attr); err != nil {
				p.report(mt.wrap(cnserrors.ErrCodeInternal, err, "host rejected presentation"))
			}
		})
	}
	return nil
}
