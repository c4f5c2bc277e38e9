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

// handleAggregate commits the aggregate type of a field-based producer
// declaration and writes it back into the producer.
func (p *Pipeline) handleAggregate(ns string, d scanner.Declaration) {
	if d.Owner.Ignored {
		return
	}
	t := targetOf(d)
	p.router.Enqueue(phase.Aggregate, func() error {
		return p.commitAggregate(ns, t)
	})
}

func (p *Pipeline) commitAggregate(ns string, t target) error {
	f, err := p.staticField(t)
	if err != nil {
		return err
	}
	if f.Has(meta.DesignateIgnore) {
		return nil
	}

	v, err := p.read(t, f)
	if err != nil {
		return err
	}
	if v == nil {
		return t.errorf(cnserrors.ErrCodeMissingMember, "field %s holds no producer", t.member)
	}
	prod, ok := v.(*host.Producer)
	if !ok || f.Holds != meta.CapAggregateProducer {
		return t.errorf(cnserrors.ErrCodeWrongType, "field %s does not hold an aggregate producer", t.member)
	}

	k, err := p.resolveKey(t, ns)
	if err != nil {
		return err
	}

	holds := prod.Holds
	if holds == "" {
		holds = t.params.Aggregate
	}
	if holds == "" {
		return t.errorf(cnserrors.ErrCodeMissingDesignation, "producer %s names no contributing type", t.member)
	}

	contributors, err := p.takeContributors(t, holds, true)
	if err != nil {
		return err
	}

	typ, err := build(t, "aggregate type", func() (any, error) {
		return p.factory.AggregateType(prod.Supplier, contributors)
	})
	if err != nil {
		return err
	}

	if prod.Type == nil {
		return t.fatalf(cnserrors.ErrCodeInaccessibleMember, "aggregate type of %s unable to be saved", holds)
	}
	if err := prod.Type.Set(typ); err != nil {
		return t.wrap(cnserrors.ErrCodeInaccessibleMember, err, "aggregate type of %s unable to be saved", holds).Escalate()
	}

	return p.commit(t, phase.Aggregate, k, typ)
}

// handleLegacyAggregate commits the aggregate type of a type-level
// declaration. The supplier is a designated static field or, failing that,
// the position-state constructor of the owner.
func (p *Pipeline) handleLegacyAggregate(ns string, d scanner.Declaration) {
	if d.Owner.Ignored {
		return
	}
	t := targetOf(d)
	p.router.Enqueue(phase.Aggregate, func() error {
		return p.commitLegacyAggregate(ns, t)
	})
}

func (p *Pipeline) commitLegacyAggregate(ns string, t target) error {
	k, err := p.resolveKey(t, ns)
	if err != nil {
		return err
	}
	if err := p.capable(t, meta.CapAggregate); err != nil {
		return err
	}

	supplier, err := p.source(t, meta.DesignateSupplier, meta.CapAggregateSupplier)
	if err != nil {
		if cnserrors.CodeOf(err) != cnserrors.ErrCodeMissingDesignation {
			return err
		}
		ctor, ok := t.owner.Constructor(meta.SigPositionState)
		if !ok || ctor.New == nil {
			return t.fatalf(cnserrors.ErrCodeConstructionFailure,
				"%s has neither a supplier nor a position-state constructor", t.owner.SimpleName())
		}
		supplier = ctor.New
	}

	contributors, err := p.takeContributors(t, t.owner.Name, hasReceivers(t, meta.DesignateType))
	if err != nil {
		return err
	}

	typ, err := build(t, "aggregate type", func() (any, error) {
		return p.factory.AggregateType(supplier, contributors)
	})
	if err != nil {
		return err
	}

	eligible, written := p.receive(t, meta.DesignateType, meta.CapAggregateType, typ)
	if eligible == 0 {
		return t.fatalf(cnserrors.ErrCodeMissingDesignation,
			"aggregate type of %s unable to be saved: no type field", t.owner.SimpleName())
	}
	if written == 0 {
		return t.fatalf(cnserrors.ErrCodeInaccessibleMember,
			"aggregate type of %s unable to be saved", t.owner.SimpleName())
	}

	return p.commit(t, phase.Aggregate, k, typ)
}

// takeContributors consumes the contributors recorded for owner. An owner
// with none is UNRESOLVED_AGGREGATE_OWNER, fatal when the committed result
// would be reachable through a receiving field.
func (p *Pipeline) takeContributors(t target, owner string, reachable bool) ([]any, error) {
	contributors, ok := p.contributors.Take(owner)
	if ok && len(contributors) > 0 {
		return contributors, nil
	}

	err := t.errorf(cnserrors.ErrCodeUnresolvedAggregateOwner, "no primary entities contribute to %s", owner)
	if reachable {
		return nil, err.Escalate()
	}
	return nil, err
}
