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
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/phase"
	"github.com/NVIDIA/phaser/pkg/scanner"
	"github.com/NVIDIA/phaser/pkg/worldgen"
)

// handleWorldDatum registers the world feature described by a committed
// primary entity during common setup and gates its contribution to the
// groupings reported afterwards.
func (p *Pipeline) handleWorldDatum(_ string, d scanner.Declaration) {
	if d.Owner.Ignored {
		return
	}
	t := targetOf(d)
	p.router.Enqueue(phase.CommonSetup, func() error {
		return p.commitWorldDatum(t)
	})
}

func (p *Pipeline) commitWorldDatum(t target) error {
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
	src, ok := inst.(worldgen.Source)
	if !ok {
		return t.errorf(cnserrors.ErrCodeWrongType, "field %s does not describe world data", t.member)
	}

	k, ok := p.Committed(t.owner.Name, t.member)
	if !ok {
		return t.errorf(cnserrors.ErrCodeNotFound, "field %s was never committed as a primary entity", t.member)
	}

	desc := worldgen.Describe(k, inst, src)
	feature, err := build(t, "world feature", func() (any, error) {
		return p.factory.WorldFeature(desc)
	})
	if err != nil {
		return err
	}

	sh, err := p.setupHandle(t, phase.CommonSetup)
	if err != nil {
		return err
	}
	sh.EnqueueWork(func() {
		if err := sh.Register(k, feature); err != nil {
			p.report(t.wrap(cnserrors.ErrCodeInternal, err, "host rejected world feature %s", k))
			return
		}
		registrationsTotal.WithLabelValues(string(phase.CommonSetup)).Inc()
	})

	p.gate.Add(worldgen.Contribution{
		Source:   k,
		Criteria: desc.Criteria(),
		Stage:    worldgen.StageUndergroundOres,
		Feature:  feature,
	})
	return nil
}
