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
	"github.com/NVIDIA/phaser/pkg/scanner"
)

// privileged runs the config pass, then the module-init pass, synchronously
// and before any other declaration is dispatched.
func (p *Pipeline) privileged(index scanner.Index, loader scanner.Loader) {
	ns := p.origin.Namespace

	for _, d := range scanner.Scan(index, loader, p.origin, p.dist, meta.MarkerConfig) {
		declarationsTotal.WithLabelValues(string(d.Marker)).Inc()
		p.report(p.registerConfig(ns, d))
	}
	for _, d := range scanner.Scan(index, loader, p.origin, p.dist, meta.MarkerModuleInit) {
		declarationsTotal.WithLabelValues(string(d.Marker)).Inc()
		p.report(p.runModuleInit(d))
	}
}

func (p *Pipeline) registerConfig(ns string, d scanner.Declaration) error {
	t := targetOf(d)
	f, ok := d.Owner.Field(d.Member)
	if !ok {
		return t.errorf(cnserrors.ErrCodeMissingMember, "config field %s not found", d.Member)
	}
	if f.Has(meta.DesignateIgnore) {
		return nil
	}
	if err := p.config.Register(f, ns); err != nil {
		return t.wrap(cnserrors.CodeOf(err), err, "failed to register config field %s", d.Member)
	}
	return nil
}

func (p *Pipeline) runModuleInit(d scanner.Declaration) error {
	name := methodName(d.Member)
	t := targetOf(d).at(name)

	m, ok := d.Owner.Method(name)
	if !ok {
		return t.errorf(cnserrors.ErrCodeMissingMember, "init method %s not found", name)
	}
	if m.Has(meta.DesignateIgnore) {
		return nil
	}
	if !m.Static {
		return t.errorf(cnserrors.ErrCodeNotStatic, "init method %s must be static", name)
	}
	if m.Params != 0 {
		return t.errorf(cnserrors.ErrCodeWrongType, "init method %s must take no arguments", name)
	}
	if _, err := invoke(t, m, nil); err != nil {
		return err
	}
	p.log.Debug("module init complete", "owner", d.Owner.Name, "method", name)
	return nil
}
