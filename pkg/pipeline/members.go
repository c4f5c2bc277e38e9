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
	"strings"

	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
	"github.com/NVIDIA/phaser/pkg/host"
	"github.com/NVIDIA/phaser/pkg/key"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/phase"
	"github.com/NVIDIA/phaser/pkg/scanner"
)

// target identifies the declaration an error is about.
type target struct {
	owner  *meta.Type
	member string
	marker meta.Marker
	params meta.Params
}

func targetOf(d scanner.Declaration) target {
	return target{owner: d.Owner, member: d.Member, marker: d.Marker, params: d.Params}
}

// at returns t narrowed to member name.
func (t target) at(name string) target {
	t.member = name
	return t
}

func (t target) context() map[string]any {
	ctx := map[string]any{"owner": t.owner.Name, "marker": string(t.marker)}
	if t.member != "" {
		ctx["member"] = t.member
	}
	return ctx
}

func (t target) errorf(code cnserrors.ErrorCode, format string, args ...any) *cnserrors.StructuredError {
	return cnserrors.NewWithContext(code, fmt.Sprintf(format, args...), t.context())
}

func (t target) warnf(code cnserrors.ErrorCode, format string, args ...any) *cnserrors.StructuredError {
	return cnserrors.Warn(code, fmt.Sprintf(format, args...), t.context())
}

func (t target) fatalf(code cnserrors.ErrorCode, format string, args ...any) *cnserrors.StructuredError {
	return cnserrors.Fatal(code, fmt.Sprintf(format, args...), t.context())
}

func (t target) wrap(code cnserrors.ErrorCode, cause error, format string, args ...any) *cnserrors.StructuredError {
	return cnserrors.WrapWithContext(code, fmt.Sprintf(format, args...), cause, t.context())
}

// resolveKey resolves the registry key of the declaration.
func (p *Pipeline) resolveKey(t target, ns string) (key.Key, error) {
	k, err := key.Resolve(t.params.Namespace, ns, t.params.Name)
	if err != nil {
		return key.Key{}, t.wrap(cnserrors.ErrCodeEmptyName, err, "unable to resolve registry name")
	}
	return k, nil
}

// capable checks the owner type is assignable to c.
func (p *Pipeline) capable(t target, c meta.Capability) error {
	if !t.owner.Is(c) {
		return t.errorf(cnserrors.ErrCodeWrongType, "%s is not a %s", t.owner.SimpleName(), c)
	}
	return nil
}

// staticField resolves the field the declaration names and checks it can be
// read without an instance.
func (p *Pipeline) staticField(t target) (*meta.Field, error) {
	f, ok := t.owner.Field(t.member)
	if !ok {
		return nil, t.errorf(cnserrors.ErrCodeMissingMember, "field %s not found", t.member)
	}
	if f.Get == nil {
		return nil, t.errorf(cnserrors.ErrCodeInaccessibleMember, "field %s is not readable", t.member)
	}
	if !f.Static {
		return nil, t.errorf(cnserrors.ErrCodeNotStatic, "field %s must be static", t.member)
	}
	if !f.Final {
		p.report(t.warnf(cnserrors.ErrCodeNotFinal, "field %s is not final", t.member))
	}
	return f, nil
}

// read returns the current value of f.
func (p *Pipeline) read(t target, f *meta.Field) (any, error) {
	v, err := f.Get()
	if err != nil {
		return nil, t.at(f.Name).wrap(cnserrors.ErrCodeInaccessibleMember, err, "failed to read field %s", f.Name)
	}
	return v, nil
}

// source returns the value of the first usable static field of the owner
// carrying d and holding capability holds. A non-static candidate abandons
// the declaration with NOT_STATIC, other unusable candidates and duplicates
// are reported and skipped, and no usable candidate is MISSING_DESIGNATION.
func (p *Pipeline) source(t target, d meta.Designation, holds meta.Capability) (any, error) {
	var found any
	for _, f := range t.owner.FieldsWith(d) {
		ft := t.at(f.Name)
		if f.Has(meta.DesignateIgnore) {
			continue
		}
		if !f.Static {
			return nil, ft.errorf(cnserrors.ErrCodeNotStatic, "%s field %s must be static", d, f.Name)
		}
		if !f.Final {
			p.report(ft.warnf(cnserrors.ErrCodeNotFinal, "%s field %s is not final", d, f.Name))
		}
		if f.Holds != holds {
			p.report(ft.errorf(cnserrors.ErrCodeWrongType, "%s field %s does not hold a %s", d, f.Name, holds))
			continue
		}
		if found != nil {
			p.report(ft.errorf(cnserrors.ErrCodeDuplicateDesignation, "duplicate %s field %s ignored", d, f.Name))
			continue
		}
		if f.Get == nil {
			p.report(ft.errorf(cnserrors.ErrCodeInaccessibleMember, "%s field %s is not readable", d, f.Name))
			continue
		}
		v, err := p.read(t, f)
		if err != nil {
			p.report(err)
			continue
		}
		if v == nil {
			p.report(ft.errorf(cnserrors.ErrCodeMissingDesignation, "%s field %s is empty", d, f.Name))
			continue
		}
		found = v
	}
	if found == nil {
		return nil, t.errorf(cnserrors.ErrCodeMissingDesignation, "no %s found", d)
	}
	return found, nil
}

// receive writes v into every static field of the owner carrying d and
// holding capability holds. It returns the number of eligible receivers and
// the number of successful writes.
func (p *Pipeline) receive(t target, d meta.Designation, holds meta.Capability, v any) (eligible, written int) {
	for _, f := range t.owner.FieldsWith(d) {
		ft := t.at(f.Name)
		if f.Has(meta.DesignateIgnore) {
			continue
		}
		if f.Holds != holds {
			p.report(ft.errorf(cnserrors.ErrCodeWrongType, "%s field %s cannot hold a %s", d, f.Name, holds))
			continue
		}
		if !f.Static {
			p.report(ft.errorf(cnserrors.ErrCodeNotStatic, "%s field %s must be static", d, f.Name))
			continue
		}
		if f.Receiver == nil {
			p.report(ft.errorf(cnserrors.ErrCodeInaccessibleMember, "%s field %s cannot be written", d, f.Name))
			continue
		}

		eligible++
		if eligible > 1 {
			p.report(ft.warnf(cnserrors.ErrCodeDuplicateDesignation, "multiple %s fields, writing all", d))
		}
		if err := f.Receiver.Assign(v); err != nil {
			p.report(ft.wrap(cnserrors.ErrCodeInaccessibleMember, err, "failed to write %s field %s", d, f.Name))
			continue
		}
		written++
	}
	return eligible, written
}

// hasReceivers reports whether the owner declares any field carrying d.
func hasReceivers(t target, d meta.Designation) bool {
	for _, f := range t.owner.FieldsWith(d) {
		if !f.Has(meta.DesignateIgnore) {
			return true
		}
	}
	return false
}

// construct invokes c, converting failures and panics to CONSTRUCTION_FAILURE.
func construct(t target, c *meta.Constructor, args ...any) (v any, err error) {
	if c.New == nil {
		return nil, t.errorf(cnserrors.ErrCodeConstructionFailure, "constructor %s is not callable", c.Signature)
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, t.errorf(cnserrors.ErrCodeConstructionFailure, "constructor %s panicked: %v", c.Signature, r)
		}
	}()

	v, err = c.New(args...)
	if err != nil {
		return nil, t.wrap(cnserrors.ErrCodeConstructionFailure, err, "constructor %s failed", c.Signature)
	}
	if v == nil {
		return nil, t.errorf(cnserrors.ErrCodeConstructionFailure, "constructor %s returned nothing", c.Signature)
	}
	return v, nil
}

// invoke calls m on recv, converting failures and panics to errors.
func invoke(t target, m *meta.Method, recv any) (v any, err error) {
	if m.Invoke == nil {
		return nil, t.errorf(cnserrors.ErrCodeInaccessibleMember, "method %s is not callable", m.Name)
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, t.errorf(cnserrors.ErrCodeConstructionFailure, "method %s panicked: %v", m.Name, r)
		}
	}()

	v, err = m.Invoke(recv)
	if err != nil {
		return nil, t.wrap(cnserrors.ErrCodeConstructionFailure, err, "method %s failed", m.Name)
	}
	return v, nil
}

// build wraps a host factory call, converting failures to CONSTRUCTION_FAILURE.
func build(t target, what string, fn func() (any, error)) (any, error) {
	v, err := fn()
	if err != nil {
		return nil, t.wrap(cnserrors.ErrCodeConstructionFailure, err, "host failed to build %s", what)
	}
	if v == nil {
		return nil, t.errorf(cnserrors.ErrCodeConstructionFailure, "host built no %s", what)
	}
	return v, nil
}

// methodName strips a parameter list from a member name, "init()" becomes "init".
func methodName(member string) string {
	if i := strings.IndexByte(member, '('); i >= 0 {
		return member[:i]
	}
	return member
}

// handle returns the live handle of ph.
func (p *Pipeline) handle(t target, ph phase.Phase) (host.Handle, error) {
	h, err := p.router.Handle(ph)
	if err != nil {
		return nil, t.wrap(cnserrors.ErrCodeInternal, err, "no live %s handle", ph)
	}
	return h, nil
}

// setupHandle returns the live handle of a setup phase.
func (p *Pipeline) setupHandle(t target, ph phase.Phase) (host.SetupHandle, error) {
	h, err := p.handle(t, ph)
	if err != nil {
		return nil, err
	}
	sh, ok := h.(host.SetupHandle)
	if !ok {
		return nil, t.errorf(cnserrors.ErrCodeInternal, "%s handle does not accept nested work", ph)
	}
	return sh, nil
}

// commit registers v under k in the registry of ph.
func (p *Pipeline) commit(t target, ph phase.Phase, k key.Key, v any) error {
	h, err := p.handle(t, ph)
	if err != nil {
		return err
	}
	if err := h.Register(k, v); err != nil {
		return t.wrap(cnserrors.ErrCodeInternal, err, "host rejected %s", k)
	}
	registrationsTotal.WithLabelValues(string(ph)).Inc()
	p.log.Debug("registered", "phase", ph, "key", k.String(), "owner", t.owner.Name)
	return nil
}
