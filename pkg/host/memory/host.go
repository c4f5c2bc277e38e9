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
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/phaser/pkg/defaults"
	"github.com/NVIDIA/phaser/pkg/host"
	"github.com/NVIDIA/phaser/pkg/key"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/phase"
	"github.com/NVIDIA/phaser/pkg/worldgen"
)

// Lifecycle receives the host events.
type Lifecycle interface {
	Activate(ctx context.Context, p phase.Phase, h host.Handle) error
	OnGrouping(ctx context.Context, g *worldgen.Grouping) int
}

// Commit records one registration.
type Commit struct {
	Phase phase.Phase `json:"phase" yaml:"phase"`
	Key   key.Key     `json:"key" yaml:"key"`
}

// Presentation records one presentation assignment.
type Presentation struct {
	Target any
	Attr   any
}

// Host is an in-memory host.
type Host struct {
	dist       meta.Dist
	groupings  []*worldgen.Grouping
	registries map[phase.Phase]*Registry

	mu            sync.Mutex
	commits       []Commit
	presentations []Presentation
}

// New returns a host for dist reporting groupings during world data loading.
func New(dist meta.Dist, groupings ...*worldgen.Grouping) *Host {
	h := &Host{
		dist:       dist,
		groupings:  groupings,
		registries: make(map[phase.Phase]*Registry),
	}
	for _, p := range phase.Ordered() {
		if p.PerGrouping() {
			continue
		}
		h.registries[p] = NewRegistry(string(p))
	}
	return h
}

// Dist returns the host distribution.
func (h *Host) Dist() meta.Dist { return h.dist }

// Registry returns the registry filled during p.
func (h *Host) Registry(p phase.Phase) (*Registry, bool) {
	r, ok := h.registries[p]
	return r, ok
}

// Groupings returns the groupings reported during world data loading.
func (h *Host) Groupings() []*worldgen.Grouping { return h.groupings }

// Commits returns every registration in commit order.
func (h *Host) Commits() []Commit {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Commit, len(h.commits))
	copy(out, h.commits)
	return out
}

// Presentations returns every presentation assignment.
func (h *Host) Presentations() []Presentation {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Presentation, len(h.presentations))
	copy(out, h.presentations)
	return out
}

// Run fires every lifecycle event in host order. The first error returned by
// an activation stops the run.
func (h *Host) Run(ctx context.Context, lc Lifecycle) error {
	for _, p := range phase.Registries() {
		reg := h.registries[p]
		err := lc.Activate(ctx, p, &registryHandle{host: h, phase: p, reg: reg})
		reg.Seal()
		if err != nil {
			return err
		}
	}

	if h.dist.IsClient() {
		if err := h.setup(ctx, lc, phase.ClientSetup); err != nil {
			return err
		}
	}
	if err := h.setup(ctx, lc, phase.CommonSetup); err != nil {
		return err
	}

	for _, g := range h.groupings {
		applied := lc.OnGrouping(ctx, g)
		slog.Debug("grouping loaded", "grouping", g.Name, "category", g.Category, "applied", applied)
	}
	return nil
}

func (h *Host) setup(ctx context.Context, lc Lifecycle, p phase.Phase) error {
	sh := &setupHandle{registryHandle: registryHandle{host: h, phase: p, reg: h.registries[p]}}

	var err error
	if p == phase.ClientSetup {
		err = lc.Activate(ctx, p, &clientHandle{setupHandle: sh})
	} else {
		err = lc.Activate(ctx, p, sh)
	}
	if err != nil {
		return err
	}

	work := sh.takeWork()
	if len(work) == 0 {
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(defaults.NestedWorkLimit)
	for _, fn := range work {
		g.Go(func() error {
			fn()
			return nil
		})
	}
	err = g.Wait()
	slog.Debug("nested work complete", "phase", p, "units", len(work))
	return err
}

func (h *Host) record(p phase.Phase, k key.Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commits = append(h.commits, Commit{Phase: p, Key: k})
}

type registryHandle struct {
	host  *Host
	phase phase.Phase
	reg   *Registry
}

func (r *registryHandle) Register(k key.Key, v any) error {
	if err := r.reg.Register(k, v); err != nil {
		return err
	}
	r.host.record(r.phase, k)
	return nil
}

type setupHandle struct {
	registryHandle

	mu   sync.Mutex
	work []func()
}

func (s *setupHandle) EnqueueWork(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.work = append(s.work, fn)
}

func (s *setupHandle) takeWork() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.work
	s.work = nil
	return work
}

type clientHandle struct {
	*setupHandle
}

func (c *clientHandle) AssignPresentation(target, attr any) error {
	c.host.mu.Lock()
	defer c.host.mu.Unlock()
	c.host.presentations = append(c.host.presentations, Presentation{Target: target, Attr: attr})
	return nil
}
