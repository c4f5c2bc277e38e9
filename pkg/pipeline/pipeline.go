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
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/NVIDIA/phaser/pkg/catalog"
	"github.com/NVIDIA/phaser/pkg/config"
	"github.com/NVIDIA/phaser/pkg/dispatch"
	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
	"github.com/NVIDIA/phaser/pkg/host"
	"github.com/NVIDIA/phaser/pkg/key"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/phase"
	"github.com/NVIDIA/phaser/pkg/scanner"
	"github.com/NVIDIA/phaser/pkg/worldgen"
	"github.com/NVIDIA/phaser/pkg/xref"
)

// memberRef identifies a member declaration.
type memberRef struct {
	owner  string
	member string
}

// Pipeline is the owning context of one registration run.
type Pipeline struct {
	id      string
	origin  scanner.Origin
	dist    meta.Dist
	factory host.Factory
	config  config.Manager
	catalog *catalog.Catalog
	log     *slog.Logger

	router       *phase.Router
	table        *dispatch.Table
	contributors *xref.Index[string, any]
	gate         *worldgen.Gate

	mu        sync.Mutex
	committed map[memberRef]key.Key
	closed    bool
}

// New builds a pipeline over index, resolving owner types through loader.
// The privileged passes run before New returns, and every other declaration
// has been dispatched.
func New(index scanner.Index, loader scanner.Loader, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		id:           uuid.NewString(),
		dist:         meta.DistServer,
		contributors: xref.New[string, any](),
		gate:         worldgen.NewGate(),
		committed:    make(map[memberRef]key.Key),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.origin.Package == "" {
		p.origin = scanner.CallerOrigin(1)
	}
	if index == nil || loader == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "metadata index and type loader are required")
	}
	if p.factory == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "host factory is required")
	}
	if p.config == nil {
		p.config = config.NewStore(nil)
	}
	if p.catalog == nil {
		p.catalog = catalog.New(p.origin.Namespace)
	}
	p.log = slog.Default().With("pipeline", p.id, "namespace", p.origin.Namespace)
	p.router = phase.NewRouter("pipeline", p.id, "namespace", p.origin.Namespace)

	p.privileged(index, loader)

	p.table = p.handlers()
	decls := scanner.Scan(index, loader, p.origin, p.dist, p.table.Markers()...)
	handled := p.table.Dispatch(p.origin.Namespace, decls)

	p.log.Info("pipeline ready",
		"package", p.origin.Package, "dist", p.dist, "declarations", handled)
	return p, nil
}

func (p *Pipeline) handlers() *dispatch.Table {
	t := dispatch.NewTable()
	bind := func(m meta.Marker, h dispatch.Handler) {
		t.MustRegister(m, func(ns string, d scanner.Declaration) {
			declarationsTotal.WithLabelValues(string(m)).Inc()
			h(ns, d)
		})
	}
	bind(meta.MarkerPrimaryEntity, p.handlePrimary)
	bind(meta.MarkerSecondaryEntity, p.handleSecondary)
	bind(meta.MarkerResource, p.handleResource)
	bind(meta.MarkerInteractionSurface, p.handleSurface)
	bind(meta.MarkerAggregate, p.handleAggregate)
	bind(meta.MarkerLegacyAggregate, p.handleLegacyAggregate)
	bind(meta.MarkerWorldDatum, p.handleWorldDatum)
	return t
}

// ID returns the pipeline instance id.
func (p *Pipeline) ID() string { return p.id }

// Namespace returns the default registry namespace.
func (p *Pipeline) Namespace() string { return p.origin.Namespace }

// Origin returns the origin the pipeline scans.
func (p *Pipeline) Origin() scanner.Origin { return p.origin }

// Dist returns the running distribution.
func (p *Pipeline) Dist() meta.Dist { return p.dist }

// Catalog returns the catalog secondary entities are listed in.
func (p *Pipeline) Catalog() *catalog.Catalog { return p.catalog }

// Gate returns the world data gate.
func (p *Pipeline) Gate() *worldgen.Gate { return p.gate }

// Pending returns the number of actions waiting for ph.
func (p *Pipeline) Pending(ph phase.Phase) int { return p.router.Pending(ph) }

// PendingContributors returns the aggregate owners with unconsumed contributors.
func (p *Pipeline) PendingContributors() []string { return p.contributors.Pending() }

// Committed returns the key a member declaration committed under.
func (p *Pipeline) Committed(owner, member string) (key.Key, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	k, ok := p.committed[memberRef{owner: owner, member: member}]
	return k, ok
}

// Activate drains the queue of ph with h as its live handle. A fatal error
// from any action is returned after the remaining actions are abandoned.
func (p *Pipeline) Activate(ctx context.Context, ph phase.Phase, h host.Handle) error {
	if p.isClosed() {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"pipeline is closed", map[string]any{"phase": string(ph)})
	}

	p.log.InfoContext(ctx, "phase activated", "phase", ph, "pending", p.router.Pending(ph))
	err := p.router.Activate(ctx, ph, h)
	if ph == phase.Aggregate {
		p.sweepOrphans(ctx)
	}
	if err != nil {
		p.log.ErrorContext(ctx, "phase aborted", "phase", ph, "error", err)
	}
	return err
}

// OnGrouping applies the gated world data contributions to g and returns how
// many applied.
func (p *Pipeline) OnGrouping(ctx context.Context, g *worldgen.Grouping) int {
	if !p.router.Fired(phase.CommonSetup) {
		p.log.WarnContext(ctx, "grouping loaded before common setup", "grouping", g.Name)
	}
	applied := p.gate.Apply(g)
	contributionsTotal.Add(float64(applied))
	return applied
}

// Close drops every pending action and forward reference.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.router.Close()
	for _, owner := range p.contributors.Pending() {
		p.contributors.Drop(owner)
	}
	clear(p.committed)
}

func (p *Pipeline) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Pipeline) recordCommitted(t target, k key.Key) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.committed[memberRef{owner: t.owner.Name, member: t.member}] = k
}

// sweepOrphans drops contributors whose aggregate owner never committed.
func (p *Pipeline) sweepOrphans(ctx context.Context) {
	for _, owner := range p.contributors.Pending() {
		entries := p.contributors.Peek(owner)
		p.report(cnserrors.Warn(cnserrors.ErrCodeOrphanedContributors,
			"dropping contributors of an aggregate owner that never committed",
			map[string]any{"aggregate": owner, "contributors": len(entries)}))
		p.contributors.Drop(owner)
		orphansTotal.Add(float64(len(entries)))
	}
	if n := p.contributors.Len(); n != 0 {
		p.log.WarnContext(ctx, "contributors left after sweep", "owners", n)
	}
}

// report logs err with the pipeline attributes.
func (p *Pipeline) report(err error) {
	phase.Report(err, "pipeline", p.id, "namespace", p.origin.Namespace)
}
