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

package cli

import (
	"fmt"
	"sort"

	"github.com/NVIDIA/phaser/pkg/catalog"
	"github.com/NVIDIA/phaser/pkg/header"
	"github.com/NVIDIA/phaser/pkg/host/memory"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/phase"
	"github.com/NVIDIA/phaser/pkg/pipeline"
	"github.com/NVIDIA/phaser/pkg/scanner"
	"github.com/NVIDIA/phaser/pkg/worldgen"
)

// ScanReport lists the declarations a pipeline would dispatch.
type ScanReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Package      string        `json:"package" yaml:"package"`
	Namespace    string        `json:"namespace" yaml:"namespace"`
	Dist         meta.Dist     `json:"dist" yaml:"dist"`
	Indexed      int           `json:"indexed" yaml:"indexed"`
	Declarations []Declaration `json:"declarations" yaml:"declarations"`
}

// Declaration is a scanned declaration.
type Declaration struct {
	Owner  string      `json:"owner" yaml:"owner"`
	Member string      `json:"member,omitempty" yaml:"member,omitempty"`
	Marker meta.Marker `json:"marker" yaml:"marker"`
	Params meta.Params `json:"params,omitempty" yaml:"params,omitempty"`
}

func newScanReport(origin scanner.Origin, dist meta.Dist, indexed int, decls []scanner.Declaration) *ScanReport {
	r := &ScanReport{
		Package:      origin.Package,
		Namespace:    origin.Namespace,
		Dist:         dist,
		Indexed:      indexed,
		Declarations: make([]Declaration, 0, len(decls)),
	}
	r.Init(header.KindScanReport, header.APIVersion, version)
	for _, d := range decls {
		r.Declarations = append(r.Declarations, Declaration{
			Owner:  d.Owner.Name,
			Member: d.Member,
			Marker: d.Marker,
			Params: d.Params,
		})
	}
	return r
}

// RunReport describes the outcome of a full lifecycle run.
type RunReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Pipeline      string                    `json:"pipeline" yaml:"pipeline"`
	Namespace     string                    `json:"namespace" yaml:"namespace"`
	Dist          meta.Dist                 `json:"dist" yaml:"dist"`
	Registries    map[phase.Phase][]string  `json:"registries" yaml:"registries"`
	Catalog       CatalogReport             `json:"catalog" yaml:"catalog"`
	Presentations int                       `json:"presentations,omitempty" yaml:"presentations,omitempty"`
	Features      map[string][]string       `json:"features,omitempty" yaml:"features,omitempty"`
	Config        map[string]map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
	Pending       []string                  `json:"pendingContributors,omitempty" yaml:"pendingContributors,omitempty"`
}

// CatalogReport lists the catalog entries in display order.
type CatalogReport struct {
	Name    string   `json:"name" yaml:"name"`
	Icon    string   `json:"icon" yaml:"icon"`
	Entries []string `json:"entries,omitempty" yaml:"entries,omitempty"`
}

func newRunReport(p *pipeline.Pipeline, h *memory.Host, snapshot map[string]map[string]any) *RunReport {
	r := &RunReport{
		Pipeline:      p.ID(),
		Namespace:     p.Namespace(),
		Dist:          p.Dist(),
		Registries:    make(map[phase.Phase][]string),
		Presentations: len(h.Presentations()),
		Features:      make(map[string][]string),
		Config:        snapshot,
		Pending:       p.PendingContributors(),
	}
	r.Init(header.KindRunReport, header.APIVersion, version)

	for _, ph := range phase.Ordered() {
		reg, ok := h.Registry(ph)
		if !ok || reg.Len() == 0 {
			continue
		}
		for _, k := range reg.Keys() {
			r.Registries[ph] = append(r.Registries[ph], k.String())
		}
	}

	cat := p.Catalog()
	r.Catalog = CatalogReport{Name: cat.Name(), Icon: describe(cat.Icon())}
	for _, e := range cat.Entries() {
		r.Catalog.Entries = append(r.Catalog.Entries, e.Key.String())
	}

	for _, g := range h.Groupings() {
		var names []string
		for _, f := range g.Features(worldgen.StageUndergroundOres) {
			names = append(names, describe(f))
		}
		sort.Strings(names)
		r.Features[g.Name] = names
	}
	return r
}

// describe renders a host object for a report.
func describe(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case *memory.Feature:
		return t.Descriptor.Key.String()
	case *memory.Companion:
		return describe(t.Of)
	case catalog.Named:
		if n := t.DisplayName(); n != "" {
			return n
		}
	}
	return fmt.Sprintf("%T", v)
}
