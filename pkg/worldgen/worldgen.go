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

package worldgen

import (
	"slices"
	"sync"

	"github.com/NVIDIA/phaser/pkg/key"
)

// Category classifies a grouping.
type Category string

// Category constants.
const (
	CategoryNether    Category = "nether"
	CategoryOverworld Category = "overworld"
	CategoryEnd       Category = "the_end"
)

// Stage is a generation stage features are added to.
type Stage string

// StageUndergroundOres is the stage world data are added to.
const StageUndergroundOres Stage = "underground_ores"

// Source is implemented by world data.
type Source interface {
	Nether() bool
	VeinSize() int
	Count() int
	MinLevel() int
	MaxLevel() int
	Spawns() bool
	// Groupings is the allow-list of grouping names; empty allows all.
	Groupings() []string
}

// Descriptor is the generation descriptor derived from a world datum.
type Descriptor struct {
	Key      key.Key  `json:"key" yaml:"key"`
	Nether   bool     `json:"nether" yaml:"nether"`
	VeinSize int      `json:"veinSize" yaml:"veinSize"`
	Count    int      `json:"count" yaml:"count"`
	MinLevel int      `json:"minLevel" yaml:"minLevel"`
	MaxLevel int      `json:"maxLevel" yaml:"maxLevel"`
	Spawn    bool     `json:"spawn" yaml:"spawn"`
	Allow    []string `json:"allow,omitempty" yaml:"allow,omitempty"`

	// Target is the committed entity the datum describes.
	Target any `json:"-" yaml:"-"`
}

// Describe builds the descriptor of src, committed under k.
func Describe(k key.Key, target any, src Source) Descriptor {
	return Descriptor{
		Key:      k,
		Nether:   src.Nether(),
		VeinSize: src.VeinSize(),
		Count:    src.Count(),
		MinLevel: src.MinLevel(),
		MaxLevel: src.MaxLevel(),
		Spawn:    src.Spawns(),
		Allow:    slices.Clone(src.Groupings()),
		Target:   target,
	}
}

// Criteria returns the grouping predicate of d.
func (d Descriptor) Criteria() Criteria {
	return Criteria{Nether: d.Nether, Allow: slices.Clone(d.Allow)}
}

// Criteria selects groupings.
type Criteria struct {
	Nether bool     `json:"nether" yaml:"nether"`
	Allow  []string `json:"allow,omitempty" yaml:"allow,omitempty"`
}

// Matches reports whether the criteria select g.
func (c Criteria) Matches(g *Grouping) bool {
	if g == nil {
		return false
	}
	if (g.Category == CategoryNether) != c.Nether {
		return false
	}
	if len(c.Allow) == 0 {
		return true
	}
	return slices.Contains(c.Allow, g.Name)
}

// Grouping is a host grouping (biome) reported during world data loading.
type Grouping struct {
	Name     string
	Category Category

	mu       sync.Mutex
	features map[Stage][]any
}

// NewGrouping returns an empty grouping.
func NewGrouping(name string, category Category) *Grouping {
	return &Grouping{Name: name, Category: category}
}

// AddFeature appends a feature to the given stage.
func (g *Grouping) AddFeature(stage Stage, feature any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.features == nil {
		g.features = make(map[Stage][]any)
	}
	g.features[stage] = append(g.features[stage], feature)
}

// Features returns a copy of the features added to stage.
func (g *Grouping) Features(stage Stage) []any {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.features[stage])
}

// Contribution is a feature gated by criteria.
type Contribution struct {
	Source   key.Key
	Criteria Criteria
	Stage    Stage
	Feature  any
}

// Gate collects contributions and applies them per grouping.
type Gate struct {
	mu            sync.RWMutex
	contributions []Contribution
}

// NewGate returns an empty gate.
func NewGate() *Gate {
	return &Gate{}
}

// Add appends a contribution.
func (g *Gate) Add(c Contribution) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.contributions = append(g.contributions, c)
}

// Len returns the number of contributions.
func (g *Gate) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.contributions)
}

// Apply adds every matching contribution to grouping and returns how many applied.
func (g *Gate) Apply(grouping *Grouping) int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	applied := 0
	for _, c := range g.contributions {
		if !c.Criteria.Matches(grouping) {
			continue
		}
		grouping.AddFeature(c.Stage, c.Feature)
		applied++
	}
	return applied
}
