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

// Package catalog implements the listing group catalogued secondary entities
// are shown in.
//
// Entries are listed by display name, compared case-insensitively. The
// group icon is set by the owner type flagged as the catalog icon and falls
// back to a placeholder until one commits.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NVIDIA/phaser/pkg/defaults"
	"github.com/NVIDIA/phaser/pkg/key"
)

// Named is implemented by values that carry their own display name.
type Named interface {
	DisplayName() string
}

// Entry is a catalog listing.
type Entry struct {
	Key     key.Key `json:"key" yaml:"key"`
	Display string  `json:"display" yaml:"display"`
	Value   any     `json:"-" yaml:"-"`
}

// Catalog is a named listing group.
type Catalog struct {
	mu      sync.RWMutex
	name    string
	icon    any
	entries []Entry
}

// New returns an empty catalog called name.
func New(name string) *Catalog {
	return &Catalog{name: name}
}

// Name returns the catalog name.
func (c *Catalog) Name() string { return c.name }

// Add lists v under k. The display name is taken from v when it implements
// Named, otherwise derived from the key name.
func (c *Catalog) Add(k key.Key, v any) Entry {
	e := Entry{Key: k, Display: DisplayName(k, v), Value: v}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
	return e
}

// SetIcon sets the icon shown for the group.
func (c *Catalog) SetIcon(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.icon = v
}

// Icon returns the group icon, or the placeholder when none was set.
func (c *Catalog) Icon() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.icon == nil {
		return defaults.CatalogPlaceholderIcon
	}
	return c.icon
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns the entries sorted case-insensitively by display name.
// Entries with equal names keep insertion order.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	c.mu.RUnlock()

	fold := cases.Fold()
	folded := make(map[int]string, len(out))
	for i := range out {
		folded[i] = fold.String(out[i].Display)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return folded[idx[a]] < folded[idx[b]] })

	sorted := make([]Entry, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// DisplayName returns the display name of v committed under k.
func DisplayName(k key.Key, v any) string {
	if n, ok := v.(Named); ok {
		if name := n.DisplayName(); name != "" {
			return name
		}
	}
	title := cases.Title(language.English)
	return title.String(strings.ReplaceAll(k.Name, "_", " "))
}
