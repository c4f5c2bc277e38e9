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

package manifest

// Object is an opaque host object described by a manifest.
type Object struct {
	Type        string         `json:"type" yaml:"type"`
	Name        string         `json:"name,omitempty" yaml:"name,omitempty"`
	Constructor string         `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	Args        int            `json:"args,omitempty" yaml:"args,omitempty"`
	Attrs       map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Source      bool           `json:"source,omitempty" yaml:"source,omitempty"`
}

// DisplayName implements catalog.Named from the displayName attribute.
func (o *Object) DisplayName() string {
	s, _ := o.Attrs[AttrDisplayName].(string)
	return s
}

// MarkSource flags the object as the still variant of a resource.
func (o *Object) MarkSource() { o.Source = true }

// AttrDisplayName is the attribute read by DisplayName.
const AttrDisplayName = "displayName"

// WorldObject is an object that also describes world data.
type WorldObject struct {
	*Object
	World WorldSpec `json:"world" yaml:"world"`
}

func (w *WorldObject) Nether() bool        { return w.World.Nether }
func (w *WorldObject) VeinSize() int       { return w.World.VeinSize }
func (w *WorldObject) Count() int          { return w.World.Count }
func (w *WorldObject) MinLevel() int       { return w.World.MinLevel }
func (w *WorldObject) MaxLevel() int       { return w.World.MaxLevel }
func (w *WorldObject) Spawns() bool        { return w.World.Spawn == nil || *w.World.Spawn }
func (w *WorldObject) Groupings() []string { return w.World.Groupings }
