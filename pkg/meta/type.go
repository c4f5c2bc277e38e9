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

package meta

import "strings"

// Capability is a base capability an owner type or member value is assignable to.
type Capability string

// Capability constants.
const (
	CapPrimaryEntity      Capability = "primary-entity"
	CapSecondaryEntity    Capability = "secondary-entity"
	CapResource           Capability = "resource"
	CapInteractionSurface Capability = "interaction-surface"
	CapAggregate          Capability = "aggregate"
	CapSurfaceSupplier    Capability = "surface-supplier"
	CapSurfaceType        Capability = "surface-type"
	CapAggregateSupplier  Capability = "aggregate-supplier"
	CapAggregateType      Capability = "aggregate-type"
	CapAggregateProducer  Capability = "aggregate-producer"
	CapPresentation       Capability = "presentation"
	CapConfig             Capability = "config"
)

// Designation is a secondary marker on a member.
type Designation string

// Designation constants.
const (
	DesignateIgnore       Designation = "ignore"
	DesignateSupplier     Designation = "supplier"
	DesignateInstance     Designation = "instance"
	DesignateType         Designation = "type"
	DesignatePresentation Designation = "presentation"
)

// Constructor signatures.
const (
	SigDefault       = "default"
	SigProperties    = "properties"
	SigPositionState = "position-state"
)

// Assigner receives a committed value.
type Assigner interface {
	Assign(v any) error
}

// Field describes a field of an owner type.
type Field struct {
	Name         string
	Static       bool
	Final        bool
	Holds        Capability
	Designations []Designation

	// Get reads the current value. A nil Get marks the field inaccessible.
	Get func() (any, error)

	// Receiver accepts committed values for receiving fields.
	Receiver Assigner
}

// Has reports whether the field carries designation d.
func (f *Field) Has(d Designation) bool { return hasDesignation(f.Designations, d) }

// Method describes a method of an owner type.
type Method struct {
	Name         string
	Static       bool
	Params       int
	Returns      Capability
	Designations []Designation

	// Invoke calls the method. recv is nil for static methods.
	Invoke func(recv any) (any, error)
}

// Has reports whether the method carries designation d.
func (m *Method) Has(d Designation) bool { return hasDesignation(m.Designations, d) }

// Constructor describes a constructor or factory of an owner type.
type Constructor struct {
	Signature string
	New       func(args ...any) (any, error)
}

// Type describes an owner type.
type Type struct {
	// Name is the fully qualified name: <package>.<TypeName>.
	Name         string
	Capabilities []Capability
	ClientOnly   bool
	Side         Side
	Ignored      bool
	CatalogIcon  bool
	Fields       []Field
	Methods      []Method
	Constructors []Constructor
}

// Is reports whether t is assignable to capability c.
func (t *Type) Is(c Capability) bool {
	for _, have := range t.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// SimpleName returns the type name without its package.
func (t *Type) SimpleName() string {
	if i := strings.LastIndexAny(t.Name, "./"); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// Field returns the field called name.
func (t *Type) Field(name string) (*Field, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// Method returns the method called name.
func (t *Type) Method(name string) (*Method, bool) {
	for i := range t.Methods {
		if t.Methods[i].Name == name {
			return &t.Methods[i], true
		}
	}
	return nil, false
}

// Constructor returns the constructor with the given signature.
func (t *Type) Constructor(sig string) (*Constructor, bool) {
	for i := range t.Constructors {
		if t.Constructors[i].Signature == sig {
			return &t.Constructors[i], true
		}
	}
	return nil, false
}

// FieldsWith returns the fields carrying designation d, in declaration order.
func (t *Type) FieldsWith(d Designation) []*Field {
	var out []*Field
	for i := range t.Fields {
		if t.Fields[i].Has(d) {
			out = append(out, &t.Fields[i])
		}
	}
	return out
}

// MethodsWith returns the methods carrying designation d, in declaration order.
func (t *Type) MethodsWith(d Designation) []*Method {
	var out []*Method
	for i := range t.Methods {
		if t.Methods[i].Has(d) {
			out = append(out, &t.Methods[i])
		}
	}
	return out
}

// Params are the marker parameters attached to a declaration.
type Params struct {
	// Namespace overrides the caller namespace when set.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`

	// Name is the local registry name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Companion requests a companion registration in a later phase: a
	// secondary entity for primary entities, a container for resources.
	Companion bool `json:"companion,omitempty" yaml:"companion,omitempty"`

	// Catalogued lists the committed secondary entity in the catalog.
	Catalogued bool `json:"catalogued,omitempty" yaml:"catalogued,omitempty"`

	// Aggregate names the aggregate owner type a primary entity contributes to,
	// or the type an aggregate producer holds instances of.
	Aggregate string `json:"aggregate,omitempty" yaml:"aggregate,omitempty"`

	// Color is the tint applied to resource textures.
	Color uint32 `json:"color,omitempty" yaml:"color,omitempty"`
}

func hasDesignation(list []Designation, d Designation) bool {
	for _, have := range list {
		if have == d {
			return true
		}
	}
	return false
}
