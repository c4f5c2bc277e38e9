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

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/NVIDIA/phaser/pkg/config"
	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
	"github.com/NVIDIA/phaser/pkg/header"
	"github.com/NVIDIA/phaser/pkg/host"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/scanner"
	"github.com/NVIDIA/phaser/pkg/slot"
	"github.com/NVIDIA/phaser/pkg/version"
	"gopkg.in/yaml.v3"
)

// Manifest is a declaration index document.
type Manifest struct {
	header.Header `json:",inline" yaml:",inline"`

	// Package is the package the index was generated for. Declarations
	// outside it are filtered by the scanner.
	Package      string          `json:"package" yaml:"package"`
	Types        []TypeSpec      `json:"types,omitempty" yaml:"types,omitempty"`
	Declarations []scanner.Entry `json:"declarations,omitempty" yaml:"declarations,omitempty"`
}

// TypeSpec describes one owner type.
type TypeSpec struct {
	Name         string            `json:"name" yaml:"name"`
	DisplayName  string            `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Capabilities []meta.Capability `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	ClientOnly   bool              `json:"clientOnly,omitempty" yaml:"clientOnly,omitempty"`
	Side         meta.Side         `json:"side,omitempty" yaml:"side,omitempty"`
	Ignored      bool              `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	CatalogIcon  bool              `json:"catalogIcon,omitempty" yaml:"catalogIcon,omitempty"`
	Constructors []string          `json:"constructors,omitempty" yaml:"constructors,omitempty"`
	Fields       []FieldSpec       `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods      []MethodSpec      `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// FieldSpec describes a field. Fields are static and final unless stated
// otherwise. At most one of Value, Receiver, Config, Producer and World
// may be set; World may be combined with Value.
type FieldSpec struct {
	Name         string             `json:"name" yaml:"name"`
	Static       *bool              `json:"static,omitempty" yaml:"static,omitempty"`
	Final        *bool              `json:"final,omitempty" yaml:"final,omitempty"`
	Hidden       bool               `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Holds        meta.Capability    `json:"holds,omitempty" yaml:"holds,omitempty"`
	Designations []meta.Designation `json:"designations,omitempty" yaml:"designations,omitempty"`
	Value        map[string]any     `json:"value,omitempty" yaml:"value,omitempty"`
	Receiver     bool               `json:"receiver,omitempty" yaml:"receiver,omitempty"`
	Config       any                `json:"config,omitempty" yaml:"config,omitempty"`
	Producer     *ProducerSpec      `json:"producer,omitempty" yaml:"producer,omitempty"`
	World        *WorldSpec         `json:"world,omitempty" yaml:"world,omitempty"`
}

// ProducerSpec describes an aggregate producer field.
type ProducerSpec struct {
	Holds    string         `json:"holds" yaml:"holds"`
	Supplier map[string]any `json:"supplier,omitempty" yaml:"supplier,omitempty"`
}

// WorldSpec describes the world data carried by a field value.
type WorldSpec struct {
	Nether    bool     `json:"nether,omitempty" yaml:"nether,omitempty"`
	VeinSize  int      `json:"veinSize,omitempty" yaml:"veinSize,omitempty"`
	Count     int      `json:"count,omitempty" yaml:"count,omitempty"`
	MinLevel  int      `json:"minLevel,omitempty" yaml:"minLevel,omitempty"`
	MaxLevel  int      `json:"maxLevel,omitempty" yaml:"maxLevel,omitempty"`
	Spawn     *bool    `json:"spawn,omitempty" yaml:"spawn,omitempty"`
	Groupings []string `json:"groupings,omitempty" yaml:"groupings,omitempty"`
}

// MethodSpec describes a method. Invoking it returns Result, or fails
// with Error when set.
type MethodSpec struct {
	Name         string             `json:"name" yaml:"name"`
	Static       bool               `json:"static,omitempty" yaml:"static,omitempty"`
	Params       int                `json:"params,omitempty" yaml:"params,omitempty"`
	Returns      meta.Capability    `json:"returns,omitempty" yaml:"returns,omitempty"`
	Designations []meta.Designation `json:"designations,omitempty" yaml:"designations,omitempty"`
	Result       any                `json:"result,omitempty" yaml:"result,omitempty"`
	Error        string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// Parse decodes a manifest. Unknown fields are rejected.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "empty manifest")
		}
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "failed to decode manifest", err)
	}
	return &m, nil
}

// ParseBytes decodes a manifest held in memory.
func ParseBytes(data []byte) (*Manifest, error) {
	return Parse(bytes.NewReader(data))
}

// Validate checks the header, the minimum binary version and the
// structural consistency of the manifest. Declarations naming unknown
// types are valid; the scanner skips them.
func (m *Manifest) Validate(binaryVersion string) error {
	if err := m.Header.Validate(header.KindDeclarationIndex); err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid manifest header", err)
	}
	if err := version.Require(binaryVersion, m.MinVersion()); err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "manifest requires a newer binary", err)
	}
	if m.Package == "" {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "manifest package is required")
	}

	seen := make(map[string]bool, len(m.Types))
	for i := range m.Types {
		ts := &m.Types[i]
		if ts.Name == "" {
			return cnserrors.New(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("types[%d]: name is required", i))
		}
		if seen[ts.Name] {
			return cnserrors.New(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("duplicate type %s", ts.Name))
		}
		seen[ts.Name] = true
		if err := ts.validate(); err != nil {
			return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("type %s", ts.Name), err)
		}
	}

	for i, e := range m.Declarations {
		if e.Owner == "" {
			return cnserrors.New(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("declarations[%d]: owner is required", i))
		}
		if !e.Marker.IsValid() {
			return cnserrors.New(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("declarations[%d]: unknown marker %q", i, e.Marker))
		}
	}
	return nil
}

func (ts *TypeSpec) validate() error {
	switch ts.Side {
	case meta.SideAny, meta.SideClient, meta.SideServer:
	default:
		return fmt.Errorf("unknown side %q", ts.Side)
	}
	for _, sig := range ts.Constructors {
		switch sig {
		case meta.SigDefault, meta.SigProperties, meta.SigPositionState:
		default:
			return fmt.Errorf("unknown constructor signature %q", sig)
		}
	}
	for _, fs := range ts.Fields {
		if fs.Name == "" {
			return errors.New("field name is required")
		}
		if n := fs.sources(); n > 1 {
			return fmt.Errorf("field %s: value, receiver, config and producer are exclusive", fs.Name)
		}
	}
	for _, ms := range ts.Methods {
		if ms.Name == "" {
			return errors.New("method name is required")
		}
		if ms.Params < 0 {
			return fmt.Errorf("method %s: negative parameter count", ms.Name)
		}
	}
	return nil
}

func (fs *FieldSpec) sources() int {
	n := 0
	for _, set := range []bool{fs.Value != nil, fs.Receiver, fs.Config != nil, fs.Producer != nil} {
		if set {
			n++
		}
	}
	if fs.World != nil && fs.Value == nil {
		n++
	}
	return n
}

// Model is the runtime form of a manifest.
type Model struct {
	Index scanner.Table
	Types scanner.Types
	// Receivers holds the cell behind each receiving field, keyed by
	// "type.field".
	Receivers map[string]*slot.Slot[any]
	// Producers holds each aggregate producer, keyed by "type.field".
	Producers map[string]*host.Producer
}

// Build validates the manifest and constructs its model.
func (m *Manifest) Build(binaryVersion string) (*Model, error) {
	if err := m.Validate(binaryVersion); err != nil {
		return nil, err
	}

	model := &Model{
		Index:     append(scanner.Table(nil), m.Declarations...),
		Types:     make(scanner.Types, len(m.Types)),
		Receivers: make(map[string]*slot.Slot[any]),
		Producers: make(map[string]*host.Producer),
	}
	for i := range m.Types {
		model.Types.Add(model.buildType(&m.Types[i]))
	}
	return model, nil
}

func (model *Model) buildType(ts *TypeSpec) *meta.Type {
	typ := &meta.Type{
		Name:         ts.Name,
		Capabilities: append([]meta.Capability(nil), ts.Capabilities...),
		ClientOnly:   ts.ClientOnly,
		Side:         ts.Side,
		Ignored:      ts.Ignored,
		CatalogIcon:  ts.CatalogIcon,
	}
	for _, fs := range ts.Fields {
		typ.Fields = append(typ.Fields, model.buildField(ts, fs))
	}
	for _, ms := range ts.Methods {
		typ.Methods = append(typ.Methods, buildMethod(ms))
	}
	for _, sig := range ts.Constructors {
		typ.Constructors = append(typ.Constructors, buildConstructor(ts, sig))
	}
	return typ
}

func (model *Model) buildField(ts *TypeSpec, fs FieldSpec) meta.Field {
	ref := ts.Name + "." + fs.Name

	var f meta.Field
	switch {
	case fs.Config != nil:
		f = configField(fs.Name, fs.Config)
	case fs.Receiver:
		cell := slot.New[any](ref)
		model.Receivers[ref] = cell
		f = meta.Field{
			Receiver: cell,
			Get: func() (any, error) {
				if v, ok := cell.Get(); ok {
					return v, nil
				}
				return nil, nil
			},
		}
	case fs.Producer != nil:
		prod := host.NewProducer(fs.Producer.Holds, &Object{Type: ts.Name, Name: fs.Name, Attrs: fs.Producer.Supplier})
		model.Producers[ref] = prod
		f = meta.Field{Holds: meta.CapAggregateProducer, Get: constant(prod)}
	case fs.World != nil:
		obj := &WorldObject{Object: &Object{Type: ts.Name, Name: fs.Name, Attrs: fs.Value}, World: *fs.World}
		f = meta.Field{Get: constant(obj)}
	case fs.Value != nil:
		f = meta.Field{Get: constant(&Object{Type: ts.Name, Name: fs.Name, Attrs: fs.Value})}
	default:
		f = meta.Field{Get: constant(nil)}
	}

	f.Name = fs.Name
	f.Static = boolOr(fs.Static, true)
	f.Final = boolOr(fs.Final, true)
	f.Designations = append([]meta.Designation(nil), fs.Designations...)
	if fs.Holds != "" {
		f.Holds = fs.Holds
	}
	if fs.Hidden {
		f.Get = nil
	}
	return f
}

// configField backs a config field with a knob typed after its default.
func configField(name string, def any) meta.Field {
	switch v := def.(type) {
	case bool:
		return config.Field(name, config.NewKnob(v))
	case int:
		return config.Field(name, config.NewKnob(v))
	case float64:
		return config.Field(name, config.NewKnob(v))
	case string:
		return config.Field(name, config.NewKnob(v))
	default:
		return config.Field(name, config.NewKnob(def))
	}
}

func buildMethod(ms MethodSpec) meta.Method {
	return meta.Method{
		Name:         ms.Name,
		Static:       ms.Static,
		Params:       ms.Params,
		Returns:      ms.Returns,
		Designations: append([]meta.Designation(nil), ms.Designations...),
		Invoke: func(any) (any, error) {
			if ms.Error != "" {
				return nil, errors.New(ms.Error)
			}
			return ms.Result, nil
		},
	}
}

func buildConstructor(ts *TypeSpec, sig string) meta.Constructor {
	name, display := ts.Name, ts.DisplayName
	return meta.Constructor{
		Signature: sig,
		New: func(args ...any) (any, error) {
			obj := &Object{Type: name, Constructor: sig, Args: len(args)}
			if display != "" {
				obj.Attrs = map[string]any{AttrDisplayName: display}
			}
			return obj, nil
		},
	}
}

func constant(v any) func() (any, error) {
	return func() (any, error) { return v, nil }
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
