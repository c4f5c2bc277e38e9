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

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
	"github.com/NVIDIA/phaser/pkg/meta"
)

// Manager registers configuration fields.
type Manager interface {
	Register(field *meta.Field, namespace string) error
}

// Overrides are configuration values keyed by namespace, then field name.
type Overrides map[string]map[string]any

// ParseOverrides decodes a YAML overrides document.
func ParseOverrides(r io.Reader) (Overrides, error) {
	var o Overrides
	if err := yaml.NewDecoder(r).Decode(&o); err != nil {
		if errors.Is(err, io.EOF) {
			return Overrides{}, nil
		}
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "failed to decode config overrides", err)
	}
	if o == nil {
		o = Overrides{}
	}
	return o, nil
}

// Store records registered configuration fields.
type Store struct {
	mu        sync.RWMutex
	overrides Overrides
	values    map[string]map[string]any
}

// NewStore returns a store applying overrides on registration.
func NewStore(overrides Overrides) *Store {
	if overrides == nil {
		overrides = Overrides{}
	}
	return &Store{
		overrides: overrides,
		values:    make(map[string]map[string]any),
	}
}

// Register implements Manager.
func (s *Store) Register(field *meta.Field, namespace string) error {
	if field == nil {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "nil config field")
	}
	ctx := map[string]any{"namespace": namespace, "field": field.Name}

	if field.Get == nil {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInaccessibleMember, "config field is not readable", ctx)
	}
	if !field.Static {
		return cnserrors.NewWithContext(cnserrors.ErrCodeNotStatic, "config field must be static", ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if override, ok := s.overrides[namespace][field.Name]; ok {
		if field.Receiver == nil {
			slog.Warn("config override ignored for read-only field", "namespace", namespace, "field", field.Name)
		} else if err := field.Receiver.Assign(override); err != nil {
			return cnserrors.WrapWithContext(cnserrors.ErrCodeWrongType, "failed to apply config override", err, ctx)
		} else {
			slog.Debug("config override applied", "namespace", namespace, "field", field.Name)
		}
	}

	v, err := field.Get()
	if err != nil {
		return cnserrors.WrapWithContext(cnserrors.ErrCodeInaccessibleMember, "failed to read config field", err, ctx)
	}

	if s.values[namespace] == nil {
		s.values[namespace] = make(map[string]any)
	}
	s.values[namespace][field.Name] = v
	return nil
}

// Value returns the recorded value of a field.
func (s *Store) Value(namespace, name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[namespace][name]
	return v, ok
}

// Snapshot returns a copy of all recorded values.
func (s *Store) Snapshot() map[string]map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[string]any, len(s.values))
	for ns, fields := range s.values {
		cp := make(map[string]any, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		out[ns] = cp
	}
	return out
}

// Namespaces returns the namespaces with registered fields, sorted.
func (s *Store) Namespaces() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.values))
	for ns := range s.values {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Knob is an overridable configuration value. Unlike a slot it may be
// assigned more than once.
type Knob[T any] struct {
	mu sync.RWMutex
	v  T
}

// NewKnob returns a knob holding def.
func NewKnob[T any](def T) *Knob[T] {
	return &Knob[T]{v: def}
}

// Load returns the current value.
func (k *Knob[T]) Load() T {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.v
}

// Assign implements meta.Assigner. Integer overrides are accepted for
// floating point knobs.
func (k *Knob[T]) Assign(v any) error {
	typed, ok := v.(T)
	if !ok {
		converted, cok := convert[T](v)
		if !cok {
			var zero T
			return fmt.Errorf("cannot assign %T to knob of %T", v, zero)
		}
		typed = converted
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.v = typed
	return nil
}

func convert[T any](v any) (T, bool) {
	var zero T
	i, ok := v.(int)
	if !ok {
		return zero, false
	}
	switch any(zero).(type) {
	case float64:
		out, ok := any(float64(i)).(T)
		return out, ok
	case int64:
		out, ok := any(int64(i)).(T)
		return out, ok
	}
	return zero, false
}

// Field returns a static, final config field backed by knob.
func Field[T any](name string, knob *Knob[T]) meta.Field {
	return meta.Field{
		Name:     name,
		Static:   true,
		Final:    true,
		Holds:    meta.CapConfig,
		Get:      func() (any, error) { return knob.Load(), nil },
		Receiver: knob,
	}
}
