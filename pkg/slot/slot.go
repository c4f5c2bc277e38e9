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

// Package slot provides a write-once, read-many cell.
//
// A Slot is created empty when work is enqueued, written exactly once by the
// handler that owns it and read by any number of closures that captured it
// earlier. It replaces module-level mutable state for forward references
// between entities that must name each other before either exists, and it
// is the receiving end for committed registry results.
package slot

import (
	"errors"
	"fmt"
	"sync"

	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
)

// ErrAlreadySet is returned when a Slot is written a second time.
var ErrAlreadySet = errors.New("slot: already set")

// Slot is a single-assignment cell. The zero value is an unnamed empty slot.
// It is safe for concurrent reads once written.
type Slot[T any] struct {
	mu   sync.RWMutex
	name string
	val  T
	set  bool
}

// New creates an empty, named slot. The name only appears in errors.
func New[T any](name string) *Slot[T] {
	return &Slot[T]{name: name}
}

// Name returns the slot name.
func (s *Slot[T]) Name() string { return s.name }

// Set writes v. A second call returns ErrAlreadySet and leaves the first value.
func (s *Slot[T]) Set(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set {
		return fmt.Errorf("%w: %s", ErrAlreadySet, s.name)
	}
	s.val = v
	s.set = true
	return nil
}

// Assign writes an untyped value, failing with WRONG_TYPE when v is not a T.
func (s *Slot[T]) Assign(v any) error {
	typed, ok := v.(T)
	if !ok {
		var zero T
		return cnserrors.NewWithContext(cnserrors.ErrCodeWrongType,
			fmt.Sprintf("unassignable value %T for slot of %T", v, zero),
			map[string]any{"slot": s.name})
	}
	return s.Set(typed)
}

// Get returns the value and whether it has been written.
func (s *Slot[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.val, s.set
}

// IsSet reports whether the slot has been written.
func (s *Slot[T]) IsSet() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

// MustGet returns the value, panicking when the slot is still empty.
func (s *Slot[T]) MustGet() T {
	v, ok := s.Get()
	if !ok {
		panic(fmt.Sprintf("slot %q read before it was set", s.name))
	}
	return v
}

// Supplier returns a closure reading the slot; it yields the zero value
// until the slot is written.
func (s *Slot[T]) Supplier() func() T {
	return func() T {
		v, _ := s.Get()
		return v
	}
}
