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
	"errors"
	"fmt"
	"sync"

	"github.com/NVIDIA/phaser/pkg/key"
)

var (
	// ErrDuplicate is returned when a key is registered twice.
	ErrDuplicate = errors.New("duplicate registration")
	// ErrSealed is returned when registering into a sealed registry.
	ErrSealed = errors.New("registry is sealed")
	// ErrInvalidKey is returned for incomplete keys.
	ErrInvalidKey = errors.New("invalid key")
)

// Registry is an append-only keyed store.
type Registry struct {
	mu      sync.RWMutex
	name    string
	entries map[key.Key]any
	order   []key.Key
	sealed  bool
}

// NewRegistry returns an empty registry called name.
func NewRegistry(name string) *Registry {
	return &Registry{name: name, entries: make(map[key.Key]any)}
}

// Name returns the registry name.
func (r *Registry) Name() string { return r.name }

// Register stores v under k.
func (r *Registry) Register(k key.Key, v any) error {
	if k.IsZero() {
		return fmt.Errorf("%w: %q in %s", ErrInvalidKey, k.String(), r.name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("%w: %s", ErrSealed, r.name)
	}
	if _, exists := r.entries[k]; exists {
		return fmt.Errorf("%w: %s in %s", ErrDuplicate, k, r.name)
	}
	r.entries[k] = v
	r.order = append(r.order, k)
	return nil
}

// Get returns the value stored under k.
func (r *Registry) Get(k key.Key) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[k]
	return v, ok
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []key.Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]key.Key, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Seal freezes the registry.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether the registry is frozen.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}
