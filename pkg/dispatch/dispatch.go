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

// Package dispatch routes discovered declarations to per-marker handlers.
package dispatch

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/scanner"
)

// Handler processes one declaration. Handlers enqueue deferred work and
// report their own errors.
type Handler func(namespace string, decl scanner.Declaration)

// Table maps markers to handlers.
type Table struct {
	mu       sync.RWMutex
	handlers map[meta.Marker]Handler
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{handlers: make(map[meta.Marker]Handler)}
}

// Register binds h to m. Privileged and duplicate markers are rejected.
func (t *Table) Register(m meta.Marker, h Handler) error {
	if h == nil {
		return fmt.Errorf("nil handler for marker %q", m)
	}
	if m.IsPrivileged() {
		return fmt.Errorf("marker %q is privileged and cannot be dispatched", m)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.handlers[m]; exists {
		return fmt.Errorf("handler for marker %q already registered", m)
	}
	t.handlers[m] = h
	return nil
}

// MustRegister is like Register but panics on error.
func (t *Table) MustRegister(m meta.Marker, h Handler) {
	if err := t.Register(m, h); err != nil {
		panic(err)
	}
}

// Lookup returns the handler bound to m.
func (t *Table) Lookup(m meta.Marker) (Handler, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.handlers[m]
	return h, ok
}

// Markers returns the bound markers, sorted.
func (t *Table) Markers() []meta.Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]meta.Marker, 0, len(t.handlers))
	for m := range t.handlers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Dispatch invokes the bound handler of every declaration in order and
// returns how many were handled. Declarations with unbound markers are
// ignored.
func (t *Table) Dispatch(namespace string, decls []scanner.Declaration) int {
	handled := 0
	for _, d := range decls {
		h, ok := t.Lookup(d.Marker)
		if !ok {
			slog.Debug("no handler for marker", "marker", d.Marker, "owner", d.Owner.Name)
			continue
		}
		h(namespace, d)
		handled++
	}
	return handled
}
