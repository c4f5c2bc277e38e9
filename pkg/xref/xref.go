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

// Package xref records contributions for aggregates that have not been
// committed yet.
//
// Contributions are keyed by the aggregate's declaring identity and kept in
// insertion order. The aggregate's own handler consumes its list exactly
// once with Take; whatever is still pending afterwards can be reported with
// Pending and discarded with Drop.
package xref

// Index maps an aggregate identity to the ordered contributions recorded so far.
// It is not safe for concurrent use; the pipeline drives it from a single goroutine.
type Index[K comparable, V any] struct {
	entries map[K][]V
	order   []K
}

// New creates an empty index.
func New[K comparable, V any]() *Index[K, V] {
	return &Index[K, V]{entries: make(map[K][]V)}
}

// Add appends a contribution for k.
func (x *Index[K, V]) Add(k K, v V) {
	if _, ok := x.entries[k]; !ok {
		x.order = append(x.order, k)
	}
	x.entries[k] = append(x.entries[k], v)
}

// Take removes and returns the contributions for k in the order they were added.
// The second result is false when nothing was ever recorded for k or the
// list was already taken.
func (x *Index[K, V]) Take(k K) ([]V, bool) {
	vals, ok := x.entries[k]
	if !ok {
		return nil, false
	}
	x.remove(k)
	return vals, true
}

// Peek returns the contributions for k without consuming them.
func (x *Index[K, V]) Peek(k K) []V {
	vals := x.entries[k]
	out := make([]V, len(vals))
	copy(out, vals)
	return out
}

// Pending returns the keys that still hold contributions, in first-added order.
func (x *Index[K, V]) Pending() []K {
	out := make([]K, len(x.order))
	copy(out, x.order)
	return out
}

// Drop discards the contributions for k.
func (x *Index[K, V]) Drop(k K) {
	if _, ok := x.entries[k]; ok {
		x.remove(k)
	}
}

// Len returns the number of keys with pending contributions.
func (x *Index[K, V]) Len() int { return len(x.entries) }

func (x *Index[K, V]) remove(k K) {
	delete(x.entries, k)
	for i, existing := range x.order {
		if existing == k {
			x.order = append(x.order[:i], x.order[i+1:]...)
			break
		}
	}
}
