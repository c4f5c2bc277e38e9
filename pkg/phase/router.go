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

package phase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
	"github.com/NVIDIA/phaser/pkg/host"
)

// ErrPhaseNotLive is returned when a handle is requested outside its phase.
var ErrPhaseNotLive = errors.New("phase is not live")

// Router owns the queue of every phase and the live handle of the phase
// being processed.
type Router struct {
	mu      sync.Mutex
	queues  map[Phase]*Queue
	handles map[Phase]host.Handle
	fired   map[Phase]bool
	attrs   []any
}

// NewRouter returns a router with an empty queue per phase. The attrs are
// carried by every queue and added to the records the router logs.
func NewRouter(attrs ...any) *Router {
	r := &Router{
		queues:  make(map[Phase]*Queue),
		handles: make(map[Phase]host.Handle),
		fired:   make(map[Phase]bool),
		attrs:   attrs,
	}
	for _, p := range Ordered() {
		if p.PerGrouping() {
			continue
		}
		r.queues[p] = NewQueue(p, attrs...)
	}
	return r
}

// Queue returns the queue of p.
func (r *Router) Queue(p Phase) (*Queue, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queues[p]
	return q, ok
}

// Enqueue appends a to the queue of p.
func (r *Router) Enqueue(p Phase, a Action) bool {
	q, ok := r.Queue(p)
	if !ok {
		slog.Warn("dropping action for unknown phase", append(r.logArgs(), "phase", p)...)
		return false
	}
	return q.Enqueue(a)
}

// Pending returns the number of actions waiting for p.
func (r *Router) Pending(p Phase) int {
	q, ok := r.Queue(p)
	if !ok {
		return 0
	}
	return q.Len()
}

// Fired reports whether p has been activated.
func (r *Router) Fired(p Phase) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fired[p]
}

// Handle returns the live handle of p.
func (r *Router) Handle(p Phase) (host.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPhaseNotLive, p)
	}
	return h, nil
}

// Activate stores h as the live handle of p, drains its queue and clears
// the handle. A second activation of the same phase is a no-op.
func (r *Router) Activate(ctx context.Context, p Phase, h host.Handle) error {
	if h == nil {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"activation requires a handle", map[string]any{"phase": string(p)})
	}

	if p.PerGrouping() {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"phase fires per grouping and has no queue", map[string]any{"phase": string(p)})
	}

	r.mu.Lock()
	q, ok := r.queues[p]
	if !ok {
		r.mu.Unlock()
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"unknown phase", map[string]any{"phase": string(p)})
	}
	if r.fired[p] {
		r.mu.Unlock()
		slog.WarnContext(ctx, "phase already activated", q.logArgs()...)
		return nil
	}
	r.fired[p] = true
	r.handles[p] = h
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.handles, p)
		r.mu.Unlock()
	}()

	start := time.Now()
	slog.DebugContext(ctx, "draining phase", q.logArgs("actions", q.Len())...)
	err := q.Drain()
	drainDuration.WithLabelValues(string(p)).Observe(time.Since(start).Seconds())
	return err
}

// Close drops every pending action.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for p := range r.queues {
		r.queues[p] = NewQueue(p, r.attrs...)
		r.queues[p].spent = true
	}
	clear(r.handles)
}

// logArgs returns a copy of the router attributes.
func (r *Router) logArgs() []any {
	return append([]any(nil), r.attrs...)
}
