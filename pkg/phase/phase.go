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
	"errors"
	"fmt"
	"log/slog"
	"sync"

	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
)

// Phase is a named lifecycle event.
type Phase string

// Phase constants, in the order the host fires them.
const (
	PrimaryEntity      Phase = "primary-entity"
	SecondaryEntity    Phase = "secondary-entity"
	Resource           Phase = "resource"
	InteractionSurface Phase = "interaction-surface"
	Aggregate          Phase = "aggregate"
	ClientSetup        Phase = "client-setup"
	CommonSetup        Phase = "common-setup"
	WorldData          Phase = "world-data"
)

// String returns the string representation of the Phase.
func (p Phase) String() string { return string(p) }

// PerGrouping reports whether p fires once per grouping the host reports
// instead of draining a queue. WorldData is the only such phase; its work is
// the world data gate walked after common setup.
func (p Phase) PerGrouping() bool { return p == WorldData }

// Ordered returns every phase in firing order.
func Ordered() []Phase {
	return []Phase{
		PrimaryEntity, SecondaryEntity, Resource, InteractionSurface, Aggregate,
		ClientSetup, CommonSetup, WorldData,
	}
}

// Registries returns the phases that carry a Handle into a registry.
func Registries() []Phase {
	return []Phase{PrimaryEntity, SecondaryEntity, Resource, InteractionSurface, Aggregate}
}

// IsValid reports whether p is a known phase.
func (p Phase) IsValid() bool {
	for _, known := range Ordered() {
		if p == known {
			return true
		}
	}
	return false
}

// Action is a unit of deferred work.
type Action func() error

// Queue is a one-shot FIFO of actions for a single phase.
type Queue struct {
	mu    sync.Mutex
	phase Phase
	attrs []any
	items []Action
	spent bool
}

// NewQueue returns an empty queue for p. The attrs are prepended to every
// log record the queue writes.
func NewQueue(p Phase, attrs ...any) *Queue {
	return &Queue{phase: p, attrs: attrs}
}

// logArgs returns the queue attributes followed by args.
func (q *Queue) logArgs(args ...any) []any {
	out := make([]any, 0, len(q.attrs)+len(args)+2)
	out = append(out, q.attrs...)
	out = append(out, "phase", q.phase)
	return append(out, args...)
}

// Phase returns the phase the queue belongs to.
func (q *Queue) Phase() Phase { return q.phase }

// Enqueue appends a. It returns false and drops a when the queue already
// drained.
func (q *Queue) Enqueue(a Action) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.spent {
		slog.Warn("dropping action enqueued on a drained phase", q.logArgs()...)
		actionsTotal.WithLabelValues(string(q.phase), outcomeDropped).Inc()
		return false
	}
	q.items = append(q.items, a)
	return true
}

// Len returns the number of pending actions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Spent reports whether the queue has drained.
func (q *Queue) Spent() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.spent
}

// Drain marks the queue spent and runs the snapshot of pending actions in
// order. The first fatal error stops the drain and is returned. Other
// errors are logged and the drain continues.
func (q *Queue) Drain() error {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.spent = true
	q.mu.Unlock()

	for i, a := range items {
		err := run(a)
		if err == nil {
			actionsTotal.WithLabelValues(string(q.phase), outcomeOK).Inc()
			continue
		}

		Report(err, q.logArgs("action", i)...)
		if cnserrors.IsFatal(err) {
			actionsTotal.WithLabelValues(string(q.phase), outcomeAborted).Inc()
			skipped := len(items) - i - 1
			if skipped > 0 {
				slog.Error("phase drain aborted", q.logArgs("skipped", skipped)...)
				actionsTotal.WithLabelValues(string(q.phase), outcomeSkipped).Add(float64(skipped))
			}
			return err
		}
		actionsTotal.WithLabelValues(string(q.phase), outcomeFailed).Inc()
	}
	return nil
}

// run invokes a, turning a panic into an error.
func run(a Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cnserrors.New(cnserrors.ErrCodeInternal, fmt.Sprintf("action panicked: %v", r))
		}
	}()
	return a()
}

// Report logs err at the level matching its severity and counts it.
func Report(err error, args ...any) {
	if err == nil {
		return
	}

	sev := cnserrors.SeverityOf(err)
	errorsTotal.WithLabelValues(string(cnserrors.CodeOf(err)), string(sev)).Inc()

	var se *cnserrors.StructuredError
	if errors.As(err, &se) {
		args = append(args, se.LogAttrs()...)
	}
	args = append(args, "error", err.Error())

	switch sev {
	case cnserrors.SeverityWarning:
		slog.Warn("registration warning", args...)
	case cnserrors.SeverityFatal:
		slog.Error("fatal registration error", args...)
	default:
		slog.Error("registration abandoned", args...)
	}
}
