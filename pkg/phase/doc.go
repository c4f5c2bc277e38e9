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

// Package phase provides one-shot work queues bound to host lifecycle phases.
//
// Handlers never commit directly. They enqueue an Action on the queue of the
// phase that owns the target registry, and the Router drains that queue when
// the host fires the phase. Each queue drains exactly once, in FIFO order.
// Actions enqueued while a drain is running are not executed by it.
//
// # Error Policy
//
// Actions return errors built with pkg/errors. Warnings and errors are
// logged with their code and context and the drain continues with the next
// action. A fatal error aborts the remaining actions of the drain and is
// returned from Activate, so the host can abort startup.
//
// Usage:
//
//	router := phase.NewRouter()
//	router.Enqueue(phase.PrimaryEntity, func() error {
//	    h, err := router.Handle(phase.PrimaryEntity)
//	    if err != nil {
//	        return err
//	    }
//	    return h.Register(k, v)
//	})
//	err := router.Activate(ctx, phase.PrimaryEntity, handle)
package phase
