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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK      = "ok"
	outcomeFailed  = "failed"
	outcomeAborted = "aborted"
	outcomeSkipped = "skipped"
	outcomeDropped = "dropped"
)

var (
	actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phaser_phase_actions_total",
			Help: "Total number of deferred actions by phase and outcome",
		},
		[]string{"phase", "outcome"},
	)

	drainDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "phaser_phase_drain_duration_seconds",
			Help:    "Duration of phase queue drains",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phaser_registration_errors_total",
			Help: "Total number of registration errors by code and severity",
		},
		[]string{"code", "severity"},
	)
)
