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

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	declarationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phaser_declarations_dispatched_total",
			Help: "Total number of declarations dispatched by marker",
		},
		[]string{"marker"},
	)

	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phaser_registrations_total",
			Help: "Total number of values committed to host registries by phase",
		},
		[]string{"phase"},
	)

	orphansTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "phaser_orphaned_contributors_total",
			Help: "Total number of aggregate contributors dropped without an owner",
		},
	)

	contributionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "phaser_world_contributions_applied_total",
			Help: "Total number of world data contributions applied to groupings",
		},
	)
)
