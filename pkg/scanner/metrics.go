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

package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAccepted     = "accepted"
	outcomeOutOfPackage = "out_of_package"
	outcomeUnresolved   = "unresolved"
	outcomeFiltered     = "side_filtered"
)

var (
	scanTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phaser_scan_entries_total",
			Help: "Total number of index entries examined by the scanner",
		},
		[]string{"marker", "outcome"},
	)
)
