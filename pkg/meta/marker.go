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

package meta

import (
	"fmt"
	"strings"
)

// Marker identifies which handler owns a declaration.
type Marker string

// Marker constants.
const (
	MarkerConfig             Marker = "config"
	MarkerModuleInit         Marker = "module-init"
	MarkerPrimaryEntity      Marker = "primary-entity"
	MarkerSecondaryEntity    Marker = "secondary-entity"
	MarkerResource           Marker = "resource"
	MarkerInteractionSurface Marker = "interaction-surface"
	MarkerAggregate          Marker = "aggregate"
	MarkerLegacyAggregate    Marker = "legacy-aggregate"
	MarkerWorldDatum         Marker = "world-datum"
)

// String returns the string representation of the Marker.
func (m Marker) String() string { return string(m) }

// IsPrivileged reports whether the marker is processed in the dedicated early pass.
func (m Marker) IsPrivileged() bool {
	return m == MarkerConfig || m == MarkerModuleInit
}

// IsValid reports whether the marker is recognized.
func (m Marker) IsValid() bool {
	switch m {
	case MarkerConfig, MarkerModuleInit, MarkerPrimaryEntity, MarkerSecondaryEntity,
		MarkerResource, MarkerInteractionSurface, MarkerAggregate, MarkerLegacyAggregate,
		MarkerWorldDatum:
		return true
	default:
		return false
	}
}

// SupportedMarkers returns all recognized marker names.
func SupportedMarkers() []string {
	return []string{
		string(MarkerConfig),
		string(MarkerModuleInit),
		string(MarkerPrimaryEntity),
		string(MarkerSecondaryEntity),
		string(MarkerResource),
		string(MarkerInteractionSurface),
		string(MarkerAggregate),
		string(MarkerLegacyAggregate),
		string(MarkerWorldDatum),
	}
}

// Dist is the running distribution.
type Dist string

// Dist constants.
const (
	DistClient Dist = "client"
	DistServer Dist = "server"
)

// IsClient reports whether d is the client distribution.
func (d Dist) IsClient() bool { return d == DistClient }

// ParseDist parses a distribution name.
func ParseDist(s string) (Dist, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "client":
		return DistClient, nil
	case "server", "dedicated-server", "":
		return DistServer, nil
	default:
		return DistServer, fmt.Errorf("invalid distribution: %s", s)
	}
}

// Side is an explicit side constraint on an owner type. The empty Side
// matches any distribution.
type Side string

// Side constants.
const (
	SideAny    Side = ""
	SideClient Side = "client"
	SideServer Side = "server"
)

// Matches reports whether a type constrained to s may load under d.
func (s Side) Matches(d Dist) bool {
	switch s {
	case SideAny:
		return true
	case SideClient:
		return d == DistClient
	case SideServer:
		return d == DistServer
	default:
		return false
	}
}
