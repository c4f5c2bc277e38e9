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

package defaults

import "time"

// Registry naming conventions.
const (
	// KeySeparator separates namespace and name in a registry key.
	KeySeparator = ":"

	// FlowingSuffix is appended to a resource key for its flowing variant.
	FlowingSuffix = "_flowing"

	// ContainerSuffix is appended to a resource key for its container entity.
	ContainerSuffix = "_bucket"

	// StillTextureFormat and FlowingTextureFormat build resource texture names.
	StillTextureFormat   = "fluid/%s_still"
	FlowingTextureFormat = "fluid/%s_flowing"

	// CatalogPlaceholderIcon is the catalog icon used until a catalog-icon
	// entity is committed.
	CatalogPlaceholderIcon = "placeholder"
)

// Nested work submitted through setup handles.
const (
	// NestedWorkLimit caps the number of nested units the in-memory host
	// runs at once.
	NestedWorkLimit = 8
)

// HTTP client timeouts for manifest and override downloads.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second
)

// Kubernetes timeouts.
const (
	// ConfigMapReadTimeout is the timeout for reading a ConfigMap source.
	ConfigMapReadTimeout = 30 * time.Second

	// ConfigMapWriteTimeout is the timeout for applying a report ConfigMap.
	ConfigMapWriteTimeout = 30 * time.Second
)

// Server timeouts for the serve command.
const (
	// ServerReadTimeout is the maximum duration for reading a request.
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the keep-alive idle timeout.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout bounds graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// ServerMaxRequestBytes caps manifest uploads accepted by the serve command.
const ServerMaxRequestBytes = 4 << 20

// ConfigMapFieldManager is the server-side apply field manager for reports.
const ConfigMapFieldManager = "phaser"

// HTTPUserAgent identifies manifest and override downloads.
const HTTPUserAgent = "phaser/1.0"
