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
	"github.com/NVIDIA/phaser/pkg/catalog"
	"github.com/NVIDIA/phaser/pkg/config"
	"github.com/NVIDIA/phaser/pkg/host"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/scanner"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOrigin sets the package whose declarations the pipeline handles. The
// default is the package calling New.
func WithOrigin(pkg string) Option {
	return func(p *Pipeline) {
		p.origin = scanner.OriginFromPackage(pkg)
	}
}

// WithDist sets the running distribution. The default is the server.
func WithDist(d meta.Dist) Option {
	return func(p *Pipeline) {
		p.dist = d
	}
}

// WithFactory sets the host object factory.
func WithFactory(f host.Factory) Option {
	return func(p *Pipeline) {
		p.factory = f
	}
}

// WithConfig sets the configuration manager. The default is an empty
// config.Store.
func WithConfig(m config.Manager) Option {
	return func(p *Pipeline) {
		p.config = m
	}
}

// WithCatalog sets the catalog secondary entities are listed in. The default
// is a catalog named after the namespace.
func WithCatalog(c *catalog.Catalog) Option {
	return func(p *Pipeline) {
		p.catalog = c
	}
}
