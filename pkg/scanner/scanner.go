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
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/NVIDIA/phaser/pkg/meta"
)

// ErrTypeNotFound is returned by a Loader for unknown owner types.
var ErrTypeNotFound = errors.New("type not found")

// Entry is one row of the metadata index.
type Entry struct {
	Owner  string      `json:"owner" yaml:"owner"`
	Member string      `json:"member,omitempty" yaml:"member,omitempty"`
	Marker meta.Marker `json:"marker" yaml:"marker"`
	Params meta.Params `json:"params,omitempty" yaml:"params,omitempty"`
}

// Index exposes the entries of a metadata index in a stable order.
type Index interface {
	Entries() []Entry
}

// Table is a static Index.
type Table []Entry

// Entries implements Index.
func (t Table) Entries() []Entry { return t }

// Loader resolves owner type names.
type Loader interface {
	Load(name string) (*meta.Type, error)
}

// Types is a static Loader keyed by fully qualified type name.
type Types map[string]*meta.Type

// Load implements Loader.
func (t Types) Load(name string) (*meta.Type, error) {
	typ, ok := t[name]
	if !ok || typ == nil {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	return typ, nil
}

// Add registers typ under its name.
func (t Types) Add(typ *meta.Type) Types {
	t[typ.Name] = typ
	return t
}

// Declaration is a discovered entry with its owner resolved.
type Declaration struct {
	Owner  *meta.Type
	Member string
	Marker meta.Marker
	Params meta.Params
	Side   meta.Side
}

// Origin identifies the package that owns a pipeline.
type Origin struct {
	// Package is the package path owner type names must start with.
	Package string
	// Namespace is the default registry namespace.
	Namespace string
}

// OriginFromPackage derives an origin from a package path. The namespace is
// the last path segment, and for dotted names the last dotted segment.
func OriginFromPackage(pkg string) Origin {
	ns := pkg
	if i := strings.LastIndex(ns, "/"); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.LastIndex(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return Origin{Package: pkg, Namespace: ns}
}

// CallerOrigin derives the origin from the package of the function skip
// frames above the caller.
func CallerOrigin(skip int) Origin {
	pc, _, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return Origin{}
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return Origin{}
	}
	return OriginFromPackage(packageOf(fn.Name()))
}

// packageOf strips the function part of a qualified runtime function name,
// e.g. "github.com/acme/example.(*Mod).Init" becomes "github.com/acme/example".
func packageOf(funcName string) string {
	slash := strings.LastIndex(funcName, "/")
	dot := strings.Index(funcName[slash+1:], ".")
	if dot < 0 {
		return funcName
	}
	return funcName[:slash+1+dot]
}

// InPackage reports whether the fully qualified type name lies in pkg or one
// of its subpackages.
func InPackage(typeName, pkg string) bool {
	if pkg == "" {
		return false
	}
	if !strings.HasPrefix(typeName, pkg) {
		return false
	}
	rest := typeName[len(pkg):]
	return rest == "" || rest[0] == '.' || rest[0] == '/'
}

// Scan returns the declarations of index carrying one of markers, in index
// order, after the namespace, resolution and environment filters.
func Scan(index Index, loader Loader, origin Origin, dist meta.Dist, markers ...meta.Marker) []Declaration {
	if index == nil || loader == nil {
		return nil
	}

	wanted := make(map[meta.Marker]bool, len(markers))
	for _, m := range markers {
		wanted[m] = true
	}

	var out []Declaration
	for _, e := range index.Entries() {
		if !wanted[e.Marker] {
			continue
		}
		if !InPackage(e.Owner, origin.Package) {
			scanTotal.WithLabelValues(string(e.Marker), outcomeOutOfPackage).Inc()
			continue
		}

		owner, err := loader.Load(e.Owner)
		if err != nil {
			slog.Debug("skipping declaration with unresolvable owner",
				"owner", e.Owner, "member", e.Member, "marker", e.Marker, "error", err)
			scanTotal.WithLabelValues(string(e.Marker), outcomeUnresolved).Inc()
			continue
		}

		if owner.ClientOnly && dist != meta.DistClient {
			scanTotal.WithLabelValues(string(e.Marker), outcomeFiltered).Inc()
			continue
		}
		if !owner.Side.Matches(dist) {
			scanTotal.WithLabelValues(string(e.Marker), outcomeFiltered).Inc()
			continue
		}

		scanTotal.WithLabelValues(string(e.Marker), outcomeAccepted).Inc()
		out = append(out, Declaration{
			Owner:  owner,
			Member: e.Member,
			Marker: e.Marker,
			Params: e.Params,
			Side:   owner.Side,
		})
	}

	return out
}
