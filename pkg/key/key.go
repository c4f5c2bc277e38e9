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

// Package key computes fully-qualified registry keys.
//
// A key is the pair namespace:name. The namespace always has a default (the
// caller's own namespace); the name never does. Uniqueness is not checked
// here, that is the job of the host registry receiving the key.
package key

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/phaser/pkg/defaults"
	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
)

// Key identifies an entry in a host registry.
type Key struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Name      string `json:"name" yaml:"name"`
}

// IsZero reports whether the key is incomplete.
func (k Key) IsZero() bool { return k.Namespace == "" || k.Name == "" }

// String returns "namespace:name".
func (k Key) String() string {
	return k.Namespace + defaults.KeySeparator + k.Name
}

// WithSuffix returns a key in the same namespace with suffix appended to the name.
func (k Key) WithSuffix(suffix string) Key {
	return Key{Namespace: k.Namespace, Name: k.Name + suffix}
}

// Resolve derives a registry key. An empty explicit namespace is replaced by
// the caller's namespace; an empty local name is an EMPTY_NAME error.
func Resolve(explicitNamespace, callerNamespace, localName string) (Key, error) {
	ns := strings.TrimSpace(explicitNamespace)
	if ns == "" {
		ns = callerNamespace
	}
	name := strings.TrimSpace(localName)
	if name == "" {
		return Key{}, cnserrors.NewWithContext(cnserrors.ErrCodeEmptyName,
			"unable to register without a name",
			map[string]any{"namespace": ns})
	}
	return Key{Namespace: ns, Name: name}, nil
}

// Parse parses "namespace:name". A value without a separator uses
// defaultNamespace.
func Parse(s, defaultNamespace string) (Key, error) {
	ns, name, found := strings.Cut(strings.TrimSpace(s), defaults.KeySeparator)
	if !found {
		return Resolve("", defaultNamespace, ns)
	}
	if ns == "" {
		return Key{}, cnserrors.New(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid key %q: empty namespace before separator", s))
	}
	return Resolve(ns, defaultNamespace, name)
}
