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

package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/NVIDIA/phaser/pkg/defaults"
	"github.com/NVIDIA/phaser/pkg/header"
	"github.com/NVIDIA/phaser/pkg/k8s/client"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"
)

// ConfigMapRef locates a ConfigMap and, optionally, one of its data keys.
type ConfigMapRef struct {
	Namespace string
	Name      string
	Key       string
}

func (r ConfigMapRef) String() string {
	s := ConfigMapURIScheme + r.Namespace + "/" + r.Name
	if r.Key != "" {
		s += "/" + r.Key
	}
	return s
}

// ParseConfigMapURI parses cm://namespace/name[/key].
func ParseConfigMapURI(uri string) (ConfigMapRef, error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return ConfigMapRef{}, fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, ConfigMapURIScheme), "/", 3)
	if len(parts) < 2 {
		return ConfigMapRef{}, fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	ref := ConfigMapRef{
		Namespace: strings.TrimSpace(parts[0]),
		Name:      strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		ref.Key = strings.TrimSpace(parts[2])
		if ref.Key == "" {
			return ConfigMapRef{}, fmt.Errorf("invalid ConfigMap URI: key cannot be empty")
		}
	}
	if ref.Namespace == "" {
		return ConfigMapRef{}, fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if ref.Name == "" {
		return ConfigMapRef{}, fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}
	return ref, nil
}

// ReadConfigMap returns one data entry of a ConfigMap. Without a key the
// ConfigMap must hold exactly one document entry (.yaml, .yml or .json), or
// exactly one entry of any name.
func ReadConfigMap(ctx context.Context, c client.Interface, ref ConfigMapRef) ([]byte, error) {
	readCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapReadTimeout)
	defer cancel()

	cm, err := c.CoreV1().ConfigMaps(ref.Namespace).Get(readCtx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get ConfigMap %s: %w", ref, err)
	}

	if ref.Key != "" {
		v, ok := cm.Data[ref.Key]
		if !ok {
			return nil, fmt.Errorf("ConfigMap %s has no key %q", ref, ref.Key)
		}
		return []byte(v), nil
	}

	keys := make([]string, 0, len(cm.Data))
	docs := make([]string, 0, len(cm.Data))
	for k := range cm.Data {
		keys = append(keys, k)
		if isDocumentKey(k) {
			docs = append(docs, k)
		}
	}
	sort.Strings(keys)
	sort.Strings(docs)

	switch {
	case len(docs) == 1:
		return []byte(cm.Data[docs[0]]), nil
	case len(docs) == 0 && len(keys) == 1:
		return []byte(cm.Data[keys[0]]), nil
	default:
		return nil, fmt.Errorf("ConfigMap %s holds %d entries %v, select one with %s/<key>", ref, len(keys), keys, ref)
	}
}

// ConfigMapWriter applies serialized documents to a ConfigMap with
// server-side apply. The ConfigMap is created when it does not exist.
type ConfigMapWriter struct {
	ref    ConfigMapRef
	format Format
	kube   func() (client.Interface, error)
}

// NewConfigMapWriter returns a writer for ref in format.
func NewConfigMapWriter(ref ConfigMapRef, format Format, opts ...Option) *ConfigMapWriter {
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to YAML", "format", format)
		format = FormatYAML
	}
	return &ConfigMapWriter{ref: ref, format: format, kube: newOptions(opts).kube}
}

// Serialize writes v to the ConfigMap. The data holds the document under
// ref.Key, or report.<ext> when no key was given, plus its format and
// timestamp. Documents carrying a header label the ConfigMap with their kind
// and version.
func (w *ConfigMapWriter) Serialize(ctx context.Context, v any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	c, err := w.kube()
	if err != nil {
		return fmt.Errorf("failed to get kubernetes client: %w", err)
	}

	content, err := Marshal(w.format, v)
	if err != nil {
		return err
	}

	kind, ver, ts := "document", "unknown", time.Now().UTC().Format(time.RFC3339)
	if h, ok := v.(interface {
		GetKind() header.Kind
		GetMetadata() map[string]string
	}); ok {
		if k := h.GetKind(); k != "" {
			kind = k.String()
		}
		if s := h.GetMetadata()[header.MetaVersion]; s != "" {
			ver = s
		}
		if s := h.GetMetadata()[header.MetaTimestamp]; s != "" {
			ts = s
		}
	}

	dataKey := w.ref.Key
	if dataKey == "" {
		dataKey = "report." + extension(w.format)
	}

	cm := accorev1.ConfigMap(w.ref.Name, w.ref.Namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "phaser",
			"app.kubernetes.io/component": kind,
			"app.kubernetes.io/version":   ver,
		}).
		WithData(map[string]string{
			dataKey:     string(content),
			"format":    string(w.format),
			"timestamp": ts,
		})

	slog.Info("applying ConfigMap", "configmap", w.ref.String(), "format", w.format)

	_, err = c.CoreV1().ConfigMaps(w.ref.Namespace).Apply(writeCtx, cm, metav1.ApplyOptions{
		FieldManager: defaults.ConfigMapFieldManager,
		Force:        true,
	})
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap %s: %w", w.ref, err)
	}
	return nil
}

func isDocumentKey(k string) bool {
	lower := strings.ToLower(k)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")
}

func extension(f Format) string {
	if f == FormatTable {
		return "txt"
	}
	return string(f)
}
