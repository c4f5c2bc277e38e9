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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadSource returns the raw content of source: "-" for standard input, an
// http(s) URL, a cm://namespace/name[/key] ConfigMap or a file path.
func ReadSource(ctx context.Context, source string, opts ...Option) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("source is required")
	}
	o := newOptions(opts)

	switch {
	case source == StdioSource:
		data, err := io.ReadAll(o.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return data, nil

	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		slog.Debug("reading remote source", "url", source)
		return o.http.Read(ctx, source)

	case strings.HasPrefix(source, ConfigMapURIScheme):
		ref, err := ParseConfigMapURI(source)
		if err != nil {
			return nil, err
		}
		c, err := o.kube()
		if err != nil {
			return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
		}
		slog.Debug("reading ConfigMap source", "configmap", ref.String())
		return ReadConfigMap(ctx, c, ref)

	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		return data, nil
	}
}

// Unmarshal decodes data in format into v. Table output cannot be decoded.
func Unmarshal(format Format, data []byte, v any) error {
	if v == nil {
		return fmt.Errorf("cannot deserialize into nil")
	}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("failed to deserialize JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to deserialize YAML: %w", err)
		}
	case FormatTable:
		return fmt.Errorf("table format does not support deserialization")
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
