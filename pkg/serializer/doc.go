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

// Package serializer reads phaser documents from their sources and writes
// reports in the supported output formats.
//
// Sources are resolved by ReadSource:
//   - "-" reads standard input
//   - http:// and https:// URLs are downloaded with bounded timeouts
//   - cm://namespace/name[/key] reads a Kubernetes ConfigMap entry
//   - anything else is a local file path
//
// Writers support three formats:
//   - JSON: indented structured output
//   - YAML: human-readable configuration format
//   - Table: flattened FIELD/VALUE listing
//
// Usage:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer serializer.Close(w)
//	if err := w.Serialize(ctx, report); err != nil {
//		return err
//	}
//
// Writing to a cm:// destination applies the report as a ConfigMap with
// server-side apply.
package serializer
