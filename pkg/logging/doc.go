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

// Package logging provides structured logging utilities for phaser components.
//
// # Overview
//
// This package wraps the standard library slog package with defaults used
// across the pipeline, the in-memory host and the CLI. It supports
// environment-based log level configuration, module/version context
// injection, and source location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages, e.g. non-final members
//   - ERROR: Abandoned declarations and fatal drain failures
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("phaser", "v1.0.0")
//	    slog.Info("pipeline constructed", "namespace", "example")
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("memory-host", "v1.0.0", "debug")
//	logger.Info("phase fired", "phase", "primary-entity")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug phaser run --manifest example.yaml
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "ERROR",
//	    "msg": "declaration abandoned",
//	    "module": "phaser",
//	    "version": "v1.0.0",
//	    "code": "MISSING_MEMBER",
//	    "owner": "example.content.Blocks",
//	    "member": "FURNACE"
//	}
package logging
