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

// Package server hosts HTTP handlers behind the shared phaser middleware
// chain.
//
// The server itself is domain neutral: callers register their routes
// through WithHandler and the server wraps each of them with metrics,
// API version negotiation, request ID tracking, panic recovery, rate
// limiting (golang.org/x/time/rate) and request logging. System routes
// are always present and bypass the rate limiter:
//
//	GET /         - server name, version, readiness and registered routes
//	GET /health   - liveness probe, always 200
//	GET /ready    - readiness probe, 503 until Start is called
//	GET /metrics  - Prometheus metrics
//
// # Usage
//
//	s := server.New(
//	    server.WithName("phaser"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/run": handleRun,
//	    }),
//	)
//	if err := s.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled and then shuts down gracefully
// within Config.ShutdownTimeout.
//
// # Errors
//
// Handlers report failures with WriteError or WriteErrorFromErr. The latter
// maps the pkg/errors code of err to an HTTP status:
//
//	{
//	  "code": "INVALID_REQUEST",
//	  "message": "invalid manifest",
//	  "details": {"error": "..."},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-01-01T00:00:00Z",
//	  "retryable": false
//	}
//
// # Configuration
//
// The PORT and SHUTDOWN_TIMEOUT_SECONDS environment variables override the
// defaults returned by NewConfig.
package server
