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

package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func testServer() *Server {
	return &Server{
		config:      NewConfig(),
		rateLimiter: rate.NewLimiter(100, 200),
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	s := testServer()

	var captured string
	handler := s.requestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Context().Value(contextKeyRequestID).(string)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("generates new ID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		_, err := uuid.Parse(captured)
		require.NoError(t, err)
		assert.Equal(t, captured, rec.Header().Get("X-Request-Id"))
	})

	t.Run("uses provided ID", func(t *testing.T) {
		provided := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-Id", provided)

		handler(httptest.NewRecorder(), req)
		assert.Equal(t, provided, captured)
	})

	t.Run("replaces invalid ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-Id", "invalid-not-a-uuid")

		handler(httptest.NewRecorder(), req)
		assert.NotEqual(t, "invalid-not-a-uuid", captured)
		_, err := uuid.Parse(captured)
		assert.NoError(t, err)
	})
}

func TestVersionMiddleware(t *testing.T) {
	s := testServer()

	var captured string
	handler := s.versionMiddleware(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Context().Value(contextKeyAPIVersion).(string)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Accept", "application/vnd.nvidia.phaser.v1+json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
	assert.Equal(t, "v1", captured)
}

func TestBodyLimitMiddleware(t *testing.T) {
	s := testServer()
	s.config.MaxRequestBytes = 8

	var readErr error
	handler := s.bodyLimitMiddleware(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("short")))
	assert.NoError(t, readErr)

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("much longer than eight bytes")))
	assert.Error(t, readErr)
}

func TestMetricsMiddleware_RecordsStatus(t *testing.T) {
	s := testServer()

	var seen int
	handler := s.metricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
		if rw, ok := w.(*responseWriter); ok {
			seen = rw.Status()
		}
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, http.StatusTeapot, seen)
}

func requestCount(t *testing.T, method, route, status string) float64 {
	t.Helper()
	want := map[string]string{"method": method, "route": route, "status": status}

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "phaser_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			got := make(map[string]string, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				got[l.GetName()] = l.GetValue()
			}
			if assert.ObjectsAreEqual(want, got) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestMetricsMiddleware_LabelsByRoute(t *testing.T) {
	s := testServer()
	handler := s.metricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	beforeMatched := requestCount(t, http.MethodPost, "/v1/run", "202")
	beforeUnmatched := requestCount(t, http.MethodPost, unmatchedRoute, "202")

	req := httptest.NewRequest(http.MethodPost, "/v1/run?dist=client", nil)
	req.Pattern = "/v1/run"
	handler(httptest.NewRecorder(), req)
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/unknown/123", nil))

	assert.InDelta(t, beforeMatched+1, requestCount(t, http.MethodPost, "/v1/run", "202"), 0)
	assert.InDelta(t, beforeUnmatched+1, requestCount(t, http.MethodPost, unmatchedRoute, "202"), 0)
	assert.Zero(t, requestCount(t, http.MethodPost, "/v1/unknown/123", "202"))
}
