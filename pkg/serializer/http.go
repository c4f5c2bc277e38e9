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
	"io"
	"net"
	"net/http"
	"time"

	"github.com/NVIDIA/phaser/pkg/defaults"
)

// HTTPReaderOption configures an HTTPReader.
type HTTPReaderOption func(*HTTPReader)

// HTTPReader downloads documents over HTTP with bounded timeouts.
type HTTPReader struct {
	UserAgent             string
	TotalTimeout          time.Duration
	ConnectTimeout        time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	Client                *http.Client
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) HTTPReaderOption {
	return func(r *HTTPReader) { r.UserAgent = userAgent }
}

// WithTotalTimeout sets the total request timeout.
func WithTotalTimeout(timeout time.Duration) HTTPReaderOption {
	return func(r *HTTPReader) { r.TotalTimeout = timeout }
}

// WithConnectTimeout sets the dial timeout.
func WithConnectTimeout(timeout time.Duration) HTTPReaderOption {
	return func(r *HTTPReader) { r.ConnectTimeout = timeout }
}

// WithTLSHandshakeTimeout sets the TLS handshake timeout.
func WithTLSHandshakeTimeout(timeout time.Duration) HTTPReaderOption {
	return func(r *HTTPReader) { r.TLSHandshakeTimeout = timeout }
}

// WithResponseHeaderTimeout sets the response header timeout.
func WithResponseHeaderTimeout(timeout time.Duration) HTTPReaderOption {
	return func(r *HTTPReader) { r.ResponseHeaderTimeout = timeout }
}

// WithClient uses c as is and ignores the timeout options.
func WithClient(c *http.Client) HTTPReaderOption {
	return func(r *HTTPReader) { r.Client = c }
}

// NewHTTPReader returns a reader with the package default timeouts.
func NewHTTPReader(options ...HTTPReaderOption) *HTTPReader {
	r := &HTTPReader{
		UserAgent:             defaults.HTTPUserAgent,
		TotalTimeout:          defaults.HTTPClientTimeout,
		ConnectTimeout:        defaults.HTTPConnectTimeout,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.Client == nil {
		r.Client = &http.Client{
			Timeout: r.TotalTimeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           (&net.Dialer{Timeout: r.ConnectTimeout}).DialContext,
				TLSHandshakeTimeout:   r.TLSHandshakeTimeout,
				ResponseHeaderTimeout: r.ResponseHeaderTimeout,
			},
		}
	}
	return r
}

// Read fetches url and returns the response body. Non-2xx responses are
// errors.
func (r *HTTPReader) Read(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return data, nil
}
