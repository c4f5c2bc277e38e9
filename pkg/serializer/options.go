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
	"io"
	"os"

	"github.com/NVIDIA/phaser/pkg/k8s/client"
)

// Option configures how sources are read and destinations written.
type Option func(*options)

type options struct {
	stdin  io.Reader
	stdout io.Writer
	http   *HTTPReader
	kube   func() (client.Interface, error)
}

func newOptions(opts []Option) *options {
	o := &options{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		kube:   client.GetKubeClient,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.http == nil {
		o.http = NewHTTPReader()
	}
	return o
}

// WithStdin replaces standard input for the "-" source.
func WithStdin(r io.Reader) Option {
	return func(o *options) { o.stdin = r }
}

// WithStdout replaces standard output for empty and "-" destinations.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithHTTPReader sets the reader used for http and https sources.
func WithHTTPReader(r *HTTPReader) Option {
	return func(o *options) { o.http = r }
}

// WithKubeClient sets the client used for ConfigMap sources and destinations.
func WithKubeClient(c client.Interface) Option {
	return func(o *options) {
		o.kube = func() (client.Interface, error) { return c, nil }
	}
}

// WithKubeconfig builds the ConfigMap client from an explicit kubeconfig.
// An empty path keeps the shared client.
func WithKubeconfig(path string) Option {
	return func(o *options) {
		if path == "" {
			return
		}
		o.kube = func() (client.Interface, error) { return client.BuildKubeClient(path) }
	}
}
