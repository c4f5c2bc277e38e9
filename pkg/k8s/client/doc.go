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

// Package client provides a shared Kubernetes client.
//
// The client is built once on first use and cached for subsequent calls:
//
//	clientset, err := client.GetKubeClient()
//	if err != nil {
//	    return fmt.Errorf("failed to get kubernetes client: %w", err)
//	}
//	cm, err := clientset.CoreV1().ConfigMaps("default").Get(ctx, "phaser", metav1.GetOptions{})
//
// Configuration is discovered from, in order:
//   - the explicit kubeconfig path passed to BuildKubeClient
//   - the KUBECONFIG environment variable
//   - ~/.kube/config, when it exists
//   - the in-cluster service account
//
// Tests substitute k8s.io/client-go/kubernetes/fake clientsets through the
// Interface alias.
package client
