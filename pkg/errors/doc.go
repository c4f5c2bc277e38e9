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

// Package errors provides structured error types for the registration
// pipeline.
//
// Every validation point in the pipeline reports failures as a
// StructuredError carrying a Code from the registration taxonomy and a
// Severity. The phase router consults IsFatal to decide whether an error
// aborts the remaining work of a drain or is logged and skipped.
//
// Example usage:
//
//	err := errors.NewWithContext(
//	    errors.ErrCodeMissingMember,
//	    "unable to find field for primary entity",
//	    map[string]any{
//	        "owner":  owner.Name,
//	        "member": member,
//	    },
//	)
//
//	if errors.IsFatal(err) {
//	    return err
//	}
package errors
