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

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeInvalidRequest indicates malformed or invalid input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeNotFound indicates a requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeMethodNotAllowed indicates an unsupported HTTP method.
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	// ErrCodeRateLimitExceeded indicates the request was throttled.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeUnavailable indicates the service is not ready.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates an operation exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"

	// ErrCodeMissingMember indicates the tagged member does not exist on its owner.
	ErrCodeMissingMember ErrorCode = "MISSING_MEMBER"
	// ErrCodeInaccessibleMember indicates the tagged member cannot be read or invoked.
	ErrCodeInaccessibleMember ErrorCode = "INACCESSIBLE_MEMBER"
	// ErrCodeWrongType indicates an owner or value is not assignable to the expected capability.
	ErrCodeWrongType ErrorCode = "WRONG_TYPE"
	// ErrCodeNotStatic indicates a member that must be static is not.
	ErrCodeNotStatic ErrorCode = "NOT_STATIC"
	// ErrCodeNotFinal indicates a member that should be final is not. Warning only.
	ErrCodeNotFinal ErrorCode = "NOT_FINAL"
	// ErrCodeDuplicateDesignation indicates more than one member carries a single-use designation.
	ErrCodeDuplicateDesignation ErrorCode = "DUPLICATE_DESIGNATION"
	// ErrCodeMissingDesignation indicates no member carries a required designation.
	ErrCodeMissingDesignation ErrorCode = "MISSING_DESIGNATION"
	// ErrCodeEmptyName indicates a declaration without a registry name.
	ErrCodeEmptyName ErrorCode = "EMPTY_NAME"
	// ErrCodeUnresolvedAggregateOwner indicates an aggregate commit found no contributors.
	ErrCodeUnresolvedAggregateOwner ErrorCode = "UNRESOLVED_AGGREGATE_OWNER"
	// ErrCodeConstructionFailure indicates a constructor or factory failed or could not be invoked.
	ErrCodeConstructionFailure ErrorCode = "CONSTRUCTION_FAILURE"
	// ErrCodeOrphanedContributors indicates contributors that no aggregate declaration ever claimed.
	ErrCodeOrphanedContributors ErrorCode = "ORPHANED_CONTRIBUTORS"
)

// Severity classifies how the pipeline reacts to an error.
type Severity string

const (
	// SeverityWarning is logged and never abandons the declaration.
	SeverityWarning Severity = "warning"
	// SeverityError abandons the declaration it was raised for.
	SeverityError Severity = "error"
	// SeverityFatal aborts the remaining work of the current phase drain.
	SeverityFatal Severity = "fatal"
)

// StructuredError provides structured error information for better observability.
// It includes an error code for programmatic handling, a human-readable message,
// the underlying cause, a severity and optional context for debugging.
type StructuredError struct {
	Code     ErrorCode
	Message  string
	Cause    error
	Severity Severity
	Context  map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// LogAttrs flattens the error into slog key/value pairs.
func (e *StructuredError) LogAttrs() []any {
	attrs := make([]any, 0, 6+2*len(e.Context))
	attrs = append(attrs, "code", string(e.Code), "severity", string(e.Severity))
	if e.Cause != nil {
		attrs = append(attrs, "cause", e.Cause.Error())
	}
	for k, v := range e.Context {
		attrs = append(attrs, k, v)
	}
	return attrs
}

// New creates a new StructuredError with the given code and message.
// Severity defaults to SeverityError.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:     code,
		Message:  message,
		Severity: SeverityError,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:     code,
		Message:  message,
		Severity: SeverityError,
		Context:  context,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		Severity: SeverityError,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		Severity: SeverityError,
		Context:  context,
	}
}

// Warn creates a warning-severity error.
func Warn(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:     code,
		Message:  message,
		Severity: SeverityWarning,
		Context:  context,
	}
}

// Fatal creates a fatal-severity error.
func Fatal(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:     code,
		Message:  message,
		Severity: SeverityFatal,
		Context:  context,
	}
}

// Escalate returns a copy of e with its severity raised to fatal.
func (e *StructuredError) Escalate() *StructuredError {
	out := *e
	out.Severity = SeverityFatal
	return &out
}

// CodeOf returns the code of the first StructuredError in err's chain,
// or an empty code when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// SeverityOf returns the severity of err. Plain errors are SeverityError.
func SeverityOf(err error) Severity {
	var se *StructuredError
	if errors.As(err, &se) && se.Severity != "" {
		return se.Severity
	}
	return SeverityError
}

// IsFatal reports whether err must abort the current phase drain.
func IsFatal(err error) bool {
	return err != nil && SeverityOf(err) == SeverityFatal
}
