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

// Package version parses and compares the semantic versions manifests declare
// as their minimum supported binary version.
//
// Versions may omit trailing components ("1", "1.2") and carry a leading "v"
// and a pre-release or build suffix ("v1.2.3-rc.1"). Comparisons only
// consider the components both sides specify, so a requirement of "1.2"
// accepts any 1.2.x or newer binary.
//
// Usage:
//
//	if err := version.Require(binary, manifest.MinVersion()); err != nil {
//	    return err
//	}
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Development is the version reported by unreleased builds. It satisfies any
// requirement.
const Development = "dev"

var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrUnsupported       = errors.New("binary version is older than required")
)

// Version is a semantic version with one to three significant components.
type Version struct {
	Major     int    `json:"major" yaml:"major"`
	Minor     int    `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch     int    `json:"patch,omitempty" yaml:"patch,omitempty"`
	Precision int    `json:"precision" yaml:"precision"`
	Extras    string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// New returns a version with all three components significant.
func New(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch, Precision: 3}
}

// String returns the version up to its precision, without extras.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// Parse parses "1", "1.2", "1.2.3" with an optional "v" prefix and a suffix
// starting with '-' or '+'.
func Parse(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	var v Version
	main := s
	if i := strings.IndexAny(s, "-+"); i > 0 {
		main, v.Extras = s[:i], s[i:]
	}

	parts := strings.Split(main, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || part[0] == '+' || part[0] == '-' {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		switch i {
		case 0:
			v.Major = n
		case 1:
			v.Minor = n
		case 2:
			v.Patch = n
		}
	}
	v.Precision = len(parts)
	return v, nil
}

// MustParse is like Parse but panics on error. Only use it for constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("version.MustParse(%q): %v", s, err))
	}
	return v
}

// Compare returns -1, 0 or 1 comparing v to other over the components both
// specify.
func (v Version) Compare(other Version) int {
	precision := min(v.Precision, other.Precision)
	pairs := [][2]int{{v.Major, other.Major}, {v.Minor, other.Minor}, {v.Patch, other.Patch}}
	for i := 0; i < precision && i < len(pairs); i++ {
		switch {
		case pairs[i][0] < pairs[i][1]:
			return -1
		case pairs[i][0] > pairs[i][1]:
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v is equal to or newer than required.
func (v Version) AtLeast(required Version) bool {
	return v.Compare(required) >= 0
}

// Require checks that the binary version satisfies the required version. An
// empty requirement and development builds always pass.
func Require(binary, required string) error {
	if strings.TrimSpace(required) == "" {
		return nil
	}
	req, err := Parse(required)
	if err != nil {
		return fmt.Errorf("invalid required version %q: %w", required, err)
	}
	if binary == "" || binary == Development {
		return nil
	}
	bin, err := Parse(binary)
	if err != nil {
		return fmt.Errorf("invalid binary version %q: %w", binary, err)
	}
	if !bin.AtLeast(req) {
		return fmt.Errorf("%w: %s < %s", ErrUnsupported, bin, req)
	}
	return nil
}
