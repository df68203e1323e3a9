// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack

import (
	"fmt"
	"strconv"
)

// Status is the execution status of a component.
type Status int32

const (
	// NotExecuted is the initial status; builds reset every component
	// back to it before running.
	NotExecuted Status = iota

	// Success means the last run returned without error.
	Success

	// Failed means the last run returned an error or panicked.
	Failed

	// Disabled is reported by disabled components regardless of their
	// stored status.
	Disabled

	// Invalid means a required input failed validation before the run.
	Invalid
)

var statusNames = []string{"NotExecuted", "Success", "Failed", "Disabled", "Invalid"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
	return statusNames[s]
}

// MarshalText implements [encoding.TextMarshaler].
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Status) UnmarshalText(text []byte) error {
	str := string(text)
	for i, n := range statusNames {
		if n == str {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("stack: unknown status %q", str)
}
