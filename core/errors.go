// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "fmt"

// EnumerationError means a native count or data query failed, or returned
// zero entries where at least one was required. Err is nil in the
// zero-entries case.
type EnumerationError struct {
	Query string
	Err   error
}

func (e *EnumerationError) Error() string {
	if e.Err == nil {
		return e.Query + ": enumeration returned no entries"
	}
	return e.Query + ": " + e.Err.Error()
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// UnsupportedCapabilityError means a required layer or extension is not
// present in the runtime. It is raised before the dependent native call is
// attempted.
type UnsupportedCapabilityError struct {
	Kind string // "layer" or "extension"
	Name string
}

func (e *UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("required %s %q is not available", e.Kind, e.Name)
}

// CreationError means a native creation call returned a non-success code.
type CreationError struct {
	Call string
	Err  error
}

func (e *CreationError) Error() string { return e.Call + "(): " + e.Err.Error() }

func (e *CreationError) Unwrap() error { return e.Err }

// NoSuitableDeviceError means every enumerated candidate was disqualified
// during selection.
type NoSuitableDeviceError struct {
	Candidates int
}

func (e *NoSuitableDeviceError) Error() string {
	return fmt.Sprintf("no suitable GPU found among %d candidates", e.Candidates)
}
