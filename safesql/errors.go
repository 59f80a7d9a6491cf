// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// 	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package safesql

import (
	"errors"
	"fmt"
)

// ErrProvenance is returned when a value whose provenance cannot be proven
// build-time-fixed is presented to RegisterTrusted. It is reported before any
// registry mutation takes place.
var ErrProvenance = errors.New("safesql: fragment does not have build-time-fixed provenance")

// ErrValueDenied is returned by Conn.Allowlist for values that were never
// added to the connection's allowlist.
var ErrValueDenied = errors.New("safesql: value is not allowlisted")

// ErrNotInteger is returned by Conn.RegisterInt for values that do not render
// as a signed 64-bit integer.
var ErrNotInteger = errors.New("safesql: value is not a valid 64-bit integer")

// SecurityPatternError reports that the denylist validator refused to execute
// a reconstructed statement. The statement never reached the driver; the
// caller can recover by rejecting the offending request upstream.
type SecurityPatternError struct {
	// Pattern is the name of the denylist pattern that matched.
	Pattern string
}

func (e *SecurityPatternError) Error() string {
	return fmt.Sprintf("safesql: statement matches security pattern %q", e.Pattern)
}

// DriverError wraps a failure reported by the backend driver, preserving the
// original message for diagnostics.
type DriverError struct {
	// Op is the operation that failed: "open", "exec", "query" or "scan".
	Op  string
	Err error
}

func (e *DriverError) Error() string { return fmt.Sprintf("safesql: driver %s: %v", e.Op, e.Err) }

func (e *DriverError) Unwrap() error { return e.Err }
