// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package legacyconversions provides functions to create values of package
// safesql types from plain strings. This package should only be used to
// gradually migrate to the safesql package; every use of it represents a
// security risk and should eventually be removed.
package legacyconversions

import (
	"github.com/google/go-safesql/safesql"
	"github.com/google/go-safesql/safesql/internal/raw"
)

var trustedStmtCtor = raw.TrustedStmt.(func(string) safesql.TrustedStmt)

// RiskilyAssumeTrustedStmt riskily promotes the given string to a trusted
// statement fragment.
func RiskilyAssumeTrustedStmt(trusted string) safesql.TrustedStmt {
	return trustedStmtCtor(trusted)
}
