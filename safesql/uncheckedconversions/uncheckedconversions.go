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

// Package uncheckedconversions provides functions to create values of
// package safesql types from plain strings. Uses of these functions could
// potentially result in instances of safesql types that violate their type
// contracts, and hence result in security vulnerabilities.
package uncheckedconversions

import (
	"github.com/google/go-safesql/safesql"
	"github.com/google/go-safesql/safesql/internal/raw"
)

var trustedStmtCtor = raw.TrustedStmt.(func(string) safesql.TrustedStmt)

// TrustedStmtFromStringKnownToSatisfyTypeContract promotes the given string
// to a trusted statement fragment. Only strings known to be under the
// programmer's control should be passed to this function.
//
// One example of correct use is promoting a query retrieved from a query
// storage that user input cannot reach, so that it can be registered with
// Conn.RegisterTrusted.
func TrustedStmtFromStringKnownToSatisfyTypeContract(trusted string) safesql.TrustedStmt {
	return trustedStmtCtor(trusted)
}
