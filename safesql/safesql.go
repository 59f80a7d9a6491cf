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

// Package safesql lets application code build SQL statements by plain string
// concatenation while guaranteeing that runtime data can never be interpreted
// as SQL syntax, only as a quoted data literal.
//
// Statement structure is introduced exclusively through Conn.Register, which
// only accepts compile-time constant strings and returns an opaque token.
// The caller concatenates tokens and arbitrary runtime text into a composed
// string; on execution (or inspection via Conn.ActualSQL) the composed string
// is reconstructed: registered tokens are replaced by their original trusted
// fragments verbatim, and everything else is escaped and wrapped in a quoted
// literal. A value an attacker controls therefore always ends up strictly
// inside a string literal, no matter how it is concatenated:
//
//	conn, _ := sqlite.Open(":memory:")
//	where := conn.Register("SELECT name FROM users WHERE age <")
//	input := "50 or 1=1; --" // attacker controlled
//	rows, err := conn.Rows(where + input)
//	// reconstructs to: SELECT name FROM users WHERE age < '50 or 1=1; --'
//
// A second, independent denylist validator runs on the execution path and
// refuses statements matching conservative structural attack shapes even
// though they are already safely quoted. See DefaultPatterns.
//
// # Explainer
//
// Register takes a stringConstant as an argument, an unexported type
// constituted by a named string. The only way for a package outside of
// safesql to call it is thus to pass an untyped string (only const strings
// can be untyped), so every registered fragment is known at compile time to
// originate from program source rather than from runtime input. Strings that
// live in a trusted runtime-only source can be promoted with the
// uncheckedconversions package and registered through RegisterTrusted; such
// promotions should be rare and reviewed (the cmd/trustcheck analyzer
// reports them).
package safesql

import (
	"strings"

	"github.com/google/go-safesql/safesql/internal/raw"
)

func init() {
	// Initialize the bypass mechanism for the unchecked and legacy conversions packages.
	raw.TrustedStmt = func(unsafe string) TrustedStmt { return TrustedStmt{s: unsafe, ok: true} }
}

type stringConstant string

// TrustedStmt is a statement fragment that is known not to contain
// potentially malicious runtime input. The zero value carries no such
// guarantee and is rejected by Conn.RegisterTrusted.
type TrustedStmt struct {
	s  string
	ok bool
}

// Trusted constructs a TrustedStmt from a compile-time constant string.
// Since the stringConstant type is unexported the only way to call this
// function outside of this package is to pass a string literal or an untyped
// string const.
func Trusted(text stringConstant) TrustedStmt { return TrustedStmt{s: string(text), ok: true} }

func (t TrustedStmt) String() string { return t.s }

// TrustedStmtConcat concatenates the given trusted fragments into one.
//
// Note: this function should not be abused to create arbitrary queries from
// user input, it is just intended as a helper to compose fragments at runtime
// to avoid redundant constants.
func TrustedStmtConcat(ss ...TrustedStmt) TrustedStmt {
	return TrustedStmtJoin(ss, TrustedStmt{ok: true})
}

// TrustedStmtJoin joins the given trusted fragments with the given separator
// the same way strings.Join would. The result is trusted only if every input
// is; joining in a zero TrustedStmt taints the result.
func TrustedStmtJoin(ss []TrustedStmt, sep TrustedStmt) TrustedStmt {
	ok := sep.ok
	accum := make([]string, 0, len(ss))
	for _, s := range ss {
		ok = ok && s.ok
		accum = append(accum, s.s)
	}
	return TrustedStmt{s: strings.Join(accum, sep.s), ok: ok}
}
