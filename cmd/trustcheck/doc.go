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

// Package main contains the CLI used to detect bypasses of safesql's
// compile-time provenance guarantee.
//
// # Overview
//
// Trustcheck reports imports and calls that let arbitrary runtime strings be
// treated as trusted SQL: the legacyconversions and uncheckedconversions
// packages and direct use of database/sql. Run it as part of CI so that
// every bypass is visible in review. Under the hood it uses the go/analysis
// package https://pkg.go.dev/golang.org/x/tools/go/analysis.
//
// # Usage
//
//	trustcheck ./...
//
// Apart from the standard analyzer flags the command accepts an optional
// -configs flag listing JSON files with exemptions:
//
//	{
//		"exemptions": [
//			{
//				"justification": "migration tracked in issue 421",
//				"allowedPkg": "corp.example.com/billing/*"
//			}
//		]
//	}
//
// Packages matching an allowedPkg glob are not reported. Packages of this
// module itself are always exempt: the core necessarily builds on
// database/sql.
package main
