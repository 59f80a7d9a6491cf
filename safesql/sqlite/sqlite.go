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

// Package sqlite opens safesql connections backed by SQLite.
package sqlite

import (
	"github.com/google/go-safesql/safesql"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

// Open opens the SQLite database at path. Use ":memory:" for an in-memory
// database.
func Open(path string, opts ...safesql.Option) (*safesql.Conn, error) {
	return safesql.Open("sqlite3", path, safesql.SQLite, opts...)
}
