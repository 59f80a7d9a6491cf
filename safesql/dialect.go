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

import "strings"

// Dialect is the small capability set describing one backend's quoting
// conventions. It is selected when the Conn is opened, not per call.
type Dialect interface {
	// Name reports the backend name; it matches the database/sql driver name.
	Name() string
	// Escape neutralizes every character of s that could terminate or alter
	// a single-quoted string literal in this dialect.
	Escape(s string) string
	// BackslashEscapes reports whether the backend treats a backslash as an
	// escape character inside string literals.
	BackslashEscapes() bool
}

// The supported dialects. Most callers pick one implicitly by opening the
// connection through the sqlite, mysql or postgres subpackage.
var (
	SQLite     Dialect = sqliteDialect{}
	MySQL      Dialect = mysqlDialect{}
	PostgreSQL Dialect = postgresDialect{}
)

type sqliteDialect struct{}

func (sqliteDialect) Name() string           { return "sqlite3" }
func (sqliteDialect) Escape(s string) string { return strings.ReplaceAll(s, "'", "''") }
func (sqliteDialect) BackslashEscapes() bool { return false }

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }
func (mysqlDialect) Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}
func (mysqlDialect) BackslashEscapes() bool { return true }

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }
func (postgresDialect) Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}
func (postgresDialect) BackslashEscapes() bool { return true }

// SanitizeLike escapes the LIKE wildcards % and _ with a backslash so the
// pattern matches them literally.
func SanitizeLike(pattern string) string { return SanitizeLikeWith(pattern, '\\') }

// SanitizeLikeWith is SanitizeLike with a caller-chosen escape character, for
// use with an explicit ESCAPE clause.
func SanitizeLikeWith(pattern string, escape rune) string {
	var b strings.Builder
	for _, r := range pattern {
		if r == '%' || r == '_' {
			b.WriteRune(escape)
		}
		b.WriteRune(r)
	}
	return b.String()
}
