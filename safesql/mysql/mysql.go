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

// Package mysql opens safesql connections backed by MySQL.
package mysql

import (
	"github.com/google/go-safesql/safesql"

	_ "github.com/go-sql-driver/mysql" // registers the mysql driver
)

// Open opens a MySQL database using a go-sql-driver DSN such as
// "user:password@tcp(localhost:3306)/dbname".
func Open(dsn string, opts ...safesql.Option) (*safesql.Conn, error) {
	return safesql.Open("mysql", dsn, safesql.MySQL, opts...)
}
