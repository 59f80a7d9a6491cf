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

import "database/sql"

// Row is one result row: column names mapped to nullable text values. Rows
// are owned by the caller once returned and are independent of the Conn.
type Row struct {
	columns []string
	values  map[string]sql.NullString
}

func newRow(columns []string, values []sql.NullString) Row {
	r := Row{
		columns: append([]string(nil), columns...),
		values:  make(map[string]sql.NullString, len(columns)),
	}
	for i, col := range columns {
		r.values[col] = values[i]
	}
	return r
}

// Get returns the text of the named column, or "" when the column is NULL or
// absent. Use Lookup to tell the two apart.
func (r Row) Get(column string) string {
	v, _ := r.Lookup(column)
	return v
}

// Lookup returns the text of the named column and whether it holds a
// non-NULL value.
func (r Row) Lookup(column string) (string, bool) {
	v, ok := r.values[column]
	if !ok || !v.Valid {
		return "", false
	}
	return v.String, true
}

// Columns returns the column names in result order.
func (r Row) Columns() []string { return append([]string(nil), r.columns...) }

// ColumnCount returns the number of columns.
func (r Row) ColumnCount() int { return len(r.columns) }
