// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package safesql

import (
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRow(t *testing.T) {
	row := newRow(
		[]string{"name", "nickname"},
		[]sql.NullString{
			{String: "Alice", Valid: true},
			{Valid: false},
		},
	)

	if got := row.Get("name"); got != "Alice" {
		t.Errorf(`Get("name") = %q, want "Alice"`, got)
	}
	if got := row.Get("nickname"); got != "" {
		t.Errorf(`Get("nickname") = %q, want ""`, got)
	}
	if got := row.Get("absent"); got != "" {
		t.Errorf(`Get("absent") = %q, want ""`, got)
	}

	if v, ok := row.Lookup("name"); !ok || v != "Alice" {
		t.Errorf(`Lookup("name") = %q, %t`, v, ok)
	}
	if _, ok := row.Lookup("nickname"); ok {
		t.Error(`Lookup("nickname") reported a value for NULL`)
	}
	if _, ok := row.Lookup("absent"); ok {
		t.Error(`Lookup("absent") reported a value for a missing column`)
	}

	if diff := cmp.Diff([]string{"name", "nickname"}, row.Columns()); diff != "" {
		t.Errorf("Columns() -want +got: %s", diff)
	}
	if got := row.ColumnCount(); got != 2 {
		t.Errorf("ColumnCount() = %d, want 2", got)
	}
}
