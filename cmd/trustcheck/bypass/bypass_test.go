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

package bypass

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

// The conversions packages are stubbed so the test packages resolve without
// the full module on the GOPATH; the analyzer only looks at package paths.
const legacyStub = `
package legacyconversions

func RiskilyAssumeTrustedStmt(trusted string) string { return trusted }
`

const uncheckedStub = `
package uncheckedconversions

func TrustedStmtFromStringKnownToSatisfyTypeContract(trusted string) string { return trusted }
`

func TestBypassAnalyzer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		desc  string
		files map[string]string
	}{
		{
			desc: "no bypasses",
			files: map[string]string{
				"main/test.go": `
				package main

				func main() {}
				`,
			},
		},
		{
			desc: "legacy conversion",
			files: map[string]string{
				"github.com/google/go-safesql/safesql/legacyconversions/legacyconversions.go": legacyStub,
				"main/test.go": `
				package main

				import "github.com/google/go-safesql/safesql/legacyconversions" // want "Provenance bypass found \"github.com/google/go-safesql/safesql/legacyconversions\". Additional info: legacy conversions promote plain strings without proof of provenance; migrate to safesql.Trusted"

				func main() {
					legacyconversions.RiskilyAssumeTrustedStmt("SELECT 1") // want "Provenance bypass found \"github.com/google/go-safesql/safesql/legacyconversions.RiskilyAssumeTrustedStmt\". Additional info: legacy conversions promote plain strings without proof of provenance; migrate to safesql.Trusted"
				}
				`,
			},
		},
		{
			desc: "unchecked conversion through renamed import",
			files: map[string]string{
				"github.com/google/go-safesql/safesql/uncheckedconversions/uncheckedconversions.go": uncheckedStub,
				"main/test.go": `
				package main

				import promote "github.com/google/go-safesql/safesql/uncheckedconversions" // want "Provenance bypass found \"github.com/google/go-safesql/safesql/uncheckedconversions\". Additional info: unchecked conversions require security review of the string's provenance"

				func main() {
					promote.TrustedStmtFromStringKnownToSatisfyTypeContract("SELECT 1") // want "Provenance bypass found \"github.com/google/go-safesql/safesql/uncheckedconversions.TrustedStmtFromStringKnownToSatisfyTypeContract\". Additional info: unchecked conversions require security review of the string's provenance"
				}
				`,
			},
		},
		{
			desc: "raw database/sql",
			files: map[string]string{
				"main/test.go": `
				package main

				import "database/sql" // want "Provenance bypass found \"database/sql\". Additional info: database/sql accepts arbitrary query strings; build statements through safesql"

				var _ *sql.DB

				func main() {}
				`,
			},
		},
		{
			desc: "exempted package",
			files: map[string]string{
				"config.json": `
				{
					"exemptions": [
						{
							"justification": "migration tracked in issue 421",
							"allowedPkg": "main"
						}
					]
				}
				`,
				"main/test.go": `
				package main

				import "database/sql"

				var _ *sql.DB

				func main() {}
				`,
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.desc, func(t *testing.T) {
			t.Parallel()
			dir, cleanup, err := analysistest.WriteFiles(test.files)
			if err != nil {
				t.Fatalf("WriteFiles() returned err: %v", err)
			}
			defer cleanup()

			var configFiles []string
			for name := range test.files {
				if strings.HasSuffix(name, "config.json") {
					configFiles = append(configFiles, filepath.Join(dir, "src", name))
				}
			}

			a := NewAnalyzer()
			if len(configFiles) > 0 {
				a.Flags.Set("configs", strings.Join(configFiles, ","))
			}
			analysistest.Run(t, dir, a, "main")
		})
	}
}
