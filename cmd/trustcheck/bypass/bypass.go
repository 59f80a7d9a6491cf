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

// Package bypass implements the analyzer reporting code that sidesteps
// safesql's compile-time provenance guarantee.
package bypass

import (
	"flag"
	"fmt"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"github.com/google/go-safesql/cmd/trustcheck/config"
	"golang.org/x/tools/go/analysis"
)

const modulePath = "github.com/google/go-safesql"

type bannedUse struct {
	name string
	msg  string
}

var bannedImports = []bannedUse{
	{
		name: modulePath + "/safesql/legacyconversions",
		msg:  "legacy conversions promote plain strings without proof of provenance; migrate to safesql.Trusted",
	},
	{
		name: modulePath + "/safesql/uncheckedconversions",
		msg:  "unchecked conversions require security review of the string's provenance",
	},
	{
		name: "database/sql",
		msg:  "database/sql accepts arbitrary query strings; build statements through safesql",
	},
}

var bannedFunctions = []bannedUse{
	{
		name: modulePath + "/safesql/legacyconversions.RiskilyAssumeTrustedStmt",
		msg:  "legacy conversions promote plain strings without proof of provenance; migrate to safesql.Trusted",
	},
	{
		name: modulePath + "/safesql/uncheckedconversions.TrustedStmtFromStringKnownToSatisfyTypeContract",
		msg:  "unchecked conversions require security review of the string's provenance",
	},
}

// NewAnalyzer returns an analyzer that checks for provenance bypasses.
func NewAnalyzer() *analysis.Analyzer {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.String("configs", "", "JSON exemption files separated by a comma")

	return &analysis.Analyzer{
		Name:  "trustbypass",
		Doc:   "Checks for uses of APIs that bypass safesql's provenance guarantee",
		Run:   checkBypasses,
		Flags: *fs,
	}
}

func checkBypasses(pass *analysis.Pass) (interface{}, error) {
	// The library itself necessarily builds on database/sql.
	if pass.Pkg.Path() == modulePath || strings.HasPrefix(pass.Pkg.Path(), modulePath+"/") {
		return nil, nil
	}

	var exemptions []config.Exemption
	if cfgFiles := pass.Analyzer.Flags.Lookup("configs").Value.String(); cfgFiles != "" {
		cfg, err := config.ReadConfigs(strings.Split(cfgFiles, ","))
		if err != nil {
			return nil, err
		}
		exemptions = cfg.Exemptions
	}
	exempt, err := isPkgExempt(pass.Pkg, exemptions)
	if err != nil {
		return nil, err
	}
	if exempt {
		return nil, nil
	}

	byName := func(uses []bannedUse) map[string]bannedUse {
		m := make(map[string]bannedUse, len(uses))
		for _, u := range uses {
			m[u.name] = u
		}
		return m
	}
	imports := byName(bannedImports)
	functions := byName(bannedFunctions)

	for _, f := range pass.Files {
		for _, i := range f.Imports {
			name := strings.Trim(i.Path.Value, `"`)
			reportIfBanned(pass, name, imports, i.Pos())
		}
	}
	for id, obj := range pass.TypesInfo.Uses {
		fn, ok := obj.(*types.Func)
		if !ok || fn.Pkg() == nil {
			continue
		}
		reportIfBanned(pass, fn.Pkg().Path()+"."+fn.Name(), functions, id.Pos())
	}
	return nil, nil
}

func reportIfBanned(pass *analysis.Pass, name string, banned map[string]bannedUse, pos token.Pos) {
	u, ok := banned[name]
	if !ok {
		return
	}
	pass.Report(analysis.Diagnostic{
		Pos:     pos,
		Message: fmt.Sprintf("Provenance bypass found %q. Additional info: %s", name, u.msg),
	})
}

func isPkgExempt(pkg *types.Package, exemptions []config.Exemption) (bool, error) {
	for _, e := range exemptions {
		match, err := filepath.Match(e.AllowedPkg, pkg.Path())
		if err != nil {
			return false, err
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}
