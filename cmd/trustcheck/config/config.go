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

// Package config reads trustcheck exemption files.
package config

import (
	"encoding/json"
	"errors"
	"os"
)

// Exemption excuses a set of packages from bypass reports.
type Exemption struct {
	Justification string `json:"justification"`
	AllowedPkg    string `json:"allowedPkg"` // package path glob, filepath.Match syntax
}

// Config represents the contents of one or more exemption files passed to
// the linter.
type Config struct {
	Exemptions []Exemption `json:"exemptions"`
}

// ReadConfigs reads exemptions from all config files and concatenates them
// into one object.
func ReadConfigs(files []string) (*Config, error) {
	var merged Config
	for _, file := range files {
		cfg, err := unmarshalCfg(file)
		if err != nil {
			return nil, err
		}
		merged.Exemptions = append(merged.Exemptions, cfg.Exemptions...)
	}
	return &merged, nil
}

func unmarshalCfg(filename string) (*Config, error) {
	f, err := readFile(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(filename string) (*os.File, error) {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return nil, errors.New("file does not exist")
	}
	if err == nil && info.IsDir() {
		return nil, errors.New("file is a directory")
	}
	return os.Open(filename)
}
