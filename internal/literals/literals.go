// Package literals holds the display strings used in rendered reports.
package literals

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Keys of the string table
const (
	Title      = "title"
	Passed     = "passed"
	Failed     = "failed"
	Suite      = "suite"
	Summary    = "summary"
	Suites     = "suites"
	Specs      = "specs"
	Duration   = "duration"
	Status     = "status"
	WhatFailed = "whatFailed"
)

//go:embed en.yaml
var english []byte

// Table maps label keys to display strings
type Table map[string]string

// Get returns the display string for key, or the key itself when missing
func (t Table) Get(key string) string {
	if v, ok := t[key]; ok && v != "" {
		return v
	}
	return key
}

// Default returns the built-in English table
func Default() Table {
	table, err := parse(english)
	if err != nil {
		panic(fmt.Sprintf("literals: embedded table is invalid: %v", err))
	}
	return table
}

// Load returns the default table with the entries of the YAML file at path merged
// over it. An empty path returns the defaults.
func Load(path string) (Table, error) {
	table := Default()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read literals file: %w", err)
	}
	overrides, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse literals file %s: %w", path, err)
	}
	for k, v := range overrides {
		table[k] = v
	}
	return table, nil
}

func parse(data []byte) (Table, error) {
	table := make(Table)
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	return table, nil
}
