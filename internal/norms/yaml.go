package norms

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tablesFile is the on-disk layout of a rule-set override. Sections left out
// keep their seeded rows.
type tablesFile struct {
	Params map[string]string `yaml:"params"`
	Tables `yaml:",inline"`
}

// LoadFile reads a YAML rule-set override and merges it over the seeded
// defaults. It returns the merged parameter source and tables.
func LoadFile(path string) (StaticSource, *Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading norm tables file: %w", err)
	}
	return Parse(data)
}

// Parse merges YAML data over the seeded defaults.
func Parse(data []byte) (StaticSource, *Tables, error) {
	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parsing norm tables YAML: %w", err)
	}

	params := DefaultParams()
	for k, v := range f.Params {
		params[k] = v
	}

	tables := DefaultTables()
	if f.DemandFactors != nil {
		tables.DemandFactors = f.DemandFactors
	}
	if f.Ampacity != nil {
		tables.Ampacity = f.Ampacity
	}
	if f.Breakers != nil {
		tables.Breakers = f.Breakers
	}
	if f.Resistivity != nil {
		tables.Resistivity = f.Resistivity
	}
	if f.Grounding != nil {
		tables.Grounding = f.Grounding
	}
	tables.Normalize()

	if err := tables.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid norm tables: %w", err)
	}
	return params, tables, nil
}

// Marshal renders params and tables in the LoadFile layout.
func Marshal(params StaticSource, tables *Tables) ([]byte, error) {
	return yaml.Marshal(tablesFile{Params: params, Tables: *tables})
}
