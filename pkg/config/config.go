// Package config holds the CLI configuration and the optional YAML
// alias-override file that extends the header vocabulary per
// deployment (e.g. a SIEM whose exports use house column names).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/detcover/detcover/pkg/headermap"
	"github.com/detcover/detcover/pkg/schema"
)

// Config holds all CLI options.
type Config struct {
	// Input settings
	File     string // CSV file to import
	Category string // target category name
	Session  string // session snapshot path (JSON)

	// Mapping settings
	AliasFile string            // YAML alias-override file
	Overrides map[string]string // field -> raw header, from repeated -map flags

	// Output settings
	OutDir       string // directory for exported CSVs
	OutputFormat string // console, json
	Verbose      bool
	NoColor      bool

	// Export settings
	Delimiter       string // single-character field delimiter
	ExcelCompatible bool   // prepend UTF-8 BOM
	IncludeDerived  bool   // append recomputed derived columns
}

// AliasOverrides is the YAML shape of an alias-override file:
//
//	mitre_tactics:
//	  tested:
//	    - "test runs"
//	    - "executions"
//	triggered_rules:
//	  rule_name:
//	    - "sigma rule"
type AliasOverrides map[string]map[string][]string

// LoadAliases reads an alias-override file and applies it to the
// registry. Aliases are normalized before registration so the file
// may use any casing or punctuation. Unknown categories or fields
// fail the load; silently ignoring them would hide typos until an
// import mismaps.
func LoadAliases(path string, reg *schema.Registry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return ApplyAliases(data, reg)
}

// ApplyAliases parses YAML alias overrides and registers them.
func ApplyAliases(data []byte, reg *schema.Registry) error {
	var overrides AliasOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	for catName, fields := range overrides {
		cat := schema.Category(catName)
		if !cat.IsValid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidConfig, catName)
		}
		for fieldName, aliases := range fields {
			normalized := make([]string, 0, len(aliases))
			for _, a := range aliases {
				n := headermap.Normalize(a)
				if n == "" {
					return fmt.Errorf("%w: alias %q for %s.%s normalizes to nothing", ErrInvalidConfig, a, catName, fieldName)
				}
				normalized = append(normalized, n)
			}
			if err := reg.AddAliases(cat, fieldName, normalized...); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
			}
		}
	}
	return nil
}
