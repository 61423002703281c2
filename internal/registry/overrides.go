package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// Override adjusts one registry entry without recompiling. Nil pointer
// fields leave the built-in value alone.
type Override struct {
	Expected *string `yaml:"expected"`
	Severity *string `yaml:"severity"`
	Disabled bool    `yaml:"disabled"`
}

// OverrideFile is the on-disk shape: a map from check name to override.
type OverrideFile struct {
	Checks map[string]Override `yaml:"checks"`
}

// LoadOverrides parses an override YAML file. Unknown check names and bad
// severity values are errors; a wrong name silently ignored would hide a
// typo in exactly the file meant to tighten the battery.
func LoadOverrides(path string) (*OverrideFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("overrides: %w", err)
	}
	var f OverrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("overrides: parse %s: %w", path, err)
	}
	for name, ov := range f.Checks {
		if ov.Severity == nil {
			continue
		}
		switch types.Severity(*ov.Severity) {
		case types.SeverityCritical, types.SeverityAdvisory:
		default:
			return nil, fmt.Errorf("overrides: check %q: unknown severity %q", name, *ov.Severity)
		}
	}
	return &f, nil
}

// Apply returns a copy of defs with the overrides folded in. Disabled
// checks are dropped from the battery entirely.
func (f *OverrideFile) Apply(defs []types.CheckDefinition) ([]types.CheckDefinition, error) {
	known := make(map[string]bool, len(defs))
	for _, d := range defs {
		known[d.Name] = true
	}
	for name := range f.Checks {
		if !known[name] {
			return nil, fmt.Errorf("overrides: unknown check %q", name)
		}
	}

	out := make([]types.CheckDefinition, 0, len(defs))
	for _, d := range defs {
		ov, ok := f.Checks[d.Name]
		if !ok {
			out = append(out, d)
			continue
		}
		if ov.Disabled {
			continue
		}
		if ov.Expected != nil {
			d.Expected = *ov.Expected
		}
		if ov.Severity != nil {
			d.Severity = types.Severity(*ov.Severity)
		}
		out = append(out, d)
	}
	return out, nil
}
