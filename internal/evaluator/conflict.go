package evaluator

import (
	"strings"

	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// SourceLookup answers which files assign a given environment setting.
// Satisfied by the envscan scanner.
type SourceLookup interface {
	SettingsWithSources() []string
	Sources(name string) []string
}

// DetectConflicts flags environment settings assigned in more than one
// login file. The highest-precedence file wins at login, but the user
// editing one of the shadowed files would see no effect, so every file
// is named in the hint. Only env files are considered; prefs.js and
// user.js overlapping is how Firefox is designed to work.
func DetectConflicts(scan SourceLookup, defs map[string]types.CheckDefinition) []types.CheckOutcome {
	var outs []types.CheckOutcome
	for _, name := range scan.SettingsWithSources() {
		sources := scan.Sources(name)
		if len(sources) < 2 {
			continue
		}
		def, ok := defs[name]
		if !ok {
			def = types.CheckDefinition{Name: name, Domain: "environment"}
		}
		outs = append(outs, types.CheckOutcome{
			Definition: def,
			Fact: types.ResolvedFact{
				Name:   name,
				Status: types.ResolveFound,
				Source: sources[0],
			},
			Class:   types.ClassWarn,
			Display: "assigned in multiple files; only the highest-precedence one takes effect",
			Hint:    "keep a single definition; currently set in: " + strings.Join(sources, ", "),
		})
	}
	return outs
}
