// Package evaluator turns resolved facts into classified outcomes and
// accumulates them into the run's counters and verdict.
package evaluator

import (
	"fmt"

	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// Evaluate classifies one check. It is a pure function: same definition,
// fact, and applicability always yield the same outcome.
//
// Classification order:
//
//	1. inapplicable checks are INFO regardless of value
//	2. denied / timed-out / malformed facts could not be verified
//	3. unset facts fall back to the consumer's built-in default
//	4. present facts are compared against the expected value
func Evaluate(def types.CheckDefinition, fact types.ResolvedFact, applicable bool, reason string) types.CheckOutcome {
	out := types.CheckOutcome{Definition: def, Fact: fact}

	if !applicable {
		out.Class = types.ClassInfo
		out.Display = "not applicable: " + reason
		return out
	}

	switch fact.Status {
	case types.ResolveDenied, types.ResolveTimeout, types.ResolveMalformed:
		out.Display = "could not verify (" + string(fact.Status) + ")"
		if def.Severity == types.SeverityCritical {
			out.Class = types.ClassWarn
			out.Hint = def.Hint
		} else {
			out.Class = types.ClassInfo
		}
		return out
	}

	if !fact.Found() {
		return evaluateUnset(def, out)
	}

	if def.IsVaries() {
		out.Class = types.ClassInfo
		out.Display = fact.Value + " (set; no single correct value)"
		return out
	}

	if fact.Value == def.Expected {
		out.Class = types.ClassOK
		out.Display = fact.Value
		return out
	}

	out.Display = fmt.Sprintf("%s (expected %s)", fact.Value, def.Expected)
	out.Hint = def.Hint
	if def.Severity == types.SeverityCritical {
		out.Class = types.ClassFail
	} else {
		out.Class = types.ClassWarn
	}
	return out
}

func evaluateUnset(def types.CheckDefinition, out types.CheckOutcome) types.CheckOutcome {
	switch {
	case def.IsVaries():
		out.Class = types.ClassInfo
		out.Display = "unset"
	case def.HasFallback && def.Fallback == def.Expected:
		// Absence is fine: the consumer's built-in default already
		// matches what we want.
		out.Class = types.ClassOK
		out.Display = def.Fallback
		out.Fact.Source = types.SourceBuiltin
	case def.Severity == types.SeverityCritical:
		out.Class = types.ClassWarn
		out.Display = unsetDisplay(def)
		out.Hint = def.Hint
	default:
		out.Class = types.ClassInfo
		out.Display = unsetDisplay(def)
	}
	return out
}

func unsetDisplay(def types.CheckDefinition) string {
	if def.HasFallback {
		return fmt.Sprintf("unset (falls back to %s, expected %s)", def.Fallback, def.Expected)
	}
	return fmt.Sprintf("unset (expected %s; built-in default unknown)", def.Expected)
}

// PersistedInactive builds the informational side outcome for a setting
// that is written in a login file but absent from the live environment.
// The value will only take effect at the next session.
func PersistedInactive(def types.CheckDefinition, value, path string) types.CheckOutcome {
	return types.CheckOutcome{
		Definition: def,
		Fact: types.ResolvedFact{
			Name:   def.Name,
			Value:  value,
			Status: types.ResolveFound,
			Source: path,
		},
		Class:   types.ClassInfo,
		Display: fmt.Sprintf("%s persisted in %s but not active in this session; log out and back in", value, path),
	}
}

// Context accumulates recorded outcomes. Record is the only place the
// counters change; everything downstream reads them, never writes.
type Context struct {
	Outcomes []types.CheckOutcome
	Counters types.RunCounters
}

// Record appends the outcome and bumps the matching counter.
func (c *Context) Record(out types.CheckOutcome) {
	c.Outcomes = append(c.Outcomes, out)
	switch out.Class {
	case types.ClassFail:
		c.Counters.Issues++
	case types.ClassWarn:
		c.Counters.Warnings++
	}
}

// RecordAll records outcomes in order.
func (c *Context) RecordAll(outs []types.CheckOutcome) {
	for _, out := range outs {
		c.Record(out)
	}
}

// Verdict returns the terminal verdict for everything recorded so far.
func (c *Context) Verdict() types.Verdict {
	return c.Counters.Verdict()
}
