package evaluator

import (
	"testing"

	"github.com/nicholasgasior/vdcheck/pkg/types"
)

func prefDef(name string) types.CheckDefinition {
	return types.CheckDefinition{
		Name: name, Domain: "firefox",
		Expected: "true", Severity: types.SeverityCritical,
		Fallback: "false", HasFallback: true,
		Hint: "flip " + name,
	}
}

func prefOutcome(name, value string, class types.Classification) types.CheckOutcome {
	return types.CheckOutcome{
		Definition: prefDef(name),
		Fact:       types.ResolvedFact{Name: name, Value: value, Status: types.ResolveFound, Source: types.SourcePrefsJS},
		Class:      class,
		Display:    value,
	}
}

func TestMasterSwitchForcesDependentFail(t *testing.T) {
	outs := []types.CheckOutcome{
		prefOutcome(prefHardwareDecoding, "false", types.ClassFail),
		prefOutcome(prefVAAPI, "true", types.ClassOK),
	}
	outs = ApplyCrosschecks(outs, nil)

	if outs[1].Class != types.ClassFail {
		t.Errorf("vaapi pref = %s, want FAIL when the master switch is off", outs[1].Class)
	}
	if outs[1].Hint == "" {
		t.Error("forced FAIL must carry a hint")
	}
}

func TestMasterSwitchOnLeavesDependentAlone(t *testing.T) {
	outs := []types.CheckOutcome{
		prefOutcome(prefHardwareDecoding, "true", types.ClassOK),
		prefOutcome(prefVAAPI, "true", types.ClassOK),
	}
	outs = ApplyCrosschecks(outs, nil)
	if outs[1].Class != types.ClassOK {
		t.Errorf("vaapi pref = %s, want OK", outs[1].Class)
	}
}

func TestMasterSwitchUnsetLeavesDependentAlone(t *testing.T) {
	outs := []types.CheckOutcome{
		{
			Definition: prefDef(prefHardwareDecoding),
			Fact:       types.ResolvedFact{Name: prefHardwareDecoding, Status: types.ResolveUnset},
			Class:      types.ClassOK,
		},
		prefOutcome(prefVAAPI, "true", types.ClassOK),
	}
	outs = ApplyCrosschecks(outs, nil)
	if outs[1].Class != types.ClassOK {
		t.Errorf("vaapi pref = %s, want OK when the switch is merely unset", outs[1].Class)
	}
}

func TestAV1GateAddsWarn(t *testing.T) {
	av1 := types.CheckOutcome{
		Definition: types.CheckDefinition{Name: prefAV1, Domain: "firefox", Expected: types.Varies, Severity: types.SeverityAdvisory},
		Fact:       types.ResolvedFact{Name: prefAV1, Value: "true", Status: types.ResolveFound, Source: types.SourcePrefsJS},
		Class:      types.ClassInfo,
	}
	gpus := []types.GPUInfo{{Name: "NVIDIA GeForce GTX 1080", Vendor: "NVIDIA", IsNVIDIA: true, AV1Decode: false}}

	outs := ApplyCrosschecks([]types.CheckOutcome{av1}, gpus)
	if len(outs) != 2 {
		t.Fatalf("expected an appended gate outcome, got %d outcomes", len(outs))
	}
	// The pref itself has no single correct value and stays INFO.
	if outs[0].Class != types.ClassInfo {
		t.Errorf("av1 pref = %s, want INFO", outs[0].Class)
	}
	if outs[1].Class != types.ClassWarn {
		t.Errorf("gate outcome = %s, want WARN", outs[1].Class)
	}
}

func TestAV1GateQuietWhenCapable(t *testing.T) {
	av1 := types.CheckOutcome{
		Definition: types.CheckDefinition{Name: prefAV1, Domain: "firefox", Expected: types.Varies},
		Fact:       types.ResolvedFact{Name: prefAV1, Value: "true", Status: types.ResolveFound},
		Class:      types.ClassInfo,
	}
	gpus := []types.GPUInfo{{Name: "NVIDIA GeForce RTX 3080", Vendor: "NVIDIA", IsNVIDIA: true, AV1Decode: true}}

	if outs := ApplyCrosschecks([]types.CheckOutcome{av1}, gpus); len(outs) != 1 {
		t.Errorf("expected no gate outcome on an AV1-capable GPU, got %d", len(outs))
	}
}

func TestAV1GateQuietWithoutNvidia(t *testing.T) {
	av1 := types.CheckOutcome{
		Definition: types.CheckDefinition{Name: prefAV1, Domain: "firefox", Expected: types.Varies},
		Fact:       types.ResolvedFact{Name: prefAV1, Value: "true", Status: types.ResolveFound},
		Class:      types.ClassInfo,
	}
	if outs := ApplyCrosschecks([]types.CheckOutcome{av1}, nil); len(outs) != 1 {
		t.Errorf("expected no gate outcome with no NVIDIA GPU, got %d", len(outs))
	}
}
