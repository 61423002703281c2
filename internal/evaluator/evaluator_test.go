package evaluator

import (
	"testing"

	"github.com/nicholasgasior/vdcheck/pkg/types"
)

func critical(name, expected string) types.CheckDefinition {
	return types.CheckDefinition{
		Name: name, Domain: "environment",
		Expected: expected, Severity: types.SeverityCritical,
		Hint: "fix " + name,
	}
}

func advisory(name, expected string) types.CheckDefinition {
	return types.CheckDefinition{
		Name: name, Domain: "environment",
		Expected: expected, Severity: types.SeverityAdvisory,
		Hint: "consider " + name,
	}
}

func withFallback(def types.CheckDefinition, fallback string) types.CheckDefinition {
	def.Fallback = fallback
	def.HasFallback = true
	return def
}

func found(name, value string) types.ResolvedFact {
	return types.ResolvedFact{Name: name, Value: value, Status: types.ResolveFound, Source: types.SourceEnvironment}
}

func unset(name string) types.ResolvedFact {
	return types.ResolvedFact{Name: name, Status: types.ResolveUnset}
}

func TestEvaluateClassification(t *testing.T) {
	tests := []struct {
		name string
		def  types.CheckDefinition
		fact types.ResolvedFact
		want types.Classification
	}{
		{"critical match", critical("LIBVA_DRIVER_NAME", "nvidia"), found("LIBVA_DRIVER_NAME", "nvidia"), types.ClassOK},
		{"critical mismatch", critical("LIBVA_DRIVER_NAME", "nvidia"), found("LIBVA_DRIVER_NAME", "iHD"), types.ClassFail},
		{"advisory mismatch", advisory("VDPAU_DRIVER", "nvidia"), found("VDPAU_DRIVER", "radeonsi"), types.ClassWarn},
		{"advisory match", advisory("VDPAU_DRIVER", "nvidia"), found("VDPAU_DRIVER", "nvidia"), types.ClassOK},
		{"critical unset no fallback", critical("LIBVA_DRIVER_NAME", "nvidia"), unset("LIBVA_DRIVER_NAME"), types.ClassWarn},
		{"critical unset fallback matches", withFallback(critical("NVD_BACKEND", "direct"), "direct"), unset("NVD_BACKEND"), types.ClassOK},
		{"critical unset fallback differs", withFallback(critical("MOZ_DISABLE_RDD_SANDBOX", "1"), "0"), unset("MOZ_DISABLE_RDD_SANDBOX"), types.ClassWarn},
		{"advisory unset", advisory("VDPAU_DRIVER", "nvidia"), unset("VDPAU_DRIVER"), types.ClassInfo},
		{"varies unset", advisory("MOZ_LOG", types.Varies), unset("MOZ_LOG"), types.ClassInfo},
		{"varies present", advisory("MOZ_LOG", types.Varies), found("MOZ_LOG", "PlatformDecoderModule:5"), types.ClassInfo},
		{"critical denied", critical("nvidia_drm.modeset", "Y"), types.ResolvedFact{Name: "nvidia_drm.modeset", Status: types.ResolveDenied}, types.ClassWarn},
		{"advisory denied", advisory("VDPAU_DRIVER", "nvidia"), types.ResolvedFact{Name: "VDPAU_DRIVER", Status: types.ResolveDenied}, types.ClassInfo},
		{"critical timed out", critical("vainfo.decode", "ok"), types.ResolvedFact{Name: "vainfo.decode", Status: types.ResolveTimeout}, types.ClassWarn},
		{"critical malformed", critical("media.ffmpeg.vaapi.enabled", "true"), types.ResolvedFact{Name: "media.ffmpeg.vaapi.enabled", Status: types.ResolveMalformed}, types.ClassWarn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Evaluate(tt.def, tt.fact, true, "")
			if out.Class != tt.want {
				t.Errorf("Evaluate() = %s, want %s (display %q)", out.Class, tt.want, out.Display)
			}
		})
	}
}

// A value with no single correct reading must never become OK, WARN, or
// FAIL, whatever its resolution state.
func TestVariesNeverLeavesInfo(t *testing.T) {
	def := advisory("MOZ_LOG", types.Varies)
	facts := []types.ResolvedFact{
		unset("MOZ_LOG"),
		found("MOZ_LOG", "anything"),
		found("MOZ_LOG", ""),
		{Name: "MOZ_LOG", Status: types.ResolveDenied},
		{Name: "MOZ_LOG", Status: types.ResolveMalformed},
	}
	for _, fact := range facts {
		out := Evaluate(def, fact, true, "")
		if out.Class != types.ClassInfo {
			t.Errorf("fact %+v classified %s, want INFO", fact, out.Class)
		}
	}
}

func TestInapplicableAlwaysInfo(t *testing.T) {
	def := critical("MOZ_X11_EGL", "1")
	out := Evaluate(def, found("MOZ_X11_EGL", "0"), false, "not meaningful on Wayland")
	if out.Class != types.ClassInfo {
		t.Errorf("inapplicable mismatch classified %s, want INFO", out.Class)
	}
	if out.Display != "not applicable: not meaningful on Wayland" {
		t.Errorf("display = %q", out.Display)
	}
}

func TestUnsetWithMatchingFallbackShowsBuiltinSource(t *testing.T) {
	def := withFallback(critical("NVD_BACKEND", "direct"), "direct")
	out := Evaluate(def, unset("NVD_BACKEND"), true, "")
	if out.Class != types.ClassOK {
		t.Fatalf("classified %s, want OK", out.Class)
	}
	if out.Fact.Source != types.SourceBuiltin {
		t.Errorf("source = %q, want %q", out.Fact.Source, types.SourceBuiltin)
	}
	if out.Display != "direct" {
		t.Errorf("display = %q", out.Display)
	}
}

func TestFailCarriesHint(t *testing.T) {
	out := Evaluate(critical("LIBVA_DRIVER_NAME", "nvidia"), found("LIBVA_DRIVER_NAME", "iHD"), true, "")
	if out.Hint == "" {
		t.Error("FAIL outcome must carry the remediation hint")
	}
	ok := Evaluate(critical("LIBVA_DRIVER_NAME", "nvidia"), found("LIBVA_DRIVER_NAME", "nvidia"), true, "")
	if ok.Hint != "" {
		t.Error("OK outcome must not carry a hint")
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	def := critical("LIBVA_DRIVER_NAME", "nvidia")
	fact := found("LIBVA_DRIVER_NAME", "iHD")
	first := Evaluate(def, fact, true, "")
	for i := 0; i < 10; i++ {
		if got := Evaluate(def, fact, true, ""); got != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestContextRecordCounters(t *testing.T) {
	ctx := &Context{}
	ctx.RecordAll([]types.CheckOutcome{
		{Class: types.ClassOK},
		{Class: types.ClassInfo},
		{Class: types.ClassWarn},
		{Class: types.ClassWarn},
		{Class: types.ClassFail},
	})
	if ctx.Counters.Issues != 1 || ctx.Counters.Warnings != 2 {
		t.Errorf("counters = %+v", ctx.Counters)
	}
	if ctx.Verdict() != types.VerdictIssues {
		t.Errorf("verdict = %q", ctx.Verdict())
	}
	if len(ctx.Outcomes) != 5 {
		t.Errorf("recorded %d outcomes", len(ctx.Outcomes))
	}
}

func TestPersistedInactiveIsInfo(t *testing.T) {
	def := critical("LIBVA_DRIVER_NAME", "nvidia")
	out := PersistedInactive(def, "nvidia", "/home/u/.config/environment.d/vaapi.conf")
	if out.Class != types.ClassInfo {
		t.Errorf("classified %s, want INFO", out.Class)
	}
	if out.Fact.Value != "nvidia" {
		t.Errorf("fact value = %q", out.Fact.Value)
	}
}
