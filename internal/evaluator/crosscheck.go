package evaluator

import (
	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// Preference names consulted by the crosschecks.
const (
	prefHardwareDecoding = "media.hardware-video-decoding.enabled"
	prefVAAPI            = "media.ffmpeg.vaapi.enabled"
	prefAV1              = "media.av1.enabled"
)

// ApplyCrosschecks adjusts outcomes whose meaning depends on other
// outcomes. It runs on the full battery after individual evaluation and
// before anything is recorded, so counter bookkeeping stays in one place.
//
// Two rules:
//
//	master switch: an explicitly disabled hardware-decoding master switch
//	fails the whole battery's premise, so the dependent VA-API pref is
//	forced to FAIL even if its own value looks right.
//
//	AV1 gate: AV1 enabled on a GPU without an AV1 decode engine silently
//	drops those videos to software decoding. The AV1 pref itself stays
//	informational (there is no single correct value); the hardware
//	mismatch is surfaced as a separate WARN outcome.
func ApplyCrosschecks(outs []types.CheckOutcome, gpus []types.GPUInfo) []types.CheckOutcome {
	masterOff := false
	for _, out := range outs {
		if out.Definition.Name == prefHardwareDecoding &&
			out.Fact.Found() && out.Fact.Value == "false" {
			masterOff = true
			break
		}
	}

	if masterOff {
		for i := range outs {
			if outs[i].Definition.Name != prefVAAPI {
				continue
			}
			if outs[i].Class == types.ClassOK {
				outs[i].Class = types.ClassFail
				outs[i].Display += " (ineffective: hardware decoding master switch is off)"
				outs[i].Hint = outs[i].Definition.Hint
			}
		}
	}

	if extra, ok := av1Gate(outs, gpus); ok {
		outs = append(outs, extra)
	}
	return outs
}

func av1Gate(outs []types.CheckOutcome, gpus []types.GPUInfo) (types.CheckOutcome, bool) {
	var av1Pref *types.CheckOutcome
	for i := range outs {
		if outs[i].Definition.Name == prefAV1 {
			av1Pref = &outs[i]
			break
		}
	}
	if av1Pref == nil || !av1Pref.Fact.Found() || av1Pref.Fact.Value != "true" {
		return types.CheckOutcome{}, false
	}

	nvidia := false
	for _, gpu := range gpus {
		if !gpu.IsNVIDIA {
			continue
		}
		nvidia = true
		if gpu.AV1Decode {
			return types.CheckOutcome{}, false
		}
	}
	if !nvidia {
		return types.CheckOutcome{}, false
	}

	return types.CheckOutcome{
		Definition: types.CheckDefinition{
			Name:        "media.av1.enabled (hardware gate)",
			Domain:      av1Pref.Definition.Domain,
			Severity:    types.SeverityAdvisory,
			Description: "AV1 enabled without a hardware AV1 decode engine",
		},
		Fact:    av1Pref.Fact,
		Class:   types.ClassWarn,
		Display: "AV1 enabled but the GPU has no AV1 decode engine; AV1 streams decode in software",
		Hint:    "set media.av1.enabled=false so sites serve a codec the GPU can decode",
	}, true
}
