// Package report renders the gathered and evaluated results as text or
// JSON. Rendering never changes counters or classifications.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// Domain section headings, in display order.
var domainOrder = []struct {
	key   string
	title string
}{
	{"environment", "Environment variables"},
	{"kernel", "Kernel module parameters"},
	{"vaapi", "VA-API driver"},
	{"firefox", "Firefox preferences"},
}

// GenerateText renders the full human-readable report.
func GenerateText(report *types.Report, styler *Styler, verbose bool) string {
	var sb strings.Builder
	w := func(format string, args ...interface{}) {
		sb.WriteString(fmt.Sprintf(format, args...))
	}
	line := func() { sb.WriteString(strings.Repeat("─", 72) + "\n") }

	line()
	w("  %s\n", styler.Heading(fmt.Sprintf("vdcheck v%s — video decode acceleration diagnostic", report.Metadata.ToolVersion)))
	w("  %s\n", styler.Dim(types.Tagline))
	line()
	w("  Generated: %s\n", report.Metadata.Timestamp.Format("2006-01-02 15:04:05 MST"))
	w("  Runtime:   %.1fs\n", report.Metadata.RuntimeSeconds)
	line()

	w("\n== SYSTEM ==\n\n")
	if report.System.Distro != "" {
		w("  OS:       %s %s\n", report.System.Distro, report.System.DistroVersion)
	}
	if report.System.Kernel != "" {
		w("  Kernel:   %s\n", report.System.Kernel)
	}
	w("  Session:  %s\n", valueOrUnknown(report.System.SessionType))
	w("  Firefox:  %s\n", valueOrUnknown(report.System.FirefoxVersion))
	if report.System.ProfileDir != "" {
		w("  Profile:  %s\n", CollapseHome(report.System.ProfileDir))
	}

	w("\n== GPUS ==\n\n")
	if len(report.GPUs) == 0 {
		w("  none detected\n")
	}
	for _, gpu := range report.GPUs {
		w("  [%d] %s (%s", gpu.Index, gpu.Name, gpu.Vendor)
		if gpu.Driver != "" {
			w(", driver %s", gpu.Driver)
		}
		w(")")
		if gpu.IsNVIDIA {
			if gpu.AV1Decode {
				w(" — AV1 decode: yes")
			} else {
				w(" — AV1 decode: no")
			}
		}
		w("\n")
	}

	if len(report.Packages) > 0 {
		w("\n== PACKAGES ==\n\n")
		for _, pkg := range report.Packages {
			version := pkg.Version
			if version == "" {
				version = styler.Dim("not installed")
			}
			w("  %-24s %s\n", pkg.Name, version)
		}
	}

	for _, domain := range domainOrder {
		outs := outcomesFor(report.Outcomes, domain.key)
		if len(outs) == 0 {
			continue
		}
		w("\n== %s ==\n\n", strings.ToUpper(domain.title))
		for _, out := range outs {
			w("  %s  %-44s %s\n", badge(styler, out.Class), out.Definition.Name, CollapseHome(out.Display))
			if out.Hint != "" {
				w("      %s\n", styler.Dim("hint: "+CollapseHome(out.Hint)))
			}
		}
	}

	notes := report.Notes
	if !verbose {
		notes = profileNotes(notes)
	}
	if len(notes) > 0 {
		w("\n== NOTES ==\n\n")
		for _, note := range notes {
			w("  %s: %s\n", CollapseHome(note.Source), note.Note)
		}
	}

	w("\n")
	line()
	w("  %s\n", renderVerdict(styler, report))
	line()
	return sb.String()
}

// profileNotes filters to the notes a default run must not hide: a
// Firefox profile that could not be read silently turns every
// preference check into an unset.
func profileNotes(notes []types.ResolverNote) []types.ResolverNote {
	var kept []types.ResolverNote
	for _, note := range notes {
		if note.Source == "firefox" ||
			strings.HasSuffix(note.Source, types.SourcePrefsJS) ||
			strings.HasSuffix(note.Source, types.SourceUserJS) {
			kept = append(kept, note)
		}
	}
	return kept
}

func outcomesFor(outs []types.CheckOutcome, domain string) []types.CheckOutcome {
	var matched []types.CheckOutcome
	for _, out := range outs {
		if out.Definition.Domain == domain {
			matched = append(matched, out)
		}
	}
	return matched
}

func badge(styler *Styler, class types.Classification) string {
	padded := fmt.Sprintf("%-4s", class)
	switch class {
	case types.ClassOK:
		return styler.OK(padded)
	case types.ClassWarn:
		return styler.Warn(padded)
	case types.ClassFail:
		return styler.Fail(padded)
	default:
		return styler.Info(padded)
	}
}

func renderVerdict(styler *Styler, report *types.Report) string {
	summary := fmt.Sprintf("%d issue(s), %d warning(s)", report.Counters.Issues, report.Counters.Warnings)
	switch report.Verdict {
	case types.VerdictClean:
		return styler.OK("Verdict: clean — hardware video decoding should work") + " " + styler.Dim("(0 issues, 0 warnings)")
	case types.VerdictWarnings:
		return styler.Warn("Verdict: warnings only") + " " + styler.Dim("("+summary+")")
	default:
		return styler.Fail("Verdict: issues present") + " " + styler.Dim("("+summary+")")
	}
}

func valueOrUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

// CollapseHome replaces the user's home directory prefix with "~" in
// displayed paths. Reports get pasted into public forum threads; the
// username does not belong there.
func CollapseHome(s string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" || home == "/" {
		return s
	}
	return strings.ReplaceAll(s, home, "~")
}
