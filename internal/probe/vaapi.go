package probe

import (
	"fmt"
	"strings"

	"github.com/nicholasgasior/vdcheck/internal/util"
	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// VainfoSetting is the registry name of the VA-API initialization check.
const VainfoSetting = "vainfo.decode"

// RunVainfo asks the VA-API stack to initialize and enumerate decode
// profiles. The resolved value is "ok" when at least one VLD (decode)
// profile is exposed, "failed" otherwise. A missing vainfo binary is
// unset; exceeding the timeout is the distinguished timed-out state.
func RunVainfo(timeout int) (types.ResolvedFact, string) {
	fact := types.ResolvedFact{Name: VainfoSetting}

	if !util.CommandExists("vainfo") {
		fact.Status = types.ResolveUnset
		return fact, "vainfo not installed (libva-utils)"
	}

	r := util.RunCommand(timeout, "vainfo")
	if r.TimedOut {
		fact.Status = types.ResolveTimeout
		fact.Source = "vainfo"
		return fact, "vainfo exceeded its time budget"
	}

	fact.Source = "vainfo"
	fact.Status = types.ResolveFound

	// vainfo prints profiles to stdout and driver errors to stderr; a
	// nonzero exit with no profiles means libva could not bring up the
	// driver at all.
	decode := countDecodeProfiles(r.Stdout)
	if r.ExitCode == 0 && decode > 0 {
		fact.Value = "ok"
		return fact, summarizeVainfo(r.Stdout, decode)
	}

	fact.Value = "failed"
	detail := util.FirstNonEmpty(lastLine(r.Stderr), lastLine(r.Stdout), "no output")
	return fact, "VA-API initialization failed: " + detail
}

func countDecodeProfiles(out string) int {
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "VAProfile") && strings.Contains(line, "VAEntrypointVLD") {
			n++
		}
	}
	return n
}

func summarizeVainfo(out string, decode int) string {
	driver := ""
	for _, line := range strings.Split(out, "\n") {
		// "vainfo: Driver version: <name>"; split on the second colon.
		if _, rest := util.ParseKeyValue(line, "Driver version:"); rest != "" {
			driver = rest
			break
		}
	}
	if driver != "" {
		return fmt.Sprintf("%s, %d decode profiles", driver, decode)
	}
	return fmt.Sprintf("%d decode profiles exposed", decode)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
