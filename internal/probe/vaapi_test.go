package probe

import "testing"

const sampleVainfo = `vainfo: VA-API version: 1.20 (libva 2.20.1)
vainfo: Driver version: VA-API NVDEC driver [direct backend]
vainfo: Supported profile and entrypoints
      VAProfileH264Main               : VAEntrypointVLD
      VAProfileH264High               : VAEntrypointVLD
      VAProfileHEVCMain               : VAEntrypointVLD
      VAProfileVP9Profile0            : VAEntrypointVLD
      VAProfileJPEGBaseline           : VAEntrypointEncPicture
`

func TestCountDecodeProfiles(t *testing.T) {
	if n := countDecodeProfiles(sampleVainfo); n != 4 {
		t.Errorf("counted %d decode profiles, want 4", n)
	}
	if n := countDecodeProfiles("no profiles here"); n != 0 {
		t.Errorf("counted %d decode profiles, want 0", n)
	}
}

func TestSummarizeVainfo(t *testing.T) {
	summary := summarizeVainfo(sampleVainfo, 4)
	if summary != "VA-API NVDEC driver [direct backend], 4 decode profiles" {
		t.Errorf("summary = %q", summary)
	}
	if summary := summarizeVainfo("nothing useful", 3); summary != "3 decode profiles exposed" {
		t.Errorf("fallback summary = %q", summary)
	}
}

func TestLastLine(t *testing.T) {
	if got := lastLine("a\nb\nc\n"); got != "c" {
		t.Errorf("lastLine = %q", got)
	}
	if got := lastLine(""); got != "" {
		t.Errorf("lastLine of empty = %q", got)
	}
}
