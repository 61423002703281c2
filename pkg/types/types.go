// Package types defines all shared data structures for vdcheck.
package types

import "time"

// Version of vdcheck
const Version = "0.3.1"

// Tagline shown in all reports
const Tagline = "vdcheck inspects your system read-only. It recommends fixes but never changes any setting."

// ExitCode for CLI. A completed run always exits 0; the report content,
// not the exit code, carries the diagnostic verdict. Non-zero is reserved
// for usage errors.
const (
	ExitOK    = 0
	ExitUsage = 2
)

// Severity classes a check definition: critical mismatches block video
// decode acceleration outright, advisory ones merely degrade it.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityAdvisory Severity = "advisory"
)

// Classification of one evaluated check
type Classification string

const (
	ClassOK   Classification = "OK"
	ClassInfo Classification = "INFO"
	ClassWarn Classification = "WARN"
	ClassFail Classification = "FAIL"
)

// Varies is the expected-value sentinel for checks with no single correct
// value: absence is neutral, presence is reported informationally.
const Varies = "\x00varies"

// Source labels outside the closed set of concrete file paths.
const (
	SourceEnvironment = "environment"
	SourceBuiltin     = "built-in"
	SourcePrefsJS     = "prefs.js"
	SourceUserJS      = "user.js"
)

// ResolveStatus distinguishes why a fact has no usable value. Anything
// other than ResolveFound means the value is treated as unset, but the
// report wording differs per status.
type ResolveStatus string

const (
	ResolveFound     ResolveStatus = "found"
	ResolveUnset     ResolveStatus = "unset"
	ResolveDenied    ResolveStatus = "denied"    // permission refused, even after the escalated retry
	ResolveTimeout   ResolveStatus = "timed-out" // bounded subprocess exceeded its budget
	ResolveMalformed ResolveStatus = "malformed" // present but unparsable
)

// CheckDefinition is one row of the check registry. Defined once at
// process start, never mutated.
type CheckDefinition struct {
	Name string `json:"name"`

	// Domain groups checks in the report: "environment", "firefox",
	// "kernel", "vaapi".
	Domain string `json:"domain"`

	// Expected is a literal value, or the Varies sentinel.
	Expected string `json:"expected"`

	Severity Severity `json:"severity"`

	// Fallback is the value the consuming application assumes when the
	// setting is absent. HasFallback false means the built-in default is
	// unknown, not empty.
	Fallback    string `json:"fallback,omitempty"`
	HasFallback bool   `json:"has_fallback"`

	Description string `json:"description,omitempty"`

	// Hint is the remediation attached to WARN/FAIL outcomes.
	Hint string `json:"-"`
}

// IsVaries reports whether the check has no single correct value.
func (d CheckDefinition) IsVaries() bool { return d.Expected == Varies }

// ResolvedFact is the result of resolving one setting.
type ResolvedFact struct {
	Name   string        `json:"name"`
	Value  string        `json:"value,omitempty"`
	Status ResolveStatus `json:"status"`
	Source string        `json:"source,omitempty"` // SourceEnvironment, a file path, a subprocess label, or empty when unresolved
}

// Found reports whether a concrete value was resolved.
func (f ResolvedFact) Found() bool { return f.Status == ResolveFound }

// CheckOutcome pairs a definition with its resolved fact and the
// classification the evaluator assigned. Immutable once recorded.
type CheckOutcome struct {
	Definition CheckDefinition `json:"definition"`
	Fact       ResolvedFact    `json:"fact"`
	Class      Classification  `json:"classification"`
	Display    string          `json:"display"` // effective value as shown in the report
	Hint       string          `json:"hint,omitempty"`
}

// RunCounters accumulates FAIL and WARN outcomes. Incremented only by the
// recording routine; read once at the end to choose the verdict.
type RunCounters struct {
	Issues   int `json:"issues"`
	Warnings int `json:"warnings"`
}

// Verdict is the terminal state of a run.
type Verdict string

const (
	VerdictClean    Verdict = "clean"
	VerdictWarnings Verdict = "warnings only"
	VerdictIssues   Verdict = "issues present"
)

// Verdict computes the terminal verdict. It is purely a function of the
// two counters.
func (c RunCounters) Verdict() Verdict {
	switch {
	case c.Issues == 0 && c.Warnings == 0:
		return VerdictClean
	case c.Issues == 0:
		return VerdictWarnings
	default:
		return VerdictIssues
	}
}

// SystemInfo holds the system snapshot shown before the check battery.
type SystemInfo struct {
	Distro         string `json:"distro"`
	DistroVersion  string `json:"distro_version"`
	Kernel         string `json:"kernel"`
	SessionType    string `json:"session_type"` // "x11", "wayland", or "" when unknown
	FirefoxVersion string `json:"firefox_version,omitempty"`
	ProfileDir     string `json:"profile_dir,omitempty"`
}

// GPUInfo holds one detected GPU.
type GPUInfo struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Vendor    string `json:"vendor"` // "NVIDIA", "Intel", "AMD"
	Driver    string `json:"driver,omitempty"`
	BusID     string `json:"bus_id,omitempty"`
	AV1Decode bool   `json:"av1_decode"` // hardware AV1 decode engine present
	IsNVIDIA  bool   `json:"is_nvidia"`
}

// PackageInfo holds one queried package version.
type PackageInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"` // empty: not installed or backend unavailable
	Backend string `json:"backend,omitempty"` // which package manager answered
}

// ResolverNote records a non-fatal problem hit while gathering facts.
type ResolverNote struct {
	Source string `json:"source"`
	Note   string `json:"note"`
}

// Report is the complete gathered + evaluated result.
type Report struct {
	Metadata ReportMetadata `json:"metadata"`
	System   SystemInfo     `json:"system"`
	GPUs     []GPUInfo      `json:"gpus"`
	Packages []PackageInfo  `json:"packages,omitempty"`
	Outcomes []CheckOutcome `json:"outcomes"`
	Notes    []ResolverNote `json:"notes,omitempty"`
	Counters RunCounters    `json:"counters"`
	Verdict  Verdict        `json:"verdict"`
}

// ReportMetadata holds info about the report itself.
type ReportMetadata struct {
	ToolVersion    string    `json:"tool_version"`
	Timestamp      time.Time `json:"timestamp"`
	RuntimeSeconds float64   `json:"runtime_seconds"`
}

// RunConfig holds all CLI flags and options for a run.
type RunConfig struct {
	Timeout    int    // seconds, per external subprocess
	JSON       bool   // structured output instead of text
	NoColor    bool   // disable styled output
	Verbose    bool   // per-source scan notes
	NoSudo     bool   // skip the escalated kernel-parameter retry
	ProfileDir string // explicit Firefox profile directory
	Overrides  string // path to an expectation-override YAML file
}

// DefaultRunConfig returns a RunConfig with safe defaults.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Timeout: 10,
	}
}
