// Package core orchestrates the vdcheck diagnostic pipeline.
package core

import (
	"os"
	"time"

	"github.com/nicholasgasior/vdcheck/internal/envscan"
	"github.com/nicholasgasior/vdcheck/internal/evaluator"
	"github.com/nicholasgasior/vdcheck/internal/probe"
	"github.com/nicholasgasior/vdcheck/internal/registry"
	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// Run executes the full diagnostic pipeline and returns the completed
// report. printFn receives one progress line per phase; pass a no-op for
// quiet or JSON output.
func Run(cfg types.RunConfig, printFn func(string)) (*types.Report, error) {
	startTime := time.Now()

	r := &types.Report{
		Metadata: types.ReportMetadata{
			ToolVersion: types.Version,
			Timestamp:   startTime,
		},
	}

	defs := registry.All()
	if err := registry.Validate(defs); err != nil {
		return nil, err
	}
	if cfg.Overrides != "" {
		overrides, err := registry.LoadOverrides(cfg.Overrides)
		if err != nil {
			return nil, err
		}
		defs, err = overrides.Apply(defs)
		if err != nil {
			return nil, err
		}
	}

	// Phase 1: system snapshot
	printFn("[1/6] Collecting system information...")
	r.System = probe.CollectSystemInfo(cfg.Timeout)
	firefoxVersion, firefoxMajor := probe.FirefoxVersion(cfg.Timeout)
	r.System.FirefoxVersion = firefoxVersion

	// Phase 2: GPU inventory and package versions
	printFn("[2/6] Detecting GPUs and packages...")
	gpus, gpuNotes := probe.DetectGPUs(cfg.Timeout)
	r.GPUs = gpus
	r.Notes = append(r.Notes, gpuNotes...)

	pkgs, pkgNotes := probe.QueryPackages(cfg.Timeout)
	r.Packages = pkgs
	r.Notes = append(r.Notes, pkgNotes...)

	// Phase 3: environment sources
	printFn("[3/6] Scanning environment sources...")
	recognized := make(map[string]bool)
	for _, def := range defs {
		if def.Domain == registry.DomainEnvironment {
			recognized[def.Name] = true
		}
	}
	scanner := envscan.NewScanner()
	scanner.Scan(recognized)
	r.Notes = append(r.Notes, scanner.Notes()...)

	// Phase 4: Firefox profile
	printFn("[4/6] Reading the Firefox profile...")
	home, _ := os.UserHomeDir()
	profileDir, err := probe.FindProfileDir(home, cfg.ProfileDir)
	if err != nil {
		r.Notes = append(r.Notes, types.ResolverNote{Source: "firefox", Note: err.Error()})
	}
	r.System.ProfileDir = profileDir
	prefs := probe.ReadPrefs(profileDir)
	r.Notes = append(r.Notes, prefs.Notes()...)

	// Phase 5: evaluate the battery
	printFn("[5/6] Evaluating checks...")
	facts := registry.Facts{
		SessionType:  r.System.SessionType,
		FirefoxMajor: firefoxMajor,
	}

	vainfoFact, vainfoSummary := probe.RunVainfo(cfg.Timeout)
	r.Notes = append(r.Notes, types.ResolverNote{Source: "vainfo", Note: vainfoSummary})

	var outs []types.CheckOutcome
	for _, def := range defs {
		fact := resolve(def, scanner, prefs, vainfoFact, cfg)
		applicable, reason := registry.Applicability(def.Name, facts)
		outs = append(outs, evaluator.Evaluate(def, fact, applicable, reason))

		// A value waiting in a login file is worth knowing about even
		// though it is not active yet.
		if def.Domain == registry.DomainEnvironment && !fact.Found() {
			if value, path, ok := scanner.Persisted(def.Name); ok {
				outs = append(outs, evaluator.PersistedInactive(def, value, path))
			}
		}
	}

	outs = evaluator.ApplyCrosschecks(outs, r.GPUs)

	defsByName := make(map[string]types.CheckDefinition, len(defs))
	for _, def := range defs {
		defsByName[def.Name] = def
	}
	outs = append(outs, evaluator.DetectConflicts(scanner, defsByName)...)

	// Phase 6: record and conclude
	printFn("[6/6] Building the report...")
	ctx := &evaluator.Context{}
	ctx.RecordAll(outs)
	r.Outcomes = ctx.Outcomes
	r.Counters = ctx.Counters
	r.Verdict = ctx.Verdict()

	r.Metadata.RuntimeSeconds = time.Since(startTime).Seconds()
	return r, nil
}

// resolve routes a definition to the resolver that owns its domain.
func resolve(def types.CheckDefinition, scanner *envscan.Scanner, prefs *probe.PrefStore, vainfoFact types.ResolvedFact, cfg types.RunConfig) types.ResolvedFact {
	switch def.Domain {
	case registry.DomainEnvironment:
		return scanner.Resolve(def.Name)
	case registry.DomainFirefox:
		return prefs.Resolve(def.Name)
	case registry.DomainKernel:
		return probe.ReadModuleParam(def.Name, probe.NvidiaDRMModesetPath, cfg.Timeout, cfg.NoSudo)
	case registry.DomainVAAPI:
		return vainfoFact
	default:
		return types.ResolvedFact{Name: def.Name, Status: types.ResolveUnset}
	}
}
