// Package envscan resolves environment-backed settings across the layered
// configuration sources a Linux desktop session reads at login.
//
// Precedence, highest first:
//
//	1. live process environment
//	2. ~/.config/environment.d/*.conf   (bare NAME=value)
//	3. ~/.bash_profile, ~/.profile, ~/.bashrc  (export NAME=value)
//	4. /etc/environment                 (bare NAME=value)
//	5. /etc/profile.d/*.sh              (export NAME=value, directory order)
//
// A value persisted in a file but absent from the live environment is NOT
// the active value; it only takes effect at the next login. Resolve
// reports it unset; Persisted exposes the pending value so the evaluator
// can surface it separately.
package envscan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nicholasgasior/vdcheck/pkg/types"
)

type lineSyntax int

const (
	syntaxBare   lineSyntax = iota // NAME=value, as read by pam_env and environment.d
	syntaxExport                   // export NAME=value, as read by login shells
)

type sourceSpec struct {
	pattern string // path or glob relative to Home/EtcDir
	system  bool   // rooted at EtcDir instead of Home
	syntax  lineSyntax
}

// File sources in precedence order (live environment is handled separately
// and always wins).
var fileSources = []sourceSpec{
	{pattern: ".config/environment.d/*.conf", syntax: syntaxBare},
	{pattern: ".bash_profile", syntax: syntaxExport},
	{pattern: ".profile", syntax: syntaxExport},
	{pattern: ".bashrc", syntax: syntaxExport},
	{pattern: "environment", system: true, syntax: syntaxBare},
	{pattern: "profile.d/*.sh", system: true, syntax: syntaxExport},
}

type persistedValue struct {
	value string
	path  string
}

// Scanner scans the file-backed sources once and answers setting lookups.
// Home and EtcDir are overridable for tests.
type Scanner struct {
	Home   string
	EtcDir string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	winners map[string]persistedValue // highest-precedence file assignment per name
	sources map[string][]string       // every distinct file assigning each name, scan order
	notes   []types.ResolverNote
}

// NewScanner returns a scanner rooted at the real home directory and /etc.
func NewScanner() *Scanner {
	home, _ := os.UserHomeDir()
	return &Scanner{Home: home, EtcDir: "/etc", LookupEnv: os.LookupEnv}
}

// Scan reads every source file once, recording assignments whose name is
// in the recognized set. Missing files are not errors; unreadable ones
// produce a note and are skipped. Safe to call once per run.
func (s *Scanner) Scan(recognized map[string]bool) {
	s.winners = make(map[string]persistedValue)
	s.sources = make(map[string][]string)

	for _, src := range fileSources {
		root := s.Home
		if src.system {
			root = s.EtcDir
		}
		pattern := filepath.Join(root, src.pattern)

		var paths []string
		if strings.ContainsAny(src.pattern, "*?[") {
			matches, err := filepath.Glob(pattern)
			if err == nil {
				sort.Strings(matches)
				paths = matches
			}
		} else {
			paths = []string{pattern}
		}

		for _, path := range paths {
			s.scanFile(path, src.syntax, recognized)
		}
	}
}

func (s *Scanner) scanFile(path string, syntax lineSyntax, recognized map[string]bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.notes = append(s.notes, types.ResolverNote{
				Source: path,
				Note:   "could not read: " + err.Error(),
			})
		}
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		name, value, ok := parseAssignment(line, syntax)
		if !ok || !recognized[name] {
			continue
		}
		if _, seen := s.winners[name]; !seen {
			s.winners[name] = persistedValue{value: value, path: path}
		}
		s.recordSource(name, path)
	}
}

// recordSource collapses duplicate paths while preserving scan order.
func (s *Scanner) recordSource(name, path string) {
	for _, p := range s.sources[name] {
		if p == path {
			return
		}
	}
	s.sources[name] = append(s.sources[name], path)
}

// parseAssignment extracts NAME and value from one line under the file's
// syntax conventions. Comments and non-assignments yield ok=false. Export
// files only honor "export NAME=value"; bare files only honor
// "NAME=value" (a stray export keyword there would not be understood by
// pam_env or environment.d, so it is ignored here too).
func parseAssignment(line string, syntax lineSyntax) (name, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}

	switch syntax {
	case syntaxExport:
		if !strings.HasPrefix(trimmed, "export ") {
			return "", "", false
		}
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export "))
	case syntaxBare:
		if strings.HasPrefix(trimmed, "export ") {
			return "", "", false
		}
	}

	eq := strings.Index(trimmed, "=")
	if eq <= 0 {
		return "", "", false
	}
	name = strings.TrimSpace(trimmed[:eq])
	if !validName(name) {
		return "", "", false
	}
	value = strings.Trim(strings.TrimSpace(trimmed[eq+1:]), `"'`)
	return name, value, true
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Resolve returns the active value of a setting. Only the live environment
// counts as active; a file-persisted value requires a session restart.
func (s *Scanner) Resolve(name string) types.ResolvedFact {
	lookup := s.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(name); ok {
		return types.ResolvedFact{Name: name, Value: v, Status: types.ResolveFound, Source: types.SourceEnvironment}
	}
	return types.ResolvedFact{Name: name, Status: types.ResolveUnset}
}

// Persisted returns the highest-precedence file assignment of a setting,
// whether or not it is active.
func (s *Scanner) Persisted(name string) (value, path string, ok bool) {
	pv, ok := s.winners[name]
	return pv.value, pv.path, ok
}

// Sources returns every distinct file in which the setting is assigned,
// in scan order. More than one entry is a configuration conflict risk.
func (s *Scanner) Sources(name string) []string {
	return s.sources[name]
}

// SettingsWithSources lists every recognized setting that was found in at
// least one file, sorted by name for stable reporting.
func (s *Scanner) SettingsWithSources() []string {
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Notes returns non-fatal problems hit during the scan.
func (s *Scanner) Notes() []types.ResolverNote {
	return s.notes
}
