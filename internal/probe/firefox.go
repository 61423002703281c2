package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/nicholasgasior/vdcheck/internal/util"
	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// FirefoxVersion queries the installed Firefox and returns the version
// string plus its major number. Unparsable output yields ("", 0).
func FirefoxVersion(timeout int) (string, int) {
	for _, bin := range []string{"firefox", "firefox-esr"} {
		if !util.CommandExists(bin) {
			continue
		}
		r := util.RunCommand(timeout, bin, "--version")
		if r.Err != nil || r.Stdout == "" {
			continue
		}
		// "Mozilla Firefox 128.0.3"
		fields := strings.Fields(r.Stdout)
		version := fields[len(fields)-1]
		major, err := strconv.Atoi(strings.SplitN(version, ".", 2)[0])
		if err != nil {
			return "", 0
		}
		return version, major
	}
	return "", 0
}

// FindProfileDir locates the Firefox profile whose prefs govern the
// default browsing session. An explicit dir wins; otherwise profiles.ini
// is consulted: a per-install default first, then a profile flagged
// Default=1, then the first profile listed.
func FindProfileDir(home, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("profile dir %s: %w", explicit, err)
		}
		return explicit, nil
	}

	base := filepath.Join(home, ".mozilla", "firefox")
	data, err := os.ReadFile(filepath.Join(base, "profiles.ini"))
	if err != nil {
		return "", fmt.Errorf("profiles.ini: %w", err)
	}

	var installDefault, flaggedDefault, first string
	section := ""
	var path string
	relative := true
	flagged := false

	flush := func() {
		if path == "" {
			return
		}
		resolved := path
		if relative {
			resolved = filepath.Join(base, path)
		}
		if strings.HasPrefix(section, "Install") && installDefault == "" {
			installDefault = resolved
		}
		if strings.HasPrefix(section, "Profile") {
			if flagged && flaggedDefault == "" {
				flaggedDefault = resolved
			}
			if first == "" {
				first = resolved
			}
		}
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			flush()
			section = strings.Trim(line, "[]")
			path, relative, flagged = "", true, false
		case strings.HasPrefix(line, "Path="):
			path = strings.TrimPrefix(line, "Path=")
		case strings.HasPrefix(line, "Default="):
			v := strings.TrimPrefix(line, "Default=")
			if strings.HasPrefix(section, "Install") {
				path = v
			} else {
				flagged = v == "1"
			}
		case strings.HasPrefix(line, "IsRelative="):
			relative = strings.TrimPrefix(line, "IsRelative=") == "1"
		}
	}
	flush()

	chosen := util.FirstNonEmpty(installDefault, flaggedDefault, first)
	if chosen == "" {
		return "", fmt.Errorf("profiles.ini: no profiles declared")
	}
	return chosen, nil
}

var prefLine = regexp.MustCompile(`^user_pref\("([^"]+)",\s*(.*)\);\s*$`)

// PrefStore holds preferences read from one profile. prefs.js carries the
// values Firefox last persisted; user.js is applied on top at every
// startup, so it wins here too.
type PrefStore struct {
	values map[string]types.ResolvedFact
	notes  []types.ResolverNote
}

// ReadPrefs parses prefs.js then user.js in the profile directory.
// A missing profile dir yields an empty store plus a note; every pref
// check will then resolve unset.
func ReadPrefs(profileDir string) *PrefStore {
	store := &PrefStore{values: make(map[string]types.ResolvedFact)}
	if profileDir == "" {
		store.notes = append(store.notes, types.ResolverNote{
			Source: "firefox",
			Note:   "no profile directory found; preference checks resolve unset",
		})
		return store
	}
	store.readFile(filepath.Join(profileDir, types.SourcePrefsJS))
	store.readFile(filepath.Join(profileDir, types.SourceUserJS))
	return store
}

func (p *PrefStore) readFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			p.notes = append(p.notes, types.ResolverNote{Source: path, Note: "could not read: " + err.Error()})
		}
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		m := prefLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		name := m[1]
		value, ok := prefValue(m[2])
		if !ok {
			p.values[name] = types.ResolvedFact{Name: name, Status: types.ResolveMalformed, Source: path}
			continue
		}
		p.values[name] = types.ResolvedFact{Name: name, Value: value, Status: types.ResolveFound, Source: path}
	}
}

// prefValue normalizes a pref literal: quoted strings are unwrapped,
// booleans and integers pass through as text.
func prefValue(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, `"`) {
		if !strings.HasSuffix(raw, `"`) || len(raw) < 2 {
			return "", false
		}
		return raw[1 : len(raw)-1], true
	}
	if raw == "true" || raw == "false" {
		return raw, true
	}
	if _, err := strconv.Atoi(raw); err == nil {
		return raw, true
	}
	return "", false
}

// Resolve returns the effective value of one preference.
func (p *PrefStore) Resolve(name string) types.ResolvedFact {
	if fact, ok := p.values[name]; ok {
		return fact
	}
	return types.ResolvedFact{Name: name, Status: types.ResolveUnset}
}

// Notes returns non-fatal problems hit while reading the profile.
func (p *PrefStore) Notes() []types.ResolverNote {
	return p.notes
}
