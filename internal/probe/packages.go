package probe

import (
	"strings"

	"github.com/nicholasgasior/vdcheck/internal/util"
	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// pmBackend queries one package manager for an installed version.
type pmBackend struct {
	name  string
	query func(timeout int, pkg string) (string, bool)
}

// Backends in fixed priority order; the first one whose binary exists
// answers all queries for the run.
var pmBackends = []pmBackend{
	{name: "pacman", query: queryPacman},
	{name: "dpkg", query: queryDpkg},
	{name: "rpm", query: queryRpm},
}

// Distro package naming differs; each logical package lists candidates
// tried in order against the selected backend.
var packageCandidates = map[string][]string{
	"nvidia-driver":       {"nvidia-utils", "nvidia-driver", "nvidia-driver-565", "nvidia-driver-550", "akmod-nvidia"},
	"libva":               {"libva", "libva2", "libva-utils"},
	"nvidia-vaapi-driver": {"libva-nvidia-driver", "nvidia-vaapi-driver"},
	"firefox":             {"firefox", "firefox-esr"},
}

// QueryPackages resolves the version of every logical package vdcheck
// cares about. A missing package manager yields empty results plus one
// note; a missing package yields an entry with an empty version.
func QueryPackages(timeout int) ([]types.PackageInfo, []types.ResolverNote) {
	backend := selectBackend()
	if backend == nil {
		return nil, []types.ResolverNote{{
			Source: "packages",
			Note:   "no supported package manager found (tried pacman, dpkg, rpm)",
		}}
	}

	order := []string{"nvidia-driver", "nvidia-vaapi-driver", "libva", "firefox"}
	var pkgs []types.PackageInfo
	for _, logical := range order {
		info := types.PackageInfo{Name: logical, Backend: backend.name}
		for _, candidate := range packageCandidates[logical] {
			if version, ok := backend.query(timeout, candidate); ok {
				info.Version = version
				break
			}
		}
		pkgs = append(pkgs, info)
	}
	return pkgs, nil
}

func selectBackend() *pmBackend {
	for i := range pmBackends {
		probe := pmBackends[i].name
		if probe == "dpkg" {
			probe = "dpkg-query"
		}
		if util.CommandExists(probe) {
			return &pmBackends[i]
		}
	}
	return nil
}

func queryPacman(timeout int, pkg string) (string, bool) {
	r := util.RunCommand(timeout, "pacman", "-Q", pkg)
	if r.Err != nil || r.ExitCode != 0 {
		return "", false
	}
	// "name version"
	fields := strings.Fields(r.Stdout)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}

func queryDpkg(timeout int, pkg string) (string, bool) {
	r := util.RunCommand(timeout, "dpkg-query", "-W", "-f", "${Version}", pkg)
	if r.Err != nil || r.ExitCode != 0 || r.Stdout == "" {
		return "", false
	}
	return r.Stdout, true
}

func queryRpm(timeout int, pkg string) (string, bool) {
	r := util.RunCommand(timeout, "rpm", "-q", "--qf", "%{VERSION}-%{RELEASE}", pkg)
	if r.Err != nil || r.ExitCode != 0 || r.Stdout == "" {
		return "", false
	}
	return r.Stdout, true
}
