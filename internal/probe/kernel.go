// Package probe gathers raw system facts for vdcheck: kernel module
// parameters, package versions, GPU inventory, VA-API state, and the
// Firefox profile. Every probe degrades to an explicit "unavailable"
// result instead of failing the run.
package probe

import (
	"os"
	"strings"

	"github.com/nicholasgasior/vdcheck/internal/util"
	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// NvidiaDRMModesetPath is the kernel pseudo-file for the nvidia-drm
// modeset parameter. "Y" is required for DMA-BUF export, which the
// browser's VA-API path depends on.
const NvidiaDRMModesetPath = "/sys/module/nvidia_drm/parameters/modeset"

// ReadModuleParam reads a kernel module parameter pseudo-file and maps the
// outcome onto the resolver contract:
//
//   - readable        -> value as written by the kernel (e.g. "Y"/"N")
//   - file absent     -> unset (module not loaded or parameter unknown)
//   - permission      -> one non-interactive sudo retry, then "denied"
//
// The sudo retry is attempted at most once and never prompts (-n).
func ReadModuleParam(name, path string, timeout int, noSudo bool) types.ResolvedFact {
	data, err := os.ReadFile(path)
	if err == nil {
		return paramFact(name, path, string(data))
	}
	if os.IsNotExist(err) {
		return types.ResolvedFact{Name: name, Status: types.ResolveUnset}
	}
	if !os.IsPermission(err) {
		return types.ResolvedFact{Name: name, Status: types.ResolveMalformed, Source: path}
	}

	if !noSudo && util.CommandExists("sudo") {
		r := util.RunCommand(timeout, "sudo", "-n", "cat", path)
		if r.Err == nil && r.ExitCode == 0 {
			return paramFact(name, path, r.Stdout)
		}
	}
	return types.ResolvedFact{Name: name, Status: types.ResolveDenied, Source: path}
}

func paramFact(name, path, raw string) types.ResolvedFact {
	value := strings.TrimSpace(raw)
	if value == "" {
		return types.ResolvedFact{Name: name, Status: types.ResolveMalformed, Source: path}
	}
	return types.ResolvedFact{Name: name, Value: value, Status: types.ResolveFound, Source: path}
}
