package probe

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nicholasgasior/vdcheck/internal/util"
	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// DetectGPUs enumerates GPUs, preferring nvidia-smi for NVIDIA cards and
// falling back to a /sys/class/drm vendor scan when it is unavailable.
func DetectGPUs(timeout int) ([]types.GPUInfo, []types.ResolverNote) {
	if util.CommandExists("nvidia-smi") {
		gpus, notes := queryNvidiaSMI(timeout)
		if len(gpus) > 0 {
			return gpus, notes
		}
		// Driver tooling present but not answering; the DRM scan still
		// tells us what hardware is in the machine.
		drm, _ := scanDRM()
		return drm, notes
	}
	return scanDRM()
}

func queryNvidiaSMI(timeout int) ([]types.GPUInfo, []types.ResolverNote) {
	r := util.RunCommand(timeout, "nvidia-smi",
		"--query-gpu=name,driver_version,pci.bus_id",
		"--format=csv,noheader")
	if r.TimedOut {
		return nil, []types.ResolverNote{{Source: "nvidia-smi", Note: "timed out"}}
	}
	if r.Err != nil || r.ExitCode != 0 {
		return nil, []types.ResolverNote{{Source: "nvidia-smi", Note: "query failed: " + util.FirstNonEmpty(r.Stderr, "no output")}}
	}

	var gpus []types.GPUInfo
	for i, line := range strings.Split(r.Stdout, "\n") {
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		gpu := types.GPUInfo{
			Index:     i,
			Name:      name,
			Vendor:    "NVIDIA",
			Driver:    strings.TrimSpace(parts[1]),
			IsNVIDIA:  true,
			AV1Decode: AV1Capable(name),
		}
		if len(parts) >= 3 {
			gpu.BusID = strings.TrimSpace(parts[2])
		}
		gpus = append(gpus, gpu)
	}
	return gpus, nil
}

func scanDRM() ([]types.GPUInfo, []types.ResolverNote) {
	cards, err := filepath.Glob("/sys/class/drm/card[0-9]*/device/vendor")
	if err != nil || len(cards) == 0 {
		return nil, []types.ResolverNote{{Source: "drm", Note: "no GPUs found under /sys/class/drm"}}
	}

	var gpus []types.GPUInfo
	seen := make(map[string]bool)
	for _, vendorPath := range cards {
		cardDir := filepath.Dir(vendorPath)
		if seen[cardDir] {
			continue
		}
		seen[cardDir] = true

		data, err := os.ReadFile(vendorPath)
		if err != nil {
			continue
		}
		vendor := vendorName(strings.TrimSpace(string(data)))
		if vendor == "" {
			continue
		}
		gpus = append(gpus, types.GPUInfo{
			Index:    len(gpus),
			Name:     filepath.Base(filepath.Dir(cardDir)),
			Vendor:   vendor,
			IsNVIDIA: vendor == "NVIDIA",
		})
	}
	return gpus, nil
}

func vendorName(id string) string {
	switch strings.ToLower(id) {
	case "0x10de":
		return "NVIDIA"
	case "0x1002":
		return "AMD"
	case "0x8086":
		return "Intel"
	default:
		return ""
	}
}

// av1Pattern matches marketing names of NVIDIA generations whose NVDEC
// block decodes AV1: consumer Ampere (RTX 30xx) and later.
var av1Pattern = regexp.MustCompile(`RTX\s+[3-9]0\d\d|RTX\s+[A-Z]?\d000\s+Ada|L4\b|L40`)

// AV1Capable reports whether the GPU generation has an AV1 decode engine.
// Pre-Ampere cards decode H.264/HEVC/VP9 only; AV1 playback on them falls
// back to software.
func AV1Capable(name string) bool {
	return av1Pattern.MatchString(name)
}
