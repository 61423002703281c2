// Package selftest verifies that the tools and files vdcheck relies on
// are reachable before a full diagnostic run.
package selftest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nicholasgasior/vdcheck/internal/util"
)

// CheckResult holds a single self-test check result
type CheckResult struct {
	Name   string
	Status string // "OK", "WARN", "FAIL"
	Detail string
}

// Run executes all self-test checks and prints a summary. The exit code
// stays 0 either way; a degraded environment only limits what the main
// run can verify.
func Run() {
	fmt.Println("vdcheck Self-Test")
	fmt.Println(strings.Repeat("─", 50))
	fmt.Println()

	var results []CheckResult
	results = append(results, checkOS())
	results = append(results, checkVainfo())
	results = append(results, checkNvidiaSmi())
	results = append(results, checkPackageManager())
	results = append(results, checkProfilesIni())
	results = append(results, checkModesetParam())

	okCount, warnCount, failCount := 0, 0, 0
	for _, r := range results {
		icon := "  "
		switch r.Status {
		case "OK":
			icon = "OK  "
			okCount++
		case "WARN":
			icon = "WARN"
			warnCount++
		case "FAIL":
			icon = "FAIL"
			failCount++
		}
		fmt.Printf("  [%s] %-28s %s\n", icon, r.Name, r.Detail)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("  Results: %d OK, %d WARN, %d FAIL\n", okCount, warnCount, failCount)
	fmt.Println()

	switch {
	case failCount > 0:
		fmt.Println("  vdcheck only works on Linux desktops.")
	case warnCount > 0:
		fmt.Println("  Some probes are unavailable; the affected checks will report")
		fmt.Println("  \"could not verify\" instead of a concrete value.")
	default:
		fmt.Println("  All probes available. vdcheck is ready to run.")
	}
}

func checkOS() CheckResult {
	if runtime.GOOS == "linux" {
		return CheckResult{Name: "Operating System", Status: "OK", Detail: runtime.GOOS + "/" + runtime.GOARCH}
	}
	return CheckResult{Name: "Operating System", Status: "FAIL", Detail: runtime.GOOS + " (Linux required)"}
}

func checkVainfo() CheckResult {
	if util.CommandExists("vainfo") {
		return CheckResult{Name: "vainfo", Status: "OK", Detail: "found in PATH"}
	}
	return CheckResult{Name: "vainfo", Status: "WARN", Detail: "not found (install libva-utils)"}
}

func checkNvidiaSmi() CheckResult {
	if util.CommandExists("nvidia-smi") {
		return CheckResult{Name: "nvidia-smi", Status: "OK", Detail: "found in PATH"}
	}
	return CheckResult{Name: "nvidia-smi", Status: "WARN", Detail: "not found (GPU detection falls back to /sys)"}
}

func checkPackageManager() CheckResult {
	for _, pm := range []string{"pacman", "dpkg-query", "rpm"} {
		if util.CommandExists(pm) {
			return CheckResult{Name: "Package manager", Status: "OK", Detail: pm}
		}
	}
	return CheckResult{Name: "Package manager", Status: "WARN", Detail: "none found (package versions will be skipped)"}
}

func checkProfilesIni() CheckResult {
	home, err := os.UserHomeDir()
	if err != nil {
		return CheckResult{Name: "Firefox profiles.ini", Status: "WARN", Detail: "home directory unknown"}
	}
	path := filepath.Join(home, ".mozilla", "firefox", "profiles.ini")
	if _, err := os.Stat(path); err != nil {
		return CheckResult{Name: "Firefox profiles.ini", Status: "WARN", Detail: "not found (preference checks resolve unset)"}
	}
	return CheckResult{Name: "Firefox profiles.ini", Status: "OK", Detail: "readable"}
}

func checkModesetParam() CheckResult {
	const path = "/sys/module/nvidia_drm/parameters/modeset"
	_, err := os.ReadFile(path)
	switch {
	case err == nil:
		return CheckResult{Name: "nvidia_drm modeset", Status: "OK", Detail: "readable"}
	case os.IsNotExist(err):
		return CheckResult{Name: "nvidia_drm modeset", Status: "WARN", Detail: "not present (nvidia_drm not loaded?)"}
	case os.IsPermission(err):
		return CheckResult{Name: "nvidia_drm modeset", Status: "WARN", Detail: "permission denied (a sudo retry happens at run time)"}
	default:
		return CheckResult{Name: "nvidia_drm modeset", Status: "WARN", Detail: err.Error()}
	}
}
