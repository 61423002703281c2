package probe

import (
	"os"
	"strings"

	"github.com/nicholasgasior/vdcheck/internal/util"
	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// CollectSystemInfo gathers the distro, kernel, and session facts shown
// at the top of the report. Unknown fields stay empty.
func CollectSystemInfo(timeout int) types.SystemInfo {
	var info types.SystemInfo

	if data, err := os.ReadFile("/etc/os-release"); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			k, v := util.ParseKeyValue(line, "=")
			v = strings.Trim(v, `"`)
			switch k {
			case "NAME":
				info.Distro = v
			case "VERSION_ID":
				info.DistroVersion = v
			}
		}
	}

	if r := util.RunCommand(timeout, "uname", "-r"); r.Err == nil {
		info.Kernel = r.Stdout
	}

	info.SessionType = sessionType(timeout)
	return info
}

// sessionType prefers XDG_SESSION_TYPE, falling back to loginctl for
// sessions started outside a graphical login manager.
func sessionType(timeout int) string {
	if t := os.Getenv("XDG_SESSION_TYPE"); t != "" {
		return strings.ToLower(t)
	}
	r := util.RunCommand(timeout, "sh", "-c",
		`loginctl show-session $(loginctl | grep $(whoami) | awk '{print $1}') -p Type 2>/dev/null | cut -d= -f2`)
	if r.Err == nil && r.Stdout != "" {
		return strings.ToLower(strings.TrimSpace(r.Stdout))
	}
	return ""
}
