// Package registry declares the check battery: which settings vdcheck
// inspects, what value each should hold, and when a check applies at all.
// The tables are pure data; the evaluator owns all classification logic.
package registry

import (
	"fmt"

	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// Report grouping domains, in display order.
const (
	DomainEnvironment = "environment"
	DomainFirefox     = "firefox"
	DomainKernel      = "kernel"
	DomainVAAPI       = "vaapi"
)

// EnvChecks covers the runtime environment variables the VA-API stack and
// Firefox consult. Order matters only for report readability.
func EnvChecks() []types.CheckDefinition {
	return []types.CheckDefinition{
		{
			Name:        "LIBVA_DRIVER_NAME",
			Domain:      DomainEnvironment,
			Expected:    "nvidia",
			Severity:    types.SeverityCritical,
			Description: "libva driver selection; must name the NVIDIA VA-API driver",
			Hint:        `add "LIBVA_DRIVER_NAME=nvidia" to ~/.config/environment.d/vaapi.conf and log out/in`,
		},
		{
			Name:        "NVD_BACKEND",
			Domain:      DomainEnvironment,
			Expected:    "direct",
			Severity:    types.SeverityCritical,
			Fallback:    "direct",
			HasFallback: true,
			Description: "nvidia-vaapi-driver backend; the egl backend is broken on driver 525+",
			Hint:        `set NVD_BACKEND=direct (or unset it; direct is the built-in default)`,
		},
		{
			Name:        "MOZ_DISABLE_RDD_SANDBOX",
			Domain:      DomainEnvironment,
			Expected:    "1",
			Severity:    types.SeverityCritical,
			Fallback:    "0",
			HasFallback: true,
			Description: "Firefox RDD process sandbox blocks the NVIDIA driver's device access",
			Hint:        `launch Firefox with MOZ_DISABLE_RDD_SANDBOX=1`,
		},
		{
			Name:        "MOZ_X11_EGL",
			Domain:      DomainEnvironment,
			Expected:    "1",
			Severity:    types.SeverityCritical,
			Fallback:    "0",
			HasFallback: true,
			Description: "EGL backend under X11; GLX cannot share DMA-BUF surfaces",
			Hint:        `launch Firefox with MOZ_X11_EGL=1 (not needed on Firefox 94+)`,
		},
		{
			Name:        "MOZ_ENABLE_WAYLAND",
			Domain:      DomainEnvironment,
			Expected:    "1",
			Severity:    types.SeverityCritical,
			Fallback:    "0",
			HasFallback: true,
			Description: "native Wayland backend; XWayland breaks surface export",
			Hint:        `launch Firefox with MOZ_ENABLE_WAYLAND=1 (default on Firefox 121+)`,
		},
		{
			Name:        "VDPAU_DRIVER",
			Domain:      DomainEnvironment,
			Expected:    "nvidia",
			Severity:    types.SeverityAdvisory,
			Description: "VDPAU driver selection for players that bypass VA-API",
			Hint:        `set VDPAU_DRIVER=nvidia for mpv/VLC VDPAU output`,
		},
		{
			Name:        "LIBVA_MESSAGING_LEVEL",
			Domain:      DomainEnvironment,
			Expected:    types.Varies,
			Severity:    types.SeverityAdvisory,
			Description: "libva log verbosity; useful while debugging, not needed in daily use",
		},
		{
			Name:        "MOZ_LOG",
			Domain:      DomainEnvironment,
			Expected:    types.Varies,
			Severity:    types.SeverityAdvisory,
			Description: "Firefox module logging; PlatformDecoderModule:5 traces decoder selection",
		},
		{
			Name:        "__EGL_VENDOR_LIBRARY_FILENAMES",
			Domain:      DomainEnvironment,
			Expected:    types.Varies,
			Severity:    types.SeverityAdvisory,
			Description: "EGL vendor override; normally resolved through glvnd ICD files",
		},
	}
}

// KernelChecks covers nvidia kernel module parameters.
func KernelChecks() []types.CheckDefinition {
	return []types.CheckDefinition{
		{
			Name:        "nvidia_drm.modeset",
			Domain:      DomainKernel,
			Expected:    "Y",
			Severity:    types.SeverityCritical,
			Fallback:    "N",
			HasFallback: true,
			Description: "DRM KMS must be enabled for DMA-BUF surface export",
			Hint:        `add nvidia-drm.modeset=1 to the kernel command line or /etc/modprobe.d, regenerate initramfs, reboot`,
		},
	}
}

// VAAPIChecks covers live driver introspection.
func VAAPIChecks() []types.CheckDefinition {
	return []types.CheckDefinition{
		{
			Name:        "vainfo.decode",
			Domain:      DomainVAAPI,
			Expected:    "ok",
			Severity:    types.SeverityCritical,
			Description: "VA-API initializes and exposes hardware decode profiles",
			Hint:        `install libva-nvidia-driver and check "vainfo" output for driver errors`,
		},
	}
}

// FirefoxChecks covers about:config preferences read from the profile.
func FirefoxChecks() []types.CheckDefinition {
	return []types.CheckDefinition{
		{
			Name:        "media.hardware-video-decoding.enabled",
			Domain:      DomainFirefox,
			Expected:    "true",
			Severity:    types.SeverityCritical,
			Fallback:    "true",
			HasFallback: true,
			Description: "master switch for hardware video decoding",
			Hint:        `re-enable media.hardware-video-decoding.enabled in about:config`,
		},
		{
			Name:        "media.ffmpeg.vaapi.enabled",
			Domain:      DomainFirefox,
			Expected:    "true",
			Severity:    types.SeverityCritical,
			Fallback:    "false",
			HasFallback: true,
			Description: "routes decoding through FFmpeg's VA-API path",
			Hint:        `set media.ffmpeg.vaapi.enabled=true in about:config`,
		},
		{
			Name:        "media.rdd-ffmpeg.enabled",
			Domain:      DomainFirefox,
			Expected:    "true",
			Severity:    types.SeverityCritical,
			Fallback:    "false",
			HasFallback: true,
			Description: "runs the FFmpeg decoder inside the RDD process",
			Hint:        `set media.rdd-ffmpeg.enabled=true (default on Firefox 97+)`,
		},
		{
			Name:        "gfx.webrender.all",
			Domain:      DomainFirefox,
			Expected:    "true",
			Severity:    types.SeverityAdvisory,
			Fallback:    "false",
			HasFallback: true,
			Description: "forces WebRender on; decoded frames then stay on the GPU",
			Hint:        `set gfx.webrender.all=true if WebRender is not already active`,
		},
		{
			Name:        "media.av1.enabled",
			Domain:      DomainFirefox,
			Expected:    types.Varies,
			Severity:    types.SeverityAdvisory,
			Description: "AV1 playback; only useful in hardware on GPUs with an AV1 decode engine",
		},
		{
			Name:        "media.hardware-video-decoding.force-enabled",
			Domain:      DomainFirefox,
			Expected:    types.Varies,
			Severity:    types.SeverityAdvisory,
			Description: "bypasses the decoder blocklist; a debugging aid, not a fix",
		},
		{
			Name:        "widget.dmabuf.force-enabled",
			Domain:      DomainFirefox,
			Expected:    types.Varies,
			Severity:    types.SeverityAdvisory,
			Description: "forces DMA-BUF even where Firefox blocklists it",
		},
	}
}

// All returns the full battery in evaluation order.
func All() []types.CheckDefinition {
	var defs []types.CheckDefinition
	defs = append(defs, EnvChecks()...)
	defs = append(defs, KernelChecks()...)
	defs = append(defs, VAAPIChecks()...)
	defs = append(defs, FirefoxChecks()...)
	return defs
}

// Validate enforces the registry invariant: a setting name appears
// exactly once across all domains.
func Validate(defs []types.CheckDefinition) error {
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if seen[d.Name] {
			return fmt.Errorf("registry: duplicate check %q", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// Facts is the context the applicability predicates consult. A zero
// FirefoxMajor means the version could not be determined; version-gated
// checks then stay applicable rather than silently disappearing.
type Facts struct {
	SessionType  string
	FirefoxMajor int
}

type condition struct {
	applies func(Facts) bool
	reason  string
}

// Conditional applicability, keyed by check name. Checks not listed here
// always apply.
var conditions = map[string]condition{
	"MOZ_X11_EGL": {
		applies: func(f Facts) bool {
			if f.SessionType == "wayland" {
				return false
			}
			return f.FirefoxMajor == 0 || f.FirefoxMajor < 94
		},
		reason: "EGL is the default under X11 since Firefox 94; not meaningful on Wayland",
	},
	"MOZ_ENABLE_WAYLAND": {
		applies: func(f Facts) bool {
			if f.SessionType != "wayland" {
				return false
			}
			return f.FirefoxMajor == 0 || f.FirefoxMajor < 121
		},
		reason: "Wayland is the default since Firefox 121; not meaningful on X11",
	},
	"media.rdd-ffmpeg.enabled": {
		applies: func(f Facts) bool {
			return f.FirefoxMajor == 0 || f.FirefoxMajor < 97
		},
		reason: "enabled by default and later removed as of Firefox 97",
	},
}

// Applicability reports whether a check is meaningful under the current
// session and browser version, and why not when it isn't.
func Applicability(name string, f Facts) (bool, string) {
	c, ok := conditions[name]
	if !ok {
		return true, ""
	}
	if c.applies(f) {
		return true, ""
	}
	return false, c.reason
}
